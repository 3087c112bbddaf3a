package tournament

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/memory"
)

var testNow = time.Date(2025, time.March, 10, 21, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func makeTeams(names ...string) []models.Team {
	teams := make([]models.Team, len(names))
	for i, n := range names {
		teams[i] = models.Team{ID: fmt.Sprintf("t%d", i+1), Name: n}
	}
	return teams
}

func playedMatch(id string, day int, home, away string, homeGoals, awayGoals int) models.Match {
	return models.Match{
		ID:            id,
		Day:           day,
		HomeTeam:      home,
		AwayTeam:      away,
		ScheduledTime: "21:30",
		Status:        models.StatusPlayed,
		HomeGoals:     models.Goals(homeGoals),
		AwayGoals:     models.Goals(awayGoals),
	}
}

func scheduledMatch(id string, day int, home, away string) models.Match {
	return models.Match{
		ID:            id,
		Day:           day,
		HomeTeam:      home,
		AwayTeam:      away,
		ScheduledTime: "21:30",
		Status:        models.StatusScheduled,
	}
}

var sevenNames = []string{"Falcons", "Crescent", "Dunes", "Oasis", "Ansar", "Badr", "Eagles"}

// newSeason returns a season over a memory store holding seven teams and a full round robin schedule
func newSeason(t *testing.T) (*Season, *memory.Engine, []models.Team, []models.Match) {
	t.Helper()
	store := memory.NewStorageEngine()
	teams := makeTeams(sevenNames...)
	require.NoError(t, store.SaveTeams(teams))

	ids := make([]string, len(teams))
	for i, tm := range teams {
		ids[i] = tm.ID
	}
	var matches []models.Match
	for i, p := range RoundRobinPairings(ids) {
		matches = append(matches, scheduledMatch(fmt.Sprintf("m%02d", i+1), 3+i, p.Home, p.Away))
	}
	require.NoError(t, store.SaveMatches(matches))

	s := NewSeason(store, models.DefaultRules(), nil)
	s.SetClock(fixedClock)
	return s, store, teams, matches
}

func rowNames(table Table) []string {
	names := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		names[i] = r.Name
	}
	return names
}
