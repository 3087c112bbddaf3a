package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/memory"
)

func emptySeason(t *testing.T, teams ...models.Team) (*Season, *memory.Engine) {
	t.Helper()
	store := memory.NewStorageEngine()
	if len(teams) > 0 {
		require.NoError(t, store.SaveTeams(teams))
	}
	s := NewSeason(store, models.DefaultRules(), nil)
	s.SetClock(fixedClock)
	return s, store
}

func TestAddTeam(t *testing.T) {
	s, store := emptySeason(t)

	team, err := s.AddTeam(models.Team{Name: "  Falcons ", ShortName: "FAL", Statistics: models.Statistics{Points: 9}})
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, "Falcons", team.Name)
	assert.Equal(t, models.Statistics{}, team.Statistics)

	stored, err := store.LoadTeams()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, team.ID, stored[0].ID)

	t.Run("duplicate name ignoring case", func(t *testing.T) {
		_, err := s.AddTeam(models.Team{Name: "FALCONS"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := s.AddTeam(models.Team{Name: "   "})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("full league", func(t *testing.T) {
		full, _, _, _ := newSeason(t)
		_, err := full.AddTeam(models.Team{Name: "Latecomers"})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "full")
	})
}

func TestAddMatch(t *testing.T) {
	s, store := emptySeason(t, makeTeams("Falcons", "Crescent", "Dunes")...)

	m, err := s.AddMatch(models.Match{Day: 5, HomeTeam: "t1", AwayTeam: "t2", ScheduledTime: "22:00", Status: models.StatusPlayed, HomeGoals: models.Goals(4)})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, models.StatusScheduled, m.Status)
	assert.Nil(t, m.HomeGoals)
	assert.Equal(t, testNow, m.LastUpdated)

	stored, err := store.LoadMatches()
	require.NoError(t, err)
	require.Len(t, stored, 1)

	tests := []struct {
		name  string
		match models.Match
		want  error
	}{
		{"day before the league", models.Match{Day: 2, HomeTeam: "t1", AwayTeam: "t3", ScheduledTime: "21:30"}, models.ErrValidation},
		{"day after the league", models.Match{Day: 24, HomeTeam: "t1", AwayTeam: "t3", ScheduledTime: "21:30"}, models.ErrValidation},
		{"team against itself", models.Match{Day: 6, HomeTeam: "t1", AwayTeam: "t1", ScheduledTime: "21:30"}, models.ErrValidation},
		{"bad time", models.Match{Day: 6, HomeTeam: "t1", AwayTeam: "t3", ScheduledTime: "9pm"}, models.ErrValidation},
		{"single digit hour", models.Match{Day: 5, HomeTeam: "t1", AwayTeam: "t3", ScheduledTime: "9:30"}, models.ErrValidation},
		{"unknown team", models.Match{Day: 6, HomeTeam: "t1", AwayTeam: "t9", ScheduledTime: "21:30"}, models.ErrTeamNotFound},
		{"pair already scheduled", models.Match{Day: 6, HomeTeam: "t2", AwayTeam: "t1", ScheduledTime: "21:30"}, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddMatch(tt.match)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err = store.LoadMatches()
	require.NoError(t, err)
	assert.Len(t, stored, 1, "rejected matches are not stored")
}

func TestDeleteMatch(t *testing.T) {
	s, store, _, matches := newSeason(t)

	_, err := s.RecordResult(matches[0].ID, 2, 0, "")
	require.NoError(t, err)
	require.NoError(t, s.DeleteMatch(matches[0].ID))

	stored, err := store.LoadMatches()
	require.NoError(t, err)
	assert.Len(t, stored, len(matches)-1)
	assert.Equal(t, -1, models.FindMatch(stored, matches[0].ID))

	teams, err := store.LoadTeams()
	require.NoError(t, err)
	for _, team := range teams {
		assert.Equal(t, models.Statistics{}, team.Statistics, team.Name)
	}

	assert.ErrorIs(t, s.DeleteMatch(matches[0].ID), models.ErrMatchNotFound)
}

func TestSeasonGenerateFixtures(t *testing.T) {
	s, store := emptySeason(t, makeTeams(sevenNames...)...)

	matches, err := s.GenerateFixtures()
	require.NoError(t, err)
	assert.Len(t, matches, 21)

	report, err := s.Validate()
	require.NoError(t, err)
	assert.Equal(t, 21, report.Matches)

	_, err = s.GenerateFixtures()
	assert.ErrorIs(t, err, models.ErrState)

	stored, err := store.LoadMatches()
	require.NoError(t, err)
	assert.Len(t, stored, 21)
}

func TestMatchesOnDayAndUpcoming(t *testing.T) {
	s, _, _, matches := newSeason(t)

	day, err := s.MatchesOnDay(3)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, matches[0].ID, day[0].ID)

	_, err = s.MatchesOnDay(30)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.RecordResult(matches[0].ID, 1, 1, "")
	require.NoError(t, err)

	next, err := s.Upcoming(2)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, matches[1].ID, next[0].ID)
	assert.Equal(t, matches[2].ID, next[1].ID)

	all, err := s.Upcoming(0)
	require.NoError(t, err)
	assert.Len(t, all, len(matches)-1)
}
