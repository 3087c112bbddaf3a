package tournament

import (
	"time"

	"github.com/justinjudd/league/models"
)

// Pairing is one generated fixture before it gets a day
type Pairing struct {
	Round int
	Home  string
	Away  string
}

// RoundRobinPairings schedules every team against every other team once using the circle
// method. An odd roster gets a bye slot, and pairings against the bye are dropped.
func RoundRobinPairings(teamIDs []string) []Pairing {
	slots := append([]string(nil), teamIDs...)
	if len(slots)%2 != 0 {
		slots = append(slots, "")
	}
	if len(slots) < 2 {
		return nil
	}

	var pairings []Pairing
	rounds := len(slots) - 1
	for round := 0; round < rounds; round++ {
		for i := 0; i < len(slots)/2; i++ {
			home := slots[circleIndex(i, len(slots), round)]
			away := slots[circleIndex(len(slots)-1-i, len(slots), round)]
			// alternate who hosts the fixed slot so nobody is always at home
			if i == 0 && round%2 != 0 {
				home, away = away, home
			}
			if home == "" || away == "" {
				continue
			}
			pairings = append(pairings, Pairing{Round: round + 1, Home: home, Away: away})
		}
	}
	return pairings
}

// circleIndex rotates every slot but the first by round positions
func circleIndex(index, length, round int) int {
	if index == 0 {
		return 0
	}
	index -= 1
	index -= round
	index += length - 1
	index %= length - 1
	index += 1
	return index
}

// GenerateFixtures turns the round robin pairings into scheduled matches, one per day starting
// at the rules' first day, all at the default kickoff.
func GenerateFixtures(rules models.Rules, teams []models.Team, now time.Time) ([]models.Match, error) {
	if len(teams) != rules.LeagueSize {
		return nil, models.Validationf("fixtures need exactly %d teams, found %d", rules.LeagueSize, len(teams))
	}
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	pairings := RoundRobinPairings(ids)
	days := rules.LastDay - rules.FirstDay + 1
	perDay := (len(pairings) + days - 1) / days

	matches := make([]models.Match, 0, len(pairings))
	for i, p := range pairings {
		matches = append(matches, models.Match{
			ID:            models.NewID(),
			Day:           rules.FirstDay + i/perDay,
			HomeTeam:      p.Home,
			AwayTeam:      p.Away,
			ScheduledTime: rules.Kickoff,
			Status:        models.StatusScheduled,
			LastUpdated:   now,
		})
	}
	return matches, nil
}
