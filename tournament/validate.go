package tournament

import (
	"github.com/justinjudd/league/models"
)

// Report summarizes a structurally valid round robin
type Report struct {
	Teams      int     `json:"teams"`
	Matches    int     `json:"matches"`
	Played     int     `json:"played"`
	Completion float64 `json:"completion"`
}

type pair struct {
	a, b string
}

func unordered(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// ValidateStructure checks that teams and matches form a complete single round robin of the
// configured league size. It stops at the first problem and describes how to fix it.
func ValidateStructure(rules models.Rules, teams []models.Team, matches []models.Match) (Report, error) {
	n := len(teams)
	if n != rules.LeagueSize {
		return Report{}, models.Validationf("the league needs exactly %d teams, found %d", rules.LeagueSize, n)
	}

	expected := models.RoundRobinMatches(n)
	if len(matches) != expected {
		return Report{}, models.Validationf("a round robin of %d teams has %d matches, found %d", n, expected, len(matches))
	}

	seen := map[pair]string{}
	for _, m := range matches {
		p := unordered(m.HomeTeam, m.AwayTeam)
		if other, ok := seen[p]; ok {
			return Report{}, models.Validationf("matches %s and %s both pair %s with %s", other, m.ID, m.HomeTeam, m.AwayTeam)
		}
		seen[p] = m.ID
	}

	index := models.TeamIndex(teams)
	for _, m := range matches {
		if m.HomeTeam == m.AwayTeam {
			return Report{}, models.Validationf("match %s has %s playing itself", m.ID, m.HomeTeam)
		}
		if _, ok := index[m.HomeTeam]; !ok {
			return Report{}, models.Validationf("match %s references unknown home team %s", m.ID, m.HomeTeam)
		}
		if _, ok := index[m.AwayTeam]; !ok {
			return Report{}, models.Validationf("match %s references unknown away team %s", m.ID, m.AwayTeam)
		}
	}

	counts := make(map[string]int, n)
	for _, m := range matches {
		counts[m.HomeTeam]++
		counts[m.AwayTeam]++
	}
	for _, t := range teams {
		if counts[t.ID] != n-1 {
			return Report{}, models.Validationf("team %s plays %d matches, every team must play %d", t.Name, counts[t.ID], n-1)
		}
	}

	return Report{
		Teams:      n,
		Matches:    len(matches),
		Played:     countPlayed(matches),
		Completion: Completion(matches),
	}, nil
}

// Completion is the fraction of matches that have been played, 0 for an empty schedule
func Completion(matches []models.Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	return float64(countPlayed(matches)) / float64(len(matches))
}

func countPlayed(matches []models.Match) int {
	played := 0
	for _, m := range matches {
		if m.Status == models.StatusPlayed {
			played++
		}
	}
	return played
}
