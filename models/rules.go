package models

import "time"

// PointsRule is how many league points each result is worth
type PointsRule struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

// Rules are the league parameters the core computations consume
type Rules struct {
	Points PointsRule

	LeagueSize int // teams in the round robin
	Qualifiers int // top positions that reach the playoffs
	FirstDay   int // first Ramadan day a match may be played on
	LastDay    int // last Ramadan day a match may be played on
	FormWindow int

	// PlayoffThreshold is the fraction of group matches that must be played before the
	// playoffs may be generated. It is advisory and enforced by callers.
	PlayoffThreshold float64

	// Collation is the BCP 47 tag used to order team names that tie on everything else
	Collation string
	// Kickoff is the default HH:MM time given to generated fixtures
	Kickoff string
}

// DefaultRules returns the parameters of the Ramadan league
func DefaultRules() Rules {
	return Rules{
		Points:           PointsRule{Win: 3, Draw: 1, Loss: 0},
		LeagueSize:       7,
		Qualifiers:       4,
		FirstDay:         3,
		LastDay:          23,
		FormWindow:       5,
		PlayoffThreshold: 0.8,
		Collation:        "und",
		Kickoff:          "21:30",
	}
}

// Validate checks the rules are internally consistent
func (r Rules) Validate() error {
	if r.LeagueSize < 2 {
		return Validationf("league size must be at least 2, got %d", r.LeagueSize)
	}
	if r.Qualifiers < 4 || r.Qualifiers > r.LeagueSize {
		return Validationf("qualifiers must be between 4 and the league size %d, got %d", r.LeagueSize, r.Qualifiers)
	}
	if r.FirstDay < 1 || r.LastDay < r.FirstDay {
		return Validationf("invalid day range [%d,%d]", r.FirstDay, r.LastDay)
	}
	if r.FormWindow < 1 {
		return Validationf("form window must be positive, got %d", r.FormWindow)
	}
	if r.PlayoffThreshold < 0 || r.PlayoffThreshold > 1 {
		return Validationf("playoff threshold must be within [0,1], got %v", r.PlayoffThreshold)
	}
	if r.Points.Win < r.Points.Draw || r.Points.Draw < r.Points.Loss {
		return Validationf("points must satisfy win >= draw >= loss, got %d/%d/%d", r.Points.Win, r.Points.Draw, r.Points.Loss)
	}
	if !ValidClock(r.Kickoff) {
		return Validationf("kickoff %q is not an HH:MM time", r.Kickoff)
	}
	return nil
}

// ValidClock reports whether s is a 24 hour time written with exactly two digit hours and minutes.
// Kickoff times are compared as strings, so "9:30" has to be spelled "09:30".
func ValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// RoundRobinMatches is the number of matches in a single round robin of n teams
func RoundRobinMatches(n int) int {
	return n * (n - 1) / 2
}
