package tournament

import "github.com/justinjudd/league/models"

// Result is how a match ended from the home side's point of view
type Result string

const (
	NotPlayed Result = "not_played"
	HomeWin   Result = "home_win"
	AwayWin   Result = "away_win"
	Draw      Result = "draw"
)

// Outcome is the points each side earned from a score
type Outcome struct {
	HomePoints int    `json:"homePoints"`
	AwayPoints int    `json:"awayPoints"`
	Result     Result `json:"result"`
}

// CalculatePoints maps a score to league points. A missing goal count means the match has not
// been played and earns nothing.
func CalculatePoints(rule models.PointsRule, homeGoals, awayGoals *int) Outcome {
	if homeGoals == nil || awayGoals == nil {
		return Outcome{0, 0, NotPlayed}
	}
	switch {
	case *homeGoals > *awayGoals:
		return Outcome{rule.Win, rule.Loss, HomeWin}
	case *awayGoals > *homeGoals:
		return Outcome{rule.Loss, rule.Win, AwayWin}
	}
	return Outcome{rule.Draw, rule.Draw, Draw}
}

// MatchPoints applies CalculatePoints to a stored match
func MatchPoints(rule models.PointsRule, m models.Match) Outcome {
	return CalculatePoints(rule, m.HomeGoals, m.AwayGoals)
}

// Letter is the form letter (W, D or L) for one side of the outcome, empty when not played
func (o Outcome) Letter(side models.Side) string {
	switch o.Result {
	case Draw:
		return "D"
	case HomeWin:
		if side == models.SideHome {
			return "W"
		}
		return "L"
	case AwayWin:
		if side == models.SideAway {
			return "W"
		}
		return "L"
	}
	return ""
}

// apply adds one side of a played match to a statistics aggregate
func apply(s *models.Statistics, goalsFor, goalsAgainst, points int, letter string) {
	s.Played++
	s.GoalsFor += goalsFor
	s.GoalsAgainst += goalsAgainst
	s.Points += points
	switch letter {
	case "W":
		s.Won++
	case "D":
		s.Drawn++
	case "L":
		s.Lost++
	}
}
