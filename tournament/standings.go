package tournament

import (
	"sort"

	"github.com/justinjudd/league/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one team's line in the league table
type Row struct {
	TeamID         string   `json:"teamId"`
	Name           string   `json:"name"`
	ShortName      string   `json:"shortName,omitempty"`
	Played         int      `json:"played"`
	Won            int      `json:"won"`
	Drawn          int      `json:"drawn"`
	Lost           int      `json:"lost"`
	GoalsFor       int      `json:"goalsFor"`
	GoalsAgainst   int      `json:"goalsAgainst"`
	GoalDifference int      `json:"goalDifference"`
	Points         int      `json:"points"`
	Form           []string `json:"form"`
	Position       int      `json:"position"`
	Qualified      bool     `json:"qualified"`
}

// Statistics returns the aggregate part of the row
func (r Row) Statistics() models.Statistics {
	return models.Statistics{
		Played:       r.Played,
		Won:          r.Won,
		Drawn:        r.Drawn,
		Lost:         r.Lost,
		GoalsFor:     r.GoalsFor,
		GoalsAgainst: r.GoalsAgainst,
		Points:       r.Points,
	}
}

// Table is a computed league table. Skipped counts played matches that were left out because
// they reference a team that does not exist.
type Table struct {
	Rows    []Row `json:"rows"`
	Skipped int   `json:"skipped"`
}

// Qualified returns the rows inside the playoff cutoff
func (t Table) Qualified() []Row {
	var rows []Row
	for _, r := range t.Rows {
		if r.Qualified {
			rows = append(rows, r)
		}
	}
	return rows
}

// Row finds a team's row
func (t Table) Row(teamID string) (Row, bool) {
	for _, r := range t.Rows {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return Row{}, false
}

// CalculateStandings folds every played match over the roster into a sorted table.
// It never reads or keeps anything between calls.
func CalculateStandings(rules models.Rules, teams []models.Team, matches []models.Match) Table {
	rows := make([]Row, len(teams))
	index := make(map[string]*Row, len(teams))
	for i, t := range teams {
		rows[i] = Row{TeamID: t.ID, Name: t.Name, ShortName: t.ShortName, Form: []string{}}
		index[t.ID] = &rows[i]
	}

	played := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Counts() {
			played = append(played, m)
		}
	}
	// form is order sensitive, so fold oldest first
	models.SortMatches(played)

	table := Table{}
	for _, m := range played {
		home, ok1 := index[m.HomeTeam]
		away, ok2 := index[m.AwayTeam]
		if !ok1 || !ok2 {
			table.Skipped++
			continue
		}
		o := MatchPoints(rules.Points, m)
		home.fold(*m.HomeGoals, *m.AwayGoals, o.HomePoints, o.Letter(models.SideHome), rules.FormWindow)
		away.fold(*m.AwayGoals, *m.HomeGoals, o.AwayPoints, o.Letter(models.SideAway), rules.FormWindow)
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	SortRows(rules, rows)
	for i := range rows {
		rows[i].Position = i + 1
		rows[i].Qualified = rows[i].Position <= rules.Qualifiers
	}

	table.Rows = rows
	return table
}

// StandingsAsOf computes the table using only matches played on or before day
func StandingsAsOf(rules models.Rules, teams []models.Team, matches []models.Match, day int) Table {
	var upTo []models.Match
	for _, m := range matches {
		if m.Day <= day {
			upTo = append(upTo, m)
		}
	}
	return CalculateStandings(rules, teams, upTo)
}

func (r *Row) fold(goalsFor, goalsAgainst, points int, letter string, window int) {
	s := r.Statistics()
	apply(&s, goalsFor, goalsAgainst, points, letter)
	r.Played, r.Won, r.Drawn, r.Lost = s.Played, s.Won, s.Drawn, s.Lost
	r.GoalsFor, r.GoalsAgainst, r.Points = s.GoalsFor, s.GoalsAgainst, s.Points

	r.Form = append(r.Form, letter)
	if len(r.Form) > window {
		r.Form = r.Form[len(r.Form)-window:]
	}
}

// SortRows orders rows by points, goal difference and goals scored (all descending), then goals
// conceded ascending, then name in the rules' collation. Team id settles identical names so the
// order is total.
func SortRows(rules models.Rules, rows []Row) {
	col := collate.New(language.Make(rules.Collation))
	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(col, rows[i], rows[j]) < 0
	})
}

func compareRows(col *collate.Collator, a, b Row) int {
	switch {
	case a.Points != b.Points:
		return b.Points - a.Points
	case a.GoalDifference != b.GoalDifference:
		return b.GoalDifference - a.GoalDifference
	case a.GoalsFor != b.GoalsFor:
		return b.GoalsFor - a.GoalsFor
	case a.GoalsAgainst != b.GoalsAgainst:
		return a.GoalsAgainst - b.GoalsAgainst
	}
	if c := col.CompareString(a.Name, b.Name); c != 0 {
		return c
	}
	switch {
	case a.TeamID < b.TeamID:
		return -1
	case a.TeamID > b.TeamID:
		return 1
	}
	return 0
}
