package league

import (
	"bytes"
	"html/template"
	"reflect"
	"strconv"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

const standingsHTML = `
<table class="standings">
<caption>{{.Caption}}</caption>
<thead>
    <tr><th>#</th><th>Team</th><th>P</th><th>W</th><th>D</th><th>L</th><th>GF</th><th>GA</th><th>GD</th><th>Pts</th><th>Form</th></tr>
</thead>
<tbody>
{{ range $i, $row := .Table.Rows }}
    <tr class="{{if $row.Qualified}}qualified{{end}}{{if cutoff $i}} cutoff{{end}}">
        <td>{{$row.Position}}</td>
        <td>{{$row.Name}}{{if $row.ShortName}} <span class="short">{{$row.ShortName}}</span>{{end}}</td>
        <td>{{$row.Played}}</td><td>{{$row.Won}}</td><td>{{$row.Drawn}}</td><td>{{$row.Lost}}</td>
        <td>{{$row.GoalsFor}}</td><td>{{$row.GoalsAgainst}}</td><td>{{signed $row.GoalDifference}}</td>
        <td><b>{{$row.Points}}</b></td>
        <td class="form">{{ range $row.Form }}<span class="form-{{.}}">{{.}}</span>{{ end }}</td>
    </tr>
{{- end }}
</tbody>
</table>
`

// StandingsHTML renders a league table, marking the last qualifying row as the playoff cutoff
func StandingsHTML(caption string, table tournament.Table) ([]byte, error) {
	qualified := len(table.Qualified())
	funcMap := template.FuncMap{
		"cutoff": func(i int) bool {
			return qualified > 0 && i == qualified-1 && i < len(table.Rows)-1
		},
		"signed": func(n int) string {
			if n > 0 {
				return "+" + strconv.Itoa(n)
			}
			return strconv.Itoa(n)
		},
	}
	tmpl, err := template.New("standings").Funcs(funcMap).Parse(standingsHTML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]interface{}{"Caption": caption, "Table": table})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

const bracketHTML = `
<h4>{{.Title}}</h4>
<main class="bracket">
<ul>
{{ range $j, $game := .Bracket.Semifinals -}}
    {{ template "game" $game }}
    {{if last $j $.Bracket.Semifinals | not }}<li>&nbsp;</li>{{end}}
{{ end -}}
</ul>
<ul>
    {{ template "game" .Bracket.Final }}
</ul>
{{if .Bracket.Champion}}<ul><li class="game round-winner"><span></span>{{name .Bracket.Champion}} <span></span></li></ul>{{end}}
</main>
<h4>Third place</h4>
<main class="bracket">
<ul>
    {{ template "game" .Bracket.ThirdPlace }}
</ul>
{{if .Bracket.ThirdPlaceTeam}}<ul><li class="game round-winner"><span></span>{{name .Bracket.ThirdPlaceTeam}} <span></span></li></ul>{{end}}
</main>
{{ define "game" }}
        <li class="game game-top{{if winner . .HomeTeam}} winner{{end}}"><span>{{seed .HomeSeed}}</span>{{name .HomeTeam}} <span>{{score .HomeGoals}}{{if penalty . "home"}} (p){{end}}</span></li>
        <li class="game game-bottom{{if winner . .AwayTeam}} winner{{end}}"><span>{{seed .AwaySeed}}</span>{{name .AwayTeam}} <span>{{score .AwayGoals}}{{if penalty . "away"}} (p){{end}}</span></li>
{{- end }}
`

// BracketHTML renders the playoff bracket. names maps team ids to display names; a team not yet
// known is shown as TBD.
func BracketHTML(title string, b *models.Bracket, names map[string]string) ([]byte, error) {
	funcMap := template.FuncMap{
		"last": func(x int, a interface{}) bool {
			return x == reflect.ValueOf(a).Len()-1
		},
		"name": func(id string) string {
			if id == "" {
				return "TBD"
			}
			if n, ok := names[id]; ok {
				return n
			}
			return id
		},
		"winner": func(m models.BracketMatch, team string) bool {
			return m.Resolved() && team != "" && m.Winner == team
		},
		"score": func(goals *int) string {
			if goals == nil {
				return ""
			}
			return strconv.Itoa(*goals)
		},
		"seed": func(seed int) string {
			if seed == 0 {
				return ""
			}
			return strconv.Itoa(seed)
		},
		"penalty": func(m models.BracketMatch, side string) bool {
			return m.Penalty != nil && string(m.Penalty.Winner) == side
		},
	}
	tmpl, err := template.New("bracket").Funcs(funcMap).Parse(bracketHTML)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]interface{}{"Title": title, "Bracket": b})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// TeamNames maps team ids to names for rendering
func TeamNames(teams []models.Team) map[string]string {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}
