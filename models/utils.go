package models

import "github.com/rs/xid"

// NewID returns a fresh, sortable record id
func NewID() string {
	return xid.New().String()
}

// Goals returns a pointer to a goal count, for building match records
func Goals(n int) *int {
	return &n
}

// TeamIndex maps team ids to their position in teams
func TeamIndex(teams []Team) map[string]int {
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		index[t.ID] = i
	}
	return index
}

// FindMatch returns the index of the match with the given id, or -1
func FindMatch(matches []Match, id string) int {
	for i, m := range matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// CloneTeams deep copies a team slice so callers can mutate it freely
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i, t := range teams {
		out[i] = t
		out[i].Colors = append([]string(nil), t.Colors...)
		out[i].Squad = append([]Player(nil), t.Squad...)
	}
	return out
}

// CloneMatches deep copies a match slice
func CloneMatches(matches []Match) []Match {
	if matches == nil {
		return nil
	}
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = m
		out[i].HomeGoals = cloneInt(m.HomeGoals)
		out[i].AwayGoals = cloneInt(m.AwayGoals)
		if m.PostponementReason != nil {
			r := *m.PostponementReason
			out[i].PostponementReason = &r
		}
	}
	return out
}

// CloneBracket deep copies a bracket snapshot
func CloneBracket(b *Bracket) *Bracket {
	if b == nil {
		return nil
	}
	out := *b
	out.Semifinals = make([]BracketMatch, len(b.Semifinals))
	for i, m := range b.Semifinals {
		out.Semifinals[i] = cloneBracketMatch(m)
	}
	out.Final = cloneBracketMatch(b.Final)
	out.ThirdPlace = cloneBracketMatch(b.ThirdPlace)
	return &out
}

func cloneBracketMatch(m BracketMatch) BracketMatch {
	m.HomeGoals = cloneInt(m.HomeGoals)
	m.AwayGoals = cloneInt(m.AwayGoals)
	if m.Penalty != nil {
		p := *m.Penalty
		m.Penalty = &p
	}
	if m.PlayedAt != nil {
		t := *m.PlayedAt
		m.PlayedAt = &t
	}
	return m
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
