package models

import (
	"sort"
	"time"
)

// Player is a squad entry. It is display data only and never feeds statistics.
type Player struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Number   int    `json:"number,omitempty"`
}

// Statistics is the cached aggregate of every played match a team took part in.
// It can always be rebuilt by replaying the played matches.
type Statistics struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
	Points       int `json:"points"`
}

// GoalDifference is goals scored minus goals conceded
func (s Statistics) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Consistent checks played = won + drawn + lost
func (s Statistics) Consistent() bool {
	return s.Played == s.Won+s.Drawn+s.Lost
}

// Team is a league participant
type Team struct {
	ID         string     `json:"id" storm:"id"`
	Name       string     `json:"name" storm:"unique" validate:"required,max=64"`
	ShortName  string     `json:"shortName" validate:"max=8"`
	Logo       string     `json:"logo,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	Founded    int        `json:"founded,omitempty" validate:"omitempty,gte=1800"`
	Squad      []Player   `json:"squad,omitempty"`
	Statistics Statistics `json:"statistics"`
}

// Match is a single group stage fixture
type Match struct {
	ID                 string    `json:"id" storm:"id"`
	Day                int       `json:"day" storm:"index"`
	HomeTeam           string    `json:"homeTeam" validate:"required"`
	AwayTeam           string    `json:"awayTeam" validate:"required,nefield=HomeTeam"`
	ScheduledTime      string    `json:"scheduledTime" validate:"required,hhmm"`
	Status             Status    `json:"status" storm:"index"`
	HomeGoals          *int      `json:"homeGoals"`
	AwayGoals          *int      `json:"awayGoals"`
	BestPlayer         string    `json:"bestPlayer,omitempty"`
	PostponementReason *string   `json:"postponementReason"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// HasScore reports whether both goal counts are recorded
func (m Match) HasScore() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// Counts reports whether the match contributes to statistics and standings
func (m Match) Counts() bool {
	return m.Status == StatusPlayed && m.HasScore()
}

// Involves reports whether the team plays in this match
func (m Match) Involves(teamID string) bool {
	return m.HomeTeam == teamID || m.AwayTeam == teamID
}

// SortMatches orders matches by day, then kickoff time, then id
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.ScheduledTime != b.ScheduledTime {
			return a.ScheduledTime < b.ScheduledTime
		}
		return a.ID < b.ID
	})
}

// Side picks the home or away slot of a match
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether the side is home or away
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Penalty is the outcome of a penalty shootout that decided a drawn playoff match
type Penalty struct {
	Winner Side `json:"winner"`
}

// BracketStatus is the state of a single playoff match
type BracketStatus string

const (
	BracketPending   BracketStatus = "pending"
	BracketScheduled BracketStatus = "scheduled"
	BracketPlayed    BracketStatus = "played"
)

// Fixed ids of the four playoff matches
const (
	SemifinalOne = "semifinal-1"
	SemifinalTwo = "semifinal-2"
	Final        = "final"
	ThirdPlace   = "third-place"
)

// BracketMatch is one playoff match. Teams stay empty until progression fills them.
type BracketMatch struct {
	ID        string        `json:"id"`
	Stage     string        `json:"stage"`
	HomeTeam  string        `json:"homeTeam,omitempty"`
	AwayTeam  string        `json:"awayTeam,omitempty"`
	HomeSeed  int           `json:"homeSeed,omitempty"`
	AwaySeed  int           `json:"awaySeed,omitempty"`
	Status    BracketStatus `json:"status"`
	HomeGoals *int          `json:"homeGoals"`
	AwayGoals *int          `json:"awayGoals"`
	Penalty   *Penalty      `json:"penalty,omitempty"`
	Winner    string        `json:"winner,omitempty"`
	Loser     string        `json:"loser,omitempty"`
	PlayedAt  *time.Time    `json:"playedAt,omitempty"`
}

// Ready reports whether both teams are assigned
func (m BracketMatch) Ready() bool {
	return m.HomeTeam != "" && m.AwayTeam != ""
}

// Resolved reports whether the match has a winner
func (m BracketMatch) Resolved() bool {
	return m.Status == BracketPlayed && m.Winner != ""
}

// Bracket is the persisted playoff snapshot
type Bracket struct {
	Semifinals      []BracketMatch `json:"semifinals"`
	Final           BracketMatch   `json:"final"`
	ThirdPlace      BracketMatch   `json:"thirdPlace"`
	TournamentPhase Phase          `json:"tournamentPhase"`
	Champion        string         `json:"champion,omitempty"`
	RunnerUp        string         `json:"runnerUp,omitempty"`
	ThirdPlaceTeam  string         `json:"thirdPlaceTeam,omitempty"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Match finds a playoff match by id
func (b *Bracket) Match(id string) *BracketMatch {
	for i := range b.Semifinals {
		if b.Semifinals[i].ID == id {
			return &b.Semifinals[i]
		}
	}
	switch id {
	case Final:
		return &b.Final
	case ThirdPlace:
		return &b.ThirdPlace
	}
	return nil
}

// Started reports whether any playoff result has been recorded
func (b *Bracket) Started() bool {
	for _, m := range b.Semifinals {
		if m.Status == BracketPlayed {
			return true
		}
	}
	return b.Final.Status == BracketPlayed || b.ThirdPlace.Status == BracketPlayed
}

// Completed reports whether the final has been decided
func (b *Bracket) Completed() bool {
	return b.TournamentPhase == PhaseCompleted
}
