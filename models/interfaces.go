package models

// Status is the lifecycle state of a league match
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPlayed    Status = "played"
	StatusPostponed Status = "postponed"
)

// Valid reports whether s is one of the known match states
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusPlayed, StatusPostponed:
		return true
	}
	return false
}

// Phase describes where the whole tournament is, from the group stage through the playoffs
type Phase string

const (
	PhaseNotStarted           Phase = "not_started"
	PhaseGroupStage           Phase = "group_stage"
	PhasePlayoffsPending      Phase = "playoffs_pending"
	PhasePlayoffsReady        Phase = "playoffs_ready"
	PhaseSemifinalsInProgress Phase = "semifinals_in_progress"
	PhaseSemifinalsCompleted  Phase = "semifinals_completed"
	PhaseFinalScheduled       Phase = "final_scheduled"
	PhaseCompleted            Phase = "tournament_completed"
	PhaseUnknown              Phase = "unknown"
)

// Store is the persistence backing for a league. Every collection is read and written
// wholesale; callers must serialize their writes, the last SaveXxx wins.
type Store interface {
	LoadTeams() ([]Team, error)
	SaveTeams(teams []Team) error

	// LoadMatches returns every match ordered by day
	LoadMatches() ([]Match, error)
	// LoadMatchesThrough returns the matches scheduled on or before day, ordered by day
	LoadMatchesThrough(day int) ([]Match, error)
	SaveMatches(matches []Match) error

	// LoadBracket returns nil and no error when no bracket has been generated
	LoadBracket() (*Bracket, error)
	SaveBracket(b *Bracket) error
	RemoveBracket() error

	// Update runs fn as a single atomic read-modify-write. Nothing fn saves is kept if it returns an error.
	Update(fn func(tx Store) error) error
}
