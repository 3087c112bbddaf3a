package tournament

import (
	"log/slog"
	"strings"
	"time"

	"github.com/justinjudd/league/models"
)

// transitions lists the statuses each match status may move to
var transitions = map[models.Status][]models.Status{
	models.StatusScheduled: {models.StatusPlayed, models.StatusPostponed},
	models.StatusPostponed: {models.StatusScheduled, models.StatusPlayed},
	models.StatusPlayed:    {models.StatusPostponed},
}

// CanTransition reports whether a match may move from one status to another
func CanTransition(from, to models.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(m models.Match, to models.Status) error {
	if !CanTransition(m.Status, to) {
		return models.Wrapf(models.ErrInvalidTransition, "match %s cannot go from %s to %s", m.ID, m.Status, to)
	}
	return nil
}

// Season runs the group stage: fixtures, results and the cached team statistics.
// Each mutation is one atomic Store.Update; callers must not interleave writes.
type Season struct {
	store  models.Store
	rules  models.Rules
	logger *slog.Logger
	now    Clock
}

// NewSeason creates a Season over store. A nil logger discards log output.
func NewSeason(store models.Store, rules models.Rules, logger *slog.Logger) *Season {
	if logger == nil {
		logger = discardLogger()
	}
	return &Season{store: store, rules: rules, logger: logger, now: time.Now}
}

// SetClock replaces the time source used to stamp updates
func (s *Season) SetClock(now Clock) {
	s.now = now
}

// Rules returns the league parameters the season was created with
func (s *Season) Rules() models.Rules {
	return s.rules
}

// Teams returns the roster
func (s *Season) Teams() ([]models.Team, error) {
	return s.store.LoadTeams()
}

// Matches returns every match ordered by day
func (s *Season) Matches() ([]models.Match, error) {
	return s.store.LoadMatches()
}

// Match returns a single match
func (s *Season) Match(id string) (models.Match, error) {
	matches, err := s.store.LoadMatches()
	if err != nil {
		return models.Match{}, err
	}
	i := models.FindMatch(matches, id)
	if i < 0 {
		return models.Match{}, models.Wrapf(models.ErrMatchNotFound, "no match %q", id)
	}
	return matches[i], nil
}

// RecordResult enters the score of a scheduled or postponed match and adds it to both teams'
// statistics.
func (s *Season) RecordResult(id string, homeGoals, awayGoals int, bestPlayer string) (models.Match, error) {
	if err := checkGoals(homeGoals, awayGoals); err != nil {
		return models.Match{}, err
	}

	var recorded models.Match
	err := s.store.Update(func(tx models.Store) error {
		matches, teams, i, err := loadForMatch(tx, id)
		if err != nil {
			return err
		}
		m := &matches[i]
		if err := checkTransition(*m, models.StatusPlayed); err != nil {
			return err
		}

		m.Status = models.StatusPlayed
		m.HomeGoals = models.Goals(homeGoals)
		m.AwayGoals = models.Goals(awayGoals)
		m.BestPlayer = strings.TrimSpace(bestPlayer)
		m.PostponementReason = nil
		m.LastUpdated = s.now()

		if err := ApplyResult(s.rules, teams, *m); err != nil {
			return err
		}
		if err := tx.SaveMatches(matches); err != nil {
			return err
		}
		recorded = *m
		return tx.SaveTeams(teams)
	})
	if err != nil {
		return models.Match{}, err
	}

	s.logger.Info("result recorded", "match", id, "home", recorded.HomeTeam, "away", recorded.AwayTeam,
		"homeGoals", homeGoals, "awayGoals", awayGoals)
	return recorded, nil
}

// Postpone moves a match to postponed. Postponing a played match discards its result and
// rebuilds every team's statistics from the remaining played matches.
func (s *Season) Postpone(id, reason string) (models.Match, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Match{}, models.ErrReasonRequired
	}

	var postponed models.Match
	var corrected bool
	err := s.store.Update(func(tx models.Store) error {
		matches, teams, i, err := loadForMatch(tx, id)
		if err != nil {
			return err
		}
		m := &matches[i]
		if err := checkTransition(*m, models.StatusPostponed); err != nil {
			return err
		}

		corrected = m.Status == models.StatusPlayed
		m.Status = models.StatusPostponed
		m.HomeGoals, m.AwayGoals = nil, nil
		m.BestPlayer = ""
		m.PostponementReason = &reason
		m.LastUpdated = s.now()

		if err := tx.SaveMatches(matches); err != nil {
			return err
		}
		postponed = *m
		if !corrected {
			return nil
		}
		// a result cannot be subtracted safely, replay everything that is still played
		rebuilt, skipped := RebuildStatistics(s.rules, teams, matches)
		if skipped > 0 {
			s.logger.Warn("played matches reference unknown teams", "skipped", skipped)
		}
		return tx.SaveTeams(rebuilt)
	})
	if err != nil {
		return models.Match{}, err
	}

	s.logger.Info("match postponed", "match", id, "reason", reason, "resultDiscarded", corrected)
	return postponed, nil
}

// Reschedule puts a postponed match back on the schedule. A zero day or empty time keeps the
// current slot.
func (s *Season) Reschedule(id string, day int, scheduledTime string) (models.Match, error) {
	if day != 0 {
		if err := checkDay(s.rules, day); err != nil {
			return models.Match{}, err
		}
	}
	if scheduledTime != "" {
		if err := checkTime(scheduledTime); err != nil {
			return models.Match{}, err
		}
	}

	var rescheduled models.Match
	err := s.store.Update(func(tx models.Store) error {
		matches, err := tx.LoadMatches()
		if err != nil {
			return err
		}
		i := models.FindMatch(matches, id)
		if i < 0 {
			return models.Wrapf(models.ErrMatchNotFound, "no match %q", id)
		}
		m := &matches[i]
		if err := checkTransition(*m, models.StatusScheduled); err != nil {
			return err
		}

		m.Status = models.StatusScheduled
		m.PostponementReason = nil
		if day != 0 {
			m.Day = day
		}
		if scheduledTime != "" {
			m.ScheduledTime = scheduledTime
		}
		m.LastUpdated = s.now()
		rescheduled = *m
		return tx.SaveMatches(matches)
	})
	if err != nil {
		return models.Match{}, err
	}

	s.logger.Info("match rescheduled", "match", id, "day", rescheduled.Day, "time", rescheduled.ScheduledTime)
	return rescheduled, nil
}

// ApplyResult adds one played match to the cached statistics of both teams in place.
// It is the incremental path and must agree with RebuildStatistics.
func ApplyResult(rules models.Rules, teams []models.Team, m models.Match) error {
	if !m.Counts() {
		return models.Validationf("match %s has no result to apply", m.ID)
	}
	index := models.TeamIndex(teams)
	hi, ok1 := index[m.HomeTeam]
	ai, ok2 := index[m.AwayTeam]
	if !ok1 || !ok2 {
		return &models.Error{Kind: models.KindIntegrity, Msg: "match " + m.ID + " references a team that does not exist"}
	}

	o := MatchPoints(rules.Points, m)
	apply(&teams[hi].Statistics, *m.HomeGoals, *m.AwayGoals, o.HomePoints, o.Letter(models.SideHome))
	apply(&teams[ai].Statistics, *m.AwayGoals, *m.HomeGoals, o.AwayPoints, o.Letter(models.SideAway))
	return nil
}

// RebuildStatistics discards every team's cached statistics and replays all played matches.
// The result only depends on the set of played matches, so running it twice changes nothing.
// Matches naming unknown teams are skipped and counted.
func RebuildStatistics(rules models.Rules, teams []models.Team, matches []models.Match) ([]models.Team, int) {
	rebuilt := models.CloneTeams(teams)
	for i := range rebuilt {
		rebuilt[i].Statistics = models.Statistics{}
	}
	skipped := 0
	for _, m := range matches {
		if !m.Counts() {
			continue
		}
		if err := ApplyResult(rules, rebuilt, m); err != nil {
			skipped++
		}
	}
	return rebuilt, skipped
}

// RecalculateStatistics is the recovery path for any drift in the cached statistics
func (s *Season) RecalculateStatistics() error {
	var skipped int
	err := s.store.Update(func(tx models.Store) error {
		teams, err := tx.LoadTeams()
		if err != nil {
			return err
		}
		matches, err := tx.LoadMatches()
		if err != nil {
			return err
		}
		var rebuilt []models.Team
		rebuilt, skipped = RebuildStatistics(s.rules, teams, matches)
		return tx.SaveTeams(rebuilt)
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.logger.Warn("played matches reference unknown teams", "skipped", skipped)
	}
	s.logger.Info("statistics recalculated")
	return nil
}

// Standings computes the current league table
func (s *Season) Standings() (Table, error) {
	teams, err := s.store.LoadTeams()
	if err != nil {
		return Table{}, err
	}
	matches, err := s.store.LoadMatches()
	if err != nil {
		return Table{}, err
	}
	return s.table(teams, matches), nil
}

// StandingsAsOf computes the league table as it stood after the given day
func (s *Season) StandingsAsOf(day int) (Table, error) {
	if err := checkDay(s.rules, day); err != nil {
		return Table{}, err
	}
	teams, err := s.store.LoadTeams()
	if err != nil {
		return Table{}, err
	}
	matches, err := s.store.LoadMatchesThrough(day)
	if err != nil {
		return Table{}, err
	}
	return s.table(teams, matches), nil
}

func (s *Season) table(teams []models.Team, matches []models.Match) Table {
	t := CalculateStandings(s.rules, teams, matches)
	if t.Skipped > 0 {
		s.logger.Warn("standings skipped matches with unknown teams", "skipped", t.Skipped)
	}
	return t
}

// Validate checks the stored teams and matches form a complete round robin
func (s *Season) Validate() (Report, error) {
	teams, err := s.store.LoadTeams()
	if err != nil {
		return Report{}, err
	}
	matches, err := s.store.LoadMatches()
	if err != nil {
		return Report{}, err
	}
	return ValidateStructure(s.rules, teams, matches)
}

// Progress is the fraction of group matches played
func (s *Season) Progress() (float64, error) {
	matches, err := s.store.LoadMatches()
	if err != nil {
		return 0, err
	}
	return Completion(matches), nil
}

func loadForMatch(tx models.Store, id string) ([]models.Match, []models.Team, int, error) {
	matches, err := tx.LoadMatches()
	if err != nil {
		return nil, nil, -1, err
	}
	i := models.FindMatch(matches, id)
	if i < 0 {
		return nil, nil, -1, models.Wrapf(models.ErrMatchNotFound, "no match %q", id)
	}
	teams, err := tx.LoadTeams()
	if err != nil {
		return nil, nil, -1, err
	}
	return matches, teams, i, nil
}
