package tournament

import (
	"strings"

	"github.com/justinjudd/league/models"
)

// AddTeam registers a team with zeroed statistics. Names must be unique, ignoring case, and the
// roster cannot grow past the league size.
func (s *Season) AddTeam(t models.Team) (models.Team, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.ShortName = strings.TrimSpace(t.ShortName)
	if err := fieldError(validate.Struct(t)); err != nil {
		return models.Team{}, err
	}
	t.ID = models.NewID()
	t.Statistics = models.Statistics{}

	err := s.store.Update(func(tx models.Store) error {
		teams, err := tx.LoadTeams()
		if err != nil {
			return err
		}
		if len(teams) >= s.rules.LeagueSize {
			return models.Validationf("the league is full with %d teams", s.rules.LeagueSize)
		}
		for _, existing := range teams {
			if strings.EqualFold(existing.Name, t.Name) {
				return models.Validationf("a team named %q already exists", existing.Name)
			}
		}
		return tx.SaveTeams(append(teams, t))
	})
	if err != nil {
		return models.Team{}, err
	}

	s.logger.Info("team added", "team", t.ID, "name", t.Name)
	return t, nil
}

// AddMatch schedules a new fixture between two existing teams that have not been paired yet
func (s *Season) AddMatch(m models.Match) (models.Match, error) {
	if err := fieldError(validate.Struct(m)); err != nil {
		return models.Match{}, err
	}
	if err := checkDay(s.rules, m.Day); err != nil {
		return models.Match{}, err
	}
	m.ID = models.NewID()
	m.Status = models.StatusScheduled
	m.HomeGoals, m.AwayGoals = nil, nil
	m.BestPlayer = ""
	m.PostponementReason = nil
	m.LastUpdated = s.now()

	err := s.store.Update(func(tx models.Store) error {
		teams, err := tx.LoadTeams()
		if err != nil {
			return err
		}
		index := models.TeamIndex(teams)
		for _, id := range []string{m.HomeTeam, m.AwayTeam} {
			if _, ok := index[id]; !ok {
				return models.Wrapf(models.ErrTeamNotFound, "no team %q", id)
			}
		}

		matches, err := tx.LoadMatches()
		if err != nil {
			return err
		}
		p := unordered(m.HomeTeam, m.AwayTeam)
		for _, existing := range matches {
			if unordered(existing.HomeTeam, existing.AwayTeam) == p {
				return models.Validationf("these teams already meet in match %s on day %d", existing.ID, existing.Day)
			}
		}
		return tx.SaveMatches(append(matches, m))
	})
	if err != nil {
		return models.Match{}, err
	}

	s.logger.Info("match added", "match", m.ID, "day", m.Day, "home", m.HomeTeam, "away", m.AwayTeam)
	return m, nil
}

// DeleteMatch removes a fixture. Removing a played match rebuilds the statistics.
func (s *Season) DeleteMatch(id string) error {
	err := s.store.Update(func(tx models.Store) error {
		matches, teams, i, err := loadForMatch(tx, id)
		if err != nil {
			return err
		}
		played := matches[i].Counts()
		matches = append(matches[:i], matches[i+1:]...)
		if err := tx.SaveMatches(matches); err != nil {
			return err
		}
		if !played {
			return nil
		}
		rebuilt, _ := RebuildStatistics(s.rules, teams, matches)
		return tx.SaveTeams(rebuilt)
	})
	if err != nil {
		return err
	}
	s.logger.Info("match deleted", "match", id)
	return nil
}

// GenerateFixtures builds the whole round robin schedule. It refuses to run once any match exists.
func (s *Season) GenerateFixtures() ([]models.Match, error) {
	var generated []models.Match
	err := s.store.Update(func(tx models.Store) error {
		existing, err := tx.LoadMatches()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return models.Wrapf(models.ErrState, "the schedule already has %d matches", len(existing))
		}
		teams, err := tx.LoadTeams()
		if err != nil {
			return err
		}
		generated, err = GenerateFixtures(s.rules, teams, s.now())
		if err != nil {
			return err
		}
		return tx.SaveMatches(generated)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("fixtures generated", "matches", len(generated))
	return generated, nil
}

// MatchesOnDay returns the matches scheduled for one day
func (s *Season) MatchesOnDay(day int) ([]models.Match, error) {
	if err := checkDay(s.rules, day); err != nil {
		return nil, err
	}
	matches, err := s.store.LoadMatchesThrough(day)
	if err != nil {
		return nil, err
	}
	var out []models.Match
	for _, m := range matches {
		if m.Day == day {
			out = append(out, m)
		}
	}
	return out, nil
}

// Upcoming returns up to limit matches that still need a result, earliest first.
// A limit of zero or less returns all of them.
func (s *Season) Upcoming(limit int) ([]models.Match, error) {
	matches, err := s.store.LoadMatches()
	if err != nil {
		return nil, err
	}
	var out []models.Match
	for _, m := range matches {
		if m.Status == models.StatusPlayed {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
