package tournament

import (
	"log/slog"
	"time"

	"github.com/justinjudd/league/models"
)

// GenerateBracket seeds the four playoff places from a league table: first hosts fourth and
// second hosts third. The final and third-place match wait without teams. Seeding is fixed, the
// same table always produces the same bracket.
func GenerateBracket(table Table, now time.Time) (*models.Bracket, error) {
	if len(table.Rows) < 4 {
		return nil, models.Wrapf(models.ErrNotEnoughTeams, "the table has %d", len(table.Rows))
	}
	r := table.Rows

	b := &models.Bracket{
		Semifinals: []models.BracketMatch{
			semifinal(models.SemifinalOne, r[0], r[3]),
			semifinal(models.SemifinalTwo, r[1], r[2]),
		},
		Final:       models.BracketMatch{ID: models.Final, Stage: "final", Status: models.BracketPending},
		ThirdPlace:  models.BracketMatch{ID: models.ThirdPlace, Stage: "third_place", Status: models.BracketPending},
		GeneratedAt: now,
		UpdatedAt:   now,
	}
	b.TournamentPhase = BracketPhase(b)
	return b, nil
}

func semifinal(id string, home, away Row) models.BracketMatch {
	return models.BracketMatch{
		ID:       id,
		Stage:    "semifinal",
		HomeTeam: home.TeamID,
		AwayTeam: away.TeamID,
		HomeSeed: home.Position,
		AwaySeed: away.Position,
		Status:   models.BracketScheduled,
	}
}

// AdvanceBracket fills the final with both semifinal winners and the third-place match with both
// losers once they are known, first semifinal's team at home. Running it again changes nothing.
func AdvanceBracket(b *models.Bracket) {
	if len(b.Semifinals) != 2 {
		return
	}
	one, two := b.Semifinals[0], b.Semifinals[1]
	if !one.Resolved() || !two.Resolved() {
		return
	}
	if b.Final.Status == models.BracketPending {
		b.Final.HomeTeam, b.Final.AwayTeam = one.Winner, two.Winner
		b.Final.HomeSeed, b.Final.AwaySeed = seedOf(one, one.Winner), seedOf(two, two.Winner)
		b.Final.Status = models.BracketScheduled
	}
	if b.ThirdPlace.Status == models.BracketPending {
		b.ThirdPlace.HomeTeam, b.ThirdPlace.AwayTeam = one.Loser, two.Loser
		b.ThirdPlace.HomeSeed, b.ThirdPlace.AwaySeed = seedOf(one, one.Loser), seedOf(two, two.Loser)
		b.ThirdPlace.Status = models.BracketScheduled
	}
}

func seedOf(m models.BracketMatch, team string) int {
	if team == m.HomeTeam {
		return m.HomeSeed
	}
	return m.AwaySeed
}

// decide records a playoff score. A draw must come with a penalty shootout winner.
func decide(m *models.BracketMatch, homeGoals, awayGoals int, penalty *models.Penalty, now time.Time) error {
	if m.Status == models.BracketPlayed {
		return models.Wrapf(models.ErrAlreadyResolved, "%s", m.ID)
	}

	var homeWins bool
	switch {
	case homeGoals > awayGoals:
		homeWins = true
	case awayGoals > homeGoals:
		homeWins = false
	default:
		if penalty == nil {
			return models.Wrapf(models.ErrDrawNeedsPenalty, "%s ended %d-%d", m.ID, homeGoals, awayGoals)
		}
		if !penalty.Winner.Valid() {
			return models.Wrapf(models.ErrInvalidPenalty, "got %q", penalty.Winner)
		}
		homeWins = penalty.Winner == models.SideHome
		p := *penalty
		m.Penalty = &p
	}

	m.HomeGoals = models.Goals(homeGoals)
	m.AwayGoals = models.Goals(awayGoals)
	if homeWins {
		m.Winner, m.Loser = m.HomeTeam, m.AwayTeam
	} else {
		m.Winner, m.Loser = m.AwayTeam, m.HomeTeam
	}
	m.Status = models.BracketPlayed
	m.PlayedAt = &now
	return nil
}

// Playoffs runs the knockout phase over a Store
type Playoffs struct {
	store  models.Store
	rules  models.Rules
	logger *slog.Logger
	now    Clock
}

// NewPlayoffs creates the playoff engine. A nil logger discards log output.
func NewPlayoffs(store models.Store, rules models.Rules, logger *slog.Logger) *Playoffs {
	if logger == nil {
		logger = discardLogger()
	}
	return &Playoffs{store: store, rules: rules, logger: logger, now: time.Now}
}

// SetClock replaces the time source used to stamp results
func (p *Playoffs) SetClock(now Clock) {
	p.now = now
}

// Eligible reports whether enough of the group stage has been played to start the playoffs,
// together with the completion fraction. Generate does not enforce it.
func (p *Playoffs) Eligible() (bool, float64, error) {
	matches, err := p.store.LoadMatches()
	if err != nil {
		return false, 0, err
	}
	c := Completion(matches)
	return len(matches) > 0 && c >= p.rules.PlayoffThreshold, c, nil
}

// Bracket returns the stored bracket
func (p *Playoffs) Bracket() (*models.Bracket, error) {
	b, err := p.store.LoadBracket()
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, models.ErrNoBracket
	}
	return b, nil
}

// Generate seeds a bracket from the current standings and stores it, replacing an earlier bracket
// that has no results yet.
func (p *Playoffs) Generate() (*models.Bracket, error) {
	var b *models.Bracket
	err := p.store.Update(func(tx models.Store) error {
		existing, err := tx.LoadBracket()
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Completed() {
				return models.ErrTournamentCompleted
			}
			if existing.Started() {
				return models.ErrBracketInProgress
			}
		}

		teams, err := tx.LoadTeams()
		if err != nil {
			return err
		}
		matches, err := tx.LoadMatches()
		if err != nil {
			return err
		}
		table := CalculateStandings(p.rules, teams, matches)
		if table.Skipped > 0 {
			p.logger.Warn("standings skipped matches with unknown teams", "skipped", table.Skipped)
		}
		b, err = GenerateBracket(table, p.now())
		if err != nil {
			return err
		}
		return tx.SaveBracket(b)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("playoff bracket generated",
		"semifinal1", b.Semifinals[0].HomeTeam+" v "+b.Semifinals[0].AwayTeam,
		"semifinal2", b.Semifinals[1].HomeTeam+" v "+b.Semifinals[1].AwayTeam)
	return b, nil
}

// ResolveSemifinal records a semifinal result and advances the bracket. Results are final.
func (p *Playoffs) ResolveSemifinal(id string, homeGoals, awayGoals int, penalty *models.Penalty) (*models.Bracket, error) {
	return p.resolve(func(b *models.Bracket, now time.Time) error {
		var m *models.BracketMatch
		for i := range b.Semifinals {
			if b.Semifinals[i].ID == id {
				m = &b.Semifinals[i]
			}
		}
		if m == nil {
			return models.Wrapf(models.ErrMatchNotFound, "no semifinal %q", id)
		}
		if err := decide(m, homeGoals, awayGoals, penalty, now); err != nil {
			return err
		}
		AdvanceBracket(b)
		return nil
	}, "semifinal", id, homeGoals, awayGoals)
}

// ResolveFinal records the final, crowns the champion and closes the tournament
func (p *Playoffs) ResolveFinal(homeGoals, awayGoals int, penalty *models.Penalty) (*models.Bracket, error) {
	return p.resolve(func(b *models.Bracket, now time.Time) error {
		if b.Final.Status != models.BracketScheduled || !b.Final.Ready() {
			return models.ErrFinalNotReady
		}
		if err := decide(&b.Final, homeGoals, awayGoals, penalty, now); err != nil {
			return err
		}
		b.Champion, b.RunnerUp = b.Final.Winner, b.Final.Loser
		return nil
	}, "final", models.Final, homeGoals, awayGoals)
}

// ResolveThirdPlace records the third-place match. It may be played before or after the final,
// and is the only result a completed tournament still accepts.
func (p *Playoffs) ResolveThirdPlace(homeGoals, awayGoals int, penalty *models.Penalty) (*models.Bracket, error) {
	return p.resolve(func(b *models.Bracket, now time.Time) error {
		if b.ThirdPlace.Status == models.BracketPending || !b.ThirdPlace.Ready() {
			return models.ErrThirdPlaceNotReady
		}
		if err := decide(&b.ThirdPlace, homeGoals, awayGoals, penalty, now); err != nil {
			return err
		}
		b.ThirdPlaceTeam = b.ThirdPlace.Winner
		return nil
	}, "third place", models.ThirdPlace, homeGoals, awayGoals)
}

func (p *Playoffs) resolve(fn func(b *models.Bracket, now time.Time) error, stage, id string, homeGoals, awayGoals int) (*models.Bracket, error) {
	if err := checkGoals(homeGoals, awayGoals); err != nil {
		return nil, err
	}

	var b *models.Bracket
	err := p.store.Update(func(tx models.Store) error {
		var err error
		b, err = tx.LoadBracket()
		if err != nil {
			return err
		}
		if b == nil {
			return models.ErrNoBracket
		}
		if b.Completed() && id != models.ThirdPlace {
			return models.ErrTournamentCompleted
		}

		now := p.now()
		if err := fn(b, now); err != nil {
			return err
		}
		b.TournamentPhase = BracketPhase(b)
		b.UpdatedAt = now
		return tx.SaveBracket(b)
	})
	if err != nil {
		return nil, err
	}

	m := b.Match(id)
	p.logger.Info("playoff result recorded", "stage", stage, "match", id, "winner", m.Winner,
		"homeGoals", homeGoals, "awayGoals", awayGoals, "phase", b.TournamentPhase)
	if id == models.Final {
		p.logger.Info("tournament completed", "champion", b.Champion, "runnerUp", b.RunnerUp)
	}
	return b, nil
}

// Reset discards a bracket that has not reached a champion
func (p *Playoffs) Reset() error {
	err := p.store.Update(func(tx models.Store) error {
		b, err := tx.LoadBracket()
		if err != nil {
			return err
		}
		if b == nil {
			return nil
		}
		if b.Completed() {
			return models.ErrTournamentCompleted
		}
		return tx.RemoveBracket()
	})
	if err != nil {
		return err
	}
	p.logger.Info("playoff bracket reset")
	return nil
}

// Phase reports where the tournament currently stands
func (p *Playoffs) Phase() (models.Phase, error) {
	teams, err := p.store.LoadTeams()
	if err != nil {
		return models.PhaseUnknown, err
	}
	matches, err := p.store.LoadMatches()
	if err != nil {
		return models.PhaseUnknown, err
	}
	b, err := p.store.LoadBracket()
	if err != nil {
		return models.PhaseUnknown, err
	}
	return DerivePhase(p.rules, len(teams), matches, b), nil
}
