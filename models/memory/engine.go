// Package memory provides an in-process Store, used for tests and throwaway leagues
package memory

import (
	"errors"
	"sync"

	"github.com/justinjudd/league/models"
)

// ErrInjected is returned by saves once FailSaves has been called
var ErrInjected = errors.New("memory store: injected save failure")

type state struct {
	teams   []models.Team
	matches []models.Match
	bracket *models.Bracket
}

func (s state) clone() state {
	return state{
		teams:   models.CloneTeams(s.teams),
		matches: models.CloneMatches(s.matches),
		bracket: models.CloneBracket(s.bracket),
	}
}

var _ models.Store = (*Engine)(nil)

// Engine is the in-memory Store. Reads outside Update see the last committed state.
type Engine struct {
	mu        sync.Mutex
	committed state
	failSaves bool
	saves     int
}

// NewStorageEngine creates an empty in-memory Store
func NewStorageEngine() *Engine {
	return &Engine{}
}

// FailSaves makes every following save return ErrInjected
func (m *Engine) FailSaves(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves = fail
}

// Saves counts successful collection writes, for asserting that failed operations wrote nothing
func (m *Engine) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Engine) LoadTeams() ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneTeams(m.committed.teams), nil
}

func (m *Engine) SaveTeams(teams []models.Team) error {
	return m.Update(func(tx models.Store) error { return tx.SaveTeams(teams) })
}

func (m *Engine) LoadMatches() ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneMatches(m.committed.matches), nil
}

func (m *Engine) LoadMatchesThrough(day int) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return through(m.committed.matches, day), nil
}

func (m *Engine) SaveMatches(matches []models.Match) error {
	return m.Update(func(tx models.Store) error { return tx.SaveMatches(matches) })
}

func (m *Engine) LoadBracket() (*models.Bracket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneBracket(m.committed.bracket), nil
}

func (m *Engine) SaveBracket(b *models.Bracket) error {
	return m.Update(func(tx models.Store) error { return tx.SaveBracket(b) })
}

func (m *Engine) RemoveBracket() error {
	return m.Update(func(tx models.Store) error { return tx.RemoveBracket() })
}

// Update works on a copy of the committed state and swaps it in only when fn succeeds
func (m *Engine) Update(fn func(tx models.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &tx{working: m.committed.clone(), failSaves: m.failSaves}
	if err := fn(t); err != nil {
		return err
	}
	m.committed = t.working
	m.saves += t.saves
	return nil
}

type tx struct {
	working   state
	failSaves bool
	saves     int
}

func (t *tx) LoadTeams() ([]models.Team, error) {
	return models.CloneTeams(t.working.teams), nil
}

func (t *tx) SaveTeams(teams []models.Team) error {
	if t.failSaves {
		return models.StoreError("memory save", ErrInjected)
	}
	t.working.teams = models.CloneTeams(teams)
	t.saves++
	return nil
}

func (t *tx) LoadMatches() ([]models.Match, error) {
	return models.CloneMatches(t.working.matches), nil
}

func (t *tx) LoadMatchesThrough(day int) ([]models.Match, error) {
	return through(t.working.matches, day), nil
}

func (t *tx) SaveMatches(matches []models.Match) error {
	if t.failSaves {
		return models.StoreError("memory save", ErrInjected)
	}
	sorted := models.CloneMatches(matches)
	models.SortMatches(sorted)
	t.working.matches = sorted
	t.saves++
	return nil
}

func (t *tx) LoadBracket() (*models.Bracket, error) {
	return models.CloneBracket(t.working.bracket), nil
}

func (t *tx) SaveBracket(b *models.Bracket) error {
	if t.failSaves {
		return models.StoreError("memory save", ErrInjected)
	}
	t.working.bracket = models.CloneBracket(b)
	t.saves++
	return nil
}

func (t *tx) RemoveBracket() error {
	if t.failSaves {
		return models.StoreError("memory save", ErrInjected)
	}
	t.working.bracket = nil
	t.saves++
	return nil
}

// Update inside a transaction joins it
func (t *tx) Update(fn func(tx models.Store) error) error {
	return fn(t)
}

func through(matches []models.Match, day int) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if m.Day <= day {
			out = append(out, m)
		}
	}
	return models.CloneMatches(out)
}
