package storm

import (
	"errors"
	"fmt"
	"time"

	"github.com/justinjudd/league/models"

	"github.com/asdine/storm"
	"github.com/asdine/storm/codec"
	"github.com/asdine/storm/codec/json"
	"github.com/asdine/storm/codec/msgpack"
	"github.com/asdine/storm/q"
	bolt "go.etcd.io/bbolt"
)

const (
	bracketBucket = "playoffs"
	bracketKey    = "bracket"
)

// Engine is a Store backed by a storm (bbolt) database file. Teams and matches are stored as
// records, the playoff bracket as a single key-value snapshot.
type Engine struct {
	node storm.Node
	db   *storm.DB // nil when the engine is bound to an open transaction
}

var _ models.Store = (*Engine)(nil)

// Codecs lists the serialization formats a database can be opened with
var Codecs = map[string]codec.MarshalUnmarshaler{
	"json":    json.Codec,
	"msgpack": msgpack.Codec,
}

// NewStorageEngine opens (or creates) the database at path. codecName selects one of Codecs, an
// empty name means json. timeout bounds how long to wait for the file lock held by another process.
func NewStorageEngine(path string, codecName string, timeout time.Duration) (*Engine, error) {
	if codecName == "" {
		codecName = "json"
	}
	c, ok := Codecs[codecName]
	if !ok {
		return nil, fmt.Errorf("Unknown storage codec %q", codecName)
	}

	db, err := storm.Open(path, storm.Codec(c), storm.BoltOptions(0600, &bolt.Options{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("Unable to open storage engine: %w", err)
	}

	return &Engine{node: db, db: db}, nil
}

// Close releases the database file
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func (e *Engine) LoadTeams() ([]models.Team, error) {
	var teams []models.Team
	err := e.node.All(&teams)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, models.StoreError("load teams", err)
	}
	return teams, nil
}

func (e *Engine) SaveTeams(teams []models.Team) error {
	teams = models.CloneTeams(teams)
	err := e.write(func(n storm.Node) error {
		if err := drop(n, &models.Team{}); err != nil {
			return err
		}
		for i := range teams {
			if err := n.Save(&teams[i]); err != nil {
				return fmt.Errorf("team %s: %w", teams[i].ID, err)
			}
		}
		return nil
	})
	return models.StoreError("save teams", err)
}

func (e *Engine) LoadMatches() ([]models.Match, error) {
	var matches []models.Match
	err := e.node.Select().OrderBy("Day", "ScheduledTime", "ID").Find(&matches)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, models.StoreError("load matches", err)
	}
	return matches, nil
}

func (e *Engine) LoadMatchesThrough(day int) ([]models.Match, error) {
	var matches []models.Match
	err := e.node.Select(q.Lte("Day", day)).OrderBy("Day", "ScheduledTime", "ID").Find(&matches)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, models.StoreError("load matches", err)
	}
	return matches, nil
}

func (e *Engine) SaveMatches(matches []models.Match) error {
	matches = models.CloneMatches(matches)
	models.SortMatches(matches)
	err := e.write(func(n storm.Node) error {
		if err := drop(n, &models.Match{}); err != nil {
			return err
		}
		for i := range matches {
			if err := n.Save(&matches[i]); err != nil {
				return fmt.Errorf("match %s: %w", matches[i].ID, err)
			}
		}
		return nil
	})
	return models.StoreError("save matches", err)
}

func (e *Engine) LoadBracket() (*models.Bracket, error) {
	var b models.Bracket
	err := e.node.Get(bracketBucket, bracketKey, &b)
	if errors.Is(err, storm.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.StoreError("load bracket", err)
	}
	return &b, nil
}

func (e *Engine) SaveBracket(b *models.Bracket) error {
	err := e.write(func(n storm.Node) error {
		return n.Set(bracketBucket, bracketKey, b)
	})
	return models.StoreError("save bracket", err)
}

func (e *Engine) RemoveBracket() error {
	err := e.write(func(n storm.Node) error {
		err := n.Delete(bracketBucket, bracketKey)
		if errors.Is(err, storm.ErrNotFound) {
			return nil
		}
		return err
	})
	return models.StoreError("remove bracket", err)
}

// Update runs fn inside one bolt write transaction. Calls made on the transaction's Store join it.
func (e *Engine) Update(fn func(tx models.Store) error) error {
	if e.db == nil {
		return fn(e)
	}

	tx, err := e.db.Begin(true)
	if err != nil {
		return models.StoreError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&Engine{node: tx}); err != nil {
		return err
	}
	return models.StoreError("commit", tx.Commit())
}

// write makes a multi-record save atomic when it is not already part of a transaction
func (e *Engine) write(fn func(n storm.Node) error) error {
	if e.db == nil {
		return fn(e.node)
	}
	tx, err := e.db.Begin(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// drop clears a record bucket, tolerating one that was never created
func drop(n storm.Node, data interface{}) error {
	err := n.Drop(data)
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return nil
	}
	return err
}
