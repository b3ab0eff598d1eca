package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/game"
)

// Storage keys
const (
	keyStats      = "stats"
	keyGameSeq    = "seq/game"
	gameKeyPrefix = "game/"
)

// ErrGameNotFound is returned when no game is stored under an ID.
var ErrGameNotFound = errors.New("game not found")

// GameStats stores aggregate results of finished games.
type GameStats struct {
	GamesPlayed int       `json:"games_played"`
	WhiteWins   int       `json:"white_wins"`
	BlackWins   int       `json:"black_wins"`
	Draws       int       `json:"draws"`
	LastPlayed  time.Time `json:"last_played"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{}
}

// record counts one finished game by its result string.
func (s *GameStats) record(result string) {
	switch result {
	case game.ResultWhiteWin:
		s.WhiteWins++
	case game.ResultBlackWin:
		s.BlackWins++
	case game.ResultDraw:
		s.Draws++
	default:
		return
	}
	s.GamesPlayed++
	s.LastPlayed = time.Now()
}

// WhiteScore returns White's score percentage, counting draws as half a point.
func (s *GameStats) WhiteScore() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return (float64(s.WhiteWins) + float64(s.Draws)/2) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage of game records and stats.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in dir, or in the platform data directory
// when dir is empty.
func NewStorage(dir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open game sequence: %w", err)
	}
	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NextGameID allocates a fresh game ID.
func (s *Storage) NextGameID() (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(n+1, 10), nil
}

func gameKey(id string) []byte {
	return []byte(gameKeyPrefix + id)
}

// SaveGame stores a game record. The first time a record is saved with a
// final result, the game is counted in the stats within the same transaction.
func (s *Storage) SaveGame(rec game.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		prevResult := game.ResultNone
		item, err := txn.Get(gameKey(rec.ID))
		switch {
		case err == nil:
			var prev game.Record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return err
			}
			prevResult = prev.Result
		case err != badger.ErrKeyNotFound:
			return err
		}

		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}
		if prevResult != game.ResultNone || rec.Result == game.ResultNone {
			return nil
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.record(rec.Result)
		return saveStats(txn, stats)
	})
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (*game.Record, error) {
	var rec game.Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListGames returns every stored record ordered by key.
func (s *Storage) ListGames() ([]game.Record, error) {
	var out []game.Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gameKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec game.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// DeleteGame removes a stored game. Stats are not changed.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

func saveStats(txn *badger.Txn, stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyStats), data)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}
