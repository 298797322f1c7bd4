package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/goplay/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// UserPreferences stores user settings for the GTP engine.
type UserPreferences struct {
	EngineName  string    `json:"engine_name"`
	BookPath    string    `json:"book_path"`
	RandomSeed  int64     `json:"random_seed"`
	ResignScore int       `json:"resign_score"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		EngineName:  "goplay",
		ResignScore: 150,
		LastPlayed:  time.Now(),
	}
}

// GameStats accumulates results over every finished game. Jigo counts
// games with equal area; with no komi applied it is a real outcome.
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	BlackWins     int           `json:"black_wins"`
	WhiteWins     int           `json:"white_wins"`
	Jigo          int           `json:"jigo"`
	TotalMoves    int           `json:"total_moves"`
	TotalPlayTime time.Duration `json:"total_play_time"`
	LargestMargin int           `json:"largest_margin"`
}

// GameResult is the outcome of one finished game.
type GameResult struct {
	Winner   board.Color // NoColor for jigo
	Margin   int         // winning area margin, 0 for jigo
	Moves    int         // stones played
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	return NewStorageAt(dbDir)
}

// NewStorageAt opens the database at an explicit directory.
func NewStorageAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// putJSON marshals v and stores it under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON unmarshals the value under key into v, reporting whether the
// key was present.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})

	return found, err
}

// has reports whether key exists.
func (s *Storage) has(key string) (bool, error) {
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		switch _, err := txn.Get([]byte(key)); err {
		case badger.ErrKeyNotFound:
			return nil
		case nil:
			found = true
			return nil
		default:
			return err
		}
	})

	return found, err
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	marked, err := s.has(keyFirstLaunch)
	return !marked, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences; missing keys and fields keep
// their defaults.
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, empty if none were recorded yet.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// RecordGame folds one finished game into the stored statistics.
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalMoves += result.Moves
	stats.TotalPlayTime += result.Duration

	switch result.Winner {
	case board.Black:
		stats.BlackWins++
	case board.White:
		stats.WhiteWins++
	default:
		stats.Jigo++
	}
	if result.Margin > stats.LargestMargin {
		stats.LargestMargin = result.Margin
	}

	return s.SaveStats(stats)
}
