package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hailam/goplay/internal/board"
	"github.com/hailam/goplay/internal/storage"
)

func openTestStorage(t *testing.T) *storage.Storage {
	t.Helper()

	s, err := storage.NewStorageAt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

func TestFirstLaunch(t *testing.T) {
	s := openTestStorage(t)

	first, err := s.IsFirstLaunch()
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, s.MarkFirstLaunchComplete())

	first, err = s.IsFirstLaunch()
	require.NoError(t, err)
	require.False(t, first)
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	require.Equal(t, "goplay", prefs.EngineName, "missing preferences fall back to defaults")

	prefs.EngineName = "goplay-test"
	prefs.BookPath = "/tmp/test.book"
	prefs.RandomSeed = 99
	require.NoError(t, s.SavePreferences(prefs))

	loaded, err := s.LoadPreferences()
	require.NoError(t, err)
	require.Equal(t, "goplay-test", loaded.EngineName)
	require.Equal(t, "/tmp/test.book", loaded.BookPath)
	require.Equal(t, int64(99), loaded.RandomSeed)
	require.False(t, loaded.LastPlayed.IsZero())
}

func TestRecordGame(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.RecordGame(storage.GameResult{
		Winner:   board.Black,
		Margin:   12,
		Moves:    211,
		Duration: time.Minute,
	}))
	require.NoError(t, s.RecordGame(storage.GameResult{
		Winner:   board.White,
		Margin:   3,
		Moves:    187,
		Duration: time.Minute,
	}))
	require.NoError(t, s.RecordGame(storage.GameResult{
		Winner: board.NoColor,
		Moves:  240,
	}))

	stats, err := s.LoadStats()
	require.NoError(t, err)

	require.Equal(t, 3, stats.GamesPlayed)
	require.Equal(t, 1, stats.BlackWins)
	require.Equal(t, 1, stats.WhiteWins)
	require.Equal(t, 1, stats.Jigo)
	require.Equal(t, 211+187+240, stats.TotalMoves)
	require.Equal(t, 2*time.Minute, stats.TotalPlayTime)
	require.Equal(t, 12, stats.LargestMargin)
}
