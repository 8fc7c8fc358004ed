package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmlira/chesslens/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// CSVHeader matches the column order of the exported game archive.
var CSVHeader = []string{
	"Event", "White", "Black", "Result", "UTCDate", "UTCTime",
	"WhiteElo", "BlackElo", "WhiteRatingDiff", "BlackRatingDiff",
	"ECO", "Opening", "TimeControl", "Termination", "AN",
}

// GameRow is one fixture row for WriteCSV, in CSVHeader order.
type GameRow struct {
	Event, White, Black, Result    string
	UTCDate, UTCTime               string
	WhiteElo, BlackElo             string
	WhiteRatingDiff, BlackRatingDiff string
	ECO, Opening                   string
	TimeControl, Termination, AN   string
}

// Row returns a fully populated blitz game that parses cleanly. Override
// fields before passing it to WriteCSV.
func Row() GameRow {
	return GameRow{
		Event:           "Rated Blitz game",
		White:           "alice",
		Black:           "bob",
		Result:          "1-0",
		UTCDate:         "2023.05.14",
		UTCTime:         "18:30:00",
		WhiteElo:        "1500",
		BlackElo:        "1480",
		WhiteRatingDiff: "+8",
		BlackRatingDiff: "-8",
		ECO:             "B20",
		Opening:         "Sicilian Defense",
		TimeControl:     "300+0",
		Termination:     "Normal",
		AN:              "1. e4 c5 2. Nf3 d6 1-0",
	}
}

// WriteCSV writes a game archive fixture into the test temp dir and returns
// its path.
func WriteCSV(t *testing.T, rows []GameRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "games.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(CSVHeader))
	for _, r := range rows {
		record := []string{
			r.Event, r.White, r.Black, r.Result, r.UTCDate, r.UTCTime,
			r.WhiteElo, r.BlackElo, r.WhiteRatingDiff, r.BlackRatingDiff,
			r.ECO, r.Opening, r.TimeControl, r.Termination, r.AN,
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}
