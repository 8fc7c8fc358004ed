package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/testutil"
)

func collect(t *testing.T, opts Options) ([]models.Game, Result) {
	t.Helper()
	var got []models.Game
	res, err := Load(context.Background(), opts, func(_ context.Context, batch []models.Game) error {
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)
	return got, res
}

func writeRawCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixtureRows(n int) []testutil.GameRow {
	rows := make([]testutil.GameRow, n)
	for i := range rows {
		rows[i] = testutil.Row()
	}
	return rows
}

func TestLoadFullDataset(t *testing.T) {
	rows := fixtureRows(5)
	rows[1].Result = "0-1"
	rows[2].Result = "1/2-1/2"
	path := testutil.WriteCSV(t, rows)

	got, res := collect(t, Options{Path: path})

	assert.Equal(t, 5, res.TotalRead)
	assert.Equal(t, 5, res.Loaded)
	assert.Equal(t, 0, res.Dropped)
	require.Len(t, got, 5)

	g := got[0]
	assert.Equal(t, int64(1), g.RowSeq)
	assert.Equal(t, "alice", g.White)
	assert.Equal(t, "1-0", g.Result)
	assert.Equal(t, "Blitz (3-10min)", g.TimeClass)
	assert.Equal(t, "Semi-Open Games", g.OpeningCategory)
	assert.Equal(t, 2, g.MoveCount)

	require.NotNil(t, g.PlayedAt)
	require.NotNil(t, g.Hour)
	assert.Equal(t, 18, *g.Hour)
	assert.Equal(t, "Sunday", g.DayOfWeek)

	require.NotNil(t, g.AvgElo)
	require.NotNil(t, g.EloDiff)
	assert.Equal(t, 1490.0, *g.AvgElo)
	assert.Equal(t, 20, *g.EloDiff)

	require.NotNil(t, g.TimeBase)
	require.NotNil(t, g.TimeIncrement)
	assert.Equal(t, 300, *g.TimeBase)
	assert.Equal(t, 0, *g.TimeIncrement)
}

func TestLoadDropsUnusableRows(t *testing.T) {
	rows := fixtureRows(4)
	rows[1].Result = "*" // ongoing game, not countable
	rows[3].Result = ""
	path := testutil.WriteCSV(t, rows)

	got, res := collect(t, Options{Path: path})

	assert.Equal(t, 4, res.TotalRead)
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 2, res.Dropped)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].RowSeq)
	assert.Equal(t, int64(3), got[1].RowSeq)
}

func TestLoadNullFillsBadColumns(t *testing.T) {
	rows := fixtureRows(3)
	rows[0].WhiteElo = "?"
	rows[1].UTCDate = "not-a-date"
	path := testutil.WriteCSV(t, rows)

	got, res := collect(t, Options{Path: path})

	assert.Equal(t, 3, res.Loaded)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, 2, res.NullFilled)

	assert.Nil(t, got[0].WhiteElo)
	assert.Nil(t, got[0].AvgElo)
	assert.Nil(t, got[0].EloDiff)
	assert.NotNil(t, got[0].BlackElo)

	assert.Nil(t, got[1].PlayedAt)
	assert.Nil(t, got[1].Hour)
	assert.Empty(t, got[1].DayOfWeek)
	assert.NotNil(t, got[1].AvgElo)
}

func TestLoadSample(t *testing.T) {
	path := testutil.WriteCSV(t, fixtureRows(20))

	got, res := collect(t, Options{Path: path, SampleSize: 5, Seed: 42})

	assert.Equal(t, 20, res.TotalRead)
	assert.Equal(t, 5, res.Loaded)
	require.Len(t, got, 5)

	// Sampled rows come back in original file order.
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].RowSeq, got[i].RowSeq)
	}
}

func TestLoadSampleLargerThanDataset(t *testing.T) {
	path := testutil.WriteCSV(t, fixtureRows(3))

	got, res := collect(t, Options{Path: path, SampleSize: 100, Seed: 42})

	assert.Equal(t, 3, res.Loaded)
	assert.Len(t, got, 3)
}

func TestLoadSampleDeterministic(t *testing.T) {
	path := testutil.WriteCSV(t, fixtureRows(50))

	first, _ := collect(t, Options{Path: path, SampleSize: 10, Seed: 42})
	second, _ := collect(t, Options{Path: path, SampleSize: 10, Seed: 42})

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].RowSeq, second[i].RowSeq)
	}
}

func TestLoadBatchSize(t *testing.T) {
	path := testutil.WriteCSV(t, fixtureRows(10))

	var sizes []int
	_, err := Load(context.Background(), Options{Path: path, BatchSize: 4}, func(_ context.Context, batch []models.Game) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2}, sizes)
}

func TestLoadMissingColumn(t *testing.T) {
	rows := fixtureRows(1)
	path := testutil.WriteCSV(t, rows)

	// Rewrite the file without the AN column.
	_, err := Load(context.Background(), Options{Path: path}, func(context.Context, []models.Game) error { return nil })
	require.NoError(t, err)

	badPath := writeRawCSV(t, "Event,White,Black\nRated Blitz game,alice,bob\n")
	_, err = Load(context.Background(), Options{Path: badPath}, func(context.Context, []models.Game) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), Options{Path: "no/such/file.csv"}, func(context.Context, []models.Game) error { return nil })
	require.Error(t, err)
}
