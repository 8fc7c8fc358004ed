package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/tmlira/chesslens/internal/games"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
)

// The 15 columns of the source dataset.
var requiredColumns = []string{
	"Event", "White", "Black", "Result", "UTCDate", "UTCTime",
	"WhiteElo", "BlackElo", "WhiteRatingDiff", "BlackRatingDiff",
	"ECO", "Opening", "TimeControl", "Termination", "AN",
}

// Options controls a single load.
type Options struct {
	Path       string
	SampleSize int   // 0 loads the full dataset
	Seed       int64 // drives the random sample; same seed, same rows
	ChunkSize  int   // rows between progress log lines
	BatchSize  int   // rows handed to the sink per call
}

// Result reports what happened during a load.
type Result struct {
	Loaded     int // rows delivered to the sink
	Dropped    int // rows skipped entirely (bad CSV row, unusable Result)
	NullFilled int // rows kept with one or more unparseable columns nulled
	TotalRead  int // data rows read from the file
}

// Sink receives parsed games in batches. The loader never retains a batch
// after the sink returns, so a full-dataset load stays memory-bounded.
type Sink func(ctx context.Context, batch []models.Game) error

// Load streams the CSV at opts.Path into the sink. With SampleSize > 0 it
// keeps a seeded reservoir sample instead, delivered in original row order
// once the file has been scanned.
func Load(ctx context.Context, opts Options, sink Sink) (Result, error) {
	log := logger.FromContext(ctx).WithPrefix("loader")

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5000
	}

	f, err := os.Open(opts.Path)
	if err != nil {
		return Result{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	log.Info("loading %s (sample=%d, seed=%d)", opts.Path, opts.SampleSize, opts.Seed)

	var (
		res       Result
		batch     []models.Game
		reservoir []models.Game
		rng       = rand.New(rand.NewSource(opts.Seed))
		kept      int // valid rows seen, drives the reservoir
	)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Dropped++
				res.TotalRead++
				continue
			}
			return res, fmt.Errorf("read row %d: %w", res.TotalRead+1, err)
		}
		res.TotalRead++

		if res.TotalRead%opts.ChunkSize == 0 {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Debug("read %d rows (%d kept, %d dropped)", res.TotalRead, kept, res.Dropped)
		}

		if len(record) < len(header) {
			res.Dropped++
			continue
		}

		game, nullFilled, ok := parseRow(record, cols, int64(res.TotalRead))
		if !ok {
			res.Dropped++
			continue
		}
		if nullFilled {
			res.NullFilled++
		}
		kept++

		if opts.SampleSize > 0 {
			// Seeded reservoir sample: every valid row has an equal chance
			// of ending up in the final sample, bounded memory.
			if len(reservoir) < opts.SampleSize {
				reservoir = append(reservoir, game)
			} else if j := rng.Intn(kept); j < opts.SampleSize {
				reservoir[j] = game
			}
			continue
		}

		batch = append(batch, game)
		if len(batch) >= opts.BatchSize {
			if err := sink(ctx, batch); err != nil {
				return res, err
			}
			res.Loaded += len(batch)
			batch = batch[:0]
		}
	}

	if opts.SampleSize > 0 {
		sort.Slice(reservoir, func(i, j int) bool {
			return reservoir[i].RowSeq < reservoir[j].RowSeq
		})
		for start := 0; start < len(reservoir); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(reservoir) {
				end = len(reservoir)
			}
			if err := sink(ctx, reservoir[start:end]); err != nil {
				return res, err
			}
			res.Loaded += end - start
		}
	} else if len(batch) > 0 {
		if err := sink(ctx, batch); err != nil {
			return res, err
		}
		res.Loaded += len(batch)
	}

	log.Info("load complete: %d loaded, %d dropped, %d null-filled, %d read",
		res.Loaded, res.Dropped, res.NullFilled, res.TotalRead)
	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}
	return cols, nil
}

// parseRow turns one CSV record into a Game. Rows without a countable
// Result are unusable and reported with ok=false; unparseable numeric and
// date columns are null-filled instead.
func parseRow(record []string, cols map[string]int, rowSeq int64) (g models.Game, nullFilled, ok bool) {
	field := func(name string) string { return record[cols[name]] }

	result := field("Result")
	if !games.ValidResult(result) {
		return models.Game{}, false, false
	}

	g = models.Game{
		RowSeq:      rowSeq,
		Event:       field("Event"),
		White:       field("White"),
		Black:       field("Black"),
		Result:      result,
		ECO:         field("ECO"),
		Opening:     field("Opening"),
		TimeControl: field("TimeControl"),
		Termination: games.NormalizeTermination(field("Termination")),
		Moves:       field("AN"),
	}

	g.OpeningCategory = games.OpeningCategory(g.ECO)
	g.TimeClass = games.TimeClass(g.TimeControl)
	g.MoveCount = games.MoveCount(g.Moves)

	if base, inc, tcOK := games.ParseTimeControl(g.TimeControl); tcOK {
		g.TimeBase = &base
		g.TimeIncrement = &inc
	}

	if ts, tsOK := games.ParsePlayedAt(field("UTCDate"), field("UTCTime")); tsOK {
		g.PlayedAt = &ts
		hour := ts.Hour()
		g.Hour = &hour
		g.DayOfWeek = ts.Weekday().String()
	} else {
		nullFilled = true
	}

	whiteElo, whiteOK := games.ParseElo(field("WhiteElo"))
	blackElo, blackOK := games.ParseElo(field("BlackElo"))
	if whiteOK {
		g.WhiteElo = &whiteElo
	}
	if blackOK {
		g.BlackElo = &blackElo
	}
	if whiteOK && blackOK {
		avg := float64(whiteElo+blackElo) / 2
		diff := whiteElo - blackElo
		g.AvgElo = &avg
		g.EloDiff = &diff
	} else {
		nullFilled = true
	}

	if d, dOK := games.ParseRatingDiff(field("WhiteRatingDiff")); dOK {
		g.WhiteRatingDiff = &d
	}
	if d, dOK := games.ParseRatingDiff(field("BlackRatingDiff")); dOK {
		g.BlackRatingDiff = &d
	}

	return g, nullFilled, true
}
