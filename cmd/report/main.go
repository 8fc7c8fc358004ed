package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/tmlira/chesslens/internal/cache"
	"github.com/tmlira/chesslens/internal/config"
	"github.com/tmlira/chesslens/internal/db"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository/sqlite"
	"github.com/tmlira/chesslens/internal/services"
	"github.com/tmlira/chesslens/internal/worker"
)

// report loads a sample of the games CSV into an in-memory database and
// prints every dashboard aggregate to stdout.
func main() {
	cfg := config.Load()

	csvPath := flag.String("csv", cfg.CSVPath, "path to the games CSV")
	sample := flag.Int("sample", cfg.SampleSize, "sample size (0 loads everything)")
	seed := flag.Int64("seed", cfg.SampleSeed, "sample seed")
	timeClass := flag.String("time-class", "", "restrict to one time control class")
	minElo := flag.Float64("min-elo", 0, "minimum average Elo")
	maxElo := flag.Float64("max-elo", 0, "maximum average Elo")
	logLevel := flag.String("log-level", "WARN", "log level")
	flag.Parse()

	log := logger.New(logger.WithLevel(logger.ParseLevel(*logLevel)))
	logger.SetDefault(log)

	database, err := db.Open(":memory:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	gameRepo := sqlite.NewGameRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	statsCache := cache.New(cfg.CacheMaxEntries)

	datasets := services.NewDatasetService(gameRepo, statsCache, worker.NewPool(1, 1), services.DatasetOptions{
		CSVPath:   *csvPath,
		ChunkSize: cfg.ChunkSize,
		BatchSize: cfg.InsertBatchSize,
	})

	ctx := context.Background()
	if err := datasets.Ingest(ctx, *sample, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "load dataset: %v\n", err)
		os.Exit(1)
	}

	stats := services.NewStatsService(statsRepo, statsCache, datasets)
	filter := models.StatsFilter{TimeClass: *timeClass, MinAvgElo: *minElo, MaxAvgElo: *maxElo}

	dash, err := stats.Dashboard(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compute stats: %v\n", err)
		os.Exit(1)
	}

	status := datasets.Status()
	fmt.Printf("Dataset: %s (sample=%d, seed=%d)\n", *csvPath, *sample, *seed)
	fmt.Printf("Loaded %d of %d rows (%d dropped, %d null-filled)\n\n",
		status.Loaded, status.TotalRead, status.Dropped, status.NullFilled)

	m := dash.Metrics
	fmt.Printf("Games: %d  White: %d (%.1f%%)  Black: %d (%.1f%%)  Draws: %d (%.1f%%)\n",
		m.TotalGames, m.WhiteWins, m.WhitePct, m.BlackWins, m.BlackPct, m.Draws, m.DrawPct)

	section("Results")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "RESULT\tGAMES")
		for _, r := range dash.Results {
			fmt.Fprintf(w, "%s\t%d\n", r.Result, r.Count)
		}
	})

	section("Terminations")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "TERMINATION\tGAMES")
		for _, t := range dash.Terminations {
			fmt.Fprintf(w, "%s\t%d\n", t.Termination, t.Count)
		}
	})

	section("Rating distribution")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "BUCKET\tWHITE\tBLACK")
		for _, b := range dash.EloHistogram {
			fmt.Fprintf(w, "%d\t%d\t%d\n", b.Bucket, b.White, b.Black)
		}
	})

	section("Win rate of the higher-rated player")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "RATING GAP\tGAMES\tWIN RATE")
		for _, b := range dash.WinRateByEloDiff {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", b.Bin, b.Games, b.WinRate)
		}
	})

	section("Draw rate by average rating")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "RATING\tGAMES\tDRAW RATE")
		for _, b := range dash.DrawRateByElo {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", b.Bucket, b.Games, b.DrawRate)
		}
	})

	section("Top openings")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "OPENING\tGAMES")
		for _, o := range dash.TopOpenings {
			fmt.Fprintf(w, "%s\t%d\n", o.Opening, o.Count)
		}
	})

	section("Opening categories")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "CATEGORY\tGAMES")
		for _, c := range dash.OpeningCategories {
			fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Count)
		}
	})

	section("Outcomes by opening category")
	outcomes(dash.OutcomesByCategory)

	section("Time control classes")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "CLASS\tGAMES")
		for _, t := range dash.TimeClasses {
			fmt.Fprintf(w, "%s\t%d\n", t.TimeClass, t.Count)
		}
	})

	section("Outcomes by time control class")
	outcomes(dash.OutcomesByTimeClass)

	section("Games by hour (UTC)")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "HOUR\tGAMES")
		for _, h := range dash.GamesByHour {
			fmt.Fprintf(w, "%02d:00\t%d\n", h.Hour, h.Count)
		}
	})

	section("Games by day of week")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "DAY\tGAMES")
		for _, d := range dash.GamesByDay {
			fmt.Fprintf(w, "%s\t%d\n", d.Day, d.Count)
		}
	})
}

func section(title string) {
	fmt.Printf("\n== %s ==\n", title)
}

func table(fill func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fill(w)
	w.Flush()
}

func outcomes(rows []models.OutcomeStat) {
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "GROUP\tGAMES\tWHITE\tBLACK\tDRAW")
		for _, o := range rows {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.1f%%\t%.1f%%\n", o.Group, o.Games, o.WhitePct, o.BlackPct, o.DrawPct)
		}
	})
}
