package models

// KeyMetrics are the headline numbers on the dashboard.
type KeyMetrics struct {
	TotalGames int     `json:"total_games"`
	WhiteWins  int     `json:"white_wins"`
	BlackWins  int     `json:"black_wins"`
	Draws      int     `json:"draws"`
	WhitePct   float64 `json:"white_pct"`
	BlackPct   float64 `json:"black_pct"`
	DrawPct    float64 `json:"draw_pct"`
}

type ResultStat struct {
	Result string `json:"result"`
	Count  int    `json:"count"`
}

type TerminationStat struct {
	Termination string `json:"termination"`
	Count       int    `json:"count"`
}

// EloHistogramBin counts white and black ratings that fall into the
// 100-point bucket starting at Bucket.
type EloHistogramBin struct {
	Bucket int `json:"bucket"`
	White  int `json:"white"`
	Black  int `json:"black"`
}

// EloDiffStat is the win rate of the higher-rated player within one
// rating-difference bin.
type EloDiffStat struct {
	Bin     string  `json:"bin"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// EloBucketStat is the draw rate within one average-Elo bucket.
type EloBucketStat struct {
	Bucket   string  `json:"bucket"`
	Games    int     `json:"games"`
	DrawRate float64 `json:"draw_rate"`
}

type OpeningStat struct {
	Opening string `json:"opening"`
	Count   int    `json:"count"`
}

type OpeningCategoryStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// OutcomeStat is the result share for one group (opening category or
// time class).
type OutcomeStat struct {
	Group    string  `json:"group"`
	Games    int     `json:"games"`
	WhitePct float64 `json:"white_pct"`
	BlackPct float64 `json:"black_pct"`
	DrawPct  float64 `json:"draw_pct"`
}

type TimeClassStat struct {
	TimeClass string `json:"time_class"`
	Count     int    `json:"count"`
}

type HourStat struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayStat struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DashboardStats bundles every aggregate the dashboard renders for one
// (sample, filter) tuple.
type DashboardStats struct {
	Metrics             KeyMetrics            `json:"metrics"`
	Results             []ResultStat          `json:"results"`
	Terminations        []TerminationStat     `json:"terminations"`
	EloHistogram        []EloHistogramBin     `json:"elo_histogram"`
	WinRateByEloDiff    []EloDiffStat         `json:"win_rate_by_elo_diff"`
	DrawRateByElo       []EloBucketStat       `json:"draw_rate_by_elo"`
	TopOpenings         []OpeningStat         `json:"top_openings"`
	OpeningCategories   []OpeningCategoryStat `json:"opening_categories"`
	OutcomesByCategory  []OutcomeStat         `json:"outcomes_by_category"`
	TimeClasses         []TimeClassStat       `json:"time_classes"`
	OutcomesByTimeClass []OutcomeStat         `json:"outcomes_by_time_class"`
	GamesByHour         []HourStat            `json:"games_by_hour"`
	GamesByDay          []DayStat             `json:"games_by_day"`
}

// FilterBounds tells the dashboard which filter values are available for
// the current dataset.
type FilterBounds struct {
	TimeClasses []string `json:"time_classes"`
	MinElo      int      `json:"min_elo"`
	MaxElo      int      `json:"max_elo"`
}
