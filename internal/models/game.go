package models

import "time"

// Game results as they appear in the source CSV.
const (
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

// Game is a single record from the lichess games CSV, plus the columns
// derived at load time. Records are immutable once ingested.
type Game struct {
	ID     int64 `json:"id"`
	RowSeq int64 `json:"row_seq"`

	Event  string `json:"event"`
	White  string `json:"white"`
	Black  string `json:"black"`
	Result string `json:"result"`

	PlayedAt  *time.Time `json:"played_at"`
	Hour      *int       `json:"hour"`
	DayOfWeek string     `json:"day_of_week"`

	WhiteElo        *int     `json:"white_elo"`
	BlackElo        *int     `json:"black_elo"`
	AvgElo          *float64 `json:"avg_elo"`
	EloDiff         *int     `json:"elo_diff"`
	WhiteRatingDiff *int     `json:"white_rating_diff"`
	BlackRatingDiff *int     `json:"black_rating_diff"`

	ECO             string `json:"eco"`
	Opening         string `json:"opening"`
	OpeningCategory string `json:"opening_category"`

	TimeControl   string `json:"time_control"`
	TimeBase      *int   `json:"time_base"`
	TimeIncrement *int   `json:"time_increment"`
	TimeClass     string `json:"time_class"`

	Termination string `json:"termination"`
	MoveCount   int    `json:"move_count"`
	Moves       string `json:"moves"`
}

// GameFilter selects games for the listing pages.
type GameFilter struct {
	Result    string
	TimeClass string
	Opening   string
	Player    string
	Limit     int
	Offset    int
	OrderBy   string
	OrderDir  string
}

// StatsFilter restricts aggregate queries to a slice of the dataset.
// Zero values mean "no restriction".
type StatsFilter struct {
	TimeClass string
	MinAvgElo float64
	MaxAvgElo float64
}
