package games_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmlira/chesslens/internal/games"
)

func TestParsePlayedAt(t *testing.T) {
	ts, ok := games.ParsePlayedAt("2016.06.30", "22:00:01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2016, 6, 30, 22, 0, 1, 0, time.UTC), ts)
	assert.Equal(t, "Thursday", ts.Weekday().String())

	_, ok = games.ParsePlayedAt("????.??.??", "22:00:01")
	assert.False(t, ok)

	_, ok = games.ParsePlayedAt("2016.06.30", "")
	assert.False(t, ok)
}

func TestParseTimeControl(t *testing.T) {
	base, inc, ok := games.ParseTimeControl("300+0")
	require.True(t, ok)
	assert.Equal(t, 300, base)
	assert.Equal(t, 0, inc)

	base, inc, ok = games.ParseTimeControl("180+2")
	require.True(t, ok)
	assert.Equal(t, 180, base)
	assert.Equal(t, 2, inc)

	for _, tc := range []string{"-", "", "abc", "300", "x+y"} {
		_, _, ok := games.ParseTimeControl(tc)
		assert.False(t, ok, "time control %q should not parse", tc)
	}
}

func TestTimeClass(t *testing.T) {
	tests := []struct {
		tc       string
		expected string
	}{
		{"60+0", games.ClassBullet},
		{"179+1", games.ClassBullet},
		{"180+0", games.ClassBlitz},
		{"300+3", games.ClassBlitz},
		{"600+0", games.ClassRapid},
		{"1800+10", games.ClassRapid},
		{"3600+0", games.ClassClassical},
		{"7200+30", games.ClassClassical},
		{"-", games.ClassUnknown},
		{"", games.ClassUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, games.TimeClass(tt.tc), "time control %q", tt.tc)
	}
}

func TestOpeningCategory(t *testing.T) {
	tests := []struct {
		eco      string
		expected string
	}{
		{"A00", "Flank Openings"},
		{"B20", "Semi-Open Games"},
		{"C50", "Open Games"},
		{"D35", "Closed Games"},
		{"E60", "Indian Defenses"},
		{"e60", "Indian Defenses"},
		{"Z99", "Other"},
		{"?", "Unknown"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, games.OpeningCategory(tt.eco), "eco %q", tt.eco)
	}
}

func TestNormalizeTermination(t *testing.T) {
	assert.Equal(t, "Normal", games.NormalizeTermination("Normal"))
	assert.Equal(t, "Time forfeit", games.NormalizeTermination(" Time forfeit "))
	assert.Equal(t, "Abandoned", games.NormalizeTermination("Abandoned"))
	assert.Equal(t, "Rules infraction", games.NormalizeTermination("Rules infraction"))
	assert.Equal(t, "Unknown", games.NormalizeTermination(""))
	assert.Equal(t, "Unterminated", games.NormalizeTermination("Unterminated"))
}

func TestValidResult(t *testing.T) {
	assert.True(t, games.ValidResult("1-0"))
	assert.True(t, games.ValidResult("0-1"))
	assert.True(t, games.ValidResult("1/2-1/2"))
	assert.False(t, games.ValidResult("*"))
	assert.False(t, games.ValidResult(""))
	assert.False(t, games.ValidResult("2-0"))
}

func TestMoveCount(t *testing.T) {
	assert.Equal(t, 3, games.MoveCount("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6"))
	assert.Equal(t, 1, games.MoveCount("1. e4 1-0"))
	assert.Equal(t, 4, games.MoveCount("1. e4 1... c5 2. Nf3"))
	assert.Equal(t, 0, games.MoveCount(""))
}

func TestParseElo(t *testing.T) {
	elo, ok := games.ParseElo("1850")
	require.True(t, ok)
	assert.Equal(t, 1850, elo)

	for _, s := range []string{"", "?", "abc", "-100", "0"} {
		_, ok := games.ParseElo(s)
		assert.False(t, ok, "elo %q should not parse", s)
	}
}

func TestParseRatingDiff(t *testing.T) {
	d, ok := games.ParseRatingDiff("-11")
	require.True(t, ok)
	assert.Equal(t, -11, d)

	d, ok = games.ParseRatingDiff("+7")
	require.True(t, ok)
	assert.Equal(t, 7, d)

	_, ok = games.ParseRatingDiff("")
	assert.False(t, ok)
}
