package games

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Time control classes, bucketed by base time in seconds.
const (
	ClassBullet    = "Bullet (<3min)"
	ClassBlitz     = "Blitz (3-10min)"
	ClassRapid     = "Rapid (10-60min)"
	ClassClassical = "Classical (>60min)"
	ClassUnknown   = "Unknown"
)

// DayNames is the fixed Monday-first ordering used by the day-of-week chart.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const playedAtLayout = "2006.01.02 15:04:05"

// ParsePlayedAt combines the UTCDate and UTCTime columns into a timestamp.
func ParsePlayedAt(utcDate, utcTime string) (time.Time, bool) {
	t, err := time.Parse(playedAtLayout, utcDate+" "+utcTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseTimeControl splits a "base+increment" string into seconds.
// Correspondence-game markers ("-") and malformed values report ok=false.
func ParseTimeControl(tc string) (base, increment int, ok bool) {
	parts := strings.SplitN(tc, "+", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	base, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || base < 0 {
		return 0, 0, false
	}
	increment, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || increment < 0 {
		return 0, 0, false
	}
	return base, increment, true
}

// TimeClass buckets a time control string by its base time.
func TimeClass(tc string) string {
	base, _, ok := ParseTimeControl(tc)
	if !ok {
		return ClassUnknown
	}
	switch {
	case base < 180:
		return ClassBullet
	case base < 600:
		return ClassBlitz
	case base < 3600:
		return ClassRapid
	default:
		return ClassClassical
	}
}

var ecoCategories = map[byte]string{
	'A': "Flank Openings",
	'B': "Semi-Open Games",
	'C': "Open Games",
	'D': "Closed Games",
	'E': "Indian Defenses",
}

// OpeningCategory maps an ECO code to its coarse category by first letter.
func OpeningCategory(eco string) string {
	eco = strings.ToUpper(strings.TrimSpace(eco))
	if eco == "" || eco == "?" {
		return "Unknown"
	}
	if cat, ok := ecoCategories[eco[0]]; ok {
		return cat
	}
	return "Other"
}

// Known termination reasons from the source dataset.
var terminations = map[string]bool{
	"Normal":           true,
	"Time forfeit":     true,
	"Abandoned":        true,
	"Rules infraction": true,
}

// NormalizeTermination collapses unrecognized termination strings to "Unknown".
func NormalizeTermination(t string) string {
	t = strings.TrimSpace(t)
	if terminations[t] {
		return t
	}
	if t == "" {
		return "Unknown"
	}
	// Keep unusual but non-empty reasons as-is so they still show up in
	// the termination chart.
	return t
}

// ValidResult reports whether a Result column value is one of the three
// countable outcomes. "*" marks an unfinished game.
func ValidResult(result string) bool {
	switch result {
	case "1-0", "0-1", "1/2-1/2":
		return true
	}
	return false
}

var (
	moveMarkerRe         = regexp.MustCompile(`\d+\.`)
	continuationMarkerRe = regexp.MustCompile(`\d+\.\.\.`)
)

// MoveCount counts numbered move markers in a movetext string.
// Continuation markers ("5...") count on top of their move number.
func MoveCount(an string) int {
	if an == "" {
		return 0
	}
	return len(moveMarkerRe.FindAllString(an, -1)) + len(continuationMarkerRe.FindAllString(an, -1))
}

// ParseElo parses a rating column. "?" and empty values are null.
func ParseElo(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "?" {
		return 0, false
	}
	elo, err := strconv.Atoi(s)
	if err != nil || elo <= 0 {
		return 0, false
	}
	return elo, true
}

// ParseRatingDiff parses a signed rating delta column. Null for abandoned
// games where the site did not adjust ratings.
func ParseRatingDiff(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return d, true
}
