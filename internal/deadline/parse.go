package deadline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DaysToken is the word that follows the count in a relative deadline.
const DaysToken = "dias"

// maxYear is the last year a due date may fall in; RFC 3339 timestamps,
// and so the persisted list, cannot carry later ones.
const maxYear = 9999

// maxRelativeDays keeps AddDate far from overflow before the year check.
const maxRelativeDays = 10000 * 366

var (
	relativeRe = regexp.MustCompile(`^(\d+)\s*` + DaysToken + `$`)
	absoluteRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ParseInput turns "N dias" or "DD/MM/YYYY" into a due date at midnight in
// today's location. The boolean is false when raw matches neither form,
// names a day that does not exist, or lands after year 9999.
func ParseInput(raw string, today time.Time) (time.Time, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))

	if m := relativeRe.FindStringSubmatch(v); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil || days < 0 || days > maxRelativeDays {
			return time.Time{}, false
		}
		due := DateOf(today).AddDate(0, 0, days)
		if due.Year() > maxYear {
			return time.Time{}, false
		}
		return due, true
	}

	if m := absoluteRe.FindStringSubmatch(v); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
		// time.Date normalizes 31/02 into March; reject anything that moved.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return time.Time{}, false
		}
		return t, true
	}

	return time.Time{}, false
}
