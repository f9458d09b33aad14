package deadline

import "time"

type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusDue      Status = "due"
	StatusUpcoming Status = "upcoming"
	StatusSafe     Status = "safe"
)

const secondsPerDay = 24 * 60 * 60

// UpcomingWindow is the number of days ahead still classified as upcoming.
const UpcomingWindow = 7

// Deadline is one tracked commitment. Only Status changes after creation.
type Deadline struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Recipient     string    `json:"recipient"`
	DueDate       time.Time `json:"dueDate"`
	OriginalInput string    `json:"originalInput"`
	Status        Status    `json:"status"`
}

// DateOf truncates t to midnight of its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from one date to another.
// Only the year, month and day of each value are used, so days that are 23
// or 25 hours long still count as one.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

func Classify(due, today time.Time) Status {
	diff := DaysBetween(today, due)
	switch {
	case diff < 0:
		return StatusOverdue
	case diff == 0:
		return StatusDue
	case diff <= UpcomingWindow:
		return StatusUpcoming
	default:
		return StatusSafe
	}
}
