package internal

import "time"

const (
	// DisplayTimeFormat is MM/DD/YYYY HH:MM:SS, used for table cells
	DisplayTimeFormat = "01/02/2006 15:04:05"
	// LogTimeFormat is the short time format used in status lines
	LogTimeFormat = "15:04:05"
)

// FormatIn formats t in the standard display format in loc (time.Local when nil)
func FormatIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayTimeFormat)
}

// FormatClock formats t in the short status-line format (local time)
func FormatClock(t time.Time) string {
	return t.Local().Format(LogTimeFormat)
}
