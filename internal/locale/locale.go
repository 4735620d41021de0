package locale

import "time"

// Layouts follow es-CL as rendered by browsers: day-month-year, 24h clock.
const (
	dateTimeLayout      = "02-01-2006, 15:04:05"
	shortDateTimeLayout = "02-01-2006, 15:04"
)

// FormatDateTime renders a registration timestamp for report rows.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return in(t, loc).Format(dateTimeLayout)
}

// FormatShortDateTime renders a timestamp without seconds, as success notices do.
func FormatShortDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return in(t, loc).Format(shortDateTimeLayout)
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
