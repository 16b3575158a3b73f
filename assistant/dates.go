package assistant

import "time"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// parseDate parses a date string, trying "YYYY-MM-DD HH:MM" first and
// falling back to "YYYY-MM-DD".
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}
