package orders

import "time"

// DateLayout is the format of dailyStatuses keys. Keys in this layout sort
// lexicographically in chronological order.
const DateLayout = "2006-01-02"

// DateKey formats t as a dailyStatuses key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDateKey reports whether key is a well-formed YYYY-MM-DD calendar date.
func ValidDateKey(key string) bool {
	if len(key) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, key)
	return err == nil
}
