// Package age renders publish times as short relative labels.
package age

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Format returns a relative label for published measured against now.
// A nil published time yields "". Future timestamps are reported as "Just now".
func Format(published *time.Time, now time.Time) string {
	if published == nil {
		return ""
	}

	elapsed := int64(now.Sub(*published) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	days := elapsed / secondsPerDay
	switch {
	case days == 0:
		hours := elapsed / secondsPerHour
		if hours > 0 {
			return fmt.Sprintf("%dh ago", hours)
		}
		if minutes := elapsed / secondsPerMinute; minutes > 0 {
			return fmt.Sprintf("%dm ago", minutes)
		}
		return "Just now"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return published.Format("Jan 02")
	}
}
