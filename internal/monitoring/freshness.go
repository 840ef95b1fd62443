package monitoring

import "time"

// ShouldReuse reports whether a stored analysis created at previous is still fresh.
// A nil previous means no analysis exists. The whole analysis is reused or the
// whole pipeline reruns.
func ShouldReuse(previous *time.Time, now time.Time, ttl time.Duration) bool {
	if previous == nil {
		return false
	}
	return now.Sub(*previous) < ttl
}
