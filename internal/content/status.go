package content

import "strings"

// Severity buckets for free-form publish status text.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityFailed  Severity = "failed"
	SeverityPending Severity = "pending"
	SeverityUnknown Severity = "unknown"
)

// ClassifyStatus maps free-form publisher status text to a severity bucket
// by case-insensitive substring match. The publisher contract is not under
// our control, so the whole fragile mapping lives here and nowhere else.
func ClassifyStatus(status string) Severity {
	s := strings.ToLower(status)
	switch {
	case s == "":
		return SeverityUnknown
	case strings.Contains(s, "success") || strings.Contains(s, "posted") || strings.Contains(s, "published"):
		return SeveritySuccess
	case strings.Contains(s, "fail") || strings.Contains(s, "error"):
		return SeverityFailed
	case strings.Contains(s, "pending") || strings.Contains(s, "retry") || strings.Contains(s, "rate"):
		return SeverityPending
	default:
		return SeverityUnknown
	}
}
