package application

import "strings"

const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusAccepted  = "accepted"
)

const DefaultBadge = "bg-gray-100 text-gray-800"

var badges = map[string]string{
	StatusPending:   "bg-yellow-100 text-yellow-800",
	StatusReviewed:  "bg-blue-100 text-blue-800",
	StatusInterview: "bg-purple-100 text-purple-800",
	StatusRejected:  "bg-red-100 text-red-800",
	StatusAccepted:  "bg-green-100 text-green-800",
}

// Statuses lists the known statuses in workflow order.
func Statuses() []string {
	return []string{StatusPending, StatusReviewed, StatusInterview, StatusRejected, StatusAccepted}
}

// NormalizeStatus lowercases and trims s, and reports whether the result is
// a known status. Stored rows are not consistent in case.
func NormalizeStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	_, ok := badges[s]
	return s, ok
}

// Badge maps any status string to its badge class, falling back to
// DefaultBadge for unknown values.
func Badge(status string) string {
	s, ok := NormalizeStatus(status)
	if !ok {
		return DefaultBadge
	}
	return badges[s]
}
