package notification

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// RequestLinkPrefix marks notifications that belong to a request thread.
const RequestLinkPrefix = "/dashboard/requests/"

func IsRequestLink(link string) bool {
	return strings.HasPrefix(link, RequestLinkPrefix) && len(link) > len(RequestLinkPrefix)
}

func NewRequestLink(id uuid.UUID) string {
	return RequestLinkPrefix + id.String()
}

// GroupByLink groups items by exact link. Each group is ordered by
// CreatedAt ascending; ties keep input order.
func GroupByLink(items []Notification) map[string][]Notification {
	groups := make(map[string][]Notification)
	for _, n := range items {
		groups[n.Link] = append(groups[n.Link], n)
	}
	for link := range groups {
		g := groups[link]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].CreatedAt.Before(g[j].CreatedAt)
		})
	}
	return groups
}

type Conversation struct {
	Link     string
	Messages []Notification
}

func (c Conversation) Latest() Notification {
	if len(c.Messages) == 0 {
		return Notification{}
	}
	return c.Messages[len(c.Messages)-1]
}

// Conversations returns the groups of GroupByLink, most recently active
// first.
func Conversations(items []Notification) []Conversation {
	groups := GroupByLink(items)
	out := make([]Conversation, 0, len(groups))
	for link, msgs := range groups {
		out = append(out, Conversation{Link: link, Messages: msgs})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].Latest().CreatedAt, out[j].Latest().CreatedAt
		if li.Equal(lj) {
			return out[i].Link < out[j].Link
		}
		return li.After(lj)
	})
	return out
}

// ReplyRecipient returns the first employer receiver found in the thread,
// or nil when no message in it was addressed to an employer.
func ReplyRecipient(messages []Notification) *uuid.UUID {
	for _, m := range messages {
		if m.EmployerReceiverID != nil {
			id := *m.EmployerReceiverID
			return &id
		}
	}
	return nil
}

// EmployeeRecipient is the employer-side counterpart of ReplyRecipient.
func EmployeeRecipient(messages []Notification) *uuid.UUID {
	for _, m := range messages {
		if m.EmployeeReceiverID != nil {
			id := *m.EmployeeReceiverID
			return &id
		}
	}
	return nil
}
