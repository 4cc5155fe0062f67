package realtime

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TableEmployee      = "Employee"
	TableEmployer      = "Employer"
	TableJobPosting    = "Job_Posting"
	TableApplications  = "Applications"
	TableSavedJobs     = "Saved_Jobs"
	TableNotifications = "Notifications"

	// AnyTable subscribes to every table.
	AnyTable = "*"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	EventAny    EventType = "*"
)

// ChangeEvent describes one row mutation. Receiver ids are set for rows that
// belong to a single user so that fan-out can be scoped.
type ChangeEvent struct {
	Table      string     `json:"table"`
	Event      EventType  `json:"event"`
	RecordID   string     `json:"record_id"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	EmployerID *uuid.UUID `json:"employer_id,omitempty"`
	At         time.Time  `json:"at"`
}

type EventFunc func(ChangeEvent)

type Publisher interface {
	Publish(ctx context.Context, evt ChangeEvent) error
}

type Subscriber interface {
	// Subscribe registers fn for events of table (or AnyTable). The returned
	// function removes the subscription.
	Subscribe(table string, fn EventFunc) (func() error, error)
}

type Broker interface {
	Publisher
	Subscriber
	Close() error
}

func ParseEventType(s string) (EventType, bool) {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventInsert:
		return EventInsert, true
	case EventUpdate:
		return EventUpdate, true
	case EventDelete:
		return EventDelete, true
	case "", EventAny:
		return EventAny, true
	default:
		return "", false
	}
}

func KnownTable(table string) bool {
	switch table {
	case TableEmployee, TableEmployer, TableJobPosting, TableApplications, TableSavedJobs, TableNotifications, AnyTable:
		return true
	default:
		return false
	}
}
