package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

// Notification is a row of the Notifications table. Exactly one of the two
// receiver ids is expected to be set; nothing enforces it.
type Notification struct {
	ID                 int64
	EmployeeReceiverID *uuid.UUID
	EmployerReceiverID *uuid.UUID
	Title              string
	Content            string
	Link               string
	Read               bool
	Hidden             bool
	CreatedAt          time.Time
}

type ReceiverKind string

const (
	ReceiverEmployee ReceiverKind = "employee"
	ReceiverEmployer ReceiverKind = "employer"
)

// Receiver addresses one side of the Notifications table.
type Receiver struct {
	Kind ReceiverKind
	ID   uuid.UUID
}

func EmployeeReceiver(id uuid.UUID) Receiver {
	return Receiver{Kind: ReceiverEmployee, ID: id}
}

func EmployerReceiver(id uuid.UUID) Receiver {
	return Receiver{Kind: ReceiverEmployer, ID: id}
}

// AddressedTo reports whether n is delivered to r.
func (n Notification) AddressedTo(r Receiver) bool {
	switch r.Kind {
	case ReceiverEmployee:
		return n.EmployeeReceiverID != nil && *n.EmployeeReceiverID == r.ID
	case ReceiverEmployer:
		return n.EmployerReceiverID != nil && *n.EmployerReceiverID == r.ID
	default:
		return false
	}
}

// SentBy reports whether n was written by the side r belongs to. Messages
// travel across sides, so an employer sent n when it targets an employee, and
// an employee sent n when it targets an employer or nobody.
func (n Notification) SentBy(r Receiver) bool {
	switch r.Kind {
	case ReceiverEmployee:
		return n.EmployeeReceiverID == nil
	case ReceiverEmployer:
		return n.EmployeeReceiverID != nil && n.EmployerReceiverID == nil
	default:
		return false
	}
}

// New builds an unread, visible notification for r.
func New(r Receiver, title, content, link string) Notification {
	n := Notification{Title: title, Content: content, Link: link}
	id := r.ID
	switch r.Kind {
	case ReceiverEmployee:
		n.EmployeeReceiverID = &id
	case ReceiverEmployer:
		n.EmployerReceiverID = &id
	}
	return n
}
