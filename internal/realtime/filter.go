package realtime

import "github.com/google/uuid"

// Filter is what a websocket client asked to be told about.
type Filter struct {
	Table  string
	Event  EventType
	UserID *uuid.UUID
}

// Matches applies the table and event selectors, then scopes user-owned rows
// to their receiver. Rows without receivers reach every matching client.
func (f Filter) Matches(evt ChangeEvent) bool {
	if f.Table != AnyTable && f.Table != evt.Table {
		return false
	}
	if f.Event != EventAny && f.Event != evt.Event {
		return false
	}
	if evt.EmployeeID == nil && evt.EmployerID == nil {
		return true
	}
	if f.UserID == nil {
		return false
	}
	if evt.EmployeeID != nil && *evt.EmployeeID == *f.UserID {
		return true
	}
	return evt.EmployerID != nil && *evt.EmployerID == *f.UserID
}
