package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGroupByLink(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []Notification{
		{ID: 3, Link: "/dashboard/requests/42", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Link: "/dashboard", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Link: "/dashboard/requests/42", CreatedAt: base},
	}

	groups := GroupByLink(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	thread := groups["/dashboard/requests/42"]
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages in thread, got %d", len(thread))
	}
	if thread[0].ID != 1 || thread[1].ID != 3 {
		t.Fatalf("expected created_at ascending order, got ids %d,%d", thread[0].ID, thread[1].ID)
	}
	if len(groups["/dashboard"]) != 1 {
		t.Fatalf("expected 1 message for /dashboard")
	}
}

func TestConversations_MostRecentFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []Notification{
		{ID: 1, Link: "/dashboard/requests/a", CreatedAt: base},
		{ID: 2, Link: "/dashboard/requests/b", CreatedAt: base.Add(time.Hour)},
		{ID: 3, Link: "/dashboard/requests/a", CreatedAt: base.Add(2 * time.Hour)},
	}

	convs := Conversations(items)
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].Link != "/dashboard/requests/a" {
		t.Fatalf("expected thread a first, got %s", convs[0].Link)
	}
	if convs[0].Latest().ID != 3 {
		t.Fatalf("expected latest id 3, got %d", convs[0].Latest().ID)
	}
}

func TestReplyRecipient(t *testing.T) {
	employer := uuid.New()
	employee := uuid.New()

	withEmployer := []Notification{
		{ID: 1, EmployeeReceiverID: &employee},
		{ID: 2, EmployerReceiverID: &employer},
	}
	got := ReplyRecipient(withEmployer)
	if got == nil || *got != employer {
		t.Fatalf("expected employer %s, got %v", employer, got)
	}

	withoutEmployer := []Notification{{ID: 1, EmployeeReceiverID: &employee}}
	if got := ReplyRecipient(withoutEmployer); got != nil {
		t.Fatalf("expected nil recipient, got %v", *got)
	}

	if got := EmployeeRecipient(withEmployer); got == nil || *got != employee {
		t.Fatalf("expected employee %s, got %v", employee, got)
	}
}

func TestIsRequestLink(t *testing.T) {
	if !IsRequestLink("/dashboard/requests/42") {
		t.Fatalf("expected request link")
	}
	if IsRequestLink("/dashboard") || IsRequestLink(RequestLinkPrefix) {
		t.Fatalf("expected non-request links")
	}
}

func TestSentBy(t *testing.T) {
	employer := uuid.New()
	employee := uuid.New()

	toEmployee := Notification{EmployeeReceiverID: &employee}
	toEmployer := Notification{EmployerReceiverID: &employer}
	noRecipient := Notification{}

	cases := []struct {
		name string
		n    Notification
		r    Receiver
		want bool
	}{
		{"employer wrote to employee", toEmployee, EmployerReceiver(employer), true},
		{"employee reads employer message", toEmployee, EmployeeReceiver(employee), false},
		{"employee wrote to employer", toEmployer, EmployeeReceiver(employee), true},
		{"employer reads employee reply", toEmployer, EmployerReceiver(employer), false},
		{"employee reply without recipient", noRecipient, EmployeeReceiver(employee), true},
		{"employer sees recipientless reply", noRecipient, EmployerReceiver(employer), false},
	}
	for _, tc := range cases {
		if got := tc.n.SentBy(tc.r); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
