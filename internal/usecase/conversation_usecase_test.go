package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/session"
)

func TestConversations_StartRequestAndReply(t *testing.T) {
	repo := &memNotifications{}
	employees := newMockEmployeeRepo()
	worker := employee.FromEmail(uuid.New(), "sam@example.com")
	employees.rows[worker.ID] = worker

	uc := NewConversationsUsecase(repo, employees, nil)
	boss := session.Session{UserID: uuid.New(), Role: session.RoleEmployer}

	link, err := uc.StartRequest(context.Background(), boss, StartRequestInput{EmployeeID: worker.ID, Title: "Interview", Content: "Are you free Monday?"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !notification.IsRequestLink(link) {
		t.Fatalf("unexpected link %q", link)
	}
	if rows := repo.all(); len(rows) != 2 {
		t.Fatalf("expected request and sent copy, got %d rows", len(rows))
	}

	me := session.Session{UserID: worker.ID, Role: session.RoleEmployee}
	reply, err := uc.Reply(context.Background(), me, ReplyInput{Link: link, Content: "Yes"})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.EmployerReceiverID == nil || *reply.EmployerReceiverID != boss.UserID {
		t.Fatalf("expected reply addressed to the employer")
	}
	if reply.Title != "Re: Interview" {
		t.Fatalf("unexpected reply title %q", reply.Title)
	}

	convs, err := uc.List(context.Background(), boss)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	c := convs[0]
	if len(c.Messages) != 2 {
		t.Fatalf("expected sent copy to be hidden from the thread, got %d messages", len(c.Messages))
	}
	if !c.Messages[0].Mine || c.Messages[1].Mine {
		t.Fatalf("unexpected ownership flags: %+v", c.Messages)
	}
	if c.Unread != 1 {
		t.Fatalf("expected 1 unread for employer, got %d", c.Unread)
	}
}

func TestConversations_Reply_NoEmployerInThread(t *testing.T) {
	repo := &memNotifications{}
	me := employeeSession()
	link := notification.NewRequestLink(uuid.New())
	if _, err := repo.Create(context.Background(), notification.New(me.Receiver(), "Hello", "hi", link)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewConversationsUsecase(repo, newMockEmployeeRepo(), nil)
	reply, err := uc.Reply(context.Background(), me, ReplyInput{Link: link, Content: "hi back"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reply.EmployerReceiverID != nil || reply.EmployeeReceiverID != nil {
		t.Fatalf("expected reply without recipient, got %+v", reply)
	}
}

func TestConversations_Validation(t *testing.T) {
	uc := NewConversationsUsecase(&memNotifications{}, newMockEmployeeRepo(), nil)
	me := employeeSession()

	if _, err := uc.Reply(context.Background(), me, ReplyInput{Link: "/dashboard/other", Content: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-request link, got %v", err)
	}
	if _, err := uc.Reply(context.Background(), me, ReplyInput{Link: notification.NewRequestLink(uuid.New()), Content: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty content, got %v", err)
	}
	if _, err := uc.StartRequest(context.Background(), me, StartRequestInput{EmployeeID: uuid.New(), Title: "t", Content: "c"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}

	boss := session.Session{UserID: uuid.New(), Role: session.RoleEmployer}
	if _, err := uc.StartRequest(context.Background(), boss, StartRequestInput{EmployeeID: uuid.New(), Title: "t", Content: "c"}); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown employee, got %v", err)
	}
}

func TestConversations_List_RecipientlessReplyIsNotEmployers(t *testing.T) {
	repo := &memNotifications{}
	boss := session.Session{UserID: uuid.New(), Role: session.RoleEmployer}
	worker := employeeSession()
	link := notification.NewRequestLink(uuid.New())

	if _, err := repo.Create(context.Background(), notification.New(worker.Receiver(), "Interview", "Monday?", link)); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	sent := notification.New(boss.Receiver(), "Interview", "Monday?", link)
	sent.Hidden = true
	if _, err := repo.Create(context.Background(), sent); err != nil {
		t.Fatalf("seed employer copy: %v", err)
	}
	if _, err := repo.Create(context.Background(), notification.Notification{Title: "Re: Interview", Content: "Yes", Link: link}); err != nil {
		t.Fatalf("seed reply: %v", err)
	}

	convs, err := NewConversationsUsecase(repo, newMockEmployeeRepo(), nil).List(context.Background(), boss)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	msgs := convs[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected request and reply, got %d messages", len(msgs))
	}
	if !msgs[0].Mine {
		t.Fatalf("expected the employer's request to be marked as own")
	}
	if msgs[1].Mine {
		t.Fatalf("expected the recipientless employee reply not to be the employer's own")
	}
}
