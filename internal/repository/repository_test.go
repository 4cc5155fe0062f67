package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"teamleopard/internal/domain/application"
	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/realtime"
)

func TestClampLimit(t *testing.T) {
	cases := map[int]int{
		-1:  DefaultPostingLimit,
		0:   DefaultPostingLimit,
		10:  10,
		50:  50,
		500: MaxPostingLimit,
	}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPostingList_BuildsEqualityFilters(t *testing.T) {
	db := &fakeDB{}
	repo := NewPostgresPostingRepository(db, nil, nil)
	company := uuid.New()

	if _, err := repo.List(context.Background(), PostingFilter{
		EmploymentType: " Full-time ",
		CompanyID:      &company,
		Limit:          100,
		Offset:         -5,
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	c := db.last()
	if !strings.Contains(c.query, "jp.employment_type = $1") || !strings.Contains(c.query, `jp."company_ID" = $2`) {
		t.Fatalf("expected both filters in query, got %s", c.query)
	}
	if !strings.Contains(c.query, "LIMIT $3 OFFSET $4") {
		t.Fatalf("expected limit/offset placeholders, got %s", c.query)
	}
	if !strings.Contains(c.query, "ORDER BY jp.posted_at DESC") {
		t.Fatalf("expected newest first ordering")
	}
	want := []any{"Full-time", company, MaxPostingLimit, 0}
	if len(c.args) != len(want) {
		t.Fatalf("expected %d args, got %v", len(want), c.args)
	}
	for i := range want {
		if c.args[i] != want[i] {
			t.Fatalf("arg %d: expected %v, got %v", i, want[i], c.args[i])
		}
	}
}

func TestPostingList_NoFilters(t *testing.T) {
	db := &fakeDB{}
	repo := NewPostgresPostingRepository(db, nil, nil)

	if _, err := repo.List(context.Background(), PostingFilter{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c := db.last()
	if strings.Contains(c.query, "WHERE") {
		t.Fatalf("expected no WHERE clause, got %s", c.query)
	}
	if len(c.args) != 2 || c.args[0] != DefaultPostingLimit {
		t.Fatalf("unexpected args %v", c.args)
	}
}

func TestPostingList_ScansCompanyName(t *testing.T) {
	posted := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	company := uuid.New()
	db := &fakeDB{rows: []fakeRow{{vals: []any{
		int64(7), "Go Dev", "<p>x</p>", "Remote",
		"Full-time", "$50k - $70k", "open", posted,
		nil, `["Go"]`, company,
		"Leopard Labs",
	}}}}
	repo := NewPostgresPostingRepository(db, nil, nil)

	out, err := repo.List(context.Background(), PostingFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].ID != 7 || out[0].CompanyName != "Leopard Labs" || out[0].CompanyID != company {
		t.Fatalf("unexpected listing %+v", out[0])
	}
	if got := out[0].Skills(); len(got) != 1 || got[0] != "Go" {
		t.Fatalf("unexpected skills %v", got)
	}
}

func TestPostingDelete_NotOwned(t *testing.T) {
	db := &fakeDB{affected: 0}
	pub := &recordingPublisher{}
	repo := NewPostgresPostingRepository(db, pub, nil)

	err := repo.Delete(context.Background(), 3, uuid.New())
	if !errors.Is(err, posting.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.all()) != 0 {
		t.Fatalf("expected no change event for a no-op delete")
	}
}

func TestEmployeeCreate_PublishesEvent(t *testing.T) {
	db := &fakeDB{affected: 1}
	pub := &recordingPublisher{err: errors.New("broker down")}
	repo := NewPostgresEmployeeRepository(db, pub, nil)
	id := uuid.New()

	if err := repo.Create(context.Background(), employee.FromEmail(id, "jane@example.com")); err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}

	evts := pub.all()
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}
	e := evts[0]
	if e.Table != realtime.TableEmployee || e.Event != realtime.EventInsert || e.EmployeeID == nil || *e.EmployeeID != id {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.At.IsZero() {
		t.Fatalf("expected event timestamp")
	}
}

func TestEmployeeGetByID_NotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewPostgresEmployeeRepository(db, nil, nil)

	if _, err := repo.GetByID(context.Background(), uuid.New()); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationCreate_DuplicateMapsToAlreadyApplied(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: "23505"}}}
	repo := NewPostgresApplicationRepository(db, nil, nil)

	_, err := repo.Create(context.Background(), application.Application{EmployeeID: uuid.New(), JobPostingID: 1})
	if !errors.Is(err, application.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if args := db.last().args; args[len(args)-1] != application.StatusPending {
		t.Fatalf("expected default status pending, got %v", args[len(args)-1])
	}
}

func TestNotificationList_UsesReceiverColumn(t *testing.T) {
	db := &fakeDB{}
	repo := NewPostgresNotificationRepository(db, nil, nil)
	id := uuid.New()

	if _, err := repo.ListForReceiver(context.Background(), notification.EmployerReceiver(id), false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	q := db.last().query
	if !strings.Contains(q, "n.employer_receiver_id = $1") || !strings.Contains(q, "n.hidden = false") {
		t.Fatalf("unexpected query %s", q)
	}

	if _, err := repo.ListForReceiver(context.Background(), notification.EmployeeReceiver(id), true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	q = db.last().query
	if !strings.Contains(q, "n.employee_receiver_id = $1") || strings.Contains(q, "hidden = false") {
		t.Fatalf("unexpected query %s", q)
	}

	if _, err := repo.ListForReceiver(context.Background(), notification.Receiver{ID: id}, false); err == nil {
		t.Fatalf("expected error for unknown receiver kind")
	}
}

func TestNotificationSetRead_NotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewPostgresNotificationRepository(db, nil, nil)

	if err := repo.SetRead(context.Background(), 42, true); !errors.Is(err, notification.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSavedJobSave_EventOnlyWhenInserted(t *testing.T) {
	db := &fakeDB{affected: 0}
	pub := &recordingPublisher{}
	repo := NewPostgresSavedJobRepository(db, pub, nil)
	id := uuid.New()

	if err := repo.Save(context.Background(), id, 9); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pub.all()) != 0 {
		t.Fatalf("expected no event when the row already existed")
	}

	db.affected = 1
	if err := repo.Save(context.Background(), id, 9); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	evts := pub.all()
	if len(evts) != 1 || evts[0].Table != realtime.TableSavedJobs || evts[0].RecordID != id.String()+":9" {
		t.Fatalf("unexpected events %+v", evts)
	}
}

func TestEmployerStats_SumsStatuses(t *testing.T) {
	db := &fakeDB{
		row: fakeRow{vals: []any{4, 3}},
		rows: []fakeRow{
			{vals: []any{"pending", 2}},
			{vals: []any{"accepted", 1}},
		},
	}
	repo := NewPostgresStatsRepository(db)

	st, err := repo.EmployerStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.TotalPostings != 4 || st.OpenPostings != 3 || st.TotalApplications != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ByStatus["pending"] != 2 || st.ByStatus["accepted"] != 1 {
		t.Fatalf("unexpected per-status counts %v", st.ByStatus)
	}
}
