package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamleopard/internal/delivery/http/middleware"
	"teamleopard/internal/domain/application"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/infrastructure/storage"
	"teamleopard/internal/pkg/jwt"
	"teamleopard/internal/pkg/response"
	"teamleopard/internal/usecase"
)

var testSession = session.Session{
	UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	Email:  "jane@example.com",
	Role:   session.RoleEmployee,
}

// newTestApp mounts the error middleware and, when sess is set, a stand-in
// for the auth middleware.
func newTestApp(sess *session.Session) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	if sess != nil {
		s := *sess
		app.Use(func(c fiber.Ctx) error {
			c.Locals(middleware.CtxSessionKey, s)
			return c.Next()
		})
	}
	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, body
}

type fakeJobs struct {
	items  []usecase.JobListItem
	err    error
	params usecase.JobListParams
}

func (f *fakeJobs) ListJobs(_ context.Context, params usecase.JobListParams) ([]usecase.JobListItem, error) {
	f.params = params
	return f.items, f.err
}

func (f *fakeJobs) GetJob(_ context.Context, id int64) (usecase.JobListItem, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return usecase.JobListItem{}, posting.ErrNotFound
}

func TestJobsHandler_List(t *testing.T) {
	uc := &fakeJobs{items: []usecase.JobListItem{{ID: 1, Title: "Go Engineer", PostedAt: time.Now()}}}
	app := newTestApp(nil)
	NewJobsHandler(uc).RegisterRoutes(app)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/jobs?limit=5&min_salary=1000&q=go", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var jobs []map[string]any
	if err := json.Unmarshal(body.Data, &jobs); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(jobs) != 1 || jobs[0]["title"] != "Go Engineer" {
		t.Fatalf("unexpected jobs %v", jobs)
	}
	if uc.params.Limit != 5 || uc.params.MinSalary == nil || *uc.params.MinSalary != 1000 || uc.params.Query != "go" {
		t.Fatalf("unexpected params %+v", uc.params)
	}
}

func TestJobsHandler_BadInput(t *testing.T) {
	app := newTestApp(nil)
	NewJobsHandler(&fakeJobs{err: usecase.ErrInvalidInput}).RegisterRoutes(app)

	for _, target := range []string{"/jobs?limit=abc", "/jobs?company_id=nope", "/jobs?limit=400"} {
		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		if status != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, status)
		}
	}

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/jobs/9", nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

type fakeNotifications struct {
	result  usecase.NotificationResult
	err     error
	gotRead *bool
}

func (f *fakeNotifications) List(context.Context, session.Session, bool) ([]usecase.NotificationView, error) {
	return nil, f.err
}

func (f *fakeNotifications) Apply(_ context.Context, _ session.Session, _ int64, _ notification.Transition) (usecase.NotificationResult, error) {
	return f.result, f.err
}

func (f *fakeNotifications) SetRead(_ context.Context, _ session.Session, _ int64, read bool) (usecase.NotificationResult, error) {
	f.gotRead = &read
	return f.result, f.err
}

func (f *fakeNotifications) MarkAllRead(context.Context, session.Session) (int64, error) {
	return 0, f.err
}

func (f *fakeNotifications) UnreadCount(context.Context, session.Session) (int, error) {
	return 3, f.err
}

func TestNotificationsHandler_SetReadNotPersisted(t *testing.T) {
	uc := &fakeNotifications{result: usecase.NotificationResult{
		Notification: usecase.NotificationView{Notification: notification.Notification{ID: 4, Read: true}},
		Persisted:    false,
	}}
	app := newTestApp(&testSession)
	NewNotificationsHandler(uc).RegisterRoutes(app.Group("/notifications"))

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodPatch, "/notifications/4/read", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.gotRead == nil || !*uc.gotRead {
		t.Fatalf("expected read to default to true")
	}
	var data struct {
		Persisted bool `json:"persisted"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Persisted || body.Message != "not persisted" {
		t.Fatalf("expected unpersisted result, got %s %s", body.Message, body.Data)
	}
}

func TestNotificationsHandler_SetReadFalse(t *testing.T) {
	uc := &fakeNotifications{result: usecase.NotificationResult{Persisted: true}}
	app := newTestApp(&testSession)
	NewNotificationsHandler(uc).RegisterRoutes(app.Group("/notifications"))

	req := httptest.NewRequest(http.MethodPatch, "/notifications/4/read", strings.NewReader(`{"read":false}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ := doRequest(t, app, req)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.gotRead == nil || *uc.gotRead {
		t.Fatalf("expected read=false to be passed through")
	}
}

func TestNotificationsHandler_RequiresSession(t *testing.T) {
	app := newTestApp(nil)
	NewNotificationsHandler(&fakeNotifications{}).RegisterRoutes(app.Group("/notifications"))

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil))
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

type fakeApplications struct {
	in      usecase.SubmitInput
	content string
	err     error
}

func (f *fakeApplications) Submit(_ context.Context, sess session.Session, in usecase.SubmitInput) (application.Application, error) {
	f.in = in
	if in.Resume != nil {
		b, _ := io.ReadAll(in.Resume.Content)
		f.content = string(b)
	}
	if f.err != nil {
		return application.Application{}, f.err
	}
	return application.Application{ID: 100, EmployeeID: sess.UserID, JobPostingID: in.PostingID, Status: application.StatusPending}, nil
}

func (f *fakeApplications) ListMine(context.Context, session.Session) ([]usecase.ApplicationView, error) {
	return nil, nil
}

func (f *fakeApplications) ListResumes(context.Context, session.Session) ([]usecase.StoredResume, error) {
	return nil, nil
}

func multipartSubmit(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("job_posting_id", "7")
	_ = w.WriteField("cover_letter", "hello")
	fw, err := w.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4"))
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/applications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestApplicationsHandler_Submit(t *testing.T) {
	uc := &fakeApplications{}
	app := newTestApp(&testSession)
	NewApplicationsHandler(uc).RegisterRoutes(app)

	status, _ := doRequest(t, app, multipartSubmit(t))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if uc.in.PostingID != 7 || uc.in.CoverLetter != "hello" {
		t.Fatalf("unexpected input %+v", uc.in)
	}
	if uc.in.Resume == nil || uc.in.Resume.FileName != "cv.pdf" || uc.content != "%PDF-1.4" {
		t.Fatalf("expected resume upload to be passed through")
	}
}

func TestApplicationsHandler_SubmitErrors(t *testing.T) {
	cases := map[error]int{
		application.ErrAlreadyApplied: fiber.StatusConflict,
		usecase.ErrPostingClosed:      fiber.StatusUnprocessableEntity,
		posting.ErrNotFound:           fiber.StatusNotFound,
		usecase.ErrForbidden:          fiber.StatusForbidden,
	}
	for cause, want := range cases {
		app := newTestApp(&testSession)
		NewApplicationsHandler(&fakeApplications{err: cause}).RegisterRoutes(app)

		status, _ := doRequest(t, app, multipartSubmit(t))
		if status != want {
			t.Fatalf("%v: expected %d, got %d", cause, want, status)
		}
	}
}

type fakeObjects struct {
	authErr error
	body    string
}

func (f fakeObjects) Authorize(_, _ string) error { return f.authErr }

func (f fakeObjects) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	if f.body == "" {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestFilesHandler(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	NewFilesHandler(fakeObjects{body: "resume"}).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/files/cv/u1/1700000000000_My%20CV.pdf?token=t", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, "My CV.pdf") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "resume" {
		t.Fatalf("unexpected body %q", b)
	}
}

func TestFilesHandler_Rejections(t *testing.T) {
	cases := []struct {
		store fakeObjects
		want  int
	}{
		{fakeObjects{authErr: jwt.ErrTokenExpired}, fiber.StatusForbidden},
		{fakeObjects{authErr: jwt.ErrTokenInvalid}, fiber.StatusForbidden},
		{fakeObjects{authErr: storage.ErrInvalidPath}, fiber.StatusBadRequest},
		{fakeObjects{}, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		app := newTestApp(nil)
		NewFilesHandler(tc.store).RegisterRoutes(app)

		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/files/cv/u1/a.pdf?token=t", nil))
		if status != tc.want {
			t.Fatalf("%+v: expected %d, got %d", tc.store, tc.want, status)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	down := func(context.Context) error { return errors.New("down") }
	up := func(context.Context) error { return nil }

	app := newTestApp(nil)
	NewHealthHandler(HealthCheck{Name: "database", Check: up}, HealthCheck{Name: "redis", Check: down, Optional: true}).RegisterRoutes(app)
	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if status != fiber.StatusOK || body.Message != response.MessageOK {
		t.Fatalf("expected healthy with degraded cache, got %d %s", status, body.Message)
	}

	app = newTestApp(nil)
	NewHealthHandler(HealthCheck{Name: "database", Check: down}).RegisterRoutes(app)
	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestMapUsecaseError(t *testing.T) {
	cases := map[error]int{
		usecase.ErrInvalidInput:           fiber.StatusBadRequest,
		usecase.ErrInvalidCredentials:     fiber.StatusUnauthorized,
		usecase.ErrSessionExpired:         fiber.StatusUnauthorized,
		usecase.ErrEmailAlreadyRegistered: fiber.StatusConflict,
		notification.ErrNotFound:          fiber.StatusNotFound,
		errors.New("boom"):                fiber.StatusInternalServerError,
	}
	for cause, want := range cases {
		var appErr *middleware.AppError
		if !errors.As(mapUsecaseError(cause), &appErr) || appErr.StatusCode != want {
			t.Fatalf("%v: expected %d, got %+v", cause, want, appErr)
		}
	}
}
