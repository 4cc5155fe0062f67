package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamleopard/internal/domain/application"
	"teamleopard/internal/domain/employee"
	"teamleopard/internal/domain/employer"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/infrastructure/authclient"
	"teamleopard/internal/infrastructure/storage"
	"teamleopard/internal/pkg/jwt"
	"teamleopard/internal/repository"
)

var errBoom = errors.New("boom")

type mockPostingRepo struct {
	mu       sync.Mutex
	items    []repository.PostingListing
	err      error
	listHits int
}

func (m *mockPostingRepo) List(ctx context.Context, f repository.PostingFilter) ([]repository.PostingListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listHits++
	if m.err != nil {
		return nil, m.err
	}
	return append([]repository.PostingListing(nil), m.items...), nil
}

func (m *mockPostingRepo) GetByID(ctx context.Context, id int64) (repository.PostingListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return repository.PostingListing{}, m.err
	}
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return repository.PostingListing{}, posting.ErrNotFound
}

func (m *mockPostingRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]posting.Posting, error) {
	return nil, nil
}

func (m *mockPostingRepo) Create(ctx context.Context, p posting.Posting) (posting.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = int64(len(m.items) + 1)
	m.items = append(m.items, repository.PostingListing{Posting: p})
	return p, nil
}

func (m *mockPostingRepo) Update(ctx context.Context, p posting.Posting) (posting.Posting, error) {
	return p, nil
}

func (m *mockPostingRepo) Delete(ctx context.Context, id int64, companyID uuid.UUID) error {
	return nil
}

// memCache is an in-memory JobCache.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	locks       map[string]bool
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locks, key)
	return nil
}

func (c *memCache) SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *memCache) InvalidateJobListings(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	c.invalidated++
	return nil
}

type mockEmployeeRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]employee.Employee
	existsErr error
	createErr error
	creates   int
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{rows: map[uuid.UUID]employee.Employee{}}
}

func (m *mockEmployeeRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.rows[id]
	return ok, nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.creates++
	m.rows[e.ID] = e
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[e.ID]; !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	m.rows[e.ID] = e
	return e, nil
}

type mockEmployerRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]employer.Employer
	err  error
}

func newMockEmployerRepo() *mockEmployerRepo {
	return &mockEmployerRepo{rows: map[uuid.UUID]employer.Employer{}}
}

func (m *mockEmployerRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.rows[id]
	return ok, nil
}

func (m *mockEmployerRepo) GetByID(ctx context.Context, id uuid.UUID) (employer.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return employer.Employer{}, employer.ErrNotFound
	}
	return e, nil
}

func (m *mockEmployerRepo) Create(ctx context.Context, e employer.Employer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID] = e
	return nil
}

func (m *mockEmployerRepo) Update(ctx context.Context, e employer.Employer) (employer.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID] = e
	return e, nil
}

type mockApplicationRepo struct {
	mu        sync.Mutex
	rows      []repository.ApplicationListing
	createErr error
	postings  *mockPostingRepo
}

func (m *mockApplicationRepo) Create(ctx context.Context, a application.Application) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return application.Application{}, m.createErr
	}
	a.ID = int64(len(m.rows) + 100)
	a.CreatedAt = time.Now()
	l := repository.ApplicationListing{Application: a}
	if m.postings != nil {
		if p, err := m.postings.GetByID(ctx, a.JobPostingID); err == nil {
			l.PostingTitle = p.Title
			l.CompanyID = p.CompanyID
			l.CompanyName = p.CompanyName
		}
	}
	m.rows = append(m.rows, l)
	return a, nil
}

func (m *mockApplicationRepo) Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.EmployeeID == employeeID && r.JobPostingID == postingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (repository.ApplicationListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return repository.ApplicationListing{}, application.ErrNotFound
}

func (m *mockApplicationRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]repository.ApplicationListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repository.ApplicationListing{}
	for _, r := range m.rows {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListByPosting(ctx context.Context, postingID int64) ([]repository.Applicant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repository.Applicant{}
	for _, r := range m.rows {
		if r.JobPostingID == postingID {
			out = append(out, repository.Applicant{Application: r.Application, FirstName: "Jane"})
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			return nil
		}
	}
	return application.ErrNotFound
}

// memNotifications is an in-memory NotificationRepository.
type memNotifications struct {
	mu       sync.Mutex
	rows     []notification.Notification
	writeErr error
	nextID   int64
}

func (m *memNotifications) ListForReceiver(ctx context.Context, r notification.Receiver, includeHidden bool) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []notification.Notification{}
	for _, n := range m.rows {
		if n.AddressedTo(r) && (includeHidden || !n.Hidden) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotifications) ListRequestThreads(ctx context.Context, r notification.Receiver) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	links := map[string]bool{}
	for _, n := range m.rows {
		if n.AddressedTo(r) && strings.HasPrefix(n.Link, notification.RequestLinkPrefix) {
			links[n.Link] = true
		}
	}
	out := []notification.Notification{}
	for _, n := range m.rows {
		if links[n.Link] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return notification.Notification{}, m.writeErr
	}
	m.nextID++
	n.ID = m.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Unix(1700000000+m.nextID, 0)
	}
	m.rows = append(m.rows, n)
	return n, nil
}

func (m *memNotifications) update(id int64, fn func(*notification.Notification)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			fn(&m.rows[i])
			return nil
		}
	}
	return notification.ErrNotFound
}

func (m *memNotifications) SetRead(ctx context.Context, id int64, read bool) error {
	return m.update(id, func(n *notification.Notification) { n.Read = read })
}

func (m *memNotifications) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return m.update(id, func(n *notification.Notification) { n.Hidden = hidden })
}

func (m *memNotifications) MarkAllRead(ctx context.Context, r notification.Receiver) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for i := range m.rows {
		if m.rows[i].AddressedTo(r) && !m.rows[i].Read {
			m.rows[i].Read = true
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) CountUnread(ctx context.Context, r notification.Receiver) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := 0
	for _, n := range m.rows {
		if n.AddressedTo(r) && !n.Read && !n.Hidden {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) all() []notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.Notification(nil), m.rows...)
}

type mockSavedJobRepo struct {
	mu   sync.Mutex
	rows map[string]bool
}

func savedKey(id uuid.UUID, postingID int64) string {
	return fmt.Sprintf("%s/%d", id, postingID)
}

func (m *mockSavedJobRepo) Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[savedKey(employeeID, postingID)], nil
}

func (m *mockSavedJobRepo) Save(ctx context.Context, employeeID uuid.UUID, postingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]bool{}
	}
	m.rows[savedKey(employeeID, postingID)] = true
	return nil
}

func (m *mockSavedJobRepo) Remove(ctx context.Context, employeeID uuid.UUID, postingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, savedKey(employeeID, postingID))
	return nil
}

func (m *mockSavedJobRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]repository.SavedPosting, error) {
	return []repository.SavedPosting{}, nil
}

type mockStore struct {
	mu       sync.Mutex
	uploaded map[string]string
	stored   map[string]string
	err      error
}

func (s *mockStore) Upload(ctx context.Context, p string, r io.Reader) error {
	if s.err != nil {
		return s.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploaded == nil {
		s.uploaded = map[string]string{}
	}
	s.uploaded[p] = string(b)
	return nil
}

func (s *mockStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []storage.Object{}
	for p, body := range s.uploaded {
		if strings.HasPrefix(p, prefix) {
			out = append(out, storage.Object{Path: p, Size: int64(len(body))})
		}
	}
	return out, nil
}

func (s *mockStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.uploaded[p]
	if !ok {
		body, ok = s.stored[p]
	}
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// put stores an object without counting it as an upload by the code under test.
func (s *mockStore) put(p, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == nil {
		s.stored = map[string]string{}
	}
	s.stored[p] = body
}

func (s *mockStore) SignedURL(p string, ttl time.Duration) (string, time.Time, error) {
	return "https://files.test/" + p + "?token=t", time.Now().Add(ttl), nil
}

type fakeAuthClient struct {
	user      authclient.User
	session   authclient.Session
	signUpErr error
	signInErr error
	getErr    error
	metadata  map[string]any
}

func (f *fakeAuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (authclient.User, *authclient.Session, error) {
	f.metadata = metadata
	if f.signUpErr != nil {
		return authclient.User{}, nil, f.signUpErr
	}
	u := f.user
	u.Email = email
	return u, nil, nil
}

func (f *fakeAuthClient) SignIn(ctx context.Context, email, password string) (authclient.Session, error) {
	if f.signInErr != nil {
		return authclient.Session{}, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuthClient) SignOut(ctx context.Context, accessToken string) error { return nil }

func (f *fakeAuthClient) GetUser(ctx context.Context, accessToken string) (authclient.User, error) {
	if f.getErr != nil {
		return authclient.User{}, f.getErr
	}
	return f.user, nil
}

type fakeVerifier struct {
	claims jwt.AccessClaims
	err    error
}

func (f fakeVerifier) ValidateAccessToken(string) (jwt.AccessClaims, error) {
	return f.claims, f.err
}
