package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/domain/application"
	"teamleopard/internal/domain/notification"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/infrastructure/storage"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

type PostingInput struct {
	Title          string
	Description    string
	Location       string
	EmploymentType string
	SalaryRange    string
	Status         string
	Deadline       *time.Time
	ExpectedSkills []string
}

type ApplicantView struct {
	ID             int64
	PostingID      int64
	EmployeeID     string
	Name           string
	Email          string
	CoverLetter    string
	ResumeFileName string
	ResumeURL      string
	Status         string
	Badge          string
	CreatedAt      time.Time
}

type DashboardStats struct {
	TotalPostings     int
	OpenPostings      int
	TotalApplications int
	ByStatus          map[string]int
}

type EmployerDashboard struct {
	postings      repository.PostingRepository
	applications  repository.ApplicationRepository
	notifications repository.NotificationRepository
	stats         repository.StatsRepository
	store         storage.Store
	urlTTL        time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewEmployerDashboard(
	postings repository.PostingRepository,
	applications repository.ApplicationRepository,
	notifications repository.NotificationRepository,
	stats repository.StatsRepository,
	store storage.Store,
	urlTTL time.Duration,
	log *zap.Logger,
) *EmployerDashboard {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &EmployerDashboard{
		postings:      postings,
		applications:  applications,
		notifications: notifications,
		stats:         stats,
		store:         store,
		urlTTL:        urlTTL,
		logger:        logger.OrNop(log),
		now:           time.Now,
	}
}

func (u *EmployerDashboard) buildPosting(sess session.Session, in PostingInput) (posting.Posting, error) {
	skills, err := posting.EncodeSkills(in.ExpectedSkills)
	if err != nil {
		return posting.Posting{}, ErrInvalidInput
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = posting.StatusOpen
	}
	if status != posting.StatusOpen && status != posting.StatusClosed {
		return posting.Posting{}, ErrInvalidInput
	}

	p := posting.Posting{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Location:       strings.TrimSpace(in.Location),
		EmploymentType: strings.TrimSpace(in.EmploymentType),
		SalaryRange:    strings.TrimSpace(in.SalaryRange),
		Status:         status,
		Deadline:       in.Deadline,
		ExpectedSkills: skills,
		CompanyID:      sess.UserID,
	}
	return p, nil
}

func (u *EmployerDashboard) CreatePosting(ctx context.Context, sess session.Session, in PostingInput) (posting.Posting, error) {
	if !sess.IsEmployer() {
		return posting.Posting{}, ErrForbidden
	}
	p, err := u.buildPosting(sess, in)
	if err != nil {
		return posting.Posting{}, err
	}
	p.PostedAt = u.now().UTC()
	if err := p.Validate(); err != nil {
		return posting.Posting{}, ErrInvalidInput
	}

	created, err := u.postings.Create(ctx, p)
	if err != nil {
		u.logger.Error("create posting failed", zap.Stringer("company_id", sess.UserID), zap.Error(err))
		return posting.Posting{}, ErrInternal
	}
	return created, nil
}

func (u *EmployerDashboard) UpdatePosting(ctx context.Context, sess session.Session, id int64, in PostingInput) (posting.Posting, error) {
	if !sess.IsEmployer() {
		return posting.Posting{}, ErrForbidden
	}
	if id <= 0 {
		return posting.Posting{}, ErrInvalidInput
	}
	p, err := u.buildPosting(sess, in)
	if err != nil {
		return posting.Posting{}, err
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return posting.Posting{}, ErrInvalidInput
	}

	updated, err := u.postings.Update(ctx, p)
	if err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return posting.Posting{}, posting.ErrNotFound
		}
		u.logger.Error("update posting failed", zap.Int64("posting_id", id), zap.Error(err))
		return posting.Posting{}, ErrInternal
	}
	return updated, nil
}

func (u *EmployerDashboard) DeletePosting(ctx context.Context, sess session.Session, id int64) error {
	if !sess.IsEmployer() {
		return ErrForbidden
	}
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := u.postings.Delete(ctx, id, sess.UserID); err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return posting.ErrNotFound
		}
		u.logger.Error("delete posting failed", zap.Int64("posting_id", id), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (u *EmployerDashboard) ListPostings(ctx context.Context, sess session.Session) ([]posting.Posting, error) {
	if !sess.IsEmployer() {
		return nil, ErrForbidden
	}
	out, err := u.postings.ListByCompany(ctx, sess.UserID)
	if err != nil {
		u.logger.Error("list company postings failed", zap.Stringer("company_id", sess.UserID), zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

// ListApplicants returns the applications to one of the employer's postings,
// each with a signed resume URL.
func (u *EmployerDashboard) ListApplicants(ctx context.Context, sess session.Session, postingID int64) ([]ApplicantView, error) {
	if !sess.IsEmployer() {
		return nil, ErrForbidden
	}
	if err := u.ownPosting(ctx, sess, postingID); err != nil {
		return nil, err
	}

	rows, err := u.applications.ListByPosting(ctx, postingID)
	if err != nil {
		u.logger.Error("list applicants failed", zap.Int64("posting_id", postingID), zap.Error(err))
		return nil, ErrInternal
	}

	out := make([]ApplicantView, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.FirstName + " " + r.LastName)
		if name == "" {
			name = r.Username
		}
		v := ApplicantView{
			ID:             r.ID,
			PostingID:      r.JobPostingID,
			EmployeeID:     r.EmployeeID.String(),
			Name:           name,
			Email:          r.Email,
			CoverLetter:    r.CoverLetter,
			ResumeFileName: r.ResumeFileName,
			Status:         r.Status,
			Badge:          application.Badge(r.Status),
			CreatedAt:      r.CreatedAt,
		}
		if r.ResumeURL != "" && u.store != nil {
			url, _, err := u.store.SignedURL(r.ResumeURL, u.urlTTL)
			if err != nil {
				u.logger.Warn("sign resume url failed", zap.Int64("application_id", r.ID), zap.Error(err))
			} else {
				v.ResumeURL = url
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (u *EmployerDashboard) ownPosting(ctx context.Context, sess session.Session, postingID int64) error {
	if postingID <= 0 {
		return ErrInvalidInput
	}
	p, err := u.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return posting.ErrNotFound
		}
		u.logger.Error("load posting failed", zap.Int64("posting_id", postingID), zap.Error(err))
		return ErrInternal
	}
	if p.CompanyID != sess.UserID {
		return ErrForbidden
	}
	return nil
}

// UpdateApplicationStatus stores one of the known statuses in lowercase and
// notifies the applicant.
func (u *EmployerDashboard) UpdateApplicationStatus(ctx context.Context, sess session.Session, applicationID int64, status string) (string, error) {
	if !sess.IsEmployer() {
		return "", ErrForbidden
	}
	if applicationID <= 0 {
		return "", ErrInvalidInput
	}
	normalized, ok := application.NormalizeStatus(status)
	if !ok {
		return "", ErrInvalidInput
	}

	a, err := u.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return "", application.ErrNotFound
		}
		u.logger.Error("load application failed", zap.Int64("application_id", applicationID), zap.Error(err))
		return "", ErrInternal
	}
	if a.CompanyID != sess.UserID {
		return "", ErrForbidden
	}

	if err := u.applications.UpdateStatus(ctx, applicationID, normalized); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return "", application.ErrNotFound
		}
		u.logger.Error("update application status failed", zap.Int64("application_id", applicationID), zap.Error(err))
		return "", ErrInternal
	}

	n := notification.New(
		notification.EmployeeReceiver(a.EmployeeID),
		"Application status updated",
		fmt.Sprintf("Your application for %s at %s is now %s.", a.PostingTitle, a.CompanyName, normalized),
		fmt.Sprintf("/dashboard/applications/%d", a.ID),
	)
	if _, err := u.notifications.Create(ctx, n); err != nil {
		u.logger.Warn("notify applicant failed", zap.Int64("application_id", applicationID), zap.Error(err))
	}
	return normalized, nil
}

// Stats always reports every known status, with zero where none exist.
func (u *EmployerDashboard) Stats(ctx context.Context, sess session.Session) (DashboardStats, error) {
	if !sess.IsEmployer() {
		return DashboardStats{}, ErrForbidden
	}
	st, err := u.stats.EmployerStats(ctx, sess.UserID)
	if err != nil {
		u.logger.Error("load stats failed", zap.Stringer("company_id", sess.UserID), zap.Error(err))
		return DashboardStats{}, ErrInternal
	}

	out := DashboardStats{
		TotalPostings:     st.TotalPostings,
		OpenPostings:      st.OpenPostings,
		TotalApplications: st.TotalApplications,
		ByStatus:          make(map[string]int, len(application.Statuses())),
	}
	for _, s := range application.Statuses() {
		out.ByStatus[s] = 0
	}
	for s, c := range st.ByStatus {
		out.ByStatus[s] += c
	}
	return out, nil
}
