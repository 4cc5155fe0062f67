package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
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

var ErrPostingClosed = errors.New("job posting is closed")

// ResumeUpload is a file sent with the application form.
type ResumeUpload struct {
	FileName string
	Content  io.Reader
}

// SubmitInput carries either a new Resume or the ResumePath of a file the
// user uploaded before.
type SubmitInput struct {
	PostingID   int64
	CoverLetter string
	Resume      *ResumeUpload
	ResumePath  string
}

type ApplicationView struct {
	ID             int64
	PostingID      int64
	PostingTitle   string
	Location       string
	CompanyID      string
	CompanyName    string
	CoverLetter    string
	ResumePath     string
	ResumeFileName string
	Status         string
	Badge          string
	CreatedAt      time.Time
}

type StoredResume struct {
	Name      string
	Path      string
	Size      int64
	UpdatedAt time.Time
	URL       string
	ExpiresAt time.Time
}

type Applications struct {
	applications  repository.ApplicationRepository
	postings      repository.PostingRepository
	notifications repository.NotificationRepository
	provisioner   *EmployeeProvisioner
	store         storage.Store
	urlTTL        time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewApplicationsUsecase(
	applications repository.ApplicationRepository,
	postings repository.PostingRepository,
	notifications repository.NotificationRepository,
	provisioner *EmployeeProvisioner,
	store storage.Store,
	urlTTL time.Duration,
	log *zap.Logger,
) *Applications {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &Applications{
		applications:  applications,
		postings:      postings,
		notifications: notifications,
		provisioner:   provisioner,
		store:         store,
		urlTTL:        urlTTL,
		logger:        logger.OrNop(log),
		now:           time.Now,
	}
}

// Submit uploads the resume when one is attached, then inserts the
// application. The two steps are independent: an insert failure leaves the
// uploaded object in place.
func (u *Applications) Submit(ctx context.Context, sess session.Session, in SubmitInput) (application.Application, error) {
	if sess.IsEmployer() {
		return application.Application{}, ErrForbidden
	}
	if in.PostingID <= 0 {
		return application.Application{}, ErrInvalidInput
	}
	if in.Resume == nil && strings.TrimSpace(in.ResumePath) == "" {
		return application.Application{}, ErrInvalidInput
	}

	p, err := u.postings.GetByID(ctx, in.PostingID)
	if err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return application.Application{}, posting.ErrNotFound
		}
		return application.Application{}, u.internal("load posting", err)
	}
	if !p.AcceptsApplications(u.now()) {
		return application.Application{}, ErrPostingClosed
	}

	if err := u.provisioner.EnsureEmployeeRecord(ctx, sess); err != nil {
		return application.Application{}, u.internal("ensure employee record", err)
	}

	applied, err := u.applications.Exists(ctx, sess.UserID, in.PostingID)
	if err != nil {
		return application.Application{}, u.internal("check existing application", err)
	}
	if applied {
		return application.Application{}, application.ErrAlreadyApplied
	}

	resumePath, err := u.resolveResume(ctx, sess, in)
	if err != nil {
		return application.Application{}, err
	}

	created, err := u.applications.Create(ctx, application.Application{
		EmployeeID:     sess.UserID,
		JobPostingID:   in.PostingID,
		CoverLetter:    strings.TrimSpace(in.CoverLetter),
		ResumeURL:      resumePath,
		ResumeFileName: storage.OriginalName(resumePath),
		Status:         application.StatusPending,
	})
	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			return application.Application{}, err
		}
		u.logger.Error("insert application failed",
			zap.Stringer("user_id", sess.UserID),
			zap.Int64("posting_id", in.PostingID),
			zap.String("resume_path", resumePath),
			zap.Error(err),
		)
		return application.Application{}, ErrInternal
	}

	u.notifyEmployer(ctx, sess, p, created)
	return created, nil
}

func (u *Applications) resolveResume(ctx context.Context, sess session.Session, in SubmitInput) (string, error) {
	if in.Resume != nil {
		if in.Resume.Content == nil || strings.TrimSpace(in.Resume.FileName) == "" {
			return "", ErrInvalidInput
		}
		p := storage.ResumePath(sess.UserID, in.Resume.FileName, u.now())
		if err := u.store.Upload(ctx, p, in.Resume.Content); err != nil {
			return "", u.internal("upload resume", err)
		}
		return p, nil
	}

	p, err := storage.Clean(in.ResumePath)
	if err != nil {
		return "", ErrInvalidInput
	}
	if !strings.HasPrefix(p, storage.ResumePrefix(sess.UserID)) {
		return "", ErrForbidden
	}
	rc, err := u.store.Open(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidInput
		}
		return "", u.internal("open stored resume", err)
	}
	_ = rc.Close()
	return p, nil
}

func (u *Applications) notifyEmployer(ctx context.Context, sess session.Session, p repository.PostingListing, a application.Application) {
	n := notification.New(
		notification.EmployerReceiver(p.CompanyID),
		"New application",
		fmt.Sprintf("%s applied for %s", sess.Email, p.Title),
		fmt.Sprintf("/employer/applications/%d", a.ID),
	)
	if _, err := u.notifications.Create(ctx, n); err != nil {
		u.logger.Warn("notify employer failed", zap.Int64("application_id", a.ID), zap.Error(err))
	}
}

// ListMine returns the employee's applications. A failure to provision the
// Employee row is logged and yields an empty list.
func (u *Applications) ListMine(ctx context.Context, sess session.Session) ([]ApplicationView, error) {
	if err := u.provisioner.EnsureEmployeeRecord(ctx, sess); err != nil {
		u.logger.Error("ensure employee record failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return []ApplicationView{}, nil
	}

	rows, err := u.applications.ListByEmployee(ctx, sess.UserID)
	if err != nil {
		return nil, u.internal("list applications", err)
	}

	out := make([]ApplicationView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicationView{
			ID:             r.ID,
			PostingID:      r.JobPostingID,
			PostingTitle:   r.PostingTitle,
			Location:       r.Location,
			CompanyID:      r.CompanyID.String(),
			CompanyName:    r.CompanyName,
			CoverLetter:    r.CoverLetter,
			ResumePath:     r.ResumeURL,
			ResumeFileName: r.ResumeFileName,
			Status:         r.Status,
			Badge:          application.Badge(r.Status),
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}

// ListResumes lists the user's uploaded resumes with short-lived URLs.
func (u *Applications) ListResumes(ctx context.Context, sess session.Session) ([]StoredResume, error) {
	objs, err := u.store.List(ctx, storage.ResumePrefix(sess.UserID))
	if err != nil {
		return nil, u.internal("list resumes", err)
	}

	out := make([]StoredResume, 0, len(objs))
	for _, o := range objs {
		url, exp, err := u.store.SignedURL(o.Path, u.urlTTL)
		if err != nil {
			u.logger.Warn("sign resume url failed", zap.String("path", o.Path), zap.Error(err))
			continue
		}
		out = append(out, StoredResume{
			Name:      storage.OriginalName(o.Path),
			Path:      o.Path,
			Size:      o.Size,
			UpdatedAt: o.UpdatedAt,
			URL:       url,
			ExpiresAt: exp,
		})
	}
	return out, nil
}

func (u *Applications) internal(op string, err error) error {
	u.logger.Error(op+" failed", zap.Error(err))
	return ErrInternal
}
