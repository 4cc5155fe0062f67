package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/domain/posting"
	"teamleopard/internal/domain/session"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/repository"
)

type SavedJobView struct {
	Job     JobListItem
	SavedAt time.Time
}

type SavedJobs struct {
	saved       repository.SavedJobRepository
	postings    repository.PostingRepository
	provisioner *EmployeeProvisioner
	logger      *zap.Logger
	now         func() time.Time
}

func NewSavedJobsUsecase(saved repository.SavedJobRepository, postings repository.PostingRepository, provisioner *EmployeeProvisioner, log *zap.Logger) *SavedJobs {
	return &SavedJobs{saved: saved, postings: postings, provisioner: provisioner, logger: logger.OrNop(log), now: time.Now}
}

// Toggle saves the posting, or unsaves it when it was already saved, and
// reports the new state.
func (u *SavedJobs) Toggle(ctx context.Context, sess session.Session, postingID int64) (bool, error) {
	if sess.IsEmployer() {
		return false, ErrForbidden
	}
	if postingID <= 0 {
		return false, ErrInvalidInput
	}

	saved, err := u.saved.Exists(ctx, sess.UserID, postingID)
	if err != nil {
		u.logger.Error("check saved job failed", zap.Int64("posting_id", postingID), zap.Error(err))
		return false, ErrInternal
	}
	if saved {
		if err := u.saved.Remove(ctx, sess.UserID, postingID); err != nil {
			u.logger.Error("unsave job failed", zap.Int64("posting_id", postingID), zap.Error(err))
			return true, ErrInternal
		}
		return false, nil
	}

	if _, err := u.postings.GetByID(ctx, postingID); err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return false, posting.ErrNotFound
		}
		u.logger.Error("load posting failed", zap.Int64("posting_id", postingID), zap.Error(err))
		return false, ErrInternal
	}
	if err := u.provisioner.EnsureEmployeeRecord(ctx, sess); err != nil {
		u.logger.Error("ensure employee record failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return false, ErrInternal
	}
	if err := u.saved.Save(ctx, sess.UserID, postingID); err != nil {
		u.logger.Error("save job failed", zap.Int64("posting_id", postingID), zap.Error(err))
		return false, ErrInternal
	}
	return true, nil
}

func (u *SavedJobs) List(ctx context.Context, sess session.Session) ([]SavedJobView, error) {
	if sess.IsEmployer() {
		return nil, ErrForbidden
	}
	rows, err := u.saved.ListByEmployee(ctx, sess.UserID)
	if err != nil {
		u.logger.Error("list saved jobs failed", zap.Stringer("user_id", sess.UserID), zap.Error(err))
		return nil, ErrInternal
	}

	now := u.now()
	out := make([]SavedJobView, 0, len(rows))
	for _, r := range rows {
		out = append(out, SavedJobView{Job: toJobListItem(r.Posting, now), SavedAt: r.SavedAt})
	}
	return out, nil
}
