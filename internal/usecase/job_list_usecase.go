package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/domain/posting"
	"teamleopard/internal/domain/salary"
	"teamleopard/internal/domain/timeago"
	"teamleopard/internal/infrastructure/cache"
	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/realtime"
	"teamleopard/internal/repository"
	"teamleopard/internal/search"
)

type JobListParams struct {
	EmploymentType string
	CompanyID      *uuid.UUID
	MinSalary      *float64
	MaxSalary      *float64
	Query          string
	Limit          int
	Offset         int
}

type JobListItem struct {
	ID             int64
	Title          string
	Description    string
	Location       string
	EmploymentType string
	SalaryRange    string
	Status         string
	Skills         []string
	CompanyID      uuid.UUID
	CompanyName    string
	PostedAt       time.Time
	PostedAgo      string
	Deadline       *time.Time
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, params JobListParams) ([]JobListItem, error)
	GetJob(ctx context.Context, id int64) (JobListItem, error)
}

type JobList struct {
	postings repository.PostingRepository
	cache    JobCache
	logger   *zap.Logger
	now      func() time.Time
}

func NewJobListUsecase(postings repository.PostingRepository, jobCache JobCache, log *zap.Logger) *JobList {
	return &JobList{postings: postings, cache: jobCache, logger: logger.OrNop(log), now: time.Now}
}

// ListJobs returns one page of postings, newest first. The salary bounds are
// applied to the fetched page, so a page can hold fewer rows than Limit.
func (u *JobList) ListJobs(ctx context.Context, params JobListParams) ([]JobListItem, error) {
	limit := params.Limit
	if limit == 0 {
		limit = repository.DefaultPostingLimit
	}
	if limit < 0 || limit > repository.MaxPostingLimit {
		return nil, ErrInvalidInput
	}
	if params.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if params.MinSalary != nil && params.MaxSalary != nil && *params.MinSalary > *params.MaxSalary {
		return nil, ErrInvalidInput
	}
	params.Limit = limit
	params.EmploymentType = strings.TrimSpace(params.EmploymentType)

	rows, err := u.page(ctx, params)
	if err != nil {
		u.logger.Error("list postings failed", zap.Error(err))
		return nil, ErrInternal
	}

	f := salary.Filter{Min: params.MinSalary, Max: params.MaxSalary}
	if !f.IsZero() {
		kept := rows[:0:0]
		for _, r := range rows {
			if f.Matches(r.SalaryRange) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	now := u.now()
	if qc := search.ProcessQuery(params.Query); qc.Normalized != "" {
		rows = rankListings(rows, qc.Variants, now)
	}

	out := make([]JobListItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, toJobListItem(r, now))
	}
	return out, nil
}

// page loads the SQL page through the cache. Concurrent misses for the same
// key wait briefly for the lock holder instead of all querying Postgres.
func (u *JobList) page(ctx context.Context, params JobListParams) ([]repository.PostingListing, error) {
	f := repository.PostingFilter{
		EmploymentType: params.EmploymentType,
		CompanyID:      params.CompanyID,
		Limit:          params.Limit,
		Offset:         params.Offset,
	}
	if u.cache == nil {
		return u.postings.List(ctx, f)
	}

	key := JobPageCacheKey(params)
	lockKey := JobPageLockKey(key)

	var cached []repository.PostingListing
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		u.logger.Debug("job page cache hit", zap.String("key", key))
		return cached, nil
	}

	lockAcquired := false
	ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
	switch {
	case errors.Is(err, cache.ErrUnavailable):
		return u.postings.List(ctx, f)
	case err == nil && ok:
		lockAcquired = true
	case err == nil && !ok:
		jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(300*time.Millisecond + jitter):
		}
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
		u.logger.Debug("job page lock wait fallback", zap.String("key", lockKey))
	}

	rows, err := u.postings.List(ctx, f)
	if err != nil {
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
		return nil, err
	}

	if err := u.cache.SetJSON(ctx, key, rows, 0); err != nil {
		u.logger.Warn("job page cache set failed", zap.String("key", key), zap.Error(err))
	}
	if lockAcquired {
		_ = u.cache.Delete(ctx, lockKey)
	}
	return rows, nil
}

func (u *JobList) GetJob(ctx context.Context, id int64) (JobListItem, error) {
	if id <= 0 {
		return JobListItem{}, ErrInvalidInput
	}
	l, err := u.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, posting.ErrNotFound) {
			return JobListItem{}, posting.ErrNotFound
		}
		u.logger.Error("get posting failed", zap.Int64("posting_id", id), zap.Error(err))
		return JobListItem{}, ErrInternal
	}
	return toJobListItem(l, u.now()), nil
}

// OnPostingChange drops cached pages. It is subscribed to Job_Posting events.
func (u *JobList) OnPostingChange(evt realtime.ChangeEvent) {
	if u.cache == nil || evt.Table != realtime.TableJobPosting {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.cache.InvalidateJobListings(ctx); err != nil {
		u.logger.Warn("job cache invalidation failed", zap.String("record_id", evt.RecordID), zap.Error(err))
		return
	}
	u.logger.Debug("job cache invalidated",
		zap.String("event", string(evt.Event)),
		zap.String("record_id", evt.RecordID),
	)
}

func rankListings(rows []repository.PostingListing, variants []string, now time.Time) []repository.PostingListing {
	cands := make([]search.Candidate, 0, len(rows))
	for i, r := range rows {
		cands = append(cands, search.Candidate{
			Index:       i,
			Title:       r.Title,
			CompanyName: r.CompanyName,
			Location:    r.Location,
			Text:        search.PlainText(r.Description),
			SalaryRange: r.SalaryRange,
			Skills:      r.Skills(),
			PostedAt:    r.PostedAt,
		})
	}

	ranked := search.Rank(cands, variants, now)
	out := make([]repository.PostingListing, 0, len(rows))
	for _, c := range ranked {
		out = append(out, rows[c.Index])
	}
	return out
}

func toJobListItem(l repository.PostingListing, now time.Time) JobListItem {
	return JobListItem{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		Location:       l.Location,
		EmploymentType: l.EmploymentType,
		SalaryRange:    l.SalaryRange,
		Status:         l.Status,
		Skills:         l.Skills(),
		CompanyID:      l.CompanyID,
		CompanyName:    l.CompanyName,
		PostedAt:       l.PostedAt,
		PostedAgo:      timeago.PostingStyle.Since(now, l.PostedAt),
		Deadline:       l.Deadline,
	}
}

var _ JobListUsecase = (*JobList)(nil)
