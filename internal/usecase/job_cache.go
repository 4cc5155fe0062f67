package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"teamleopard/internal/infrastructure/cache"
)

type JobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	InvalidateJobListings(ctx context.Context) error
}

// Only the SQL page is cached, so the key covers the SQL filters alone.
type jobPageKeyInput struct {
	EmploymentType string `json:"employment_type"`
	CompanyID      string `json:"company_id"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func JobPageCacheKey(params JobListParams) string {
	in := jobPageKeyInput{
		EmploymentType: normalizeSearchValue(params.EmploymentType),
		Limit:          params.Limit,
		Offset:         params.Offset,
	}
	if params.CompanyID != nil {
		in.CompanyID = params.CompanyID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return cache.JobListPrefix + hex.EncodeToString(sum[:])
}

func JobPageLockKey(pageKey string) string {
	return cache.JobLockPrefix + strings.TrimPrefix(strings.TrimSpace(pageKey), cache.JobListPrefix)
}
