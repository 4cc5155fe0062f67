package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/posting"
)

// EmployerStats are the dashboard counters for one company.
type EmployerStats struct {
	TotalPostings     int
	OpenPostings      int
	TotalApplications int
	ByStatus          map[string]int
}

type StatsRepository interface {
	EmployerStats(ctx context.Context, companyID uuid.UUID) (EmployerStats, error)
}

type PostgresStatsRepository struct {
	db database.DB
}

func NewPostgresStatsRepository(db database.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) EmployerStats(ctx context.Context, companyID uuid.UUID) (EmployerStats, error) {
	out := EmployerStats{ByStatus: map[string]int{}}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(1), COUNT(1) FILTER (WHERE LOWER(COALESCE(status, '')) = $2)
		 FROM "Job_Posting"
		 WHERE "company_ID" = $1`,
		companyID, posting.StatusOpen,
	).Scan(&out.TotalPostings, &out.OpenPostings); err != nil {
		return EmployerStats{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT LOWER(TRIM(COALESCE(a.status, ''))), COUNT(1)
		 FROM "Applications" a
		 JOIN "Job_Posting" jp ON jp.posting_id = a.job_posting_id
		 WHERE jp."company_ID" = $1
		 GROUP BY 1`,
		companyID,
	)
	if err != nil {
		return EmployerStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var c int
		if err := rows.Scan(&status, &c); err != nil {
			return EmployerStats{}, err
		}
		status = strings.TrimSpace(status)
		out.ByStatus[status] += c
		out.TotalApplications += c
	}
	if err := rows.Err(); err != nil {
		return EmployerStats{}, err
	}
	return out, nil
}

var _ StatsRepository = (*PostgresStatsRepository)(nil)
