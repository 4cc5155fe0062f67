package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/posting"
)

type PostingsSeeder struct{}

func (PostingsSeeder) Name() string { return "postings" }

func (PostingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "Job_Posting",
		"posting_id",
		"title",
		"description",
		"location",
		"employment_type",
		"salary_range",
		"status",
		"posted_at",
		"deadline",
		"expected_skills",
		"company_ID",
	); err != nil {
		return err
	}

	now := time.Now().UTC()

	items := []struct {
		CompanyID      uuid.UUID
		Title          string
		Description    string
		Location       string
		EmploymentType string
		SalaryRange    string
		Skills         []string
		Age            time.Duration
	}{
		{
			CompanyID:      demoEmployerLeopard,
			Title:          "Backend Engineer (Go)",
			Description:    "<p>Build <b>Go</b> services on Postgres and Redis.</p>",
			Location:       "Remote",
			EmploymentType: "Full-time",
			SalaryRange:    "$90,000 - $120,000",
			Skills:         []string{"Go", "PostgreSQL", "Redis"},
			Age:            3 * time.Hour,
		},
		{
			CompanyID:      demoEmployerLeopard,
			Title:          "Frontend Developer",
			Description:    "<p>Own the candidate portal UI.</p>",
			Location:       "Portland, OR",
			EmploymentType: "Part-time",
			SalaryRange:    "40k-55k",
			Skills:         []string{"TypeScript", "React"},
			Age:            26 * time.Hour,
		},
		{
			CompanyID:      demoEmployerHarbor,
			Title:          "Warehouse Operations Intern",
			Description:    "<p>Support inbound and outbound operations.</p>",
			Location:       "Oakland, CA",
			EmploymentType: "Internship",
			SalaryRange:    "$20/hour",
			Skills:         []string{"Excel"},
			Age:            9 * 24 * time.Hour,
		},
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range items {
		var exists bool
		if err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM "Job_Posting" WHERE "company_ID" = $1 AND title = $2)`,
			it.CompanyID, it.Title,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}

		skills, err := posting.EncodeSkills(it.Skills)
		if err != nil {
			return err
		}
		deadline := now.Add(30 * 24 * time.Hour)
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO "Job_Posting"
			 (title, description, location, employment_type, salary_range, status, posted_at, deadline, expected_skills, "company_ID")
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.Title,
			it.Description,
			it.Location,
			it.EmploymentType,
			it.SalaryRange,
			posting.StatusOpen,
			now.Add(-it.Age),
			deadline,
			skills,
			it.CompanyID,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
