package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/application"
	"teamleopard/internal/realtime"
)

// ApplicationListing is an application with the posting and employer
// columns the employee overview shows.
type ApplicationListing struct {
	application.Application
	PostingTitle string
	Location     string
	CompanyID    uuid.UUID
	CompanyName  string
}

// Applicant is an application as the posting's employer reviews it.
type Applicant struct {
	application.Application
	FirstName string
	LastName  string
	Email     string
	Username  string
}

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (ApplicationListing, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]ApplicationListing, error)
	ListByPosting(ctx context.Context, postingID int64) ([]Applicant, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type PostgresApplicationRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresApplicationRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db, changes: newChangeFeed(pub, log)}
}

const applicationColumns = `a."Application_id", a."employee_ID", a.job_posting_id, COALESCE(a.cover_letter, ''),
	COALESCE(a.resume_url, ''), COALESCE(a.resume_file_name, ''), COALESCE(a.status, ''), a.created_at`

func applicationDest(a *application.Application) []any {
	return []any{
		&a.ID, &a.EmployeeID, &a.JobPostingID, &a.CoverLetter,
		&a.ResumeURL, &a.ResumeFileName, &a.Status, &a.CreatedAt,
	}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	status := strings.TrimSpace(a.Status)
	if status == "" {
		status = application.StatusPending
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO "Applications" AS a ("employee_ID", job_posting_id, cover_letter, resume_url, resume_file_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+applicationColumns,
		a.EmployeeID, a.JobPostingID, a.CoverLetter, a.ResumeURL, a.ResumeFileName, status,
	)
	var out application.Application
	if err := row.Scan(applicationDest(&out)...); err != nil {
		if database.IsUniqueViolation(err) {
			return application.Application{}, application.ErrAlreadyApplied
		}
		return application.Application{}, err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableApplications,
		Event:      realtime.EventInsert,
		RecordID:   int64ID(out.ID),
		EmployeeID: uuidPtr(out.EmployeeID),
	})
	return out, nil
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM "Applications" WHERE "employee_ID" = $1 AND job_posting_id = $2)`,
		employeeID, postingID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id int64) (ApplicationListing, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+`, COALESCE(jp.title, ''), COALESCE(jp.location, ''), jp."company_ID",
		        COALESCE(e.company_name, '')
		 FROM "Applications" a
		 JOIN "Job_Posting" jp ON jp.posting_id = a.job_posting_id
		 LEFT JOIN "Employer" e ON e.id = jp."company_ID"
		 WHERE a."Application_id" = $1`,
		id,
	)
	var l ApplicationListing
	dest := append(applicationDest(&l.Application), &l.PostingTitle, &l.Location, &l.CompanyID, &l.CompanyName)
	if err := row.Scan(dest...); err != nil {
		if database.IsNoRows(err) {
			return ApplicationListing{}, application.ErrNotFound
		}
		return ApplicationListing{}, err
	}
	return l, nil
}

func (r *PostgresApplicationRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]ApplicationListing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`, COALESCE(jp.title, ''), COALESCE(jp.location, ''), jp."company_ID",
		        COALESCE(e.company_name, '')
		 FROM "Applications" a
		 JOIN "Job_Posting" jp ON jp.posting_id = a.job_posting_id
		 LEFT JOIN "Employer" e ON e.id = jp."company_ID"
		 WHERE a."employee_ID" = $1
		 ORDER BY a.created_at DESC`,
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationListing, 0)
	for rows.Next() {
		var l ApplicationListing
		dest := append(applicationDest(&l.Application), &l.PostingTitle, &l.Location, &l.CompanyID, &l.CompanyName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByPosting(ctx context.Context, postingID int64) ([]Applicant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`, COALESCE(emp.first_name, ''), COALESCE(emp.last_name, ''),
		        COALESCE(emp.email, ''), COALESCE(emp.username, '')
		 FROM "Applications" a
		 LEFT JOIN "Employee" emp ON emp.id = a."employee_ID"
		 WHERE a.job_posting_id = $1
		 ORDER BY a.created_at DESC`,
		postingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Applicant, 0)
	for rows.Next() {
		var ap Applicant
		dest := append(applicationDest(&ap.Application), &ap.FirstName, &ap.LastName, &ap.Email, &ap.Username)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, ap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	var employeeID uuid.UUID
	row := r.db.QueryRow(ctx,
		`UPDATE "Applications" SET status = $2 WHERE "Application_id" = $1 RETURNING "employee_ID"`,
		id, status,
	)
	if err := row.Scan(&employeeID); err != nil {
		if database.IsNoRows(err) {
			return application.ErrNotFound
		}
		return err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableApplications,
		Event:      realtime.EventUpdate,
		RecordID:   int64ID(id),
		EmployeeID: uuidPtr(employeeID),
	})
	return nil
}

var _ ApplicationRepository = (*PostgresApplicationRepository)(nil)
