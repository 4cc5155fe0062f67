package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/savedjob"
	"teamleopard/internal/realtime"
)

type SavedPosting struct {
	savedjob.SavedJob
	Posting PostingListing
}

type SavedJobRepository interface {
	Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error)
	Save(ctx context.Context, employeeID uuid.UUID, postingID int64) error
	Remove(ctx context.Context, employeeID uuid.UUID, postingID int64) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]SavedPosting, error)
}

type PostgresSavedJobRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresSavedJobRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db, changes: newChangeFeed(pub, log)}
}

func savedJobRecordID(employeeID uuid.UUID, postingID int64) string {
	return employeeID.String() + ":" + strconv.FormatInt(postingID, 10)
}

func (r *PostgresSavedJobRepository) Exists(ctx context.Context, employeeID uuid.UUID, postingID int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM "Saved_Jobs" WHERE "employee_ID" = $1 AND job_posting_id = $2)`,
		employeeID, postingID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSavedJobRepository) Save(ctx context.Context, employeeID uuid.UUID, postingID int64) error {
	affected, err := r.db.Exec(ctx,
		`INSERT INTO "Saved_Jobs" ("employee_ID", job_posting_id) VALUES ($1, $2)
		 ON CONFLICT ("employee_ID", job_posting_id) DO NOTHING`,
		employeeID, postingID,
	)
	if err != nil {
		return err
	}
	if affected > 0 {
		r.changes.emit(ctx, realtime.ChangeEvent{
			Table:      realtime.TableSavedJobs,
			Event:      realtime.EventInsert,
			RecordID:   savedJobRecordID(employeeID, postingID),
			EmployeeID: uuidPtr(employeeID),
		})
	}
	return nil
}

func (r *PostgresSavedJobRepository) Remove(ctx context.Context, employeeID uuid.UUID, postingID int64) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM "Saved_Jobs" WHERE "employee_ID" = $1 AND job_posting_id = $2`,
		employeeID, postingID,
	)
	if err != nil {
		return err
	}
	if affected > 0 {
		r.changes.emit(ctx, realtime.ChangeEvent{
			Table:      realtime.TableSavedJobs,
			Event:      realtime.EventDelete,
			RecordID:   savedJobRecordID(employeeID, postingID),
			EmployeeID: uuidPtr(employeeID),
		})
	}
	return nil
}

func (r *PostgresSavedJobRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]SavedPosting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sj."employee_ID", sj.job_posting_id, sj.saved_at, `+postingColumns+`, COALESCE(e.company_name, '')
		 FROM "Saved_Jobs" sj
		 JOIN "Job_Posting" jp ON jp.posting_id = sj.job_posting_id
		 LEFT JOIN "Employer" e ON e.id = jp."company_ID"
		 WHERE sj."employee_ID" = $1
		 ORDER BY sj.saved_at DESC`,
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedPosting, 0)
	for rows.Next() {
		var sp SavedPosting
		p := &sp.Posting.Posting
		if err := rows.Scan(
			&sp.EmployeeID, &sp.JobPostingID, &sp.SavedAt,
			&p.ID, &p.Title, &p.Description, &p.Location,
			&p.EmploymentType, &p.SalaryRange, &p.Status, &p.PostedAt,
			&p.Deadline, &p.ExpectedSkills, &p.CompanyID,
			&sp.Posting.CompanyName,
		); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ SavedJobRepository = (*PostgresSavedJobRepository)(nil)
