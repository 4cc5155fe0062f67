package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/posting"
	"teamleopard/internal/realtime"
)

const (
	DefaultPostingLimit = 20
	MaxPostingLimit     = 50
)

// PostingListing is a posting joined with the employer columns the job
// board shows next to it.
type PostingListing struct {
	posting.Posting
	CompanyName string
}

// PostingFilter holds the equality filters applied in SQL.
type PostingFilter struct {
	EmploymentType string
	CompanyID      *uuid.UUID
	Status         string
	Limit          int
	Offset         int
}

type PostingRepository interface {
	List(ctx context.Context, f PostingFilter) ([]PostingListing, error)
	GetByID(ctx context.Context, id int64) (PostingListing, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]posting.Posting, error)
	Create(ctx context.Context, p posting.Posting) (posting.Posting, error)
	Update(ctx context.Context, p posting.Posting) (posting.Posting, error)
	Delete(ctx context.Context, id int64, companyID uuid.UUID) error
}

type PostgresPostingRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresPostingRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresPostingRepository {
	return &PostgresPostingRepository{db: db, changes: newChangeFeed(pub, log)}
}

const postingColumns = `jp.posting_id, COALESCE(jp.title, ''), COALESCE(jp.description, ''), COALESCE(jp.location, ''),
	COALESCE(jp.employment_type, ''), COALESCE(jp.salary_range, ''), COALESCE(jp.status, ''), jp.posted_at,
	jp.deadline, COALESCE(jp.expected_skills, ''), jp."company_ID"`

func scanPosting(row database.Row, extra ...any) (posting.Posting, error) {
	var p posting.Posting
	dest := []any{
		&p.ID, &p.Title, &p.Description, &p.Location,
		&p.EmploymentType, &p.SalaryRange, &p.Status, &p.PostedAt,
		&p.Deadline, &p.ExpectedSkills, &p.CompanyID,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return posting.Posting{}, err
	}
	return p, nil
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPostingLimit
	}
	if limit > MaxPostingLimit {
		return MaxPostingLimit
	}
	return limit
}

func (r *PostgresPostingRepository) List(ctx context.Context, f PostingFilter) ([]PostingListing, error) {
	limit := ClampLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	conds := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if v := strings.TrimSpace(f.EmploymentType); v != "" {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("jp.employment_type = $%d", len(args)))
	}
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		conds = append(conds, fmt.Sprintf(`jp."company_ID" = $%d`, len(args)))
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("LOWER(jp.status) = LOWER($%d)", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)

	q := fmt.Sprintf(
		`SELECT %s, COALESCE(e.company_name, '')
		 FROM "Job_Posting" jp
		 LEFT JOIN "Employer" e ON e.id = jp."company_ID"
		 %s
		 ORDER BY jp.posted_at DESC
		 LIMIT $%d OFFSET $%d`,
		postingColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PostingListing, 0)
	for rows.Next() {
		var l PostingListing
		p, err := scanPosting(rows, &l.CompanyName)
		if err != nil {
			return nil, err
		}
		l.Posting = p
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPostingRepository) GetByID(ctx context.Context, id int64) (PostingListing, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postingColumns+`, COALESCE(e.company_name, '')
		 FROM "Job_Posting" jp
		 LEFT JOIN "Employer" e ON e.id = jp."company_ID"
		 WHERE jp.posting_id = $1`,
		id,
	)
	var l PostingListing
	p, err := scanPosting(row, &l.CompanyName)
	if err != nil {
		if database.IsNoRows(err) {
			return PostingListing{}, posting.ErrNotFound
		}
		return PostingListing{}, err
	}
	l.Posting = p
	return l, nil
}

func (r *PostgresPostingRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]posting.Posting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postingColumns+`
		 FROM "Job_Posting" jp
		 WHERE jp."company_ID" = $1
		 ORDER BY jp.posted_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posting.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPostingRepository) Create(ctx context.Context, p posting.Posting) (posting.Posting, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO "Job_Posting" AS jp
		 (title, description, location, employment_type, salary_range, status, posted_at, deadline, expected_skills, "company_ID")
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()), $8, $9, $10)
		 RETURNING `+postingColumns,
		p.Title, p.Description, p.Location, p.EmploymentType, p.SalaryRange, p.Status,
		nullTime(p.PostedAt), p.Deadline, p.ExpectedSkills, p.CompanyID,
	)
	created, err := scanPosting(row)
	if err != nil {
		return posting.Posting{}, err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableJobPosting,
		Event:      realtime.EventInsert,
		RecordID:   int64ID(created.ID),
		EmployerID: uuidPtr(created.CompanyID),
	})
	return created, nil
}

// Update rewrites the editable columns of a posting owned by p.CompanyID.
func (r *PostgresPostingRepository) Update(ctx context.Context, p posting.Posting) (posting.Posting, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE "Job_Posting" AS jp
		 SET title = $3, description = $4, location = $5, employment_type = $6, salary_range = $7,
		     status = $8, deadline = $9, expected_skills = $10
		 WHERE jp.posting_id = $1 AND jp."company_ID" = $2
		 RETURNING `+postingColumns,
		p.ID, p.CompanyID, p.Title, p.Description, p.Location, p.EmploymentType, p.SalaryRange,
		p.Status, p.Deadline, p.ExpectedSkills,
	)
	updated, err := scanPosting(row)
	if err != nil {
		if database.IsNoRows(err) {
			return posting.Posting{}, posting.ErrNotFound
		}
		return posting.Posting{}, err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableJobPosting,
		Event:      realtime.EventUpdate,
		RecordID:   int64ID(updated.ID),
		EmployerID: uuidPtr(updated.CompanyID),
	})
	return updated, nil
}

func (r *PostgresPostingRepository) Delete(ctx context.Context, id int64, companyID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM "Job_Posting" WHERE posting_id = $1 AND "company_ID" = $2`,
		id, companyID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return posting.ErrNotFound
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableJobPosting,
		Event:      realtime.EventDelete,
		RecordID:   int64ID(id),
		EmployerID: uuidPtr(companyID),
	})
	return nil
}

var _ PostingRepository = (*PostgresPostingRepository)(nil)
