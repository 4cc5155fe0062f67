package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/employer"
	"teamleopard/internal/realtime"
)

type EmployerRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (employer.Employer, error)
	Create(ctx context.Context, e employer.Employer) error
	Update(ctx context.Context, e employer.Employer) (employer.Employer, error)
}

type PostgresEmployerRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresEmployerRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresEmployerRepository {
	return &PostgresEmployerRepository{db: db, changes: newChangeFeed(pub, log)}
}

func (r *PostgresEmployerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM "Employer" WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresEmployerRepository) GetByID(ctx context.Context, id uuid.UUID) (employer.Employer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(username, ''), COALESCE(email, ''), COALESCE(company_name, ''),
		        COALESCE(company_description, ''), COALESCE(phone_number, '')
		 FROM "Employer"
		 WHERE id = $1`,
		id,
	)
	var e employer.Employer
	if err := row.Scan(&e.ID, &e.Username, &e.Email, &e.CompanyName, &e.CompanyDescription, &e.PhoneNumber); err != nil {
		if database.IsNoRows(err) {
			return employer.Employer{}, employer.ErrNotFound
		}
		return employer.Employer{}, err
	}
	return e, nil
}

func (r *PostgresEmployerRepository) Create(ctx context.Context, e employer.Employer) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO "Employer" (id, username, email, company_name, company_description, phone_number)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Username, e.Email, e.CompanyName, e.CompanyDescription, e.PhoneNumber,
	)
	if err != nil {
		return err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableEmployer,
		Event:      realtime.EventInsert,
		RecordID:   e.ID.String(),
		EmployerID: uuidPtr(e.ID),
	})
	return nil
}

func (r *PostgresEmployerRepository) Update(ctx context.Context, e employer.Employer) (employer.Employer, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE "Employer"
		 SET username = $2, company_name = $3, company_description = $4, phone_number = $5
		 WHERE id = $1`,
		e.ID, e.Username, e.CompanyName, e.CompanyDescription, e.PhoneNumber,
	)
	if err != nil {
		return employer.Employer{}, err
	}
	if affected == 0 {
		return employer.Employer{}, employer.ErrNotFound
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableEmployer,
		Event:      realtime.EventUpdate,
		RecordID:   e.ID.String(),
		EmployerID: uuidPtr(e.ID),
	})
	return r.GetByID(ctx, e.ID)
}

var _ EmployerRepository = (*PostgresEmployerRepository)(nil)
