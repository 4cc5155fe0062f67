package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamleopard/internal/database"
	"teamleopard/internal/domain/employee"
	"teamleopard/internal/realtime"
)

type EmployeeRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error)
	Create(ctx context.Context, e employee.Employee) error
	Update(ctx context.Context, e employee.Employee) (employee.Employee, error)
}

type PostgresEmployeeRepository struct {
	db      database.DB
	changes changeFeed
}

func NewPostgresEmployeeRepository(db database.DB, pub realtime.Publisher, log *zap.Logger) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db, changes: newChangeFeed(pub, log)}
}

func (r *PostgresEmployeeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM "Employee" WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(username, ''), COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		        COALESCE(phone_number, ''), COALESCE(bio, '')
		 FROM "Employee"
		 WHERE id = $1`,
		id,
	)
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.Username, &e.Email, &e.FirstName, &e.LastName, &e.PhoneNumber, &e.Bio); err != nil {
		if database.IsNoRows(err) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, e employee.Employee) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO "Employee" (id, username, email, first_name, last_name, phone_number, bio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Username, e.Email, e.FirstName, e.LastName, e.PhoneNumber, e.Bio,
	)
	if err != nil {
		return err
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableEmployee,
		Event:      realtime.EventInsert,
		RecordID:   e.ID.String(),
		EmployeeID: uuidPtr(e.ID),
	})
	return nil
}

func (r *PostgresEmployeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE "Employee"
		 SET username = $2, first_name = $3, last_name = $4, phone_number = $5, bio = $6
		 WHERE id = $1`,
		e.ID, e.Username, e.FirstName, e.LastName, e.PhoneNumber, e.Bio,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if affected == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	r.changes.emit(ctx, realtime.ChangeEvent{
		Table:      realtime.TableEmployee,
		Event:      realtime.EventUpdate,
		RecordID:   e.ID.String(),
		EmployeeID: uuidPtr(e.ID),
	})
	return r.GetByID(ctx, e.ID)
}

var _ EmployeeRepository = (*PostgresEmployeeRepository)(nil)
