package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"teamleopard/internal/database"
)

// Fixed ids so postings can reference the demo companies across runs.
var (
	demoEmployerLeopard = uuid.MustParse("6f1c7a52-1d1e-4a53-9a43-5c1d2b7a0001")
	demoEmployerHarbor  = uuid.MustParse("6f1c7a52-1d1e-4a53-9a43-5c1d2b7a0002")
)

type EmployersSeeder struct{}

func (EmployersSeeder) Name() string { return "employers" }

func (EmployersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "Employer",
		"id", "username", "email", "company_name", "company_description", "phone_number",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		ID          uuid.UUID
		Username    string
		Email       string
		Company     string
		Description string
	}{
		{
			ID:          demoEmployerLeopard,
			Username:    "leopardlabs",
			Email:       "hiring@leopardlabs.example",
			Company:     "Leopard Labs",
			Description: "Product studio building hiring tools.",
		},
		{
			ID:          demoEmployerHarbor,
			Username:    "harborfreight",
			Email:       "talent@harbor.example",
			Company:     "Harbor Logistics",
			Description: "Freight and warehousing across the west coast.",
		},
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO "Employer" (id, username, email, company_name, company_description)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Username, it.Email, it.Company, it.Description,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
