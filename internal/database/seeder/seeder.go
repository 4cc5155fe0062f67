package seeder

import (
	"context"

	"teamleopard/internal/database"
)

// Seeder loads demo rows. Implementations must be safe to run repeatedly.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
