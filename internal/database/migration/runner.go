package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"teamleopard/internal/pkg/logger"
)

// lockKey serialises concurrent migrators against the same database.
const lockKey int64 = 5305412019

const historyTable = "schema_migrations"

var (
	ErrNilDB            = errors.New("nil db")
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
)

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Migration is one V{n}__{name}.sql file.
type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// State reports whether a migration has been applied.
type State struct {
	Migration
	AppliedAt *time.Time
}

func (s State) Pending() bool { return s.AppliedAt == nil }

// Runner applies the files in Dir in version order. The hosted schema is
// owned by the backend; these files mirror it for local development.
type Runner struct {
	Dir    string
	Logger *zap.Logger
}

func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return ErrNilDB
	}
	log := logger.OrNop(r.Logger)

	migs, err := Load(r.Dir)
	if err != nil {
		return err
	}
	if len(migs) == 0 {
		log.Info("no migrations found", zap.String("dir", r.Dir))
		return nil
	}

	// pg advisory locks belong to a session, so lock and unlock share a conn.
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := ensureHistory(ctx, conn); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	applied, err := appliedSet(ctx, conn)
	if err != nil {
		return err
	}

	var ran int
	for _, m := range migs {
		if a, ok := applied[m.Version]; ok {
			if a.checksum != m.Checksum {
				return fmt.Errorf("%w: V%d %s", ErrChecksumMismatch, m.Version, m.Filename)
			}
			continue
		}
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
		ran++
		log.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
	}

	log.Info("migrations up to date", zap.Int("applied", ran), zap.Int("total", len(migs)))
	return nil
}

// Status lists every migration in Dir with its applied time, if any.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]State, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	migs, err := Load(r.Dir)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := ensureHistory(ctx, conn); err != nil {
		return nil, err
	}
	applied, err := appliedSet(ctx, conn)
	if err != nil {
		return nil, err
	}

	out := make([]State, 0, len(migs))
	for _, m := range migs {
		st := State{Migration: m}
		if a, ok := applied[m.Version]; ok {
			at := a.at
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// Load reads and orders the migration files in dir. A missing dir yields no
// migrations; an empty dir name means "migrations" next to the executable.
func Load(dir string) ([]Migration, error) {
	if strings.TrimSpace(dir) == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(filepath.Dir(exe), "migrations")
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, ok, err := parseFile(dir, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			migs = append(migs, m)
		}
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

func parseFile(dir, name string) (Migration, bool, error) {
	match := fileRe.FindStringSubmatch(name)
	if match == nil {
		return Migration{}, false, nil
	}
	v, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return Migration{}, false, fmt.Errorf("invalid migration version: %s", name)
	}

	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return Migration{}, false, err
	}
	body := strings.TrimSpace(string(b))
	if body == "" {
		return Migration{}, false, fmt.Errorf("empty migration file: %s", name)
	}

	sum := sha256.Sum256([]byte(body))
	return Migration{
		Version:  v,
		Name:     match[2],
		Filename: name,
		SQL:      body,
		Checksum: hex.EncodeToString(sum[:]),
	}, true, nil
}

type appliedRow struct {
	checksum string
	at       time.Time
}

func ensureHistory(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+historyTable+` (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func appliedSet(ctx context.Context, conn *sql.Conn) (map[int64]appliedRow, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum, applied_at FROM `+historyTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]appliedRow{}
	for rows.Next() {
		var v int64
		var a appliedRow
		if err := rows.Scan(&v, &a.checksum, &a.at); err != nil {
			return nil, err
		}
		out[v] = a
	}
	return out, rows.Err()
}

func apply(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply V%d %s: %w", m.Version, m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+historyTable+` (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
		m.Version, m.Name, m.Checksum, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
