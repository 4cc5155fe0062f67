package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"

	"teamleopard/internal/database"
	"teamleopard/internal/realtime"
)

type fakeRow struct {
	vals []any
	err  error
}

// Scan assigns vals to dest by reflection; a nil val leaves dest untouched.
func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch: %d != %d", len(dest), len(r.vals))
	}
	for i := range dest {
		if r.vals[i] == nil {
			continue
		}
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer {
			return fmt.Errorf("scan dest %d not a pointer", i)
		}
		v := reflect.ValueOf(r.vals[i])
		if !v.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("scan type mismatch at %d: %s into %s", i, v.Type(), dv.Elem().Type())
		}
		dv.Elem().Set(v)
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.i-1].Scan(dest...) }

type call struct {
	query string
	args  []any
}

// fakeDB records every statement and answers from canned results.
type fakeDB struct {
	mu sync.Mutex

	calls    []call
	affected int64
	execErr  error
	row      fakeRow
	rows     []fakeRow
}

func (db *fakeDB) record(q string, args []any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, call{query: q, args: args})
}

func (db *fakeDB) last() call {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.calls) == 0 {
		return call{}
	}
	return db.calls[len(db.calls)-1]
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db.record(query, args)
	if db.execErr != nil {
		return 0, db.execErr
	}
	return db.affected, nil
}

func (db *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	db.record(query, args)
	return &fakeRows{rows: db.rows}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	db.record(query, args)
	return db.row
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt realtime.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) all() []realtime.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.ChangeEvent(nil), p.events...)
}
