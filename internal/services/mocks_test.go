package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

type mockConnector struct {
	conn   *pgx.Conn
	err    error
	closed bool
}

func (m *mockConnector) Connect(_ context.Context) (*pgx.Conn, error) {
	return m.conn, m.err
}

func (m *mockConnector) Close() error {
	m.closed = true
	return nil
}

// mockFactory records how often it was called and the config it received.
type mockFactory struct {
	connector *mockConnector
	err       error
	calls     int
	got       *bookseed.ConnectionConfig
}

func (f *mockFactory) factory(cfg *bookseed.ConnectionConfig, _ bookseed.Logger) (bookseed.Connector, error) {
	f.calls++
	f.got = cfg
	if f.err != nil {
		return nil, f.err
	}
	return f.connector, nil
}

type mockRenderer struct {
	tables []*bookseed.Table
	err    error
}

func (r *mockRenderer) Render(t *bookseed.Table) error {
	r.tables = append(r.tables, t)
	return r.err
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) Verbose(string, ...interface{}) {}
func (l *recordingLogger) Error(string, ...interface{})   {}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, format)
}

// statement is one SQL call seen by fakeDB.
type statement struct {
	sql  string
	args []any
}

// fakeDB hands out sequential ids from every RETURNING statement.
// Statements made inside a transaction land in committed only after Commit.
type fakeDB struct {
	nextID    int64
	inserted  bool
	failOn    string
	failErr   error
	committed []statement
	rollbacks int
	begins    int
}

func newFakeDB() *fakeDB {
	return &fakeDB{inserted: true, failErr: errors.New("boom")}
}

func (d *fakeDB) fails(sql string) bool {
	return d.failOn != "" && strings.Contains(sql, d.failOn)
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.committed = append(d.committed, statement{sql, args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeDB: Query not supported")
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.committed = append(d.committed, statement{sql, args})
	return d.row(sql)
}

func (d *fakeDB) row(sql string) pgx.Row {
	if d.fails(sql) {
		return fakeRow{err: d.failErr}
	}
	d.nextID++
	return fakeRow{id: d.nextID, inserted: d.inserted}
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	d.begins++
	return &fakeTx{db: d}, nil
}

func (d *fakeDB) count(substr string) int {
	n := 0
	for _, s := range d.committed {
		if strings.Contains(s.sql, substr) {
			n++
		}
	}
	return n
}

func (d *fakeDB) argsOf(substr string) [][]any {
	var out [][]any
	for _, s := range d.committed {
		if strings.Contains(s.sql, substr) {
			out = append(out, s.args)
		}
	}
	return out
}

// fakeTx embeds pgx.Tx for the methods Populate never calls.
type fakeTx struct {
	pgx.Tx
	db      *fakeDB
	pending []statement
	done    bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.db.fails(sql) {
		return pgconn.CommandTag{}, t.db.failErr
	}
	t.pending = append(t.pending, statement{sql, args})
	if t.db.inserted {
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("INSERT 0 0"), nil
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.pending = append(t.pending, statement{sql, args})
	return t.db.row(sql)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.committed = append(t.db.committed, t.pending...)
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rollbacks++
	return nil
}

type fakeRow struct {
	id       int64
	inserted bool
	err      error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.id
	}
	if len(dest) > 1 {
		if p, ok := dest[1].(*bool); ok {
			*p = r.inserted
		}
	}
	return nil
}
