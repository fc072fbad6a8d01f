package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// mockDB stands in for the pgx pool behind the certificate services.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// mockRow is a pgx.Row that delegates Scan to a single function, usually
// built with scanCertificate.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// mockRows is a pgx.Rows backed by one scan function per certificate row.
// Only Next, Scan and Err matter to the services; the remaining pgx.Rows
// methods are inert.
type mockRows struct {
	pos  int
	rows []func(dest ...any) error
	err  error
}

func newMockRows(rows ...func(dest ...any) error) *mockRows {
	return &mockRows{rows: rows}
}

// newEmptyMockRows yields a result set with zero certificates.
func newEmptyMockRows() *mockRows {
	return &mockRows{}
}

func (m *mockRows) Next() bool {
	return m.pos < len(m.rows)
}

func (m *mockRows) Scan(dest ...any) error {
	if m.pos >= len(m.rows) {
		return nil
	}
	fn := m.rows[m.pos]
	m.pos++
	return fn(dest...)
}

func (m *mockRows) Err() error { return m.err }
func (m *mockRows) Close()     {}

func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }
