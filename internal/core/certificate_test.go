package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

func TestNewCertificateService(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)

	require.NotNil(t, svc)
	assert.Equal(t, db, svc.db)
}

func scanCertificate(slug, name, email string, viewCount int, created time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = slug
		*(dest[1].(*string)) = name
		*(dest[2].(*string)) = email
		*(dest[3].(*string)) = "https://cdn.example.com/certificates/" + slug + ".svg"
		*(dest[4].(*string)) = "certificates/" + slug + ".svg"
		*(dest[5].(**string)) = nil // preview_url
		*(dest[6].(*time.Time)) = created
		*(dest[7].(*int)) = viewCount
		*(dest[8].(**time.Time)) = nil // last_viewed_at
		return nil
	}
}

// ---------- Save ----------

func TestCertificateService_Save_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	cert := &model.Certificate{
		Slug:      "maria-jose-gonzalez",
		Name:      "María José González",
		Email:     "maria@example.com",
		AssetURL:  "https://cdn.example.com/certificates/maria-jose-gonzalez.svg",
		AssetID:   "certificates/maria-jose-gonzalez.svg",
		CreatedAt: time.Now(),
	}

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	err := svc.Save(ctx, cert)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestCertificateService_Save_DuplicateSlug(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	pgErr := &pgconn.PgError{Code: "23505"}
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, pgErr)

	err := svc.Save(ctx, &model.Certificate{Slug: "frank-vargas"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
	db.AssertExpectations(t)
}

func TestCertificateService_Save_InsertError(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, errors.New("db error"))

	err := svc.Save(ctx, &model.Certificate{Slug: "frank-vargas"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateSlug)
	assert.Contains(t, err.Error(), "insert certificate")
	db.AssertExpectations(t)
}

// ---------- GetBySlug ----------

func TestCertificateService_GetBySlug_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond)
	row := &mockRow{scanFunc: scanCertificate("frank-vargas", "Frank Vargas", "frank@example.com", 3, now)}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	result, err := svc.GetBySlug(ctx, "frank-vargas")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "frank-vargas", result.Slug)
	assert.Equal(t, "Frank Vargas", result.Name)
	assert.Equal(t, 3, result.ViewCount)
	assert.Nil(t, result.PreviewURL)
	db.AssertExpectations(t)
}

func TestCertificateService_GetBySlug_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return pgx.ErrNoRows
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	result, err := svc.GetBySlug(ctx, "nonexistent")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotFound)
	db.AssertExpectations(t)
}

// ---------- SlugExists ----------

func TestCertificateService_SlugExists(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	exists, err := svc.SlugExists(ctx, "frank-vargas")
	require.NoError(t, err)
	assert.True(t, exists)
	db.AssertExpectations(t)
}

func TestCertificateService_SlugExists_QueryError(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		return errors.New("db error")
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	_, err := svc.SlugExists(ctx, "frank-vargas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check slug")
	db.AssertExpectations(t)
}

// ---------- MarkViewed ----------

func TestCertificateService_MarkViewed_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := svc.MarkViewed(ctx, "frank-vargas")
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestCertificateService_MarkViewed_Twice(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	// Each call issues one atomic increment; two visits mean two updates.
	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil).Twice()

	require.NoError(t, svc.MarkViewed(ctx, "frank-vargas"))
	require.NoError(t, svc.MarkViewed(ctx, "frank-vargas"))
	db.AssertExpectations(t)
}

func TestCertificateService_MarkViewed_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	err := svc.MarkViewed(ctx, "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	db.AssertExpectations(t)
}

// ---------- List ----------

func TestCertificateService_List_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond)
	rows := newMockRows(
		scanCertificate("ana-torres", "Ana Torres", "ana@example.com", 0, now),
		scanCertificate("frank-vargas", "Frank Vargas", "frank@example.com", 2, now.Add(-time.Hour)),
	)
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	result, err := svc.List(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "ana-torres", result[0].Slug)
	assert.Equal(t, "frank-vargas", result[1].Slug)
	db.AssertExpectations(t)
}

func TestCertificateService_List_Empty(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newEmptyMockRows(), nil)

	result, err := svc.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, result)
	db.AssertExpectations(t)
}

func TestCertificateService_List_QueryError(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("db error"))

	result, err := svc.List(ctx, 50, 0)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "list certificates")
	db.AssertExpectations(t)
}

// ---------- Count ----------

func TestCertificateService_Count(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*int)) = 42
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	db.AssertExpectations(t)
}

// ---------- Search ----------

func TestCertificateService_SearchByEmail(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond)
	rows := newMockRows(scanCertificate("ana-torres", "Ana Torres", "ana@example.com", 0, now))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	result, err := svc.SearchByEmail(ctx, "ana@", 50)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "ana@example.com", result[0].Email)
	db.AssertExpectations(t)
}

func TestCertificateService_SearchByName(t *testing.T) {
	db := &mockDB{}
	svc := NewCertificateService(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond)
	rows := newMockRows(scanCertificate("ana-torres", "Ana Torres", "ana@example.com", 0, now))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	result, err := svc.SearchByName(ctx, "torres", 50)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Ana Torres", result[0].Name)
	db.AssertExpectations(t)
}
