package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

const certColumns = `slug, name, email, asset_url, asset_id, preview_url, created_at, view_count, last_viewed_at`

type CertificateService struct {
	db DB
}

func NewCertificateService(db DB) *CertificateService {
	return &CertificateService{db: db}
}

// Save inserts a new certificate record. A slug collision surfaces as
// ErrDuplicateSlug so callers can re-resolve uniqueness and retry.
func (s *CertificateService) Save(ctx context.Context, cert *model.Certificate) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO certificates (slug, name, email, asset_url, asset_id, preview_url, created_at, view_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0)`,
		cert.Slug, cert.Name, cert.Email, cert.AssetURL, cert.AssetID, cert.PreviewURL, cert.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert certificate %s: %w", cert.Slug, ErrDuplicateSlug)
	}
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (s *CertificateService) GetBySlug(ctx context.Context, slug string) (*model.Certificate, error) {
	var c model.Certificate
	err := s.db.QueryRow(ctx,
		`SELECT `+certColumns+` FROM certificates WHERE slug = $1`, slug,
	).Scan(&c.Slug, &c.Name, &c.Email, &c.AssetURL, &c.AssetID, &c.PreviewURL,
		&c.CreatedAt, &c.ViewCount, &c.LastViewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get certificate %s: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get certificate %s: %w", slug, err)
	}
	return &c, nil
}

// SlugExists reports whether a slug is already taken. Used by the uniqueness
// resolver during generation.
func (s *CertificateService) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM certificates WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug %s: %w", slug, err)
	}
	return exists, nil
}

// MarkViewed increments the view counter and stamps the last visit time.
func (s *CertificateService) MarkViewed(ctx context.Context, slug string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE certificates SET view_count = view_count + 1, last_viewed_at = now() WHERE slug = $1`, slug,
	)
	if err != nil {
		return fmt.Errorf("mark certificate %s viewed: %w", slug, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark certificate %s viewed: %w", slug, ErrNotFound)
	}
	return nil
}

// List returns certificates ordered by creation time, newest first.
func (s *CertificateService) List(ctx context.Context, limit, offset int) ([]model.Certificate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+certColumns+` FROM certificates ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	return scanCertificates(rows)
}

func (s *CertificateService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return count, nil
}

// SearchByEmail returns certificates whose email contains q, newest first.
func (s *CertificateService) SearchByEmail(ctx context.Context, q string, limit int) ([]model.Certificate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+certColumns+` FROM certificates
		 WHERE email ILIKE '%' || $1 || '%' ORDER BY created_at DESC LIMIT $2`,
		q, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search certificates by email: %w", err)
	}
	defer rows.Close()

	return scanCertificates(rows)
}

// SearchByName returns certificates whose name contains q, newest first.
func (s *CertificateService) SearchByName(ctx context.Context, q string, limit int) ([]model.Certificate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+certColumns+` FROM certificates
		 WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at DESC LIMIT $2`,
		q, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search certificates by name: %w", err)
	}
	defer rows.Close()

	return scanCertificates(rows)
}

func scanCertificates(rows pgx.Rows) ([]model.Certificate, error) {
	var certs []model.Certificate
	for rows.Next() {
		var c model.Certificate
		if err := rows.Scan(&c.Slug, &c.Name, &c.Email, &c.AssetURL, &c.AssetID, &c.PreviewURL,
			&c.CreatedAt, &c.ViewCount, &c.LastViewedAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return certs, nil
}
