package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/model"
	"github.com/412449-PICCO/generadorDiplos/internal/slug"
)

// Social-card preview dimensions (Open Graph).
const (
	previewWidth  = 1200
	previewHeight = 675
)

var certificatesGenerated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "certificates_generated_total",
		Help: "Total number of certificate generation attempts",
	},
	[]string{"result"},
)

// RecordStore is the persistence capability the generator needs.
// *CertificateService satisfies this interface.
type RecordStore interface {
	Save(ctx context.Context, cert *model.Certificate) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Renderer fills the certificate template for a participant name.
type Renderer interface {
	Render(name string) ([]byte, error)
}

// Rasterizer converts a rendered SVG into raster/print formats.
type Rasterizer interface {
	PNG(ctx context.Context, svg []byte, width, height int) ([]byte, error)
	PDF(ctx context.Context, svg []byte) ([]byte, error)
}

// ArtifactStore uploads and fetches certificate artifacts in object storage.
type ArtifactStore interface {
	UploadSVG(ctx context.Context, key string, body []byte) (model.Artifact, error)
	UploadPNG(ctx context.Context, key string, body []byte) (model.Artifact, error)
	FetchSVG(ctx context.Context, key string) ([]byte, error)
}

// Generator issues certificates: template fill, artifact upload, record save.
type Generator struct {
	store      RecordStore
	renderer   Renderer
	artifacts  ArtifactStore
	rasterizer Rasterizer // optional; nil disables PNG previews
	logger     zerolog.Logger
	appURL     string
}

func NewGenerator(store RecordStore, renderer Renderer, artifacts ArtifactStore, rasterizer Rasterizer, logger zerolog.Logger, appURL string) *Generator {
	return &Generator{
		store:      store,
		renderer:   renderer,
		artifacts:  artifacts,
		rasterizer: rasterizer,
		logger:     logger.With().Str("component", "generator").Logger(),
		appURL:     strings.TrimRight(appURL, "/"),
	}
}

// Generate issues one certificate. The record is persisted only after the
// artifact upload succeeded; a duplicate-slug rejection from the store (lost
// check-then-insert race) triggers exactly one re-resolution and retry.
func (g *Generator) Generate(ctx context.Context, name, email string) (*model.Certificate, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	base := slug.Make(name)
	if base == "" {
		return nil, fmt.Errorf("%w: name %q yields an empty slug", ErrInvalidInput, name)
	}

	svg, err := g.renderer.Render(name)
	if err != nil {
		certificatesGenerated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	s, err := slug.Unique(ctx, base, g.store.SlugExists)
	if err != nil {
		certificatesGenerated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("resolve slug: %w", err)
	}

	cert, err := g.issue(ctx, s, name, email, svg)
	if errors.Is(err, ErrDuplicateSlug) {
		// Another writer claimed the slug between the existence check and
		// the insert. The store's unique constraint is the authority; resolve
		// again and retry once.
		g.logger.Warn().Str("slug", s).Msg("slug taken by concurrent writer, retrying")
		s, err = slug.Unique(ctx, base, g.store.SlugExists)
		if err == nil {
			cert, err = g.issue(ctx, s, name, email, svg)
		}
	}
	if err != nil {
		certificatesGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	certificatesGenerated.WithLabelValues("success").Inc()
	g.logger.Info().Str("slug", cert.Slug).Msg("certificate generated")
	return cert, nil
}

func (g *Generator) issue(ctx context.Context, s, name, email string, svg []byte) (*model.Certificate, error) {
	art, err := g.artifacts.UploadSVG(ctx, s, svg)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	cert := &model.Certificate{
		Slug:      s,
		Name:      name,
		Email:     email,
		AssetURL:  art.URL,
		AssetID:   art.Key,
		CreatedAt: time.Now().UTC(),
	}

	// Preview rasterization is best-effort: the certificate is still issued
	// when the headless browser or the preview upload fails.
	if g.rasterizer != nil {
		png, err := g.rasterizer.PNG(ctx, svg, previewWidth, previewHeight)
		if err != nil {
			g.logger.Warn().Err(err).Str("slug", s).Msg("preview rasterization failed")
		} else if prev, err := g.artifacts.UploadPNG(ctx, s, png); err != nil {
			g.logger.Warn().Err(err).Str("slug", s).Msg("preview upload failed")
		} else {
			cert.PreviewURL = &prev.URL
		}
	}

	if err := g.store.Save(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// GenerateBatch issues certificates sequentially and accumulates per-item
// outcomes. There is no rollback: items that succeeded stay persisted even
// when later items fail.
func (g *Generator) GenerateBatch(ctx context.Context, participants []model.Participant) model.BatchSummary {
	summary := model.BatchSummary{
		Total:   len(participants),
		Results: make([]model.GenerationResult, 0, len(participants)),
	}

	g.logger.Info().Int("count", len(participants)).Msg("starting generation batch")

	for _, p := range participants {
		result := model.GenerationResult{Name: p.Name, Email: p.Email}

		cert, err := g.Generate(ctx, p.Name, p.Email)
		if err != nil {
			summary.Failed++
			result.Error = err.Error()
			g.logger.Error().Err(err).Str("name", p.Name).Msg("generation failed")
		} else {
			summary.Succeeded++
			result.Success = true
			result.Slug = cert.Slug
			result.URL = g.CertificateURL(cert.Slug)
		}
		summary.Results = append(summary.Results, result)
	}

	g.logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("generation batch completed")

	return summary
}

// PDF renders the stored artifact of an issued certificate as a PDF document.
func (g *Generator) PDF(ctx context.Context, assetID string) ([]byte, error) {
	if g.rasterizer == nil {
		return nil, fmt.Errorf("pdf rendering not available")
	}
	svg, err := g.artifacts.FetchSVG(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact %s: %w", assetID, err)
	}
	pdf, err := g.rasterizer.PDF(ctx, svg)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// CertificateURL is the public view URL for a slug.
func (g *Generator) CertificateURL(slug string) string {
	return g.appURL + "/certificate/" + slug
}
