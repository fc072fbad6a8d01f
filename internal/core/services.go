package core

import (
	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/config"
)

// Services bundles the request-facing services so handlers receive their
// collaborators explicitly instead of reaching for globals.
type Services struct {
	Certificate *CertificateService
	Generator   *Generator
	Notifier    *Notifier
	Exporter    *Exporter
	AdminAuth   *AdminAuth
}

func NewServices(db DB, renderer Renderer, artifacts ArtifactStore, rasterizer Rasterizer, sender Sender, logger zerolog.Logger, cfg *config.Config) *Services {
	certs := NewCertificateService(db)
	return &Services{
		Certificate: certs,
		Generator:   NewGenerator(certs, renderer, artifacts, rasterizer, logger, cfg.AppURL),
		Notifier:    NewNotifier(certs, sender, logger, cfg.AppURL),
		Exporter:    NewExporter(cfg.AppURL),
		AdminAuth:   NewAdminAuth(cfg.SessionSecret, cfg.AdminPassword, cfg.AdminPasswordHash),
	}
}
