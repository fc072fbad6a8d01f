package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

// Sender delivers a "your certificate is ready" message. Implemented by the
// mail package; nil-configured deployments reject notification requests.
type Sender interface {
	Send(ctx context.Context, toEmail, toName, subject, certificateURL string) error
}

// CertificateLookup is the read capability the notifier needs.
// *CertificateService satisfies this interface.
type CertificateLookup interface {
	GetBySlug(ctx context.Context, slug string) (*model.Certificate, error)
}

// Notifier emails certificate links to participants.
type Notifier struct {
	store  CertificateLookup
	sender Sender
	logger zerolog.Logger
	appURL string
}

func NewNotifier(store CertificateLookup, sender Sender, logger zerolog.Logger, appURL string) *Notifier {
	return &Notifier{
		store:  store,
		sender: sender,
		logger: logger.With().Str("component", "notifier").Logger(),
		appURL: strings.TrimRight(appURL, "/"),
	}
}

// Configured reports whether an outbound mail sender is wired.
func (n *Notifier) Configured() bool {
	return n.sender != nil
}

// SendBatch emails each slug's participant sequentially, accumulating
// per-item outcomes. An unknown slug counts as a failure without aborting
// the batch.
func (n *Notifier) SendBatch(ctx context.Context, slugs []string, subject string) model.EmailBatchSummary {
	summary := model.EmailBatchSummary{
		Total:   len(slugs),
		Results: make([]model.EmailResult, 0, len(slugs)),
	}

	for _, s := range slugs {
		result := model.EmailResult{Slug: s}

		cert, err := n.store.GetBySlug(ctx, s)
		if err != nil {
			summary.Failed++
			result.Error = "certificate not found"
			n.logger.Warn().Str("slug", s).Msg("notification skipped, unknown slug")
			summary.Results = append(summary.Results, result)
			continue
		}

		result.Email = cert.Email
		url := n.appURL + "/certificate/" + cert.Slug
		if err := n.sender.Send(ctx, cert.Email, cert.Name, subject, url); err != nil {
			summary.Failed++
			result.Error = "delivery failed"
			n.logger.Error().Err(err).Str("slug", s).Msg("notification delivery failed")
		} else {
			summary.Succeeded++
			result.Success = true
		}
		summary.Results = append(summary.Results, result)
	}

	n.logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("notification batch completed")

	return summary
}
