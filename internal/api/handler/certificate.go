package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/api/request"
	"github.com/412449-PICCO/generadorDiplos/internal/api/response"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

type Certificate struct {
	svc          *core.CertificateService
	generator    *core.Generator
	maxBatchSize int
}

func NewCertificate(svc *core.CertificateService, generator *core.Generator, maxBatchSize int) *Certificate {
	return &Certificate{svc: svc, generator: generator, maxBatchSize: maxBatchSize}
}

// Generate godoc
//
//	@Summary		Generate certificates for a batch of participants
//	@Tags			Certificates
//	@Param			body body request.Generate true "Participants"
//	@Success		200 {object} model.BatchSummary
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/generate [post]
func (h *Certificate) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.Generate
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.CheckBatchSize(h.maxBatchSize); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	participants := make([]model.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = model.Participant{Name: p.Name, Email: p.Email}
	}

	summary := h.generator.GenerateBatch(r.Context(), participants)
	response.WriteJSON(w, http.StatusOK, summary)
}

// View godoc
//
//	@Summary		Look up a certificate by slug
//	@Tags			Certificates
//	@Param			slug path string true "Certificate slug"
//	@Success		200 {object} model.Certificate
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/certificate/{slug} [get]
func (h *Certificate) View(w http.ResponseWriter, r *http.Request) {
	slug, err := request.RequireSlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// A failed view-count bump must not hide the certificate.
	if err := h.svc.MarkViewed(r.Context(), slug); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("slug", slug).Msg("mark viewed failed")
	} else {
		cert.ViewCount++
		now := time.Now().UTC()
		cert.LastViewedAt = &now
	}

	response.WriteJSON(w, http.StatusOK, cert)
}

// Download godoc
//
//	@Summary		Redirect to the stored SVG artifact
//	@Tags			Certificates
//	@Param			slug path string true "Certificate slug"
//	@Success		302
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/download/{slug} [get]
func (h *Certificate) Download(w http.ResponseWriter, r *http.Request) {
	slug, err := request.RequireSlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, cert.AssetURL, http.StatusFound)
}

// Preview godoc
//
//	@Summary		Redirect to the PNG preview of a certificate
//	@Tags			Certificates
//	@Param			slug path string true "Certificate slug"
//	@Success		302
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/preview/{slug} [get]
func (h *Certificate) Preview(w http.ResponseWriter, r *http.Request) {
	slug, err := request.RequireSlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if cert.PreviewURL == nil {
		response.WriteError(w, http.StatusNotFound, "preview not available")
		return
	}

	http.Redirect(w, r, *cert.PreviewURL, http.StatusFound)
}

// PDF godoc
//
//	@Summary		Download a certificate as PDF
//	@Tags			Certificates
//	@Param			slug path string true "Certificate slug"
//	@Success		200 {file} application/pdf
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/pdf/{slug} [get]
func (h *Certificate) PDF(w http.ResponseWriter, r *http.Request) {
	slug, err := request.RequireSlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.svc.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pdf, err := h.generator.PDF(r.Context(), cert.AssetID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+slug+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// List godoc
//
//	@Summary		List certificates, newest first
//	@Tags			Certificates
//	@Param			limit query int false "Page size" default(50)
//	@Param			offset query int false "Page offset"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Certificate}
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/list [get]
func (h *Certificate) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	certs, err := h.svc.List(r.Context(), pg.Limit, pg.Offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	total, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if certs == nil {
		certs = []model.Certificate{}
	}
	response.WritePaginated(w, http.StatusOK, certs, total, pg.Limit, pg.Offset)
}

// SearchEmail godoc
//
//	@Summary		Search certificates by email substring
//	@Tags			Certificates
//	@Param			q path string true "Search term"
//	@Success		200 {array} model.Certificate
//	@Router			/search/email/{q} [get]
func (h *Certificate) SearchEmail(w http.ResponseWriter, r *http.Request) {
	q, err := request.RequireQuery(chi.URLParam(r, "q"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	certs, err := h.svc.SearchByEmail(r.Context(), q, request.DefaultLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}
	response.WriteJSON(w, http.StatusOK, certs)
}

// SearchName godoc
//
//	@Summary		Search certificates by name substring
//	@Tags			Certificates
//	@Param			q path string true "Search term"
//	@Success		200 {array} model.Certificate
//	@Router			/search/name/{q} [get]
func (h *Certificate) SearchName(w http.ResponseWriter, r *http.Request) {
	q, err := request.RequireQuery(chi.URLParam(r, "q"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	certs, err := h.svc.SearchByName(r.Context(), q, request.DefaultLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}
	response.WriteJSON(w, http.StatusOK, certs)
}
