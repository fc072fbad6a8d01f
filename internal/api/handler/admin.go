package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/412449-PICCO/generadorDiplos/internal/api/middleware"
	"github.com/412449-PICCO/generadorDiplos/internal/api/request"
	"github.com/412449-PICCO/generadorDiplos/internal/api/response"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

type Admin struct {
	auth     *core.AdminAuth
	svc      *core.CertificateService
	notifier *core.Notifier
	exporter *core.Exporter
}

func NewAdmin(auth *core.AdminAuth, svc *core.CertificateService, notifier *core.Notifier, exporter *core.Exporter) *Admin {
	return &Admin{auth: auth, svc: svc, notifier: notifier, exporter: exporter}
}

// Login godoc
//
//	@Summary		Authenticate and receive an admin session cookie
//	@Tags			Admin
//	@Param			body body request.AdminLogin true "Credentials"
//	@Success		200 {object} map[string]string
//	@Failure		401 {object} response.ErrorResponse
//	@Router			/admin/login [post]
func (h *Admin) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLogin
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		response.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout godoc
//
//	@Summary		Clear the admin session cookie
//	@Tags			Admin
//	@Success		200 {object} map[string]string
//	@Router			/admin/logout [post]
func (h *Admin) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats godoc
//
//	@Summary		Admin dashboard statistics
//	@Tags			Admin
//	@Success		200 {object} map[string]any
//	@Router			/admin/stats [get]
func (h *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"total_certificates": total,
		"email_configured":   h.notifier.Configured(),
	})
}

// Export godoc
//
//	@Summary		Export all certificate records
//	@Tags			Admin
//	@Param			format query string false "csv or xlsx" default(csv)
//	@Success		200 {file} text/csv
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/admin/export [get]
func (h *Admin) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		response.WriteError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	total, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var certs []model.Certificate
	if total > 0 {
		certs, err = h.svc.List(r.Context(), total, 0)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	filename := "certificates-" + time.Now().Format("2006-01-02")
	if format == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		err = h.exporter.WriteXLSX(w, certs)
	} else {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		err = h.exporter.WriteCSV(w, certs)
	}
	if err != nil {
		// Headers are already out; nothing left to do but log.
		zerolog.Ctx(r.Context()).Error().Err(err).Str("format", format).Msg("export failed")
	}
}

// SendEmails godoc
//
//	@Summary		Email certificate links to participants
//	@Tags			Admin
//	@Param			body body request.SendEmails true "Slugs and optional subject"
//	@Success		200 {object} model.EmailBatchSummary
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/admin/send-emails [post]
func (h *Admin) SendEmails(w http.ResponseWriter, r *http.Request) {
	if !h.notifier.Configured() {
		response.WriteError(w, http.StatusServiceUnavailable, "email delivery not configured")
		return
	}

	var req request.SendEmails
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := h.notifier.SendBatch(r.Context(), req.Slugs, req.Subject)
	response.WriteJSON(w, http.StatusOK, summary)
}
