package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
	"github.com/ledgerline-erp/ledgerline/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/cashflow", h.Cashflow)
	r.Get("/reports/pending-payments", h.PendingPayments)
}

func (h *Handler) Cashflow(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())

	year := h.service.now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid year")
			return
		}
		year = parsed
	}

	report, err := h.service.Cashflow(r.Context(), ownerID, year)
	if err != nil {
		h.logger.Error("cashflow report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) PendingPayments(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())

	report, err := h.service.PendingPayments(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("pending payments report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
