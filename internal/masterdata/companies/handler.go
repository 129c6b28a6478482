package companies

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
)

// Handler exposes read-only company endpoints. Companies are the shared
// registry every customer, provider and document points into.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/companies", h.List)
	r.Get("/companies/{id}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list companies", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company id")
		return
	}
	company, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get company", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}
