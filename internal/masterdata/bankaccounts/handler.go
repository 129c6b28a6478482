package bankaccounts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
	appshared "github.com/ledgerline-erp/ledgerline/internal/shared"
)

// Handler exposes read-only bank-account endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/bank-accounts", h.List)
	r.Get("/bank-accounts/{id}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	accounts, err := h.repo.List(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("list bank accounts", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bank_accounts": accounts})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bank account id")
		return
	}
	account, err := h.repo.Get(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get bank account", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}
