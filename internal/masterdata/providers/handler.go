package providers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
	appshared "github.com/ledgerline-erp/ledgerline/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/providers", h.List)
	r.Post("/providers", h.Create)
	r.Get("/providers/{id}", h.Get)
	r.Put("/providers/{id}", h.Update)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	list, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("list providers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"providers": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid provider id")
		return
	}
	provider, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, provider)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	var req CreateProviderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	provider, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, provider)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid provider id")
		return
	}
	var req UpdateProviderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	provider, err := h.service.Update(r.Context(), ownerID, id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, provider)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error("providers handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
