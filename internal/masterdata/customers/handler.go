package customers

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
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers", h.List)
	r.Post("/customers", h.Create)
	r.Get("/customers/{id}", h.Get)
	r.Put("/customers/{id}", h.Update)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := appshared.CompanyFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "owner company not resolved")
		return
	}

	var req ListCustomersRequest
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		req.IsActive = &active
	}

	list, err := h.service.List(r.Context(), ownerID, req)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid customer id")
		return
	}
	customer, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	customer, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := appshared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid customer id")
		return
	}
	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	customer, err := h.service.Update(r.Context(), ownerID, id, req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		logger.Error("customers handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
