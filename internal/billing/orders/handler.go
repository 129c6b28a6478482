package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline-erp/ledgerline/internal/platform/httpx"
	"github.com/ledgerline-erp/ledgerline/internal/shared"
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
	r.Get("/orders", h.List)
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}", h.Update)
	r.Delete("/orders/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())

	var req ListOrdersRequest
	if v := r.URL.Query().Get("company_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CompanyID = &id
		}
	}
	if v := r.URL.Query().Get("billed"); v != "" {
		billed := v == "true"
		req.Billed = &billed
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		req.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		req.Offset, _ = strconv.Atoi(v)
	}

	list, total, err := h.service.List(r.Context(), ownerID, req)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders": list, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.Update(r.Context(), ownerID, id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrOrderBilled):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("orders handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
