package documents

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

// MountRoutes registers the document routes. The docType path segment uses
// the plural slugs: quotes, purchase-orders, customer-invoices,
// provider-invoices.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/documents/{docType}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/last-number", h.LastNumber)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Amend)
		r.Post("/{id}/paid", h.SetPaid)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}

	req := ListDocumentsRequest{DocType: docType}
	if v := r.URL.Query().Get("company_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CompanyID = &id
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := DocStatus(v)
		req.Status = &status
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		req.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		req.Offset, _ = strconv.Atoi(v)
	}

	list, total, err := h.service.List(r.Context(), ownerID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": list, "total": total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), ownerID, id, docType)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Create(r.Context(), ownerID, docType, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) Amend(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	doc, err := h.service.Amend(r.Context(), ownerID, id, docType, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) SetPaid(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	doc, err := h.service.SetPaid(r.Context(), ownerID, id, docType)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	if _, ok := h.docType(w, r); !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(r.Context(), ownerID, id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LastNumber(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := shared.CompanyFromContext(r.Context())
	docType, ok := h.docType(w, r)
	if !ok {
		return
	}
	num, err := h.service.LastNumber(r.Context(), ownerID, docType)
	if err != nil {
		if errors.Is(err, ErrNoDocumentNumber) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"last_doc_number": num})
}

func (h *Handler) docType(w http.ResponseWriter, r *http.Request) (DocType, bool) {
	docType, err := ParseDocType(chi.URLParam(r, "docType"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return "", false
	}
	return docType, true
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := ErrorCode(err)
	switch {
	case errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrChangeRateNotFound),
		errors.Is(err, ErrBankAccountNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrProviderNotFound):
		httpx.ProblemCode(w, http.StatusNotFound, "Not Found", err.Error(), code)
	case errors.Is(err, ErrNoOrders),
		errors.Is(err, ErrInvalidVatRate),
		errors.Is(err, ErrInvalidWithholding),
		errors.Is(err, ErrOrderWrongCompany):
		httpx.ProblemCode(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error(), code)
	case errors.Is(err, ErrOrderAlreadyBilled),
		errors.Is(err, ErrAlreadyModified),
		errors.Is(err, ErrNotPending):
		httpx.ProblemCode(w, http.StatusConflict, "Conflict", err.Error(), code)
	default:
		h.logger.Error("documents handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
