package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// ProductController defines the business logic interface
// that the HTTP handlers will invoke for products.
type ProductController interface {
	CreateProduct(ctx context.Context, input *models.ProductInput) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.ProductWithCompany, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, update *models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error)
}

// CompanyController defines the read access to companies.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// handler carries what every route needs to render responses and errors.
type handler struct {
	mux    *runtime.ServeMux
	logger *zap.Logger
}

func (h *handler) writeResponse(w http.ResponseWriter, r *http.Request, code int, resp interface{}) {
	_, outbound := runtime.MarshalerForRequest(h.mux, r)
	buf, err := outbound.Marshal(resp)
	if err != nil {
		h.logger.Error("Failed to marshal response", zap.Error(err))
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", outbound.ContentType(resp))
	w.WriteHeader(code)
	if _, err := w.Write(buf); err != nil {
		h.logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	_, outbound := runtime.MarshalerForRequest(h.mux, r)
	st := mapServiceError(err, h.logger)
	runtime.HTTPError(r.Context(), h.mux, outbound, w, r, st.Err())
}

// ProductHandler serves the /api/products routes.
type ProductHandler struct {
	handler
	service ProductController
}

// NewProductHandler constructs a new ProductHandler with the given service and logger.
func NewProductHandler(service ProductController, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		handler: handler{logger: logger.Named("product_handler")},
		service: service,
	}
}

// RegisterRoutes mounts the product routes on mux.
func (h *ProductHandler) RegisterRoutes(mux *runtime.ServeMux) error {
	h.mux = mux
	routes := []struct {
		method string
		path   string
		fn     runtime.HandlerFunc
	}{
		{http.MethodPost, "/api/products", h.CreateProduct},
		{http.MethodGet, "/api/products", h.ListProducts},
		{http.MethodGet, "/api/products/{id}", h.GetProduct},
		{http.MethodPatch, "/api/products/{id}", h.UpdateProduct},
		{http.MethodDelete, "/api/products/{id}", h.DeleteProduct},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.fn); err != nil {
			return err
		}
	}
	return nil
}

// CreateProduct handles POST /api/products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	inbound, _ := runtime.MarshalerForRequest(h.mux, r)
	req, err := decodeProductRequest(inbound, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusCreated, created)
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseID(params["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, product)
}

// UpdateProduct handles PATCH /api/products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseID(params["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	inbound, _ := runtime.MarshalerForRequest(h.mux, r)
	req, err := decodeProductRequest(inbound, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	update, err := req.toUpdate(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := parseID(params["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, result)
}

// CompanyHandler serves the /api/companies routes.
type CompanyHandler struct {
	handler
	service CompanyController
}

func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		handler: handler{logger: logger.Named("company_handler")},
		service: service,
	}
}

// RegisterRoutes mounts the company routes on mux.
func (h *CompanyHandler) RegisterRoutes(mux *runtime.ServeMux) error {
	h.mux = mux
	return mux.HandlePath(http.MethodGet, "/api/companies", h.ListCompanies)
}

// ListCompanies handles GET /api/companies.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, companies)
}
