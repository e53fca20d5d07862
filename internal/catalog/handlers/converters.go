package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	e "github.com/gartstein/catalog/internal/catalog/errors"
	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// productRequest is the JSON body of create and patch requests. Pointer
// fields tell an absent field from an empty one.
type productRequest struct {
	Name      *string         `json:"name"`
	SKU       *string         `json:"sku"`
	Price     json.RawMessage `json:"price"`
	CompanyID *string         `json:"companyId"`
}

// decodeProductRequest reads the request body. An empty body decodes to an
// empty request.
func decodeProductRequest(marshaler runtime.Marshaler, r *http.Request) (*productRequest, error) {
	req := &productRequest{}
	if err := marshaler.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		v := &e.ValidationError{}
		v.Add("body", "must be a JSON object with valid field types")
		return nil, v
	}
	return req, nil
}

// toInput converts a create request, reporting every missing or malformed field.
func (req *productRequest) toInput() (*models.ProductInput, error) {
	v := &e.ValidationError{}
	input := &models.ProductInput{}

	if req.Name == nil {
		v.Add("name", "is required")
	} else {
		input.Name = *req.Name
	}

	if req.SKU == nil {
		v.Add("sku", "is required")
	} else {
		input.SKU = *req.SKU
	}

	price, ok, err := parsePrice(req.Price)
	switch {
	case err != nil:
		v.Add("price", err.Error())
	case !ok:
		v.Add("price", "is required")
	default:
		input.Price = price
	}

	if req.CompanyID == nil {
		v.Add("companyId", "is required")
	} else if id, err := uuid.Parse(*req.CompanyID); err != nil {
		v.Add("companyId", "must be a valid UUID")
	} else {
		input.CompanyID = id
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return input, nil
}

// toUpdate converts a patch request. Absent and null fields are left unchanged.
func (req *productRequest) toUpdate(id uuid.UUID) (*models.ProductUpdate, error) {
	v := &e.ValidationError{}
	update := &models.ProductUpdate{ID: id, Name: req.Name, SKU: req.SKU}

	price, ok, err := parsePrice(req.Price)
	if err != nil {
		v.Add("price", err.Error())
	} else if ok {
		update.Price = &price
	}

	if req.CompanyID != nil {
		companyID, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			v.Add("companyId", "must be a valid UUID")
		} else {
			update.CompanyID = &companyID
		}
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return update, nil
}

var errPriceFormat = errors.New("must be a decimal number")

// parsePrice accepts a JSON number or a numeric string. ok is false when
// the field is absent or null.
func parsePrice(raw json.RawMessage) (decimal.Decimal, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, false, nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false, errPriceFormat
		}
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, errPriceFormat
	}
	return price, true, nil
}

// parseID parses a path id. An id that is not a UUID cannot name an
// existing product, so it is reported as not found.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, e.ErrProductNotFound
	}
	return id, nil
}

// mapServiceError maps domain or repository errors to gRPC statuses, which
// the gateway renders with the matching HTTP status code.
func mapServiceError(err error, logger *zap.Logger) *status.Status {
	var verr *e.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationStatus(verr)
	case errors.Is(err, e.ErrInvalidInput):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrNotFound):
		return status.New(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrDuplicateName):
		return status.New(codes.AlreadyExists, err.Error())
	case errors.Is(err, e.ErrConstraintViolation):
		return status.New(codes.FailedPrecondition, err.Error())
	default:
		logger.Error("Internal server error", zap.Error(err))
		return status.New(codes.Internal, "internal server error")
	}
}

func validationStatus(verr *e.ValidationError) *status.Status {
	st := status.New(codes.InvalidArgument, verr.Error())
	details := &errdetails.BadRequest{}
	for _, fv := range verr.Violations {
		details.FieldViolations = append(details.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       fv.Field,
			Description: fv.Description,
		})
	}
	withDetails, err := st.WithDetails(details)
	if err != nil {
		return st
	}
	return withDetails
}
