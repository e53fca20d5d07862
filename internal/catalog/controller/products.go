// Package controller implements the core business logic (service layer)
// of the catalog: product lifecycle with existence checks and validation,
// company listing and seeding, and the events emitted on every change.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/gartstein/catalog/internal/catalog/errors"
	"github.com/gartstein/catalog/internal/catalog/events"
	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, product *models.Product)
}

// ProductRepository defines the storage interface for Product objects.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.ProductWithCompany, error)
	UpdateProduct(ctx context.Context, update *models.ProductUpdate) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductService provides methods to manage products via repository
// operations and event production. It holds no state between calls.
type ProductService struct {
	repo     ProductRepository
	producer EventProducer
	logger   *zap.Logger
}

// NewProductService constructs a ProductService with a repository,
// an event producer, and a logger.
func NewProductService(repo ProductRepository, producer EventProducer, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("product_service"),
	}
}

// CreateProduct validates input and persists a new Product. The company
// reference is not checked here; the store rejects unknown companies with
// ErrConstraintViolation.
func (s *ProductService) CreateProduct(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	v := &e.ValidationError{}
	validateName(v, input.Name)
	validateSKU(v, input.SKU)
	validatePrice(v, input.Price)
	validateCompanyID(v, input.CompanyID)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		SKU:       input.SKU,
		Price:     input.Price,
		CompanyID: input.CompanyID,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, e.ErrConstraintViolation) {
			return nil, fmt.Errorf("%w: company %s does not exist", err, input.CompanyID)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.producer.Produce(events.ProductCreated, product)
	return product, nil
}

// ListProducts returns all products with their company's id and name.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.ProductWithCompany, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.ProductWithCompany{}
	}
	return products, nil
}

// GetProduct retrieves a Product by ID, returning ErrProductNotFound if absent.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// UpdateProduct checks the product exists, then applies only the supplied
// fields and returns the stored result.
func (s *ProductService) UpdateProduct(ctx context.Context, update *models.ProductUpdate) (*models.Product, error) {
	current, err := s.GetProduct(ctx, update.ID)
	if err != nil {
		return nil, err
	}

	// the caller's update is left untouched
	applied := *update
	v := &e.ValidationError{}
	if update.Name != nil {
		validateName(v, *update.Name)
		trimmed := strings.TrimSpace(*update.Name)
		applied.Name = &trimmed
	}
	if update.SKU != nil {
		validateSKU(v, *update.SKU)
	}
	if update.Price != nil {
		validatePrice(v, *update.Price)
	}
	if update.CompanyID != nil {
		validateCompanyID(v, *update.CompanyID)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if applied.IsEmpty() {
		return current, nil
	}

	if err := s.repo.UpdateProduct(ctx, &applied); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			// deleted between the existence check and the write
			return nil, e.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updated, err := s.GetProduct(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to reload updated product",
			zap.Error(err),
			zap.String("product_id", update.ID.String()),
		)
		return nil, err
	}

	s.producer.Produce(events.ProductUpdated, updated)
	return updated, nil
}

// DeleteProduct checks the product exists, removes it permanently and
// acknowledges with {ok: true}.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.producer.Produce(events.ProductDeleted, product)
	return &models.DeleteResult{OK: true}, nil
}
