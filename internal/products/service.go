package product

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
	"github.com/ecoswap/ecoswap-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Service exposes product lifecycle operations.
type Service interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListActive(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
}

type blobStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, data []byte) error
	DeleteObject(ctx context.Context, bucket, object string) error
	ObjectURL(bucket, object string) string
	DefaultBucket() string
}

// service implements the product service.
type service struct {
	repo  ProductRepository
	blobs blobStore
	logg  *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo ProductRepository, blobs blobStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, blobs: blobs, logg: logg}, nil
}

// CreateProduct stores the image first and only then inserts the row. A failed
// insert triggers a compensating blob delete so no orphaned image survives.
func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if err := validateImage(input.Image); err != nil {
		return nil, err
	}

	object := buildObjectName(input.Image.Filename)
	bucket := s.blobs.DefaultBucket()
	if err := s.blobs.UploadObject(ctx, bucket, object, input.Image.ContentType, input.Image.Data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store product image")
	}

	product := &models.Product{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Condition:   input.Condition,
		ImageURL:    s.blobs.ObjectURL(bucket, object),
		ImageObject: object,
		Status:      enums.ProductStatusActive,
		ReleaseDate: nowUTC(),
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if delErr := s.blobs.DeleteObject(ctx, bucket, object); delErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "object", object), "orphaned image cleanup failed", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	return NewProductDTO(created), nil
}

// UpdateProduct patches mutable fields. Status and owner are untouchable here.
func (s *service) UpdateProduct(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.Condition != nil && !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}

	applyUpdateToProduct(product, input)
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct soft-deletes by marking the product inactive. Re-deleting an
// already inactive product is a no-op success.
func (s *service) DeleteProduct(ctx context.Context, actorID, productID uuid.UUID) error {
	product, err := s.loadOwned(ctx, actorID, productID)
	if err != nil {
		return err
	}
	if product.Status == enums.ProductStatusInactive {
		return nil
	}
	if err := s.repo.SetStatus(ctx, productID, enums.ProductStatusInactive); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

// GetProduct is status-blind: inactive products remain fetchable by id.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListActive returns only active products.
func (s *service) ListActive(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	rows, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) loadOwned(ctx context.Context, actorID, productID uuid.UUID) (*models.Product, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to actor")
	}
	return product, nil
}

func validateImage(image *ImageInput) error {
	if image == nil || len(image.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	ext := strings.ToLower(path.Ext(image.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "image must be jpg, jpeg, or png")
	}
	return nil
}

// buildObjectName produces a globally unique storage name keyed by the upload.
func buildObjectName(filename string) string {
	base := strings.TrimSpace(path.Base(filename))
	return fmt.Sprintf("products/%s_%s", uuid.NewString(), base)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Condition != nil {
		product.Condition = *input.Condition
	}
}
