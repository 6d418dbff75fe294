package application

import (
	"context"
	"io"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/RaikyD/store-admin/internal/validation"
	"github.com/google/uuid"
)

type ImageStore interface {
	Put(ctx context.Context, key, filename, contentType string, body io.Reader) (string, error)
}

type ProductsService struct {
	repo    repository.ProductRepo
	images  ImageStore
	changes *ChangeNotifier
}

// NewProductsService wires the catalog; images may be nil when no bucket is configured.
func NewProductsService(r repository.ProductRepo, images ImageStore, changes *ChangeNotifier) *ProductsService {
	return &ProductsService{repo: r, images: images, changes: changes}
}

func (s *ProductsService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, 0)
}

func (s *ProductsService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Create validates the submission and stores a new product. A failed
// validation is returned as validation.Errors.
func (s *ProductsService) Create(ctx context.Context, form validation.ProductForm) (*domain.Product, error) {
	in, verrs := validation.ValidateProduct(form)
	if verrs != nil {
		return nil, verrs
	}

	p := &domain.Product{ID: uuid.New()}
	apply(p, in)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Warn("create product failed", "err", err)
		return nil, err
	}
	logger.Info("product created", "id", p.ID, "name", p.Name)
	s.changes.Notify(ctx, domain.EntityProduct, p.ID, domain.ActionCreated)
	return p, nil
}

func (s *ProductsService) Update(ctx context.Context, id uuid.UUID, form validation.ProductForm) (*domain.Product, error) {
	in, verrs := validation.ValidateProduct(form)
	if verrs != nil {
		return nil, verrs
	}

	p := &domain.Product{ID: id}
	apply(p, in)
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("product updated", "id", id)
	s.changes.Notify(ctx, domain.EntityProduct, id, domain.ActionUpdated)
	return p, nil
}

func (s *ProductsService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logger.Info("product deleted", "id", id)
	s.changes.Notify(ctx, domain.EntityProduct, id, domain.ActionDeleted)
	return nil
}

// UploadImage stores the image in object storage and points the product at it.
func (s *ProductsService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader) (*domain.Product, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.images.Put(ctx, id.String()+"-"+uuid.NewString()[:8], filename, contentType, body)
	if err != nil {
		logger.Warn("image upload failed", "id", id, "err", err)
		return nil, err
	}
	if err := s.repo.SetProductImage(ctx, id, url); err != nil {
		return nil, err
	}
	s.changes.Notify(ctx, domain.EntityProduct, id, domain.ActionUpdated)
	return s.repo.GetProduct(ctx, id)
}

func apply(p *domain.Product, in validation.ProductInput) {
	p.Name = in.Name
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.Category = in.Category
	p.Brand = in.Brand
	p.ImageURL = in.ImageURL
	p.Description = in.Description
	p.IsActive = in.IsActive
}
