package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/pkg/database"
	"github.com/Lagare24/cris-bel-water/pkg/validator"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,dgte0,money"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,dgte0,money"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"isActive"`
}

type ProductService interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(pRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: pRepo}
}

func (s *productService) ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, includeInactive)
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, NotFoundError("Product with ID %d not found", id)
	}
	return product, nil
}

func (s *productService) find(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Product with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.Messages(req); len(errs) > 0 {
		return nil, ValidationError("Validation failed", errs...)
	}

	product := &model.Product{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		IsActive:    true,
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error) {
	if req.Name == nil && req.Description == nil && req.Price == nil && req.Quantity == nil && req.IsActive == nil {
		return nil, ValidationError("At least one field must be provided for update")
	}
	trimPtr(req.Name)

	var errs []string
	if req.Name != nil && *req.Name == "" {
		errs = append(errs, "Name cannot be empty")
	}
	errs = append(errs, validator.Messages(req)...)
	if len(errs) > 0 {
		return nil, ValidationError("Validation failed", errs...)
	}

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if _, err := s.productRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate product %d: %w", id, err)
	}
	return nil
}
