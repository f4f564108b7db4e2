package service

import (
	"context"
	"fmt"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/pkg/database"
	"github.com/Lagare24/cris-bel-water/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceBase     PriceSource = "base"
)

type ResolvedPrice struct {
	ClientID  uint            `json:"clientId"`
	ProductID uint            `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Source    PriceSource     `json:"source"`
}

type SetOverrideRequest struct {
	ProductID uint             `json:"productId" validate:"required,gt=0"`
	Price     *decimal.Decimal `json:"price" validate:"required,dgt0,money"`
}

type PricingService interface {
	ResolveUnitPrice(ctx context.Context, clientID, productID uint) (decimal.Decimal, error)
	Resolve(ctx context.Context, clientID, productID uint) (*ResolvedPrice, error)
	ListOverrides(ctx context.Context, clientID uint) ([]model.ClientProductPrice, error)
	SetOverride(ctx context.Context, clientID uint, req *SetOverrideRequest) (*model.ClientProductPrice, error)
	RemoveOverride(ctx context.Context, clientID, productID uint) error
}

type pricingService struct {
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
	db          *gorm.DB
	publisher   Publisher
}

func NewPricingService(cRepo repository.ClientRepository, pRepo repository.ProductRepository, priceRepo repository.PriceRepository, db *gorm.DB, pub Publisher) PricingService {
	return &pricingService{
		clientRepo:  cRepo,
		productRepo: pRepo,
		priceRepo:   priceRepo,
		db:          db,
		publisher:   pub,
	}
}

// effectivePrice applies an override only while the override, the client and
// the product are all active; otherwise the product's base price wins.
func effectivePrice(product *model.Product, client *model.Client, override *model.ClientProductPrice) (decimal.Decimal, PriceSource) {
	if override != nil && override.IsActive && client != nil && client.IsActive && product.IsActive {
		return override.Price, PriceSourceOverride
	}
	return product.Price, PriceSourceBase
}

func (s *pricingService) ResolveUnitPrice(ctx context.Context, clientID, productID uint) (decimal.Decimal, error) {
	resolved, err := s.Resolve(ctx, clientID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return resolved.UnitPrice, nil
}

// Resolve reads committed rows on every call; clientID 0 means walk-in and always gets the base price.
func (s *pricingService) Resolve(ctx context.Context, clientID, productID uint) (*ResolvedPrice, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Product with ID %d not found", productID)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if !product.IsActive {
		return nil, ConflictError("Product is inactive").With("productId", productID)
	}

	var client *model.Client
	var override *model.ClientProductPrice
	if clientID != 0 {
		client, err = s.clientRepo.FindByID(ctx, clientID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, NotFoundError("Client with ID %d not found", clientID)
			}
			return nil, fmt.Errorf("failed to load client %d: %w", clientID, err)
		}

		override, err = s.priceRepo.FindActive(ctx, clientID, productID)
		if err != nil && !database.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load override: %w", err)
		}
	}

	price, source := effectivePrice(product, client, override)
	return &ResolvedPrice{
		ClientID:  clientID,
		ProductID: productID,
		UnitPrice: price,
		Source:    source,
	}, nil
}

func (s *pricingService) ListOverrides(ctx context.Context, clientID uint) ([]model.ClientProductPrice, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Client with ID %d not found", clientID)
		}
		return nil, fmt.Errorf("failed to load client %d: %w", clientID, err)
	}
	return s.priceRepo.FindByClient(ctx, clientID)
}

// SetOverride creates the (client, product) row or reactivates it with the new price.
func (s *pricingService) SetOverride(ctx context.Context, clientID uint, req *SetOverrideRequest) (*model.ClientProductPrice, error) {
	if errs := validator.Messages(req); len(errs) > 0 {
		return nil, ValidationError("Validation failed", errs...)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Client with ID %d not found", clientID)
		}
		return nil, fmt.Errorf("failed to load client %d: %w", clientID, err)
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Product with ID %d not found", req.ProductID)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", req.ProductID, err)
	}
	if !client.IsActive {
		return nil, ConflictError("Client is inactive")
	}
	if !product.IsActive {
		return nil, ConflictError("Product is inactive")
	}

	var saved *model.ClientProductPrice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prices := s.priceRepo.WithTx(tx)

		existing, err := prices.FindByPair(ctx, clientID, product.ID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}
		if existing == nil {
			existing = &model.ClientProductPrice{ClientID: clientID, ProductID: product.ID}
		}
		existing.Price = *req.Price
		existing.IsActive = true

		if err := prices.Save(ctx, existing); err != nil {
			return err
		}
		saved = existing
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ConflictError("Override price was changed concurrently, please retry")
		}
		return nil, fmt.Errorf("failed to save override: %w", err)
	}
	saved.Product = product

	publish(s.publisher, ActionOverrideUpdated, saved.ToResponse(),
		fmt.Sprintf("Override for %s on %s set to %s", client.Name, product.Name, saved.Price.StringFixed(model.MoneyScale)))

	return saved, nil
}

func (s *pricingService) RemoveOverride(ctx context.Context, clientID, productID uint) error {
	rows, err := s.priceRepo.Deactivate(ctx, clientID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}
	if rows == 0 {
		return NotFoundError("Override price not found")
	}
	publish(s.publisher, ActionOverrideUpdated, map[string]interface{}{
		"clientId":  clientID,
		"productId": productID,
		"isActive":  false,
	}, "Override price removed")
	return nil
}

// priceBook resolves unit prices for one sale from a single override lookup.
type priceBook struct {
	client    *model.Client
	overrides map[uint]*model.ClientProductPrice
}

func loadPriceBook(ctx context.Context, prices repository.PriceRepository, client *model.Client, productIDs []uint) (*priceBook, error) {
	book := &priceBook{client: client, overrides: map[uint]*model.ClientProductPrice{}}
	if client == nil || !client.IsActive {
		return book, nil
	}
	rows, err := prices.FindActiveByProducts(ctx, client.ID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	for i := range rows {
		book.overrides[rows[i].ProductID] = &rows[i]
	}
	return book, nil
}

func (b *priceBook) unitPrice(product *model.Product) decimal.Decimal {
	price, _ := effectivePrice(product, b.client, b.overrides[product.ID])
	return price
}
