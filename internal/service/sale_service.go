package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/pkg/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CreateSaleRequest: a nil or zero ClientID records a walk-in sale.
type CreateSaleRequest struct {
	ClientID *int              `json:"clientId"`
	Items    []SaleItemRequest `json:"items"`
}

type SaleService interface {
	// CreateSale returns replayed=true when idempotencyKey matched an earlier sale.
	CreateSale(ctx context.Context, req *CreateSaleRequest, idempotencyKey string) (sale *model.Sale, replayed bool, err error)
	GetSale(ctx context.Context, id uint) (*model.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error)
}

type saleService struct {
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	publisher   Publisher
	idempotency IdempotencyStore
	now         func() time.Time
}

func NewSaleService(
	cRepo repository.ClientRepository,
	pRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
	sRepo repository.SaleRepository,
	db *gorm.DB,
	pub Publisher,
	store IdempotencyStore,
) SaleService {
	return &saleService{
		clientRepo:  cRepo,
		productRepo: pRepo,
		priceRepo:   priceRepo,
		saleRepo:    sRepo,
		db:          db,
		publisher:   pub,
		idempotency: store,
		now:         time.Now,
	}
}

// validateSaleRequest collects every structural problem before failing.
func validateSaleRequest(req *CreateSaleRequest) []string {
	var errs []string
	if req.ClientID != nil && *req.ClientID < 0 {
		errs = append(errs, "ClientId must not be negative")
	}
	if len(req.Items) == 0 {
		return append(errs, "Sale items are required")
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 {
			errs = append(errs, "ProductId must be greater than 0")
		}
		if it.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Quantity must be greater than 0 for ProductId %d", it.ProductID))
		}
	}
	return errs
}

// referencesCheckable reports whether every product id can be looked up.
func referencesCheckable(req *CreateSaleRequest) bool {
	if len(req.Items) == 0 {
		return false
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 {
			return false
		}
	}
	return true
}

func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest, idempotencyKey string) (*model.Sale, bool, error) {
	if errs := validateSaleRequest(req); len(errs) > 0 {
		verr := ValidationError("Validation failed", errs...)
		if referencesCheckable(req) {
			refs, err := s.loadReferences(ctx, req)
			if err != nil {
				return nil, false, AsAppError(err, "An error occurred while creating the sale")
			}
			verr.Errors = append(verr.Errors, refs.errs...)
			if len(refs.missing) > 0 {
				verr.With("missing", refs.missing)
			}
		}
		return nil, false, verr
	}

	if idempotencyKey != "" && s.idempotency != nil {
		claimed, saleID, err := s.idempotency.Claim(ctx, idempotencyKey)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("idempotency store unavailable, continuing without it")
		case !claimed && saleID != 0:
			sale, err := s.GetSale(ctx, saleID)
			if err != nil {
				return nil, false, err
			}
			return sale, true, nil
		case !claimed:
			return nil, false, ConflictError("A sale with this Idempotency-Key is still being processed")
		default:
			// The key must be settled even when the caller has gone away.
			detached := context.WithoutCancel(ctx)
			sale, err := s.createSale(ctx, req)
			if err != nil {
				if relErr := s.idempotency.Release(detached, idempotencyKey); relErr != nil {
					log.Warn().Err(relErr).Str("idempotency_key", idempotencyKey).Msg("failed to release idempotency key")
				}
				return nil, false, err
			}
			if err := s.idempotency.Complete(detached, idempotencyKey, sale.ID); err != nil {
				log.Warn().Err(err).Str("idempotency_key", idempotencyKey).Uint("sale_id", sale.ID).Msg("failed to record idempotency key")
			}
			return sale, false, nil
		}
	}

	sale, err := s.createSale(ctx, req)
	return sale, false, err
}

// saleRefs holds the client and products a sale request points at.
type saleRefs struct {
	client     *model.Client
	products   map[uint]*model.Product
	productIDs []uint
	errs       []string
	missing    []uint
	inactive   []uint
}

func (s *saleService) loadReferences(ctx context.Context, req *CreateSaleRequest) (*saleRefs, error) {
	refs := &saleRefs{}

	// Client (nil means walk-in)
	if req.ClientID != nil && *req.ClientID > 0 {
		id := uint(*req.ClientID)
		found, err := s.clientRepo.FindByID(ctx, id)
		switch {
		case err == nil:
			refs.client = found
		case database.IsNotFound(err):
			refs.errs = append(refs.errs, fmt.Sprintf("ClientId %d does not exist", id))
		default:
			return nil, fmt.Errorf("failed to load client %d: %w", id, err)
		}
	}

	// Products, resolved in one batch
	refs.productIDs = distinctProductIDs(req.Items)
	found, err := s.productRepo.FindByIDs(ctx, refs.productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	refs.products = make(map[uint]*model.Product, len(found))
	for i := range found {
		refs.products[found[i].ID] = &found[i]
	}

	for _, id := range refs.productIDs {
		p, ok := refs.products[id]
		if !ok {
			refs.missing = append(refs.missing, id)
			refs.errs = append(refs.errs, fmt.Sprintf("Product %d does not exist", id))
			continue
		}
		if !p.IsActive {
			refs.inactive = append(refs.inactive, id)
		}
	}
	return refs, nil
}

func (s *saleService) createSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error) {
	refs, err := s.loadReferences(ctx, req)
	if err != nil {
		return nil, AsAppError(err, "An error occurred while creating the sale")
	}

	if len(refs.missing) > 0 {
		return nil, ValidationError("Some products do not exist", refs.errs...).With("missing", refs.missing)
	}
	if len(refs.errs) > 0 {
		return nil, ValidationError(refs.errs[0], refs.errs...)
	}
	client := refs.client
	if client != nil && !client.IsActive {
		return nil, ConflictError("Client is inactive").With("clientId", client.ID)
	}
	if len(refs.inactive) > 0 {
		return nil, ConflictError("Some products are inactive").With("inactive", refs.inactive)
	}

	var clientID *uint
	if client != nil {
		clientID = &client.ID
	}
	products := refs.products
	productIDs := refs.productIDs

	// Sale, items and total are written atomically
	var saleID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)

		book, err := loadPriceBook(ctx, s.priceRepo.WithTx(tx), client, productIDs)
		if err != nil {
			return err
		}

		sale := &model.Sale{
			ClientID:    clientID,
			SaleDate:    s.now().UTC(),
			TotalAmount: decimal.Zero,
		}
		if err := sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(req.Items))
		for _, it := range req.Items {
			product := products[uint(it.ProductID)]
			unitPrice := book.unitPrice(product)
			subtotal := model.LineTotal(it.Quantity, unitPrice)
			items = append(items, model.SaleItem{
				SaleID:    sale.ID,
				ProductID: product.ID,
				Quantity:  it.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		if err := sales.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}
		if err := sales.UpdateTotal(ctx, sale.ID, model.RoundMoney(total)); err != nil {
			return fmt.Errorf("failed to update sale total: %w", err)
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, AsAppError(err, "An error occurred while creating the sale")
	}

	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	clientName := model.WalkInLabel
	if sale.Client != nil {
		clientName = sale.Client.Name
	}
	publish(s.publisher, ActionSaleCreated, sale.ToResponse(),
		fmt.Sprintf("Sale #%d recorded for %s (%s)", sale.ID, clientName, sale.TotalAmount.StringFixed(model.MoneyScale)))

	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Sale with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load sale %d: %w", id, err)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, ValidationError("Validation failed", "startDate must not be after endDate")
	}
	return s.saleRepo.FindAll(ctx, filter)
}

func distinctProductIDs(items []SaleItemRequest) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		id := uint(it.ProductID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
