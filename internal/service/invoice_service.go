package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/pkg/database"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultInvoicePrefix      = "INV"
	DefaultInvoiceMaxAttempts = 50
)

type GenerateInvoiceRequest struct {
	ManualInvoiceNumber *string `json:"manualInvoiceNumber"`
	DueDate             *string `json:"dueDate"`
}

type InvoiceService interface {
	GenerateInvoice(ctx context.Context, saleID uint, manualNumber string, dueDate *time.Time) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id uint) (*model.Invoice, error)
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
}

type InvoiceOptions struct {
	Prefix      string
	MaxAttempts int
}

type invoiceService struct {
	saleRepo    repository.SaleRepository
	invoiceRepo repository.InvoiceRepository
	db          *gorm.DB
	publisher   Publisher
	prefix      string
	maxAttempts int
	now         func() time.Time
}

func NewInvoiceService(sRepo repository.SaleRepository, iRepo repository.InvoiceRepository, db *gorm.DB, pub Publisher, opts InvoiceOptions) InvoiceService {
	if opts.Prefix == "" {
		opts.Prefix = DefaultInvoicePrefix
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultInvoiceMaxAttempts
	}
	return &invoiceService{
		saleRepo:    sRepo,
		invoiceRepo: iRepo,
		db:          db,
		publisher:   pub,
		prefix:      opts.Prefix,
		maxAttempts: opts.MaxAttempts,
		now:         time.Now,
	}
}

// FormatInvoiceNumber renders <prefix>-<year>-<sequence padded to 6 digits>.
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

func alreadyInvoiced(invoiceID uint) *AppError {
	return ConflictError("An invoice already exists for this sale").With("invoiceId", invoiceID)
}

func manualNumberTaken(number string) *AppError {
	return ConflictError("Manual invoice number already exists").With("invoiceNumber", number)
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, saleID uint, manualNumber string, dueDate *time.Time) (*model.Invoice, error) {
	manualNumber = strings.TrimSpace(manualNumber)
	issueDate := s.now().UTC()

	if dueDate != nil {
		due := dueDate.UTC()
		dueDate = &due
	}

	var invoiceID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)
		invoices := s.invoiceRepo.WithTx(tx)

		sale, err := sales.FindByID(ctx, saleID)
		if err != nil {
			if database.IsNotFound(err) {
				return NotFoundError("Sale with ID %d not found", saleID)
			}
			return fmt.Errorf("failed to load sale %d: %w", saleID, err)
		}

		if existing, err := invoices.FindBySaleID(ctx, saleID); err == nil {
			return alreadyInvoiced(existing.ID)
		} else if !database.IsNotFound(err) {
			return fmt.Errorf("failed to check existing invoice: %w", err)
		}

		invoice := &model.Invoice{
			SaleID:      sale.ID,
			ClientID:    sale.ClientID,
			IssueDate:   issueDate,
			DueDate:     dueDate,
			Status:      model.InvoiceUnpaid,
			TotalAmount: decimal.Zero,
		}

		if manualNumber != "" {
			taken, err := invoices.NumberExists(ctx, manualNumber)
			if err != nil {
				return fmt.Errorf("failed to check invoice number: %w", err)
			}
			if taken {
				return manualNumberTaken(manualNumber)
			}
			invoice.InvoiceNumber = manualNumber
			if err := s.insertInvoice(ctx, tx, invoice); err != nil {
				return err
			}
		} else if err := s.insertWithGeneratedNumber(ctx, tx, invoice); err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.InvoiceItem, 0, len(sale.Items))
		for _, si := range sale.Items {
			name := model.UnknownLabel
			if si.Product != nil {
				name = si.Product.Name
			}
			lineTotal := model.LineTotal(si.Quantity, si.UnitPrice)
			items = append(items, model.InvoiceItem{
				InvoiceID:   invoice.ID,
				ProductID:   si.ProductID,
				ProductName: name,
				Quantity:    si.Quantity,
				UnitPrice:   si.UnitPrice,
				LineTotal:   lineTotal,
			})
			total = total.Add(lineTotal)
		}

		if err := invoices.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("failed to create invoice items: %w", err)
		}
		if err := invoices.UpdateTotal(ctx, invoice.ID, model.RoundMoney(total)); err != nil {
			return fmt.Errorf("failed to update invoice total: %w", err)
		}

		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		return nil, AsAppError(err, "An error occurred while generating the invoice")
	}

	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	publish(s.publisher, ActionInvoiceCreated, invoice.ToResponse(),
		fmt.Sprintf("Invoice %s issued for sale #%d (%s)", invoice.InvoiceNumber, invoice.SaleID, invoice.TotalAmount.StringFixed(model.MoneyScale)))

	return invoice, nil
}

// insertInvoice writes the invoice row inside a savepoint so a unique
// violation leaves the surrounding transaction usable.
func (s *invoiceService) insertInvoice(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	err := tx.Transaction(func(sp *gorm.DB) error {
		return s.invoiceRepo.WithTx(sp).Create(ctx, invoice)
	})
	if err == nil {
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return s.classifyDuplicate(ctx, tx, invoice, err)
}

// classifyDuplicate decides which uniqueness rule a failed insert hit.
func (s *invoiceService) classifyDuplicate(ctx context.Context, tx *gorm.DB, invoice *model.Invoice, cause error) error {
	invoices := s.invoiceRepo.WithTx(tx)
	if existing, err := invoices.FindBySaleID(ctx, invoice.SaleID); err == nil {
		return alreadyInvoiced(existing.ID)
	}
	conflict := manualNumberTaken(invoice.InvoiceNumber)
	conflict.Err = cause
	return conflict
}

// insertWithGeneratedNumber derives the next sequence for the UTC issue year
// from a count and walks forward until a number is free. Collisions at insert
// time (a concurrent generator won the race) are retried up to maxAttempts.
func (s *invoiceService) insertWithGeneratedNumber(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	invoices := s.invoiceRepo.WithTx(tx)
	year := invoice.IssueDate.Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	issued, err := invoices.CountIssuedBetween(ctx, yearStart, yearStart.AddDate(1, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to count invoices for %d: %w", year, err)
	}
	seq := issued + 1

	attempts := 0
	for {
		candidate := FormatInvoiceNumber(s.prefix, year, seq)
		taken, err := invoices.NumberExists(ctx, candidate)
		if err != nil {
			return fmt.Errorf("failed to check invoice number: %w", err)
		}
		if taken {
			seq++
			continue
		}

		invoice.InvoiceNumber = candidate
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.invoiceRepo.WithTx(sp).Create(ctx, invoice)
		})
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		if existing, findErr := invoices.FindBySaleID(ctx, invoice.SaleID); findErr == nil {
			return alreadyInvoiced(existing.ID)
		}

		attempts++
		if attempts >= s.maxAttempts {
			return fmt.Errorf("failed to allocate an invoice number for %d after %d attempts: %w", year, attempts, err)
		}
		log.Debug().Str("invoice_number", candidate).Int("attempt", attempts).Msg("invoice number taken concurrently, retrying")
		seq++
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uint) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Invoice with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load invoice %d: %w", id, err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.invoiceRepo.FindAll(ctx)
}
