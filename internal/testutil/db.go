package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
// It uses a single connection, so code under test must run in-transaction
// queries on the transaction handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.New().String()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(true))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateWalkIn inserts the walk-in client; call it first so it gets id 1.
func CreateWalkIn(t *testing.T, db *gorm.DB) *model.Client {
	t.Helper()
	c := &model.Client{Name: "Walk-in Customer", Email: "walkin@waterrefill.com", Phone: "000-0000", IsActive: true}
	require.NoError(t, db.Create(c).Error)
	require.Equal(t, model.WalkInClientID, c.ID)
	return c
}

func CreateClient(t *testing.T, db *gorm.DB, name, email string, active bool) *model.Client {
	t.Helper()
	c := &model.Client{Name: name, Email: email, Phone: "555-0100", IsActive: active}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateProduct(t *testing.T, db *gorm.DB, name, price string, active bool) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: Money(price), Quantity: 100, IsActive: active}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CreateOverride(t *testing.T, db *gorm.DB, clientID, productID uint, price string, active bool) *model.ClientProductPrice {
	t.Helper()
	o := &model.ClientProductPrice{ClientID: clientID, ProductID: productID, Price: Money(price), IsActive: active}
	require.NoError(t, db.Create(o).Error)
	return o
}
