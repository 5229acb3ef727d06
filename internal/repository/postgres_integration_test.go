//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.Payment{},
		&models.OrderLine{},
		&models.Order{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresReserveStockBoundary(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	product := &models.Product{
		OwnerID:    1,
		CategoryID: 1,
		Name:       "pg-stock-product",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		Quantity:   2,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	affected, err := repo.ReserveStock(product.ID, 2)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve affected want 1 got %d", affected)
	}

	affected, err = repo.ReserveStock(product.ID, 1)
	if err != nil {
		t.Fatalf("reserve empty stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("reserve empty stock affected want 0 got %d", affected)
	}

	affected, err = repo.ReleaseStock(product.ID, 2)
	if err != nil {
		t.Fatalf("release stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("release affected want 1 got %d", affected)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", got.Quantity)
	}
}

func TestPostgresOrderListByUser(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{
		OrderNo:         "PG-ORDER-001",
		UserID:          7,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		ShippingAddress: "12 Maple Street",
	}
	lines := []models.OrderLine{
		{
			ProductID: 1,
			SellerID:  2,
			Quantity:  2,
			UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(60)),
		},
	}
	if err := repo.Create(order, lines); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	rows, total, err := repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10, UserID: 7})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("orders want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].OrderNo != "PG-ORDER-001" {
		t.Fatalf("order no want PG-ORDER-001 got %s", rows[0].OrderNo)
	}

	_, total, err = repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10, UserID: 8})
	if err != nil {
		t.Fatalf("list other user orders failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("other user orders want 0 got %d", total)
	}
}
