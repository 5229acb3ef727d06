package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, name string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		OwnerID:    1,
		CategoryID: 1,
		Name:       name,
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Quantity:   quantity,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestReserveStockConditionalUpdate(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "stock-boundary", 5)

	affected, err := repo.ReserveStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve affected want 1 got %d", affected)
	}

	affected, err = repo.ReserveStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reserve over available failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("reserve over available affected want 0 got %d", affected)
	}

	affected, err = repo.ReserveStock(product.ID, 2)
	if err != nil {
		t.Fatalf("reserve exact available failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve exact available affected want 1 got %d", affected)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Quantity != 0 {
		t.Fatalf("quantity want 0 got %d", got.Quantity)
	}
}

func TestReserveStockConcurrentSingleUnit(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "stock-race", 1)

	// sqlite 下用单连接串行写，避免并发写锁错误
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	results := make(chan int64, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.ReserveStock(product.ID, 1)
			if err != nil {
				t.Errorf("reserve stock failed: %v", err)
				return
			}
			results <- affected
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int64
	for affected := range results {
		succeeded += affected
	}
	if succeeded != 1 {
		t.Fatalf("exactly one reservation should succeed, got %d", succeeded)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Quantity != 0 {
		t.Fatalf("quantity want 0 got %d", got.Quantity)
	}
}

func TestReleaseStockRestoresQuantity(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "stock-release", 4)

	if _, err := repo.ReserveStock(product.ID, 4); err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	affected, err := repo.ReleaseStock(product.ID, 3)
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
	if got.Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", got.Quantity)
	}
}

func TestReserveStockRejectsInvalidParams(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)

	if _, err := repo.ReserveStock(0, 1); err == nil {
		t.Fatalf("reserve with zero product id should fail")
	}
	if _, err := repo.ReserveStock(1, 0); err == nil {
		t.Fatalf("reserve with zero quantity should fail")
	}
	if _, err := repo.ReleaseStock(1, -1); err == nil {
		t.Fatalf("release with negative quantity should fail")
	}
}

func TestProductListFilters(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)

	inStock := createTestProduct(t, repo, "Wireless Earphones", 3)
	soldOut := createTestProduct(t, repo, "Vintage Comic Bundle", 0)

	otherOwner := &models.Product{
		OwnerID:    2,
		CategoryID: 2,
		Name:       "Oak Bookshelf",
		Condition:  constants.ProductConditionAcceptable,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(85)),
		Quantity:   1,
		IsActive:   false,
	}
	if err := db.Create(otherOwner).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, OnlyInStock: true})
	if err != nil {
		t.Fatalf("list in stock failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("in stock total want 2 got %d", total)
	}
	for _, row := range rows {
		if row.ID == soldOut.ID {
			t.Fatalf("sold out product should be excluded")
		}
	}

	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, OwnerID: 2})
	if err != nil {
		t.Fatalf("list by owner failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("owner total want 1 got %d", total)
	}

	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "Earphones"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("search total want 1 got %d", total)
	}

	_, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, OnlyActive: true})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("active total want 2 got %d", total)
	}
	_ = inStock
}
