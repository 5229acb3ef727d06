package service

import (
	"testing"

	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductServiceForTest(t *testing.T, db *gorm.DB) *ProductService {
	t.Helper()
	category := &models.Category{Name: "Electronics"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	return NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db))
}

func TestProductCreateValidation(t *testing.T) {
	db := setupServiceDB(t)
	svc := newProductServiceForTest(t, db)

	valid := CreateProductInput{
		CategoryID: 1,
		Name:       "Wireless Earphones",
		Condition:  constants.ProductConditionVeryGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(49)),
		Quantity:   3,
	}

	product, err := svc.Create(1, valid)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !product.IsActive {
		t.Fatalf("new product should be active")
	}
	if product.OwnerID != 1 {
		t.Fatalf("owner id want 1 got %d", product.OwnerID)
	}

	blank := valid
	blank.Name = "   "
	if _, err := svc.Create(1, blank); err != ErrProductNotAvailable {
		t.Fatalf("blank name want ErrProductNotAvailable got %v", err)
	}

	badCondition := valid
	badCondition.Condition = "Mint"
	if _, err := svc.Create(1, badCondition); err != ErrProductNotAvailable {
		t.Fatalf("bad condition want ErrProductNotAvailable got %v", err)
	}

	negativeStock := valid
	negativeStock.Quantity = -1
	if _, err := svc.Create(1, negativeStock); err != ErrProductNotAvailable {
		t.Fatalf("negative stock want ErrProductNotAvailable got %v", err)
	}

	missingCategory := valid
	missingCategory.CategoryID = 99
	if _, err := svc.Create(1, missingCategory); err != ErrCategoryNotFound {
		t.Fatalf("missing category want ErrCategoryNotFound got %v", err)
	}
}

func TestProductUpdateOwnerOnly(t *testing.T) {
	db := setupServiceDB(t)
	svc := newProductServiceForTest(t, db)

	input := CreateProductInput{
		CategoryID: 1,
		Name:       "Smart Watch",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(119)),
		Quantity:   1,
	}
	product, err := svc.Create(1, input)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	input.Name = "Smart Watch (updated)"
	if _, err := svc.Update(product.ID, 2, input); err != ErrForbidden {
		t.Fatalf("other user's update want ErrForbidden got %v", err)
	}

	updated, err := svc.Update(product.ID, 1, input)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Name != "Smart Watch (updated)" {
		t.Fatalf("name not updated, got %s", updated.Name)
	}

	if err := svc.Delete(product.ID, 2); err != ErrForbidden {
		t.Fatalf("other user's delete want ErrForbidden got %v", err)
	}
	if err := svc.Delete(product.ID, 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.GetByID(product.ID); err != ErrProductNotFound {
		t.Fatalf("deleted product lookup want ErrProductNotFound got %v", err)
	}
}

func TestProductListOnlyActive(t *testing.T) {
	db := setupServiceDB(t)
	svc := newProductServiceForTest(t, db)

	active, err := svc.Create(1, CreateProductInput{
		CategoryID: 1,
		Name:       "Visible",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	hidden := &models.Product{
		OwnerID:    1,
		CategoryID: 1,
		Name:       "Hidden",
		Condition:  constants.ProductConditionGood,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Quantity:   1,
		IsActive:   false,
	}
	if err := db.Create(hidden).Error; err != nil {
		t.Fatalf("seed hidden product failed: %v", err)
	}

	rows, total, err := svc.List(ProductListInput{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("list want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].ID != active.ID {
		t.Fatalf("listed product want id=%d got %d", active.ID, rows[0].ID)
	}
}
