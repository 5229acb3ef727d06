package service

import (
	"testing"

	"github.com/vintek-market/internal/repository"

	"gorm.io/gorm"
)

func newCartServiceForTest(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func TestCartAddProductAccumulatesQuantity(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	product := seedProduct(t, db, 2, "Earphones", 50, 1)

	item, err := svc.AddProduct(1, product.ID, 1)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("quantity want 1 got %d", item.Quantity)
	}

	// 重复加入同一商品时数量叠加，不另建条目
	again, err := svc.AddProduct(1, product.ID, 1)
	if err != nil {
		t.Fatalf("re-add product failed: %v", err)
	}
	if again.ID != item.ID {
		t.Fatalf("re-add should update same item, got id=%d want %d", again.ID, item.ID)
	}
	if again.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", again.Quantity)
	}

	// 指定数量按给定值叠加
	more, err := svc.AddProduct(1, product.ID, 3)
	if err != nil {
		t.Fatalf("add with quantity failed: %v", err)
	}
	if more.Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", more.Quantity)
	}
}

func TestCartAddProductDefaultsQuantityToOne(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	product := seedProduct(t, db, 2, "Headphones", 80, 3)

	item, err := svc.AddProduct(1, product.ID, 0)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("zero quantity should default to 1, got %d", item.Quantity)
	}

	item, err = svc.AddProduct(1, product.ID, -4)
	if err != nil {
		t.Fatalf("re-add product failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("negative quantity should default to 1, got total %d", item.Quantity)
	}
}

func TestCartAddProductWithoutStockCheck(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	soldOut := seedProduct(t, db, 2, "Sold Out", 35, 0)

	// 加入购物车不校验库存，库存在结算时裁决
	item, err := svc.AddProduct(1, soldOut.ID, 1)
	if err != nil {
		t.Fatalf("add sold out product failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("quantity want 1 got %d", item.Quantity)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)

	if _, err := svc.AddProduct(1, 99, 1); err != ErrProductNotFound {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCartIncrementCappedByStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	product := seedProduct(t, db, 2, "Two In Stock", 10, 2)

	if _, err := svc.AddProduct(1, product.ID, 1); err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	item, err := svc.IncrementItem(1, product.ID)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", item.Quantity)
	}

	if _, err := svc.IncrementItem(1, product.ID); err != ErrInsufficientStock {
		t.Fatalf("increment over stock want ErrInsufficientStock got %v", err)
	}
}

func TestCartDecrementRemovesAtZero(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	product := seedProduct(t, db, 2, "Single", 10, 5)

	if _, err := svc.AddProduct(1, product.ID, 1); err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if _, err := svc.IncrementItem(1, product.ID); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	item, err := svc.DecrementItem(1, product.ID)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if item == nil || item.Quantity != 1 {
		t.Fatalf("quantity want 1 got %+v", item)
	}

	item, err = svc.DecrementItem(1, product.ID)
	if err != nil {
		t.Fatalf("decrement to zero failed: %v", err)
	}
	if item != nil {
		t.Fatalf("item should be removed at zero, got %+v", item)
	}

	if _, err := svc.DecrementItem(1, product.ID); err != ErrCartItemNotFound {
		t.Fatalf("decrement removed item want ErrCartItemNotFound got %v", err)
	}
}

func TestCartClear(t *testing.T) {
	db := setupServiceDB(t)
	svc := newCartServiceForTest(db)
	first := seedProduct(t, db, 2, "First", 10, 5)
	second := seedProduct(t, db, 2, "Second", 10, 5)

	if _, err := svc.AddProduct(1, first.ID, 1); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if _, err := svc.AddProduct(1, second.ID, 1); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}

	cart, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("items want 0 got %d", len(cart.Items))
	}

	// 空购物车清空为幂等操作
	if err := svc.Clear(99); err != nil {
		t.Fatalf("clear missing cart failed: %v", err)
	}
}
