package main

import (
	"fmt"

	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, laptops, audio and other consumer electronics", SortOrder: 300},
		{Name: "Furniture", Description: "Second-hand furniture and home decor", SortOrder: 200},
		{Name: "Books", Description: "Used books, textbooks and comics", SortOrder: 100},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("name IN ?", []string{"Electronics", "Furniture", "Books"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}
	electronicsID := categoryIDs["Electronics"]
	furnitureID := categoryIDs["Furniture"]
	booksID := categoryIDs["Books"]

	// 添加演示用户（含资料）
	seedUsers := []struct {
		Username string
		Email    string
		Password string
		Bio      string
		Address  string
	}{
		{Username: "alice", Email: "alice@example.com", Password: "alice-demo-123", Bio: "Selling gadgets I no longer use.", Address: "12 Maple Street, Springfield"},
		{Username: "bob", Email: "bob@example.com", Password: "bob-demo-123", Bio: "Book lover, clearing out my shelves.", Address: "34 Oak Avenue, Riverside"},
	}

	userIDs := map[string]uint{}
	for _, su := range seedUsers {
		var existing models.User
		if err := models.DB.Where("email = ?", su.Email).First(&existing).Error; err == nil {
			userIDs[su.Username] = existing.ID
			stdLog.Printf("User already exists: %s", su.Username)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", su.Username, err)
			continue
		}
		user := models.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hash),
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", su.Username, err)
			continue
		}
		profile := models.UserProfile{
			UserID:  user.ID,
			Bio:     su.Bio,
			Address: su.Address,
		}
		if err := models.DB.Create(&profile).Error; err != nil {
			stdLog.Printf("Failed to create profile for %s: %v", su.Username, err)
		}
		userIDs[su.Username] = user.ID
		stdLog.Printf("Created user: %s", su.Username)
	}
	aliceID := userIDs["alice"]
	bobID := userIDs["bob"]

	// 添加商品
	products := []models.Product{
		{
			OwnerID:     aliceID,
			CategoryID:  electronicsID,
			Name:        "Wireless Bluetooth Earphones",
			Description: "Lightly used, full working order, comes with charging case.",
			Condition:   constants.ProductConditionVeryGood,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			Quantity:    3,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			IsActive: true,
		},
		{
			OwnerID:     aliceID,
			CategoryID:  electronicsID,
			Name:        "Smart Watch",
			Description: "One year old, minor scratches on the strap, screen is flawless.",
			Condition:   constants.ProductConditionGood,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(119.50)),
			Quantity:    1,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
			IsActive: true,
		},
		{
			OwnerID:     bobID,
			CategoryID:  furnitureID,
			Name:        "Oak Bookshelf",
			Description: "Solid oak, five shelves, pick-up only.",
			Condition:   constants.ProductConditionAcceptable,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(85)),
			Quantity:    1,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1594620302200-9a762244a156?w=800",
			}),
			IsActive: true,
		},
		{
			OwnerID:     bobID,
			CategoryID:  booksID,
			Name:        "Introduction to Algorithms (3rd Edition)",
			Description: "Some highlighting in the first chapters, binding intact.",
			Condition:   constants.ProductConditionGood,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.90)),
			Quantity:    2,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=800",
			}),
			IsActive: true,
		},
		{
			OwnerID:     bobID,
			CategoryID:  booksID,
			Name:        "Vintage Comic Bundle",
			Description: "Twelve issues from the 90s, sold as-is.",
			Condition:   constants.ProductConditionAsIs,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(35)),
			Quantity:    0,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1612036782180-6f0b6cd846fe?w=800",
			}),
			IsActive: true,
		},
	}

	for _, prod := range products {
		if prod.OwnerID == 0 || prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: owner or category missing", prod.Name)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ? AND owner_id = ?", prod.Name, prod.OwnerID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
			}
		} else {
			existing.Description = prod.Description
			existing.Condition = prod.Condition
			existing.Price = prod.Price
			existing.Quantity = prod.Quantity
			existing.Images = prod.Images
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Name)
			}
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 2 Users with profiles (alice, bob)")
	fmt.Println("- 5 Products")
}
