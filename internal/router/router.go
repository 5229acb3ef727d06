package router

import (
	"fmt"
	"strings"

	"github.com/vintek-market/internal/cache"
	"github.com/vintek-market/internal/config"
	publichandlers "github.com/vintek-market/internal/http/handlers/public"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vk"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（商品图片）
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/categories/:id", publicHandler.GetCategory)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("identifier")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.AuthService, c.UserRepo))
		{
			user.POST("/auth/logout", publicHandler.UserLogout)
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.GET("/me/wishlist", publicHandler.ListWishlist)
			user.POST("/me/wishlist/:product_id", publicHandler.AddWishlistProduct)
			user.DELETE("/me/wishlist/:product_id", publicHandler.RemoveWishlistProduct)

			user.POST("/categories", publicHandler.CreateCategory)
			user.PUT("/categories/:id", publicHandler.UpdateCategory)
			user.DELETE("/categories/:id", publicHandler.DeleteCategory)

			user.POST("/products", publicHandler.CreateProduct)
			user.PUT("/products/:id", publicHandler.UpdateProduct)
			user.DELETE("/products/:id", publicHandler.DeleteProduct)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartProduct)
			user.POST("/cart/items/:product_id/increment", publicHandler.IncrementCartItem)
			user.POST("/cart/items/:product_id/decrement", publicHandler.DecrementCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartProduct)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/checkout", publicHandler.Checkout)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/sold-orders", publicHandler.ListSoldOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/lines", publicHandler.AddOrderLine)
			user.PATCH("/orders/:id", publicHandler.UpdateOrderStatus)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:id/pay", publicHandler.PayOrder)
			user.GET("/orders/:id/payments", publicHandler.ListOrderPayments)

			user.POST("/messages", publicHandler.SendMessage)
			user.GET("/messages/conversations", publicHandler.ListConversations)
			user.GET("/messages/with/:user_id", publicHandler.GetConversation)
			user.DELETE("/messages/conversations/:product_id", publicHandler.DeleteConversation)

			user.GET("/ws/notification/:room_name", publicHandler.NotificationSocket)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
