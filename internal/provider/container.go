package provider

import (
	"github.com/vintek-market/internal/cache"
	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/logger"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/queue"
	"github.com/vintek-market/internal/realtime"
	"github.com/vintek-market/internal/repository"
	"github.com/vintek-market/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Hub         *realtime.Hub

	// Repositories
	UserRepo        repository.UserRepository
	UserProfileRepo repository.UserProfileRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	CartRepo        repository.CartRepository
	OrderRepo       repository.OrderRepository
	PaymentRepo     repository.PaymentRepository
	MessageRepo     repository.MessageRepository

	// Services
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
	MessageService  *service.MessageService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Hub:         realtime.NewHub(&cfg.Realtime),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.UserProfileRepo = repository.NewUserProfileRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.MessageRepo = repository.NewMessageRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.UserProfileRepo, c.ProductRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.OrderService)
	c.MessageService = service.NewMessageService(c.MessageRepo, c.UserRepo, c.ProductRepo, c.QueueClient)
}
