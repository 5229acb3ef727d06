package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/vintek-market/internal/cache"
	"github.com/vintek-market/internal/config"
	"github.com/vintek-market/internal/constants"
	"github.com/vintek-market/internal/models"
	"github.com/vintek-market/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 用户认证与资料服务
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	profileRepo repository.UserProfileRepository
	productRepo repository.ProductRepository
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, profileRepo repository.UserProfileRepository, productRepo repository.ProductRepository) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		productRepo: productRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *AuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *AuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register 用户注册
// 用户与资料在同一事务创建，注册成功后资料必然存在
func (s *AuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", time.Time{}, ErrUsernameRequired
	}
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	existEmail, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if existEmail != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}
	existName, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if existName != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		profile := &models.UserProfile{
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.profileRepo.WithTx(tx).Create(profile)
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login 用户登录（标识支持邮箱或用户名）
func (s *AuthService) Login(identifier, password string) (*models.User, string, time.Time, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(identifier)
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Logout 用户登出，递增 Token 版本使旧 Token 全量失效
func (s *AuthService) Logout(userID uint) error {
	if userID == 0 {
		return ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
	return nil
}

// GetUserWithProfile 获取用户及资料
func (s *AuthService) GetUserWithProfile(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByIDWithProfile(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ProfileUpdateInput 资料更新输入
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Address   *string
	Phone     *string
	AvatarURL *string
}

// UpdateProfile 更新用户资料
func (s *AuthService) UpdateProfile(userID uint, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	userChanged := false
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
		userChanged = true
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
		userChanged = true
	}
	if userChanged {
		user.UpdatedAt = now
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	profileChanged := false
	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
		profileChanged = true
	}
	if input.Address != nil {
		profile.Address = strings.TrimSpace(*input.Address)
		profileChanged = true
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
		profileChanged = true
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*input.AvatarURL)
		profileChanged = true
	}
	if profileChanged {
		profile.UpdatedAt = now
		if err := s.profileRepo.Update(profile); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByIDWithProfile(userID)
}

// AddToWishlist 添加心愿单商品
func (s *AuthService) AddToWishlist(userID, productID uint) error {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.profileRepo.AddWishlistProduct(profile.ID, product)
}

// RemoveFromWishlist 移除心愿单商品
func (s *AuthService) RemoveFromWishlist(userID, productID uint) error {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.profileRepo.RemoveWishlistProduct(profile.ID, product)
}

// ListWishlist 获取心愿单商品
func (s *AuthService) ListWishlist(userID uint) ([]models.Product, error) {
	profile, err := s.profileRepo.GetByUserIDWithWishlist(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile.Wishlist, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
