package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/storefront/config"
	"github.com/d60-Lab/storefront/internal/model"
	"github.com/d60-Lab/storefront/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims JWT 载荷：用户ID + 角色
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Address  string
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	ParseToken(token string) (*Claims, error)
	GetProfile(ctx context.Context, userID uint) (*model.Customer, error)
	UpdateProfile(ctx context.Context, customer *model.Customer) error
}

type authService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	cfg          config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, customerRepo repository.CustomerRepository, cfg config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, customerRepo: customerRepo, cfg: cfg}
}

// Register 注册顾客账号并建立档案
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     model.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		UserID:  user.ID,
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
	}
	if err := s.customerRepo.Upsert(ctx, customer); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expire)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*model.Customer, error) {
	return s.customerRepo.GetByUserID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, customer *model.Customer) error {
	return s.customerRepo.Upsert(ctx, customer)
}
