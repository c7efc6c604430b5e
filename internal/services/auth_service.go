package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusguard/campusguard-backend/internal/config"
	"github.com/campusguard/campusguard-backend/internal/dto"
	"github.com/campusguard/campusguard-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials deliberately covers both "no such account"
	// and "wrong password" so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role: must be admin or counselor")
)

var validRoles = map[string]bool{
	"admin":     true,
	"counselor": true,
}

// AuthService owns admin accounts and the bearer-token lifecycle.
type AuthService interface {
	CreateAdmin(ctx context.Context, email, password, name, role string) (*models.Admin, error)
	Login(ctx context.Context, email, password string) (string, *models.Admin, error)
	VerifyToken(token string) (*dto.TokenAdmin, error)
	SeedAdmin(ctx context.Context, email, password, name string) error
}

type authService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) AuthService {
	return &authService{db: db, cfg: cfg}
}

func (s *authService) CreateAdmin(ctx context.Context, email, password, name, role string) (*models.Admin, error) {
	if role == "" {
		role = "admin"
	}
	if !validRoles[role] {
		return nil, ErrInvalidRole
	}

	var existing models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &admin, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&admin)
	if err != nil {
		return "", nil, err
	}
	return token, &admin, nil
}

func (s *authService) generateToken(admin *models.Admin) (string, error) {
	claims := jwt.MapClaims{
		"id":    admin.ID,
		"email": admin.Email,
		"role":  admin.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) VerifyToken(tokenString string) (*dto.TokenAdmin, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, _ := claims["id"].(float64)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &dto.TokenAdmin{ID: uint(id), Email: email, Role: role}, nil
}

// SeedAdmin creates the first admin account from config when the
// admins table is empty. Restarting with the same env is a no-op.
func (s *authService) SeedAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := s.CreateAdmin(ctx, email, password, name, "admin")
	return err
}
