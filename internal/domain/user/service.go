// internal/domain/user/service.go
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/rbac"
	"github.com/your-org/storefront-backend/internal/pkg/apperror"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	cartService     *cart.Service
	resolver        *rbac.Resolver
	logger          *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		cartService:     cartService,
		resolver:        rbac.NewResolver(db),
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse carries the user and a fresh token pair
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new user account and issues tokens
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("email %s is already registered", email)
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}

	newUser := User{
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&newUser)
}

// Login verifies credentials, folds any guest session cart into the user's
// persisted cart and issues tokens.
func (s *Service) Login(req *LoginRequest, sessionID string) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var account User
	if err := s.db.Where("email = ? AND is_active = ?", email, true).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.Forbidden("invalid credentials")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, apperror.Forbidden("invalid credentials")
	}

	now := time.Now().UTC()
	if err := s.db.Model(&account).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", account.ID).
			Warn("Failed to record login time")
	}
	account.LastLoginAt = &now

	if err := s.cartService.MergeGuestCartToUser(account.ID, sessionID); err != nil {
		// Cart merge is best effort; a failed merge must not block login.
		s.logger.WithError(err).WithField("user_id", account.ID).
			Warn("Failed to merge guest cart on login")
	}

	return s.issueTokens(&account)
}

// RefreshTokens exchanges a valid refresh token for a new pair
func (s *Service) RefreshTokens(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Forbidden("invalid refresh token")
	}

	account, err := s.GetProfile(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(account)
}

// GetProfile retrieves a user by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var account User
	if err := s.db.First(&account, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("user %d", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &account, nil
}

// UpdateProfile applies a partial profile update
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	account, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) == 0 {
		return account, nil
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(userID)
}

// ChangePassword verifies the current password and replaces it
func (s *Service) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	account, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, account.Password); err != nil {
		return apperror.Forbidden("current password is incorrect")
	}

	hashed, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Validation("%v", err)
	}
	if err := s.db.Model(account).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *Service) issueTokens(account *User) (*AuthResponse, error) {
	roles, err := s.resolver.RolesFor(account.ID)
	if err != nil {
		return nil, err
	}
	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, roleNames)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         *account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
