package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusboard/notice-api/internal/models"
	"github.com/campusboard/notice-api/pkg/config"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type authUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByLogin(ctx context.Context, email, registrationNumber string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type authOrgReader interface {
	FindByCode(ctx context.Context, code string) (*models.Organization, error)
	FindByID(ctx context.Context, id string) (*models.Organization, error)
}

// AuthService handles registration, login and token validation.
type AuthService struct {
	users     authUserRepository
	orgs      authOrgReader
	jwtConfig config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService creates a service instance.
func NewAuthService(users authUserRepository, orgs authOrgReader, jwtConfig config.JWTConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		orgs:      orgs,
		jwtConfig: jwtConfig,
		validator: validator.New(),
		logger:    logger,
	}
}

// Register creates a non-admin account inside the organization identified by
// the join code. Admin accounts are provisioned by a super admin, never via
// self-service registration.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !isRegistrableRole(req.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "this role cannot self-register")
	}

	org, err := s.orgs.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(req.OrgCode)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTenantNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve organization")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email availability")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		OrgID:        org.ID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if reg := strings.TrimSpace(req.RegistrationNumber); reg != "" {
		user.RegistrationNumber = &reg
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email or registration number already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("org_id", user.OrgID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login authenticates by email or registration number and issues a token
// whose claims carry the full authorization context.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if req.Email == "" && req.RegistrationNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email or registration number is required")
	}

	user, err := s.users.FindByLogin(ctx, strings.ToLower(strings.TrimSpace(req.Email)), strings.TrimSpace(req.RegistrationNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if user.Role != req.Role {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "account does not have the requested role")
	}

	org, err := s.orgs.FindByID(ctx, user.OrgID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch organization")
	}

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.jwtConfig.Expiration)
	claims := models.JWTClaims{
		UserID:       user.ID,
		OrgID:        user.OrgID,
		Role:         user.Role,
		Email:        user.Email,
		Name:         user.Name,
		AdminLevel:   user.AdminLevel,
		DepartmentID: user.DepartmentID,
		ClassID:      user.ClassID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtConfig.Expiration.Seconds()),
		IssuedAt:  issuedAt,
		User: models.UserInfo{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			OrgID:      user.OrgID,
			AdminLevel: user.AdminLevel,
		},
		Org: models.OrgInfo{
			ID:      org.ID,
			Code:    org.Code,
			Name:    org.Name,
			LogoURL: org.LogoURL,
		},
	}, nil
}

// ValidateToken parses and verifies a signed token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func isRegistrableRole(role models.UserRole) bool {
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleFaculty, models.RoleLibrarian:
		return true
	default:
		return false
	}
}
