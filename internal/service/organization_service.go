package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

const codeGenerationAttempts = 10

type organizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByCode(ctx context.Context, code string) (*models.Organization, error)
	FindByID(ctx context.Context, id string) (*models.Organization, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

// OrganizationService provisions tenants and serves public lookups.
type OrganizationService struct {
	orgs      organizationRepository
	validator *validator.Validate
	logger    *zap.Logger
	rng       *rand.Rand
}

// NewOrganizationService creates a service instance.
func NewOrganizationService(orgs organizationRepository, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{
		orgs:      orgs,
		validator: validator.New(),
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateOrganizationRequest is the payload for provisioning a tenant.
type CreateOrganizationRequest struct {
	Name    string  `json:"name" validate:"required,min=3"`
	Address *string `json:"address"`
	LogoURL *string `json:"logo_url"`
}

// Create provisions a new organization with a generated join code. Codes are
// a 4-letter prefix of the name plus 3 digits; collisions retry with fresh
// digits.
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*models.Organization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid organization payload")
	}

	code, err := s.generateCode(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		LogoURL:   req.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "organization code already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create organization")
	}

	s.logger.Info("organization created", zap.String("org_id", org.ID), zap.String("code", org.Code))
	return org, nil
}

// GetByCode serves the public join-code lookup used by registration forms.
func (s *OrganizationService) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErrors.ErrTenantMissing
	}

	org, err := s.orgs.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTenantNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch organization")
	}
	return org, nil
}

// GetByID returns a single organization.
func (s *OrganizationService) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTenantNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch organization")
	}
	return org, nil
}

func (s *OrganizationService) generateCode(ctx context.Context, name string) (string, error) {
	prefix := codePrefix(name)
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code := fmt.Sprintf("%s%03d", prefix, s.rng.Intn(1000))
		exists, err := s.orgs.CodeExists(ctx, code)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate organization code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique organization code")
}

// codePrefix derives a 4-letter uppercase prefix from the organization name,
// padded with X when the name has fewer than 4 letters.
func codePrefix(name string) string {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 4 {
				break
			}
		}
	}
	for len(letters) < 4 {
		letters = append(letters, 'X')
	}
	return string(letters)
}
