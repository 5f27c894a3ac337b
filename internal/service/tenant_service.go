package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type tenantOrgReader interface {
	FindByCode(ctx context.Context, code string) (*models.Organization, error)
}

// TenantService resolves the acting organization for a request. Downstream
// services receive the resolved org ID and never re-derive it.
type TenantService struct {
	orgs   tenantOrgReader
	logger *zap.Logger
}

// NewTenantService creates a service instance.
func NewTenantService(orgs tenantOrgReader, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{orgs: orgs, logger: logger}
}

// Resolve returns the organization the request acts on. An authenticated
// identity that already carries an organization wins; otherwise the explicit
// code is looked up. With neither input the request has no tenant context.
func (s *TenantService) Resolve(ctx context.Context, claims *models.JWTClaims, orgCode string) (string, error) {
	if claims != nil && claims.OrgID != "" {
		return claims.OrgID, nil
	}

	code := strings.TrimSpace(orgCode)
	if code == "" {
		return "", appErrors.ErrTenantMissing
	}

	org, err := s.orgs.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrTenantNotFound
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve organization")
	}
	return org.ID, nil
}
