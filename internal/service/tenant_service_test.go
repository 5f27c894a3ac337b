package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type stubOrgReader struct {
	byCode map[string]*models.Organization
	byID   map[string]*models.Organization
	calls  int
}

func (s *stubOrgReader) FindByCode(_ context.Context, code string) (*models.Organization, error) {
	s.calls++
	if org, ok := s.byCode[code]; ok {
		return org, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubOrgReader) FindByID(_ context.Context, id string) (*models.Organization, error) {
	if org, ok := s.byID[id]; ok {
		return org, nil
	}
	return nil, sql.ErrNoRows
}

func TestTenantResolvePrefersClaims(t *testing.T) {
	orgs := &stubOrgReader{}
	svc := NewTenantService(orgs, zap.NewNop())

	claims := &models.JWTClaims{OrgID: "org-1"}
	orgID, err := svc.Resolve(context.Background(), claims, "SPRI123")

	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)
	assert.Zero(t, orgs.calls, "claims org must win without a lookup")
}

func TestTenantResolveByCode(t *testing.T) {
	orgs := &stubOrgReader{byCode: map[string]*models.Organization{
		"SPRI123": {ID: "org-1", Code: "SPRI123"},
	}}
	svc := NewTenantService(orgs, zap.NewNop())

	orgID, err := svc.Resolve(context.Background(), nil, " SPRI123 ")

	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)
}

func TestTenantResolveMissingContext(t *testing.T) {
	svc := NewTenantService(&stubOrgReader{}, zap.NewNop())

	_, err := svc.Resolve(context.Background(), nil, "")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTenantMissing.Code, appErrors.FromError(err).Code)
}

func TestTenantResolveUnknownCode(t *testing.T) {
	svc := NewTenantService(&stubOrgReader{}, zap.NewNop())

	_, err := svc.Resolve(context.Background(), nil, "NOPE999")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTenantNotFound.Code, appErrors.FromError(err).Code)
}
