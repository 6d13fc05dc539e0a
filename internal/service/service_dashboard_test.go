package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

func sessionCtx(role models.Role) context.Context {
	return utils.WithSession(context.Background(), models.Session{UserID: "u-1", Name: "Priya", Role: role})
}

// ─────────────────────────────────────────────
// DashboardFor
// ─────────────────────────────────────────────

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		role models.Role
		want []string
	}{
		{
			role: models.RoleAdmin,
			want: []string{"students", "teachers", "batches", "courses", "exam_results", "certificates", "resources", "attendance", "leads"},
		},
		{
			role: models.RoleTeacher,
			want: []string{"batches", "courses", "students", "attendance", "exam_results", "resources"},
		},
		{
			role: models.RoleStudent,
			want: []string{"courses", "exam_results", "certificates", "resources", "attendance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			got, err := DashboardFor(tt.role)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardFor_UnknownRole(t *testing.T) {
	for _, role := range []models.Role{models.RoleUnknown, models.Role(42)} {
		got, err := DashboardFor(role)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, models.ErrUnknownRole)
	}
}

func TestDashboardFor_EveryCollectionIsConfigured(t *testing.T) {
	for _, role := range models.Roles {
		names, err := DashboardFor(role)
		require.NoError(t, err)
		for _, name := range names {
			_, ok := collectionSettings[name]
			assert.True(t, ok, "collection %s has no spec", name)
		}
	}
}

// ─────────────────────────────────────────────
// authorize
// ─────────────────────────────────────────────

func TestAuthorize(t *testing.T) {
	_, err := authorize(context.Background(), models.CollectionCourses)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = authorize(sessionCtx(models.RoleStudent), models.CollectionLeads)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = authorize(sessionCtx(models.RoleTeacher), models.CollectionCertificates)
	assert.ErrorIs(t, err, ErrAccessDenied)

	session, err := authorize(sessionCtx(models.RoleAdmin), models.CollectionLeads)
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.UserID)
}

// ─────────────────────────────────────────────
// Dashboard
// ─────────────────────────────────────────────

func TestDashboardService_Dashboard(t *testing.T) {
	svc := NewDashboardService(logger.Nop())

	got, err := svc.Dashboard(sessionCtx(models.RoleStudent))

	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, got.Role)
	assert.Equal(t, "Priya", got.Name)
	assert.Len(t, got.Collections, 5)
}

func TestDashboardService_Dashboard_Errors(t *testing.T) {
	svc := NewDashboardService(logger.Nop())

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Dashboard(sessionCtx(models.RoleUnknown))
	assert.ErrorIs(t, err, models.ErrUnknownRole)
}
