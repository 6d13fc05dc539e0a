package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

// DashboardFor returns the collections shown to role, in display order.
func DashboardFor(role models.Role) ([]string, error) {
	switch role {
	case models.RoleAdmin:
		return []string{
			models.CollectionStudents,
			models.CollectionTeachers,
			models.CollectionBatches,
			models.CollectionCourses,
			models.CollectionResults,
			models.CollectionCertificates,
			models.CollectionResources,
			models.CollectionAttendance,
			models.CollectionLeads,
		}, nil
	case models.RoleTeacher:
		return []string{
			models.CollectionBatches,
			models.CollectionCourses,
			models.CollectionStudents,
			models.CollectionAttendance,
			models.CollectionResults,
			models.CollectionResources,
		}, nil
	case models.RoleStudent:
		return []string{
			models.CollectionCourses,
			models.CollectionResults,
			models.CollectionCertificates,
			models.CollectionResources,
			models.CollectionAttendance,
		}, nil
	case models.RoleUnknown:
	}
	return nil, fmt.Errorf("%w: %s", models.ErrUnknownRole, role)
}

// authorize returns the session in ctx if its role may see collection.
func authorize(ctx context.Context, collection string) (models.Session, error) {
	session, ok := utils.SessionFromContext(ctx)
	if !ok {
		return models.Session{}, ErrNoSession
	}
	visible, err := DashboardFor(session.Role)
	if err != nil {
		return models.Session{}, err
	}
	if !slices.Contains(visible, collection) {
		return models.Session{}, fmt.Errorf("%w: %s for %s", ErrAccessDenied, collection, session.Role)
	}
	return session, nil
}

type dashboardService struct {
	logger *logger.Logger
}

func NewDashboardService(logger *logger.Logger) DashboardService {
	return &dashboardService{logger: logger}
}

func (s *dashboardService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	session, ok := utils.SessionFromContext(ctx)
	if !ok {
		return models.Dashboard{}, ErrNoSession
	}
	collections, err := DashboardFor(session.Role)
	if err != nil {
		s.logger.Err(err).Str("func", "dashboardService.Dashboard").Str("user_id", session.UserID).Msg("session has no dashboard")
		return models.Dashboard{}, err
	}
	return models.Dashboard{Role: session.Role, Name: session.Name, Collections: collections}, nil
}
