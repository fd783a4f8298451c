package usecase

import (
	"context"

	"github.com/croquete1/Fitness-Pro-sub001/domains/health"
	"github.com/croquete1/Fitness-Pro-sub001/infrastructure/messaging"
)

type HealthService struct {
	repo *messaging.SQLiteRepository
}

func NewHealthService(repo *messaging.SQLiteRepository) *HealthService {
	return &HealthService{repo: repo}
}

// GetSystemHealth probes the database and reports overall status:
// unhealthy when the database is unreachable, degraded when counts fail,
// healthy otherwise
func (s *HealthService) GetSystemHealth(ctx context.Context) health.SystemHealth {
	result := health.SystemHealth{Status: "healthy"}

	if err := s.repo.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = health.DatabaseHealth{Connected: false, Error: err.Error()}
		return result
	}
	result.Database = health.DatabaseHealth{Connected: true}

	messages, err := s.repo.CountMessages(ctx)
	if err != nil {
		result.Status = "degraded"
		result.Database.Error = err.Error()
		return result
	}
	result.TotalMessages = messages

	profiles, err := s.repo.CountProfiles(ctx)
	if err != nil {
		result.Status = "degraded"
		result.Database.Error = err.Error()
		return result
	}
	result.TotalProfiles = profiles

	return result
}
