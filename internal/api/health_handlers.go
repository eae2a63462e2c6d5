package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recordshopapp/recordshop-server/internal/session"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	catalogHealth := s.checkCatalog(ctx)
	components["catalog"] = catalogHealth
	if catalogHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	sessionHealth := s.checkSessions(ctx)
	components["sessions"] = sessionHealth
	if sessionHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if sessionHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCatalog verifies the SQLite store is accessible.
func (s *Server) checkCatalog(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "catalog store not configured",
		}
	}

	start := time.Now()
	_, err := s.store.ListAlbums(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "catalog read failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkSessions verifies the Badger session store is accessible.
func (s *Server) checkSessions(ctx context.Context) ComponentHealth {
	if s.sessions == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "session store not configured",
		}
	}

	start := time.Now()

	// ErrNotFound is fine, the probe only proves the store answers.
	_, err := s.sessions.Get(ctx, "health-probe")
	latency := time.Since(start)

	if err != nil && !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "session read failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
