package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"go.uber.org/zap"
)

const movementsPath = "/api/inventory/reportes/movimientos/"

type Service struct {
	api      gateway.Requester
	location *time.Location
	logger   *zap.Logger
}

func NewService(api gateway.Requester, location *time.Location, logger *zap.Logger) *Service {
	return &Service{
		api:      api,
		location: location,
		logger:   logger,
	}
}

// Generate replaces the cached result set. The previous result is dropped
// before the request so a failed generation leaves nothing to export.
func (s *Service) Generate(ctx context.Context, cred gateway.Credential, cache *Cache, filter Filter) ([]models.Movement, error) {
	cache.Reset()

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	path := movementsPath
	if params := filter.Params(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	var movements []models.Movement
	if err := s.api.Do(ctx, cred, http.MethodGet, path, nil, &movements); err != nil {
		s.logger.Warn("Report generation failed", zap.Error(err))
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if movements == nil {
		movements = []models.Movement{}
	}

	cache.Store(movements)
	return movements, nil
}

func (s *Service) Rows(movements []models.Movement) []Row {
	return Rows(movements, s.location)
}

func (s *Service) ExportCSV(cache *Cache) ([]byte, error) {
	movements, err := exportable(cache)
	if err != nil {
		return nil, err
	}
	return ExportCSV(Rows(movements, s.location)), nil
}

func (s *Service) ExportXLSX(cache *Cache) ([]byte, error) {
	movements, err := exportable(cache)
	if err != nil {
		return nil, err
	}
	return ExportXLSX(Rows(movements, s.location))
}

func exportable(cache *Cache) ([]models.Movement, error) {
	movements, held := cache.Last()
	if !held || len(movements) == 0 {
		return nil, custom_error.ErrNoReport
	}
	return movements, nil
}
