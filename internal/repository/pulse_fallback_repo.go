package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pilot-pulse/internal/domain"
)

// FallbackPulseRepository escribe en el store primario y, si falla, en el de respaldo.
// Las lecturas combinan ambos para que las respuestas capturadas en modo degradado
// sigan entrando en la agregacion.
type FallbackPulseRepository struct {
	logger   *zap.Logger
	primary  PulseRepository
	fallback PulseRepository
}

func NewFallbackPulseRepository(logger *zap.Logger, primary, fallback PulseRepository) *FallbackPulseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackPulseRepository{
		logger:   logger,
		primary:  primary,
		fallback: fallback,
	}
}

func (r *FallbackPulseRepository) Insert(ctx context.Context, response domain.PulseResponse) error {
	if r.primary == nil {
		return r.insertFallback(ctx, response, errors.New("primary store not configured"))
	}
	err := r.primary.Insert(ctx, response)
	if err == nil {
		return nil
	}
	return r.insertFallback(ctx, response, err)
}

func (r *FallbackPulseRepository) insertFallback(ctx context.Context, response domain.PulseResponse, cause error) error {
	if r.fallback == nil {
		return cause
	}
	r.logger.Warn("pulse insert degraded to fallback store",
		zap.String("response_id", response.ID),
		zap.Error(cause),
	)
	if err := r.fallback.Insert(ctx, response); err != nil {
		return errors.Join(cause, err)
	}
	return nil
}

func (r *FallbackPulseRepository) ListAll(ctx context.Context) ([]domain.PulseRow, error) {
	var fallbackRows []domain.PulseRow
	if r.fallback != nil {
		rows, err := r.fallback.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		fallbackRows = rows
	}
	if r.primary == nil {
		return fallbackRows, nil
	}

	primaryRows, err := r.primary.ListAll(ctx)
	if err != nil {
		if r.fallback == nil {
			return nil, err
		}
		r.logger.Warn("pulse list degraded to fallback store", zap.Error(err))
		return fallbackRows, nil
	}
	out := make([]domain.PulseRow, 0, len(primaryRows)+len(fallbackRows))
	out = append(out, primaryRows...)
	out = append(out, fallbackRows...)
	return out, nil
}
