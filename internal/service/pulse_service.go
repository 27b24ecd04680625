package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pilot-pulse/internal/domain"
	"pilot-pulse/internal/repository"
)

var (
	ErrPulseServiceNotConfigured = errors.New("pulse service not configured")
	ErrPulseRateLimited          = errors.New("pulse submissions rate limited")
)

// PulseService coordina validacion, scoring, persistencia y la lectura de tendencias.
type PulseService struct {
	logger  *zap.Logger
	repo    repository.PulseRepository
	cache   TrendCache
	limiter SubmissionRateLimiter
	now     func() time.Time

	// cacheMu serializa invalidaciones y escrituras al cache; generation cuenta
	// las respuestas guardadas para descartar snapshots leidos antes de un Submit.
	cacheMu    sync.Mutex
	generation uint64
}

func NewPulseService(logger *zap.Logger, repo repository.PulseRepository, cache TrendCache, limiter SubmissionRateLimiter) *PulseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewMemoryTrendCache(time.Minute)
	}
	return &PulseService{
		logger:  logger,
		repo:    repo,
		cache:   cache,
		limiter: limiter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubmitPulseInput es el payload crudo de una respuesta. Questions viene tal cual
// se decodifico del JSON para poder reportar errores por campo.
type SubmitPulseInput struct {
	RespondentID string
	Role         string
	Questions    map[string]any
	Comment      string
}

// Submit valida y puntua una respuesta y la persiste. Los errores de validacion se
// devuelven como *ValidationError con el detalle por campo.
func (s *PulseService) Submit(ctx context.Context, input SubmitPulseInput) (domain.PulseResponse, error) {
	if s == nil || s.repo == nil {
		return domain.PulseResponse{}, ErrPulseServiceNotConfigured
	}

	questions, fieldErrs := ValidateQuestions(input.Questions)
	role, roleErr := normalizeRole(input.Role)
	if roleErr != "" {
		fieldErrs = append(fieldErrs, roleErr)
	}
	comment := SanitizeComment(input.Comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		fieldErrs = append(fieldErrs, fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}
	if len(fieldErrs) > 0 {
		return domain.PulseResponse{}, &ValidationError{Fields: fieldErrs}
	}

	if s.limiter != nil && input.RespondentID != "" && !s.limiter.Allow(ctx, input.RespondentID) {
		return domain.PulseResponse{}, ErrPulseRateLimited
	}

	scores, err := ComputeScores(questions)
	if err != nil {
		return domain.PulseResponse{}, err
	}

	response := domain.PulseResponse{
		ID:          uuid.NewString(),
		Role:        role,
		Questions:   questions,
		Scores:      scores,
		Comment:     comment,
		SubmittedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, response); err != nil {
		return domain.PulseResponse{}, fmt.Errorf("persist pulse response: %w", err)
	}

	s.invalidateTrends(ctx)
	s.logger.Info("pulse response stored", zap.String("response_id", response.ID), zap.String("role", role))
	return response, nil
}

// Trends devuelve ventanas y senales calculadas sobre un snapshot completo de filas.
func (s *PulseService) Trends(ctx context.Context) (domain.PulseTrends, error) {
	if s == nil || s.repo == nil {
		return domain.PulseTrends{}, ErrPulseServiceNotConfigured
	}
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	generation := s.currentGeneration()
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return domain.PulseTrends{}, fmt.Errorf("list pulse rows: %w", err)
	}
	trends := BuildTrends(rows)

	s.storeTrends(ctx, generation, trends)
	return trends, nil
}

func (s *PulseService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

func (s *PulseService) invalidateTrends(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("trend cache invalidate failed", zap.Error(err))
	}
}

// storeTrends solo cachea si no hubo un Submit desde que se leyeron las filas.
func (s *PulseService) storeTrends(ctx context.Context, generation uint64, trends domain.PulseTrends) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != generation {
		return
	}
	if err := s.cache.Set(ctx, trends); err != nil {
		s.logger.Warn("trend cache set failed", zap.Error(err))
	}
}

// BuildTrends compone agregacion y evaluacion de senales sobre un snapshot de filas.
func BuildTrends(rows []domain.PulseRow) domain.PulseTrends {
	agg := AggregateWindows(rows)
	return domain.PulseTrends{
		Windows:                  agg.Windows,
		TrendInferenceSuppressed: agg.TrendInferenceSuppressed,
		Signals:                  EvaluateSignals(agg.Windows),
	}
}
