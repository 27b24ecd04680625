package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"pilot-pulse/internal/domain"
)

type stubPulseRepo struct {
	rows      []domain.PulseRow
	insertErr error
	listErr   error
	inserted  int
}

func (s *stubPulseRepo) Insert(_ context.Context, response domain.PulseResponse) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted++
	s.rows = append(s.rows, response.Row())
	return nil
}

func (s *stubPulseRepo) ListAll(_ context.Context) ([]domain.PulseRow, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func testResponse(id, role string, at time.Time) domain.PulseResponse {
	return domain.PulseResponse{ID: id, Role: role, SubmittedAt: at}
}

func TestPulseQueries(t *testing.T) {
	if !strings.Contains(pulseInsertQuery, "q12") || !strings.Contains(pulseInsertQuery, "$24") {
		t.Fatalf("unexpected insert query: %s", pulseInsertQuery)
	}
	if strings.Contains(pulseInsertQuery, "$25") {
		t.Fatalf("insert query has too many placeholders: %s", pulseInsertQuery)
	}
	if !strings.HasSuffix(pulseListQuery, "ORDER BY seq ASC") {
		t.Fatalf("list query must preserve insertion order: %s", pulseListQuery)
	}
}

func TestMemoryPulseRepository_InsertionOrder(t *testing.T) {
	repo := NewMemoryPulseRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	_ = repo.Insert(ctx, testResponse("b", "SME", now.Add(time.Hour)))
	_ = repo.Insert(ctx, testResponse("a", "BUILDER", now))

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Role != "SME" || rows[1].Role != "BUILDER" {
		t.Fatalf("expected insertion order, got %+v", rows)
	}

	rows[0].Role = "MUTATED"
	again, _ := repo.ListAll(ctx)
	if again[0].Role != "SME" {
		t.Fatalf("store shares memory with caller")
	}
}

func TestMemoryPulseRepository_Concurrent(t *testing.T) {
	repo := NewMemoryPulseRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Insert(ctx, testResponse("x", "SME", time.Now().UTC()))
			_, _ = repo.ListAll(ctx)
		}()
	}
	wg.Wait()
	if repo.Len() != 50 {
		t.Fatalf("expected 50 rows, got %d", repo.Len())
	}
}

func TestFallbackPulseRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("primary ok", func(t *testing.T) {
		primary := &stubPulseRepo{}
		fallback := NewMemoryPulseRepository()
		repo := NewFallbackPulseRepository(zap.NewNop(), primary, fallback)
		if err := repo.Insert(ctx, testResponse("1", "SME", time.Now())); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if primary.inserted != 1 || fallback.Len() != 0 {
			t.Fatalf("expected primary write only")
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &stubPulseRepo{insertErr: errors.New("db down")}
		fallback := NewMemoryPulseRepository()
		repo := NewFallbackPulseRepository(zap.NewNop(), primary, fallback)
		if err := repo.Insert(ctx, testResponse("1", "SME", time.Now())); err != nil {
			t.Fatalf("expected fallback to absorb error, got %v", err)
		}
		if fallback.Len() != 1 {
			t.Fatalf("expected fallback write")
		}
	})

	t.Run("both fail", func(t *testing.T) {
		primaryErr := errors.New("db down")
		primary := &stubPulseRepo{insertErr: primaryErr}
		fallback := &stubPulseRepo{insertErr: errors.New("memory full")}
		repo := NewFallbackPulseRepository(zap.NewNop(), primary, fallback)
		if err := repo.Insert(ctx, testResponse("1", "SME", time.Now())); !errors.Is(err, primaryErr) {
			t.Fatalf("expected joined primary error, got %v", err)
		}
	})

	t.Run("no fallback", func(t *testing.T) {
		primaryErr := errors.New("db down")
		repo := NewFallbackPulseRepository(nil, &stubPulseRepo{insertErr: primaryErr}, nil)
		if err := repo.Insert(ctx, testResponse("1", "SME", time.Now())); !errors.Is(err, primaryErr) {
			t.Fatalf("expected primary error, got %v", err)
		}
	})

	t.Run("no primary", func(t *testing.T) {
		fallback := NewMemoryPulseRepository()
		repo := NewFallbackPulseRepository(nil, nil, fallback)
		if err := repo.Insert(ctx, testResponse("1", "SME", time.Now())); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if fallback.Len() != 1 {
			t.Fatalf("expected fallback write")
		}
	})
}

func TestFallbackPulseRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	primary := &stubPulseRepo{rows: []domain.PulseRow{{Role: "SME", SubmittedAt: now}}}
	fallback := NewMemoryPulseRepository()
	_ = fallback.Insert(ctx, testResponse("f1", "BUILDER", now.Add(time.Minute)))
	repo := NewFallbackPulseRepository(zap.NewNop(), primary, fallback)

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Role != "SME" || rows[1].Role != "BUILDER" {
		t.Fatalf("expected primary then fallback rows, got %+v", rows)
	}

	primary.listErr = errors.New("db down")
	rows, err = repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("expected degraded list, got %v", err)
	}
	if len(rows) != 1 || rows[0].Role != "BUILDER" {
		t.Fatalf("expected fallback rows only, got %+v", rows)
	}

	onlyPrimary := NewFallbackPulseRepository(zap.NewNop(), primary, nil)
	if _, err := onlyPrimary.ListAll(ctx); err == nil {
		t.Fatalf("expected primary error without fallback")
	}
}
