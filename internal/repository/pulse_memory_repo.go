package repository

import (
	"context"
	"sync"

	"pilot-pulse/internal/domain"
)

// MemoryPulseRepository guarda respuestas en memoria. Se usa como store de respaldo
// cuando Postgres no esta disponible y en pruebas. Cada instancia es dueña de su slice.
type MemoryPulseRepository struct {
	mu        sync.RWMutex
	responses []domain.PulseResponse
}

func NewMemoryPulseRepository() *MemoryPulseRepository {
	return &MemoryPulseRepository{}
}

func (r *MemoryPulseRepository) Insert(_ context.Context, response domain.PulseResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response)
	return nil
}

// ListAll devuelve una copia; el llamador no comparte memoria con el store.
func (r *MemoryPulseRepository) ListAll(_ context.Context) ([]domain.PulseRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PulseRow, 0, len(r.responses))
	for _, resp := range r.responses {
		out = append(out, resp.Row())
	}
	return out, nil
}

// Len devuelve cuantas respuestas hay guardadas.
func (r *MemoryPulseRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.responses)
}
