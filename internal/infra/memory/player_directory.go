package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"family-puzzles/internal/domain"
)

// PlayerDirectory is an in-memory implementation of app.PlayerDirectory.
type PlayerDirectory struct {
	mu      sync.RWMutex
	order   []string
	players map[string]domain.Player
}

func NewPlayerDirectory(seed ...domain.Player) *PlayerDirectory {
	d := &PlayerDirectory{players: make(map[string]domain.Player)}
	for _, p := range seed {
		d.order = append(d.order, p.UserID)
		d.players[p.UserID] = p
	}
	return d
}

// List returns profiles in registration order.
func (d *PlayerDirectory) List(_ context.Context) ([]domain.Player, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Player, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.players[id])
	}
	return out, nil
}

func (d *PlayerDirectory) Get(_ context.Context, userID string) (domain.Player, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.players[userID]; ok {
		return p, nil
	}
	return domain.Player{}, domain.ErrPlayerNotFound
}

func (d *PlayerDirectory) Create(_ context.Context, userName string) (domain.Player, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := domain.Player{UserID: uuid.NewString(), UserName: userName}
	d.order = append(d.order, p.UserID)
	d.players[p.UserID] = p
	return p, nil
}
