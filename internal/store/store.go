// Package store persists game sessions between requests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justinabrahms/chessengine/internal/chess"
	"github.com/justinabrahms/chessengine/internal/config"
)

var ErrNotFound = errors.New("session not found")

// Session is one hosted game: who plays each color and the game itself.
// Players are "human" or a bot kind.
type Session struct {
	ID        string         `json:"id"`
	White     string         `json:"white"`
	Black     string         `json:"black"`
	Seed      int64          `json:"seed"`
	Game      chess.Snapshot `json:"game"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Player returns the player assigned to c.
func (s *Session) Player(c chess.Color) string {
	if c == chess.White {
		return s.White
	}
	return s.Black
}

func (s *Session) clone() *Session {
	c := *s
	c.Game.History = append([]string(nil), s.Game.History...)
	c.Game.CaptureCounts = append([]int(nil), s.Game.CaptureCounts...)
	return &c
}

type Store interface {
	Save(ctx context.Context, s *Session) error
	// Load returns ErrNotFound for unknown or expired sessions.
	Load(ctx context.Context, id string) (*Session, error)
	// List returns live sessions, oldest first.
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
