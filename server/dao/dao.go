// Package dao provides data access objects for use in the NightRunner server.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/nightrunner/internal/game"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Worlds() WorldRepository
	Sessions() SessionRepository
	Commands() CommandRepository
	Close() error
}

// World is an uploaded world document. Data is kept in the format it was
// uploaded in and is parsed again when the world is first played.
type World struct {
	ID          uuid.UUID
	Name        string
	Description string
	Format      string
	Data        []byte
	Created     time.Time
	Modified    time.Time
}

// Session is one player's game in progress on a World.
type Session struct {
	ID      uuid.UUID
	WorldID uuid.UUID
	State   game.State

	// Ended is set once the player has quit. An ended session keeps its
	// history but accepts no more commands.
	Ended bool

	Created  time.Time
	Modified time.Time
}

// Command is a single line of input given to a Session along with the result
// document it produced.
type Command struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Input     string
	Result    string
	Created   time.Time
}

type WorldRepository interface {
	// Create creates a new World. All attributes except for auto-generated
	// fields are taken from the provided World.
	Create(ctx context.Context, w World) (World, error)
	GetByID(ctx context.Context, id uuid.UUID) (World, error)
	GetAll(ctx context.Context) ([]World, error)
	Update(ctx context.Context, id uuid.UUID, w World) (World, error)
	Delete(ctx context.Context, id uuid.UUID) (World, error)
	Close() error
}

type SessionRepository interface {
	// Create creates a new Session. All attributes except for auto-generated
	// fields are taken from the provided Session.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)
	GetAllByWorld(ctx context.Context, worldID uuid.UUID) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}

type CommandRepository interface {
	// Create creates a new Command. The Session it refers to must exist.
	Create(ctx context.Context, c Command) (Command, error)
	GetByID(ctx context.Context, id uuid.UUID) (Command, error)

	// GetAllBySession returns the commands of a session in the order they
	// were created. A session with no commands gives an empty slice, not
	// ErrNotFound.
	GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Command, error)
	DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) error
	Close() error
}
