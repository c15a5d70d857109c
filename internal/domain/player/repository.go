package player

import "context"

// Roster describes the remote roster operations used by the application.
type Roster interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, playerID int64) (Player, error)
	RemovePlayer(ctx context.Context, playerID int64) error
	CreatePlayer(ctx context.Context, draft Draft) (Player, error)
}
