package replica

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("replica not found")

// Replica mirrors a canonical product into the public store.
// AdminID is unique: at most one replica row per admin record.
type Replica struct {
	ID        string    `json:"id"`
	AdminID   int64     `json:"admin_id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	List(ctx context.Context) ([]Replica, error)
	GetByID(ctx context.Context, id string) (*Replica, error)
	// Upsert inserts the replica or, when a row with the same AdminID
	// already exists, overwrites its mirrored fields. The existing row
	// keeps its id.
	Upsert(ctx context.Context, r *Replica) error
	UpdateByAdminID(ctx context.Context, adminID int64, title, image string, likes int64) (int64, error)
	DeleteByAdminID(ctx context.Context, adminID int64) (int64, error)
	IncrementLikes(ctx context.Context, id string) (*Replica, error)
}
