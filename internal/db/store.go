// Package db implements data access over the MongoDB document store. Every
// read funnels raw documents through the record mappers; every failure is
// logged at the call site and returned unchanged for the caller to present.
package db

import (
	"context"
	"errors"

	"github.com/ukydev/fleet-admin/internal/models"
)

var (
	// ErrNotFound is returned by writes that matched no document. Reads
	// signal absence with a nil record instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePlate is returned when the unique license-plate index
	// rejects an insert or update.
	ErrDuplicatePlate = errors.New("license plate already registered")
)

// Collection names.
const (
	CollectionTrucks         = "trucks"
	CollectionSubcontractors = "subcontractors"
	CollectionUsers          = "users"
	CollectionAuthRecords    = "authrecords"
	CollectionWaitlist       = "waitlist"
)

// TopicTrucksChanged is published after every truck write; live truck-list
// subscribers re-pull the full list when they see it.
const TopicTrucksChanged = "fleet/trucks/changed"

// UserMirror is the interface the auth service uses to keep the users
// collection in step with auth records.
type UserMirror interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	Upsert(ctx context.Context, u models.User) error
	SetRole(ctx context.Context, uid string, role models.Role, admin bool) error
}

// AuthRecords is the interface the auth service uses for provider records.
type AuthRecords interface {
	List(ctx context.Context) ([]models.AuthRecord, error)
	GetByUID(ctx context.Context, uid string) (*models.AuthRecord, error)
	GetByEmail(ctx context.Context, email string) (*models.AuthRecord, error)
	Create(ctx context.Context, rec models.AuthRecord) error
	SetClaims(ctx context.Context, uid string, role models.Role, admin bool) error
	RecordSignIn(ctx context.Context, uid string) error
}
