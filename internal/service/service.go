package service

import (
	"context"

	"minibar/internal/model"
	"minibar/internal/session"

	"github.com/google/uuid"
)

// MaxLineQuantity is the largest quantity a guest can set on an existing line.
const MaxLineQuantity = 20

// ProductService defines read access to the catalogue.
type ProductService interface {
	// GetAll retrieves every product in display order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// SessionService defines room sign-in.
type SessionService interface {
	// Login validates the room number and opens its session.
	Login(ctx context.Context, room string) (*model.LoginResponse, error)
}

// OrderService defines order operations scoped to a signed-in room.
type OrderService interface {
	// History returns the room's order lines, newest first.
	History(ctx context.Context, room string) (*model.OrderHistory, error)

	// AddProduct orders a product for the room, merging into an existing line.
	AddProduct(ctx context.Context, room string, req *model.AddOrderRequest) (*model.OrderLine, error)

	// UpdateQuantity sets the quantity of one of the room's lines.
	UpdateQuantity(ctx context.Context, room string, lineID uuid.UUID, quantity int) (*model.OrderLine, error)

	// Delete removes one of the room's lines. Unknown lines are ignored.
	Delete(ctx context.Context, room string, lineID uuid.UUID) error
}

// ScheduleService defines the service time slot editor for a signed-in room.
type ScheduleService interface {
	// State returns the editor state without changing it.
	State(ctx context.Context, room string) (*model.ScheduleState, error)

	// SetDraft replaces the draft slot.
	SetDraft(ctx context.Context, room string, req *model.DraftRequest) (*model.ScheduleState, error)

	// Load shows the committed slot, or a fresh draft when none is committed.
	Load(ctx context.Context, room string) (*model.ScheduleState, error)

	// BeginEditing starts editing from the committed slot.
	BeginEditing(ctx context.Context, room string) (*model.ScheduleState, error)

	// Save validates and commits the draft. On a validation failure the
	// returned state carries the message and the error is the rule that failed.
	Save(ctx context.Context, room string) (*model.ScheduleState, error)

	// Delete clears the committed slot and starts a fresh draft.
	Delete(ctx context.Context, room string) (*model.ScheduleState, error)
}

// Sessions is the subset of the session registry the services need.
type Sessions interface {
	Open(room string) (*session.Session, error)
	Get(room string) *session.Session
}
