package service

import (
	"context"
	"slices"
	"time"

	"minibar/internal/catalog"
	"minibar/internal/model"
	"minibar/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	sessions Sessions
	catalog  *catalog.Catalog
	now      func() time.Time
	logger   zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(sessions Sessions, c *catalog.Catalog, logger zerolog.Logger) OrderService {
	return &orderService{
		sessions: sessions,
		catalog:  c,
		now:      time.Now,
		logger:   logger.With().Str("service", "order").Logger(),
	}
}

// History returns the room's order lines, newest first.
func (s *orderService) History(ctx context.Context, room string) (*model.OrderHistory, error) {
	sess, err := s.session(room)
	if err != nil {
		return nil, err
	}

	lines := slices.DeleteFunc(sess.Store.Lines(), func(l model.OrderLine) bool {
		return l.Room != room
	})
	slices.SortStableFunc(lines, func(a, b model.OrderLine) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if lines == nil {
		lines = []model.OrderLine{}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return &model.OrderHistory{
		Room:  room,
		Lines: lines,
		Total: total,
	}, nil
}

// AddProduct orders a product for the room. A zero quantity means one unit.
func (s *orderService) AddProduct(ctx context.Context, room string, req *model.AddOrderRequest) (*model.OrderLine, error) {
	sess, err := s.session(room)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		s.logger.Warn().
			Str("room", room).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	product, ok := s.catalog.Lookup(req.ProductID)
	if !ok {
		s.logger.Warn().
			Str("room", room).
			Str("product_id", req.ProductID.String()).
			Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	// The store may have merged the line, so report what it now holds.
	var lines []model.OrderLine
	sess.Do(func() {
		sess.Store.Add(model.NewOrderLine(product, quantity, room, s.now()))
		lines = sess.Store.Lines()
	})
	idx := slices.IndexFunc(lines, func(l model.OrderLine) bool {
		return l.Room == room && l.Product.ID == product.ID
	})
	if idx < 0 {
		return nil, model.ErrOrderLineNotFound
	}
	stored := lines[idx]

	s.logger.Info().
		Str("room", room).
		Str("product", product.Name).
		Int("added", quantity).
		Int("quantity", stored.Quantity).
		Msg("product ordered")

	return &stored, nil
}

// UpdateQuantity sets the quantity of one of the room's lines.
func (s *orderService) UpdateQuantity(ctx context.Context, room string, lineID uuid.UUID, quantity int) (*model.OrderLine, error) {
	sess, err := s.session(room)
	if err != nil {
		return nil, err
	}

	if quantity < 1 || quantity > MaxLineQuantity {
		s.logger.Warn().
			Str("room", room).
			Str("line_id", lineID.String()).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	var updated model.OrderLine
	found := false
	sess.Do(func() {
		lines := sess.Store.Lines()
		idx := slices.IndexFunc(lines, func(l model.OrderLine) bool {
			return l.ID == lineID && l.Room == room
		})
		if idx < 0 {
			return
		}
		updated = lines[idx]
		updated.Quantity = quantity
		sess.Store.Update(updated)
		found = true
	})
	if !found {
		s.logger.Debug().Str("room", room).Str("line_id", lineID.String()).Msg("order line not found")
		return nil, model.ErrOrderLineNotFound
	}

	s.logger.Info().
		Str("room", room).
		Str("line_id", lineID.String()).
		Int("quantity", quantity).
		Msg("order line updated")

	return &updated, nil
}

// Delete removes one of the room's lines. Unknown lines are ignored.
func (s *orderService) Delete(ctx context.Context, room string, lineID uuid.UUID) error {
	sess, err := s.session(room)
	if err != nil {
		return err
	}

	sess.Do(func() { sess.Store.Delete(lineID) })

	s.logger.Info().
		Str("room", room).
		Str("line_id", lineID.String()).
		Msg("order line deleted")

	return nil
}

func (s *orderService) session(room string) (*session.Session, error) {
	sess := s.sessions.Get(room)
	if sess == nil {
		s.logger.Debug().Str("room", room).Msg("session not found")
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}
