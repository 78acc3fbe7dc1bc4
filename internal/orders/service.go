package orders

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/page"
	"gift_catalog/internal/store"
)

// Idempotency remembers which order a client request key produced
type Idempotency interface {
	// Reserve claims key for userID. When the key already produced an order,
	// reserved is false and orderID is that order.
	Reserve(ctx context.Context, userID int64, key string) (orderID int64, reserved bool, err error)
	Complete(ctx context.Context, userID int64, key string, orderID int64) error
	Release(ctx context.Context, userID int64, key string) error
}

// Service exposes order placement and lookups
type Service struct {
	store *store.Store
	idem  Idempotency
	now   func() time.Time
	log   *logrus.Entry
}

// NewService creates an order service. idem may be nil to disable request keys.
func NewService(s *store.Store, idem Idempotency, now func() time.Time, log *logrus.Entry) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: s,
		idem:  idem,
		now:   now,
		log:   log.WithField("component", "order-service"),
	}
}

// Place runs the price guard inside a single transaction. A non-empty
// requestKey makes the call idempotent per user.
func (s *Service) Place(ctx context.Context, userID int64, lines []Line, requestKey string) (*model.Order, error) {
	if requestKey == "" || s.idem == nil {
		return s.place(ctx, userID, lines)
	}

	existingID, reserved, err := s.idem.Reserve(ctx, userID, requestKey)
	if err != nil {
		return nil, err
	}
	if !reserved {
		if existingID == 0 {
			return nil, errs.AlreadyExists("an order with this request key is still being placed").
				With("requestKey", requestKey)
		}
		s.log.WithFields(logrus.Fields{"user_id": userID, "order_id": existingID}).Info("Replaying idempotent order")
		return s.Get(ctx, existingID)
	}

	order, err := s.place(ctx, userID, lines)
	if err != nil {
		if rerr := s.idem.Release(ctx, userID, requestKey); rerr != nil {
			s.log.WithError(rerr).Warn("Failed to release order request key")
		}
		return nil, err
	}
	if err := s.idem.Complete(ctx, userID, requestKey, order.ID); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("Failed to record order request key")
	}
	return order, nil
}

func (s *Service) place(ctx context.Context, userID int64, lines []Line) (*model.Order, error) {
	var order *model.Order
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		order, err = NewGuard(tx, s.now).Place(ctx, userID, lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount.String(),
		"items":    len(order.Items),
	}).Info("Order placed")
	return order, nil
}

// Get loads an order by identity
func (s *Service) Get(ctx context.Context, id int64) (*model.Order, error) {
	if id <= 0 {
		return nil, errs.InvalidData("order id must be positive").With("id", id)
	}
	order, err := s.store.FindOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("order %d not found", id).With("id", id)
	}
	return order, err
}

// ListByUser returns one page of a user's orders
func (s *Service) ListByUser(ctx context.Context, userID int64, pageNum, size int) ([]model.Order, page.Meta, error) {
	if userID <= 0 {
		return nil, page.Meta{}, errs.InvalidData("user id must be positive").With("userId", userID)
	}
	if err := page.CheckRequest(pageNum, size); err != nil {
		return nil, page.Meta{}, err
	}
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, page.Meta{}, errs.NotFound("user %d not found", userID).With("userId", userID)
		}
		return nil, page.Meta{}, err
	}

	list, total, err := s.store.ListOrdersByUser(ctx, userID, page.Offset(pageNum, size), size)
	if err != nil {
		return nil, page.Meta{}, err
	}
	if err := page.Validate(pageNum, size, total); err != nil {
		return nil, page.Meta{}, err
	}
	return list, page.NewMeta(pageNum, size, total), nil
}
