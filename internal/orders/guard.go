// Package orders places orders after checking that remembered prices still hold.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
)

// Line is one certificate the client wants to buy, with the price it last saw
type Line struct {
	CertificateID int64           `json:"certificateId"`
	Price         decimal.Decimal `json:"price"`
}

// GuardStore is the read/write surface the price guard needs
type GuardStore interface {
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	FindActiveCertificateByID(ctx context.Context, id int64) (*model.Certificate, error)
	CreateOrder(ctx context.Context, order *model.Order) error
}

// Guard verifies remembered prices against the catalog and records the order
type Guard struct {
	store GuardStore
	now   func() time.Time
}

// NewGuard creates a guard. now stamps the purchase time.
func NewGuard(s GuardStore, now func() time.Time) *Guard {
	return &Guard{store: s, now: now}
}

// Place checks every line in order and persists the order only if all pass.
// The first missing, inactive or repriced certificate aborts the whole order.
func (g *Guard) Place(ctx context.Context, userID int64, lines []Line) (*model.Order, error) {
	if err := validateRequest(userID, lines); err != nil {
		return nil, err
	}

	if _, err := g.store.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("user %d not found", userID).With("userId", userID)
		}
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		cert, err := g.store.FindActiveCertificateByID(ctx, line.CertificateID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("certificate %d not found or inactive", line.CertificateID).
				With("certificateId", line.CertificateID)
		}
		if err != nil {
			return nil, err
		}

		if !cert.Price.Equal(line.Price) {
			return nil, errs.StaleState("price of certificate %d has changed", cert.ID).
				With("certificateId", cert.ID).
				With("rememberedPrice", line.Price.String()).
				With("currentPrice", cert.Price.String())
		}

		items = append(items, model.OrderItem{
			CertificateID: cert.ID,
			Name:          cert.Name,
			Price:         cert.Price,
		})
		total = total.Add(cert.Price)
	}

	order := &model.Order{
		UserID:      userID,
		TotalAmount: total,
		PurchasedAt: g.now().UTC(),
		Items:       datatypes.JSONSlice[model.OrderItem](items),
	}
	if err := g.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func validateRequest(userID int64, lines []Line) error {
	if userID <= 0 {
		return errs.InvalidData("user id must be positive").With("userId", userID)
	}
	if len(lines) == 0 {
		return errs.InvalidData("an order needs at least one certificate")
	}
	for i, line := range lines {
		if line.CertificateID <= 0 {
			return errs.InvalidData("certificate id must be positive").
				With("index", i).
				With("certificateId", line.CertificateID)
		}
		if line.Price.IsNegative() {
			return errs.InvalidData("price must not be negative").
				With("index", i).
				With("price", line.Price.String())
		}
	}
	return nil
}
