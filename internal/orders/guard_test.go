package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
)

type fakeGuardStore struct {
	users   map[int64]*model.User
	certs   map[int64]*model.Certificate
	created []*model.Order
	reads   []int64
}

func newFakeGuardStore() *fakeGuardStore {
	return &fakeGuardStore{
		users: map[int64]*model.User{1: {BaseModel: model.BaseModel{ID: 1}, Login: "alice"}},
		certs: map[int64]*model.Certificate{},
	}
}

func (f *fakeGuardStore) addCert(id int64, price string, active bool) {
	f.certs[id] = &model.Certificate{ID: id, Name: fmt.Sprintf("cert-%d", id), Price: decimal.RequireFromString(price), Active: active}
}

func (f *fakeGuardStore) FindUserByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("find user %d: %w", id, store.ErrNotFound)
}

func (f *fakeGuardStore) FindActiveCertificateByID(_ context.Context, id int64) (*model.Certificate, error) {
	f.reads = append(f.reads, id)
	if c, ok := f.certs[id]; ok && c.Active {
		return c, nil
	}
	return nil, fmt.Errorf("find active certificate %d: %w", id, store.ErrNotFound)
}

func (f *fakeGuardStore) CreateOrder(_ context.Context, order *model.Order) error {
	order.ID = int64(len(f.created) + 1)
	f.created = append(f.created, order)
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGuard(fs *fakeGuardStore) *Guard {
	return NewGuard(fs, func() time.Time { return fixedNow })
}

func line(id int64, price string) Line {
	return Line{CertificateID: id, Price: decimal.RequireFromString(price)}
}

func TestPlace_MatchingPriceSucceeds(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(10, "100", true)

	order, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(10, "100")})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []int64{10}, order.CertificateIDs())
	assert.Equal(t, fixedNow, order.PurchasedAt)
	assert.Len(t, fs.created, 1)
}

func TestPlace_StalePriceCreatesNothing(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(10, "100", true)

	_, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(10, "99")})

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errs.KindStaleState, e.Kind)
	assert.Equal(t, int64(10), e.Details["certificateId"])
	assert.Equal(t, "99", e.Details["rememberedPrice"])
	assert.Equal(t, "100", e.Details["currentPrice"])
	assert.Empty(t, fs.created)
}

func TestPlace_ExactDecimalTotal(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(1, "100", true)
	fs.addCert(2, "333.33", true)

	order, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(1, "100.00"), line(2, "333.33")})
	require.NoError(t, err)

	assert.Equal(t, "433.33", order.TotalAmount.StringFixed(2))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("433.33")))
}

func TestPlace_TotalUsesCatalogPrices(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(1, "0.10", true)
	fs.addCert(2, "0.20", true)

	order, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(1, "0.1"), line(2, "0.2"), line(1, "0.10")})
	require.NoError(t, err)

	assert.Equal(t, "0.4", order.TotalAmount.String())
	assert.Len(t, order.Items, 3)
}

func TestPlace_InactiveCertificateAbortsOrder(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(1, "100", true)
	fs.addCert(2, "333.33", false)

	_, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(1, "100"), line(2, "333.33")})

	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))
	assert.Empty(t, fs.created)
}

func TestPlace_FailsFastInInputOrder(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(1, "5", true)
	fs.addCert(3, "7", true)

	_, err := newTestGuard(fs).Place(context.Background(), 1, []Line{line(1, "5"), line(2, "1"), line(3, "7")})

	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))
	assert.Equal(t, []int64{1, 2}, fs.reads)
}

func TestPlace_UnknownUser(t *testing.T) {
	fs := newFakeGuardStore()
	fs.addCert(1, "5", true)

	_, err := newTestGuard(fs).Place(context.Background(), 99, []Line{line(1, "5")})

	assert.Equal(t, errs.KindResourceNotFound, errs.KindOf(err))
	assert.Empty(t, fs.reads)
}

func TestPlace_InvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		lines  []Line
	}{
		{"zero user", 0, []Line{line(1, "5")}},
		{"negative user", -3, []Line{line(1, "5")}},
		{"no lines", 1, nil},
		{"zero certificate id", 1, []Line{line(0, "5")}},
		{"negative price", 1, []Line{line(1, "-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeGuardStore()
			_, err := newTestGuard(fs).Place(context.Background(), tt.userID, tt.lines)
			assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
			assert.Empty(t, fs.reads)
		})
	}
}
