// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gift_catalog/internal/db"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
)

var dbSeq atomic.Int64

// Logger returns a logger that discards output
func Logger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// NewStore opens a migrated in-memory SQLite database private to the test
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	gdb, err := db.Open(db.DriverSQLite, dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := db.Migrate(gdb, Logger()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(gdb)
}

// Clock is a manually advanced time source
type Clock struct {
	t time.Time
}

// NewClock starts a clock at a fixed instant
func NewClock() *Clock {
	return &Clock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current instant
func (c *Clock) Now() time.Time { return c.t }

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Seed inserts fixture rows into a test store
type Seed struct {
	Store *store.Store
	T     *testing.T
}

// Certificate inserts an active certificate linked to the named tags, creating tags as needed
func (s Seed) Certificate(name, price string, createdAt time.Time, tagNames ...string) *model.Certificate {
	s.T.Helper()
	ctx := s.T.Context()

	cert := &model.Certificate{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Duration:    30,
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := s.Store.CreateCertificate(ctx, cert); err != nil {
		s.T.Fatalf("seed certificate: %v", err)
	}
	for _, tn := range tagNames {
		tag, err := s.Store.FindTagByName(ctx, tn)
		if err != nil {
			tag, err = s.Store.CreateTag(ctx, tn)
			if err != nil {
				s.T.Fatalf("seed tag: %v", err)
			}
		}
		if err := s.Store.LinkCertificateTag(ctx, cert.ID, tag.ID); err != nil {
			s.T.Fatalf("seed link: %v", err)
		}
	}
	return cert
}

// User inserts a user with the given login and role
func (s Seed) User(login, role string) *model.User {
	s.T.Helper()
	u := &model.User{Login: login, PasswordHash: "x", Name: login, Role: role}
	if err := s.Store.CreateUser(s.T.Context(), u); err != nil {
		s.T.Fatalf("seed user: %v", err)
	}
	return u
}
