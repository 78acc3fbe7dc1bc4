// Package catalog implements the certificate and tag operations of the gift catalog.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/filter"
	"gift_catalog/internal/model"
	"gift_catalog/internal/page"
	"gift_catalog/internal/store"
)

// Service exposes catalog reads and writes over a store
type Service struct {
	store *store.Store
	now   func() time.Time
	log   *logrus.Entry
}

// NewService creates a catalog service. now defaults to time.Now.
func NewService(s *store.Store, now func() time.Time, log *logrus.Entry) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: s,
		now:   now,
		log:   log.WithField("component", "catalog-service"),
	}
}

// CertificatePage is one page of certificates
type CertificatePage struct {
	Items []model.Certificate
	Meta  page.Meta
}

// SearchCertificates runs a parametrized search. params holds the filter
// values and an optional "sort" directive.
func (s *Service) SearchCertificates(ctx context.Context, params map[string]string, pageNum, size int) (*CertificatePage, error) {
	crit, err := filter.Build(params)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, crit, pageNum, size)
}

// ListAllCertificates pages through every certificate in id order
func (s *Service) ListAllCertificates(ctx context.Context, pageNum, size int) (*CertificatePage, error) {
	return s.search(ctx, filter.All(), pageNum, size)
}

// SearchCertificatesByTags returns certificates linked to every one of the named tags
func (s *Service) SearchCertificatesByTags(ctx context.Context, tagNames []string, sortDirective string, pageNum, size int) (*CertificatePage, error) {
	crit, err := filter.BuildTagSet(tagNames, sortDirective)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, crit, pageNum, size)
}

func (s *Service) search(ctx context.Context, crit filter.Criteria, pageNum, size int) (*CertificatePage, error) {
	if err := page.CheckRequest(pageNum, size); err != nil {
		return nil, err
	}

	items, total, err := s.store.SearchCertificates(ctx, crit, page.Offset(pageNum, size), size)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(pageNum, size, total); err != nil {
		return nil, err
	}
	return &CertificatePage{Items: items, Meta: page.NewMeta(pageNum, size, total)}, nil
}

// GetCertificate loads a certificate with its tags
func (s *Service) GetCertificate(ctx context.Context, id int64) (*model.Certificate, error) {
	if id <= 0 {
		return nil, errs.InvalidData("certificate id must be positive").With("id", id)
	}
	cert, err := s.store.FindCertificateByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("certificate %d not found", id).With("id", id)
	}
	return cert, err
}

// DeleteCertificate removes a certificate that no order references
func (s *Service) DeleteCertificate(ctx context.Context, id int64) error {
	if id <= 0 {
		return errs.InvalidData("certificate id must be positive").With("id", id)
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		// locked first: a concurrent order holds the same row until it commits,
		// and the count below then sees its links
		if _, err := tx.LockCertificateByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errs.NotFound("certificate %d not found", id).With("id", id)
			}
			return err
		}

		orders, err := tx.CountOrdersForCertificate(ctx, id)
		if err != nil {
			return err
		}
		if orders > 0 {
			return errs.Linked("certificate %d is referenced by %d order(s)", id, orders).
				With("id", id).
				With("orders", orders)
		}
		return tx.DeleteCertificate(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.WithField("certificate_id", id).Info("Certificate deleted")
	return nil
}
