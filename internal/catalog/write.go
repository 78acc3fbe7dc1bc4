package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
	"gift_catalog/internal/tags"
	"gift_catalog/internal/validation"
)

const (
	nameRule        = "required,max=255,printable"
	descriptionRule = "required,max=1024,printable"
	durationRule    = "gt=0,lte=3650"
)

// CreateInput describes a new certificate
type CreateInput struct {
	Name        string          `json:"name" validate:"required,max=255,printable"`
	Description string          `json:"description" validate:"required,max=1024,printable"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration" validate:"gt=0,lte=3650"`
	Tags        []tags.Ref      `json:"tags"`
}

// Patch lists the certificate fields to change. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Duration    *int
	Active      *bool
	Tags        *[]tags.Ref
}

func (p Patch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Duration == nil && p.Active == nil && p.Tags == nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return errs.InvalidData("price must be positive").With("price", price.String())
	}
	if !price.Equal(price.Round(2)) {
		return errs.InvalidData("price has more than two decimal places").With("price", price.String())
	}
	return nil
}

// CreateCertificate stores a new active certificate and links its tags.
// Tags are resolved first, then linked, all in one transaction.
func (s *Service) CreateCertificate(ctx context.Context, in CreateInput) (*model.Certificate, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cert := &model.Certificate{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.FindCertificateByFields(ctx, cert)
		if err == nil {
			return errs.AlreadyExists("an identical certificate already exists").With("id", existing.ID)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		tagIDs, err := tags.NewReconciler(tx, s.log).Reconcile(ctx, in.Tags)
		if err != nil {
			return err
		}

		if err := tx.CreateCertificate(ctx, cert); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.LinkCertificateTag(ctx, cert.ID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"certificate_id": cert.ID, "tags": len(in.Tags)}).Info("Certificate created")
	return s.store.FindCertificateByID(ctx, cert.ID)
}

// UpdateCertificateFields validates and applies each present field of p in turn.
// A present tag list replaces the certificate's links with the reconciled set.
func (s *Service) UpdateCertificateFields(ctx context.Context, id int64, p Patch) (*model.Certificate, error) {
	if id <= 0 {
		return nil, errs.InvalidData("certificate id must be positive").With("id", id)
	}
	if p.empty() {
		return nil, errs.InvalidData("no fields to update").With("id", id)
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.LockCertificateByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errs.NotFound("certificate %d not found", id).With("id", id)
			}
			return err
		}

		if p.Name != nil {
			if err := validation.Var("name", *p.Name, nameRule); err != nil {
				return err
			}
			if err := tx.UpdateCertificateField(ctx, id, model.CertificateColumnName, *p.Name); err != nil {
				return err
			}
		}
		if p.Description != nil {
			if err := validation.Var("description", *p.Description, descriptionRule); err != nil {
				return err
			}
			if err := tx.UpdateCertificateField(ctx, id, model.CertificateColumnDescription, *p.Description); err != nil {
				return err
			}
		}
		if p.Price != nil {
			if err := validatePrice(*p.Price); err != nil {
				return err
			}
			if err := tx.UpdateCertificateField(ctx, id, model.CertificateColumnPrice, *p.Price); err != nil {
				return err
			}
		}
		if p.Duration != nil {
			if err := validation.Var("duration", *p.Duration, durationRule); err != nil {
				return err
			}
			if err := tx.UpdateCertificateField(ctx, id, model.CertificateColumnDuration, *p.Duration); err != nil {
				return err
			}
		}
		if p.Active != nil {
			if err := tx.UpdateCertificateField(ctx, id, model.CertificateColumnActive, *p.Active); err != nil {
				return err
			}
		}
		if p.Tags != nil {
			tagIDs, err := tags.NewReconciler(tx, s.log).Reconcile(ctx, *p.Tags)
			if err != nil {
				return err
			}
			if err := tx.ReplaceCertificateTags(ctx, id, tagIDs); err != nil {
				return err
			}
		}
		return tx.UpdateCertificateField(ctx, id, model.CertificateColumnUpdatedAt, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("certificate_id", id).Info("Certificate updated")
	return s.store.FindCertificateByID(ctx, id)
}
