package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gift_catalog/internal/filter"
	"gift_catalog/internal/model"
)

// FindCertificateByID loads a certificate with its tags regardless of its active flag
func (s *Store) FindCertificateByID(ctx context.Context, id int64) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.conn(ctx).Preload("Tags").First(&cert, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find certificate %d", id))
	}
	return &cert, nil
}

// LockCertificateByID loads a certificate regardless of its active flag and
// holds its row lock until the surrounding transaction ends, where the
// dialect allows it. Order placement locks the same row.
func (s *Store) LockCertificateByID(ctx context.Context, id int64) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.lockingRead(ctx, "UPDATE").First(&cert, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("lock certificate %d", id))
	}
	return &cert, nil
}

// FindActiveCertificateByID loads an active certificate. The row is locked
// for the rest of the surrounding transaction where the dialect allows it.
func (s *Store) FindActiveCertificateByID(ctx context.Context, id int64) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.lockingRead(ctx, "UPDATE").Where("id = ? AND active = ?", id, true).First(&cert).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find active certificate %d", id))
	}
	return &cert, nil
}

// FindCertificateByFields finds a certificate matching every descriptive field
func (s *Store) FindCertificateByFields(ctx context.Context, c *model.Certificate) (*model.Certificate, error) {
	var cert model.Certificate
	err := s.conn(ctx).
		Where("name = ? AND description = ? AND price = ? AND duration = ?",
			c.Name, c.Description, c.Price, c.Duration).
		First(&cert).Error
	if err != nil {
		return nil, translate(err, "find certificate by fields")
	}
	return &cert, nil
}

// SearchCertificates returns one window of certificates matching criteria and the total match count
func (s *Store) SearchCertificates(ctx context.Context, crit filter.Criteria, offset, limit int) ([]model.Certificate, int64, error) {
	var total int64
	countQuery := s.applyPredicate(s.conn(ctx).Model(&model.Certificate{}), crit.Predicate)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count certificates")
	}

	certs := make([]model.Certificate, 0, limit)
	if total == 0 {
		return certs, 0, nil
	}

	query := s.applyPredicate(s.conn(ctx).Model(&model.Certificate{}), crit.Predicate)
	query = applySort(query, crit.Sort)
	if err := query.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.id ASC")
	}).Offset(offset).Limit(limit).Find(&certs).Error; err != nil {
		return nil, 0, translate(err, "search certificates")
	}
	return certs, total, nil
}

// CreateCertificate inserts a certificate row without touching tag links
func (s *Store) CreateCertificate(ctx context.Context, cert *model.Certificate) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(cert).Error; err != nil {
		return translate(err, "create certificate")
	}
	return nil
}

// UpdateCertificateField sets a single column on a certificate. Writing a
// column's current value is not an error; callers check existence with
// LockCertificateByID first.
func (s *Store) UpdateCertificateField(ctx context.Context, id int64, column string, value any) error {
	err := s.conn(ctx).Model(&model.Certificate{}).Where("id = ?", id).Update(column, value).Error
	if err != nil {
		return translate(err, fmt.Sprintf("update certificate %d %s", id, column))
	}
	return nil
}

// LinkCertificateTag links a tag to a certificate. Linking twice is a no-op.
func (s *Store) LinkCertificateTag(ctx context.Context, certificateID, tagID int64) error {
	link := model.CertificateTag{CertificateID: certificateID, TagID: tagID}
	if err := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return translate(err, "link certificate tag")
	}
	return nil
}

// ReplaceCertificateTags makes tagIDs the exact link set of a certificate
func (s *Store) ReplaceCertificateTags(ctx context.Context, certificateID int64, tagIDs []int64) error {
	del := s.conn(ctx).Where("certificate_id = ?", certificateID)
	if len(tagIDs) > 0 {
		del = del.Where("tag_id NOT IN ?", tagIDs)
	}
	if err := del.Delete(&model.CertificateTag{}).Error; err != nil {
		return translate(err, "unlink certificate tags")
	}
	for _, tagID := range tagIDs {
		if err := s.LinkCertificateTag(ctx, certificateID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// CountOrdersForCertificate returns how many orders reference a certificate.
// Call it after LockCertificateByID so that it observes every order placed
// before the lock was granted.
func (s *Store) CountOrdersForCertificate(ctx context.Context, certificateID int64) (int64, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.OrderCertificate{}).
		Where("certificate_id = ?", certificateID).
		Distinct("order_id").
		Count(&count).Error; err != nil {
		return 0, translate(err, "count certificate orders")
	}
	return count, nil
}

// DeleteCertificate removes a certificate and its tag links
func (s *Store) DeleteCertificate(ctx context.Context, id int64) error {
	if err := s.conn(ctx).Where("certificate_id = ?", id).Delete(&model.CertificateTag{}).Error; err != nil {
		return translate(err, "unlink certificate tags")
	}
	result := s.conn(ctx).Delete(&model.Certificate{}, id)
	if result.Error != nil {
		return translate(result.Error, fmt.Sprintf("delete certificate %d", id))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete certificate %d: %w", id, ErrNotFound)
	}
	return nil
}
