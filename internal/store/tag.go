package store

import (
	"context"
	"fmt"

	"gift_catalog/internal/model"
)

// FindTagByName looks up a tag by its exact name
func (s *Store) FindTagByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := s.conn(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find tag %q", name))
	}
	return &tag, nil
}

// FindCommittedTagByName looks up a tag by name with a shared-lock read. Unlike
// FindTagByName inside a REPEATABLE READ transaction, it sees a row another
// transaction committed after this one took its snapshot. Use it to re-read
// after CreateTag reports ErrDuplicate.
func (s *Store) FindCommittedTagByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := s.lockingRead(ctx, "SHARE").Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("re-read tag %q", name))
	}
	return &tag, nil
}

// FindTagByID looks up a tag by identity
func (s *Store) FindTagByID(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	if err := s.conn(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find tag %d", id))
	}
	return &tag, nil
}

// CreateTag inserts a tag inside its own savepoint, so a duplicate name
// does not abort an enclosing transaction.
func (s *Store) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	tag := model.Tag{Name: name}
	err := s.Transaction(ctx, func(tx *Store) error {
		return tx.db.Create(&tag).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("create tag %q", name))
	}
	return &tag, nil
}

// ListTags returns one window of tags ordered by id
func (s *Store) ListTags(ctx context.Context, offset, limit int) ([]model.Tag, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&model.Tag{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count tags")
	}

	tags := make([]model.Tag, 0, limit)
	if err := s.conn(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&tags).Error; err != nil {
		return nil, 0, translate(err, "list tags")
	}
	return tags, total, nil
}

// DeleteTag detaches a tag from every certificate and removes it
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	if err := s.conn(ctx).Where("tag_id = ?", id).Delete(&model.CertificateTag{}).Error; err != nil {
		return translate(err, "detach tag")
	}
	result := s.conn(ctx).Delete(&model.Tag{}, id)
	if result.Error != nil {
		return translate(result.Error, fmt.Sprintf("delete tag %d", id))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete tag %d: %w", id, ErrNotFound)
	}
	return nil
}
