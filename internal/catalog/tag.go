package catalog

import (
	"context"
	"errors"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/page"
	"gift_catalog/internal/store"
	"gift_catalog/internal/validation"
)

// TagPage is one page of tags
type TagPage struct {
	Items []model.Tag
	Meta  page.Meta
}

// CreateTag adds a tag with a name not yet in use
func (s *Service) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if err := validation.Var("name", name, "required,max=64,tagname"); err != nil {
		return nil, err
	}

	if _, err := s.store.FindTagByName(ctx, name); err == nil {
		return nil, errs.AlreadyExists("tag %q already exists", name).With("name", name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	tag, err := s.store.CreateTag(ctx, name)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, errs.AlreadyExists("tag %q already exists", name).With("name", name)
	}
	if err != nil {
		return nil, err
	}

	s.log.WithField("tag_id", tag.ID).Info("Tag created")
	return tag, nil
}

// GetTag loads a tag by identity
func (s *Service) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	if id <= 0 {
		return nil, errs.InvalidData("tag id must be positive").With("id", id)
	}
	tag, err := s.store.FindTagByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("tag %d not found", id).With("id", id)
	}
	return tag, err
}

// ListTags pages through tags in id order
func (s *Service) ListTags(ctx context.Context, pageNum, size int) (*TagPage, error) {
	if err := page.CheckRequest(pageNum, size); err != nil {
		return nil, err
	}
	items, total, err := s.store.ListTags(ctx, page.Offset(pageNum, size), size)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(pageNum, size, total); err != nil {
		return nil, err
	}
	return &TagPage{Items: items, Meta: page.NewMeta(pageNum, size, total)}, nil
}

// DeleteTag removes a tag and detaches it from every certificate
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if id <= 0 {
		return errs.InvalidData("tag id must be positive").With("id", id)
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.DeleteTag(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return errs.NotFound("tag %d not found", id).With("id", id)
	}
	if err != nil {
		return err
	}

	s.log.WithField("tag_id", id).Info("Tag deleted")
	return nil
}
