// Package tags resolves client tag references to canonical tag rows.
package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"
	"gift_catalog/internal/validation"
)

// Store is the tag lookup and creation surface the reconciler needs
type Store interface {
	FindTagByName(ctx context.Context, name string) (*model.Tag, error)
	FindTagByID(ctx context.Context, id int64) (*model.Tag, error)
	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	// FindCommittedTagByName must see rows committed by other transactions
	// after the caller's transaction started.
	FindCommittedTagByName(ctx context.Context, name string) (*model.Tag, error)
}

// Ref is a client tag reference: an existing tag when ID is set,
// otherwise a tag wanted by name.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Reconciler maps tag references to canonical tag identities
type Reconciler struct {
	store Store
	log   *logrus.Entry
}

// NewReconciler creates a reconciler over store
func NewReconciler(s Store, log *logrus.Entry) *Reconciler {
	return &Reconciler{store: s, log: log.WithField("component", "tag-reconciler")}
}

// Reconcile resolves refs to tag identities, one per distinct tag, in first-seen order.
// Tags are created only for names that do not exist yet. Claimed identities are all
// checked before anything is created. The caller must run Reconcile inside a store
// transaction for the batch to be all-or-nothing.
func (r *Reconciler) Reconcile(ctx context.Context, refs []Ref) ([]int64, error) {
	for _, ref := range refs {
		if ref.ID < 0 {
			return nil, errs.InvalidData("tag id must be positive").With("id", ref.ID)
		}
		if err := validation.Var("tag", ref.Name, "required,max=64,tagname"); err != nil {
			return nil, err
		}
	}

	byName := make(map[string]int64, len(refs))

	for _, ref := range refs {
		if ref.ID == 0 {
			continue
		}
		tag, err := r.store.FindTagByID(ctx, ref.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("tag %d not found", ref.ID).With("id", ref.ID)
		}
		if err != nil {
			return nil, err
		}
		if tag.Name != ref.Name {
			return nil, errs.AlreadyExists("tag %d is already named %q", ref.ID, tag.Name).
				With("id", ref.ID).
				With("name", ref.Name)
		}
		byName[tag.Name] = tag.ID
	}

	ids := make([]int64, 0, len(refs))
	seen := make(map[int64]bool, len(refs))
	for _, ref := range refs {
		id, ok := byName[ref.Name]
		if !ok {
			tag, err := r.findOrCreate(ctx, ref.Name)
			if err != nil {
				return nil, err
			}
			id = tag.ID
			byName[ref.Name] = id
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Reconciler) findOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	tag, err := r.store.FindTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	tag, err = r.store.CreateTag(ctx, name)
	if err == nil {
		r.log.WithFields(logrus.Fields{"tag_id": tag.ID, "name": name}).Debug("Created tag")
		return tag, nil
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return nil, err
	}

	// lost a race with a concurrent creator; adopt its row
	r.log.WithField("name", name).Info("Concurrent tag creation detected, re-reading")
	tag, err = r.store.FindCommittedTagByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("re-read tag %q after duplicate: %w", name, err)
	}
	return tag, nil
}
