package adapter

import (
	"context"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// gateSubject picks the item whose flags decide the check, and the capability
// to look up on it.
//
// Files do not carry their own rights: the containing folder is consulted
// instead, and deleting the file becomes deleting a child of that folder.
// Folders are checked directly.
func (a *Adapter) gateSubject(ctx context.Context, item *sharefile.Item, required sharefile.Capability) (*sharefile.Item, sharefile.Capability, error) {
	switch item.Kind {
	case sharefile.KindFile:
		subject := item
		if item.HasParent() {
			parent, err := a.client.ItemByID(ctx, item.ParentID, false)
			if err != nil {
				return nil, "", err
			}
			subject = parent
		}
		if required == sharefile.CanDeleteCurrentItem {
			required = sharefile.CanDeleteChildItems
		}
		return subject, required, nil

	default:
		return item, required, nil
	}
}

// permits reports whether required is granted on item. Only an explicit true
// grants; absent and false flags deny. The item is never modified.
func (a *Adapter) permits(ctx context.Context, item *sharefile.Item, required sharefile.Capability) (bool, error) {
	subject, capability, err := a.gateSubject(ctx, item, required)
	if err != nil {
		return false, err
	}

	allowed := subject.Info.Allows(capability)
	logger.Debug("gate %s on %s (checked %s on %s): allowed=%t",
		required, item.ID, capability, subject.ID, allowed)
	return allowed, nil
}

// authorize checks every capability in turn. A denial becomes ErrNotFound.
func (a *Adapter) authorize(ctx context.Context, item *sharefile.Item, required ...sharefile.Capability) error {
	for _, c := range required {
		ok, err := a.permits(ctx, item, c)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	return nil
}
