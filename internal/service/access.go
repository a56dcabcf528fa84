package service

import (
	"tactac/internal/models"
)

// Caller is the authenticated principal behind a request. A nil *Caller is anonymous.
type Caller struct {
	ID   uint
	Role models.UserRole
}

// CallerFor builds the caller view of an authenticated user. It returns nil for nil.
func CallerFor(u *models.User) *Caller {
	if u == nil {
		return nil
	}
	return &Caller{ID: u.ID, Role: u.Role}
}

// IsAdmin reports whether c holds the admin role. Anonymous callers never do.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// UserID returns the caller's id, or 0 when anonymous.
func (c *Caller) UserID() uint {
	if c == nil {
		return 0
	}
	return c.ID
}

// Privilege is the access level an action requires on its target.
type Privilege int

const (
	// OwnerOnly admits only the owner of the target. Edits use this; admins get no bypass.
	OwnerOnly Privilege = iota
	// OwnerOrAdmin admits the owner or any admin. Deletes use this.
	OwnerOrAdmin
	// AdminOnly admits admins regardless of ownership.
	AdminOnly
)

// Authorize checks caller against the owner of the target. message is returned
// inside the Forbidden error, so it should describe the refused action.
func Authorize(caller *Caller, ownerID uint, priv Privilege, message string) error {
	if caller == nil {
		return models.NewUnauthorizedError("Authentication required")
	}

	isOwner := ownerID != 0 && caller.ID == ownerID
	switch priv {
	case OwnerOnly:
		if isOwner {
			return nil
		}
	case OwnerOrAdmin:
		if isOwner || caller.IsAdmin() {
			return nil
		}
	case AdminOnly:
		if caller.IsAdmin() {
			return nil
		}
	}
	return models.NewForbiddenError(message)
}

// CallerClass is a caller's relation to a target entity.
type CallerClass int

const (
	Anonymous CallerClass = iota
	Owner
	OtherUser
	Admin
)

func (c CallerClass) String() string {
	switch c {
	case Owner:
		return "owner"
	case OtherUser:
		return "otherUser"
	case Admin:
		return "admin"
	}
	return "anonymous"
}

// Classify relates caller to a target owned by ownerID. Ownership wins over the
// admin role, so an admin looking at their own content is its Owner.
func Classify(caller *Caller, ownerID uint) CallerClass {
	switch {
	case caller == nil:
		return Anonymous
	case caller.ID == ownerID:
		return Owner
	case caller.IsAdmin():
		return Admin
	default:
		return OtherUser
	}
}
