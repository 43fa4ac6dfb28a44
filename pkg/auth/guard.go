package auth

import "errors"

var ErrPermissionDenied = errors.New("permission denied")

// Authorize allows a mutation only when the principal is the owner of the
// resource. There is no administrative override.
func Authorize(principal Principal, owner Principal) error {
	if principal.IsAnonymous() || principal.UserID != owner.UserID {
		return ErrPermissionDenied
	}

	return nil
}
