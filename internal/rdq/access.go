package rdq

import "rdq-api/internal/models"

// Access predicates over (acting user, request). Stateless and single-level:
// the manager relation is never chained transitively.

func IsOwner(u *models.User, r *models.Rdq) bool {
	return u != nil && r != nil && r.UserID == u.ID
}

func IsDirectManager(u *models.User, r *models.Rdq) bool {
	if u == nil || r == nil || r.User.ManagerID == nil {
		return false
	}
	return *r.User.ManagerID == u.ID
}

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

// CanRead: the owner, the owner's direct manager, and admins may view a
// request.
func CanRead(u *models.User, r *models.Rdq) bool {
	return IsOwner(u, r) || IsDirectManager(u, r) || IsAdmin(u)
}

// CanDecide: only the owner's direct manager or an admin may approve,
// reject or ask for more information.
func CanDecide(u *models.User, r *models.Rdq) bool {
	return IsDirectManager(u, r) || IsAdmin(u)
}
