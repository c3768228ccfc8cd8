package user

import "strings"

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleViewer    = "viewer"
)

// Principal is the authenticated identity resolved by the account service.
type Principal struct {
	UserID      string
	DisplayName string
	Role        string
	IsModerator bool
}

func (p Principal) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(p.Role), RoleAdmin)
}

func (p Principal) CanModerate() bool {
	return p.IsAdmin() || p.IsModerator || strings.EqualFold(strings.TrimSpace(p.Role), RoleModerator)
}
