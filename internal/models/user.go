package models

type UserRole string

const (
	RoleDirector UserRole = "director"
	RoleFlorist  UserRole = "florist"
)

// Title is the position shown next to the account name.
func (r UserRole) Title() PositionTitle {
	if r == RoleDirector {
		return PositionDirector
	}
	return PositionFlorist
}

// User is an entry of the static user table; it is not persisted.
type User struct {
	Login        string
	Role         UserRole
	PasswordHash string
}
