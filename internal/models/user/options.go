package models

func WithRole(role string) UserOption {
	return func(u *User) { u.Role = role }
}
