package entity

import "time"

// User cuenta que obtiene tokens vía login. Role es uno de los roles del motor.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor identidad con la que el usuario opera en el motor.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
