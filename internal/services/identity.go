package services

import "github.com/axellelanca/adtracker/internal/models"

// Identity is the logged-in user attached to a request. The zero value is anonymous.
type Identity struct {
	Username string
}

// Anonymous reports whether no user is logged in.
func (i Identity) Anonymous() bool {
	return i.Username == ""
}

// ActingUser returns the name recorded in the click log.
func (i Identity) ActingUser() string {
	if i.Anonymous() {
		return models.AnonymousUser
	}
	return i.Username
}
