package domain

import "github.com/google/uuid"

// Session is the authentication signal the cart routes on.
// A zero UserID means a guest.
type Session struct {
	UserID uuid.UUID
}

func GuestSession() Session {
	return Session{}
}

func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}
