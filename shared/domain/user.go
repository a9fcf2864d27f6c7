package domain

import "time"

type User struct {
	Id        UserId
	Email     Email
	FirstName string
	LastName  string
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

// WithoutHash returns a copy safe to hand to request handlers.
func (u User) WithoutHash() User {
	u.PassHash = ""
	return u
}

// ProfilePatch is a partial profile update. A nil field is left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *Email
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}
