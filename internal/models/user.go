// ABOUTME: User model for FitLife accounts.
// ABOUTME: The password field only ever holds an opaque credential hash.
package models

import "time"

// User is a registered account. Email is case-sensitive and unique.
type User struct {
	ID           int64     `json:"id" yaml:"id"`
	Email        string    `json:"email" yaml:"email"`
	Credential   string    `json:"-" yaml:"-"`
	Name         string    `json:"name" yaml:"name"`
	ProfilePhoto ImageRef  `json:"profile_photo,omitempty" yaml:"profile_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a user that has not been stored yet.
func NewUser(email, credential, name string) *User {
	return &User{
		Email:      email,
		Credential: credential,
		Name:       name,
	}
}

// WithProfilePhoto sets the profile photo reference.
func (u *User) WithProfilePhoto(ref ImageRef) *User {
	u.ProfilePhoto = ref
	return u
}
