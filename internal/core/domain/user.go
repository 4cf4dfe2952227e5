package domain

import (
	"time"
)

type User struct {
	ID             int
	Name           string
	Email          string
	MobileNo       string
	PasswordDigest string
	ProfilePic     *string
	CreatedAt      time.Time
}

// Public returns a copy of the user without the password digest.
func (u User) Public() User {
	u.PasswordDigest = ""
	return u
}

// UserPatch holds the fields an edit-profile request supplied. A nil pointer
// means the field was absent. ProfilePicSet distinguishes an absent profile
// picture from an explicit null.
type UserPatch struct {
	Name          *string
	Email         *string
	MobileNo      *string
	ProfilePic    *string
	ProfilePicSet bool
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.MobileNo == nil && !p.ProfilePicSet
}

// TouchesContact reports whether the patch changes a unique column.
func (p UserPatch) TouchesContact() bool {
	return p.Email != nil || p.MobileNo != nil
}

// Apply returns u with the patch fields written over it.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}

	if p.Email != nil {
		u.Email = *p.Email
	}

	if p.MobileNo != nil {
		u.MobileNo = *p.MobileNo
	}

	if p.ProfilePicSet {
		u.ProfilePic = p.ProfilePic
	}

	return u
}
