package factory

import (
	"fmt"
	"sync/atomic"

	fab "github.com/Goldziher/fabricator"

	"accountapp/internal/core/domain"
	"accountapp/internal/core/util"
)

const DefaultPassword = "12345678"

var sequence atomic.Int64

// NewUser builds a user with valid, unique contact fields and a digest of
// DefaultPassword under the "salt" salt. Any field can be overridden by name.
func NewUser(customData ...map[string]any) domain.User {
	instance := fab.New(domain.User{})

	user := instance.Build(customData...)

	n := sequence.Add(1)

	defaults := map[string]func(){
		"ID":             func() { user.ID = 0 },
		"Name":           func() { user.Name = fmt.Sprintf("User %d", n) },
		"Email":          func() { user.Email = fmt.Sprintf("user%d@example.com", n) },
		"MobileNo":       func() { user.MobileNo = fmt.Sprintf("9%09d", n) },
		"PasswordDigest": func() { user.PasswordDigest, _ = util.NewSaltedSHA256("salt").Hash(DefaultPassword) },
		"ProfilePic":     func() { user.ProfilePic = nil },
	}

	for field, setDefault := range defaults {
		if !overridden(customData, field) {
			setDefault()
		}
	}

	return user
}

func overridden(customData []map[string]any, field string) bool {
	for _, data := range customData {
		if _, exists := data[field]; exists {
			return true
		}
	}

	return false
}
