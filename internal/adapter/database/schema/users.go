// Package schema describes the users table shared by the sqlite and
// postgres stores.
package schema

import (
	"strings"

	"accountapp/internal/core/domain"
)

const (
	Table          = "users"
	PasswordColumn = "password"
)

// PublicColumns never includes the password digest.
var PublicColumns = []string{"userid", "name", "email", "mobileno", "profilepic", "createdAt"}

// Columns returns the select list, with the digest appended last when asked.
func Columns(withPassword bool) []string {
	cols := append([]string{}, PublicColumns...)

	if withPassword {
		cols = append(cols, PasswordColumn)
	}

	return cols
}

func Returning() string {
	return "RETURNING " + strings.Join(PublicColumns, ", ")
}

// UpdateFields lists the columns a patch touches. Column names come from this
// fixed set and values always travel as bind parameters.
func UpdateFields(patch domain.UserPatch) map[string]any {
	fields := map[string]any{}

	if patch.Name != nil {
		fields["name"] = *patch.Name
	}

	if patch.Email != nil {
		fields["email"] = *patch.Email
	}

	if patch.MobileNo != nil {
		fields["mobileno"] = *patch.MobileNo
	}

	if patch.ProfilePicSet {
		var pic any

		if patch.ProfilePic != nil {
			pic = *patch.ProfilePic
		}

		fields["profilepic"] = pic
	}

	return fields
}

// Nullable maps a missing or empty string to SQL NULL.
func Nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}

	return *s
}
