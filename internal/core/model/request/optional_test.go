package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditProfileRequest_Presence(t *testing.T) {
	t.Run("should leave absent keys unset", func(t *testing.T) {
		var req EditProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Bob"}`), &req))

		assert.True(t, req.Name.Set)
		assert.Equal(t, "Bob", *req.Name.Ptr())
		assert.False(t, req.Email.Set)
		assert.Nil(t, req.Email.Ptr())
		assert.False(t, req.ProfilePic.Set)
	})

	t.Run("should mark explicit null as set but not valid", func(t *testing.T) {
		var req EditProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"profilepic":null}`), &req))

		assert.True(t, req.ProfilePic.Set)
		assert.False(t, req.ProfilePic.Valid)
		assert.Nil(t, req.ProfilePic.Ptr())
	})

	t.Run("should keep empty strings as values", func(t *testing.T) {
		var req EditProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"profilepic":""}`), &req))

		assert.True(t, req.ProfilePic.Valid)
		assert.Equal(t, "", *req.ProfilePic.Ptr())
	})

	t.Run("should fail on a wrong type", func(t *testing.T) {
		var req EditProfileRequest

		assert.Error(t, json.Unmarshal([]byte(`{"mobileno":1234567890}`), &req))
	})
}
