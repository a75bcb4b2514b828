package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID_UnmarshalBothForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want UserID
	}{
		{"string id", `{"id":"abc-123","name":"A","email":"a@e.com","role":"user"}`, "abc-123"},
		{"numeric id", `{"id":42,"name":"A","email":"a@e.com","role":"user"}`, "42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var u User
			require.NoError(t, json.Unmarshal([]byte(tc.json), &u))
			assert.Equal(t, tc.want, u.ID)
		})
	}
}

func TestUserID_RejectsOtherTypes(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":true}`), &u)
	require.Error(t, err)
}

func permTestUser() *User {
	return &User{
		ID:    "1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  "editor",
		Permissions: PermissionTree{
			"articles": {Children: map[string]*PermissionNode{
				"read":  {Value: true},
				"write": {Value: false},
			}},
			"billing": {Children: map[string]*PermissionNode{
				// A leaf that callers may address past.
				"invoices": {Value: true},
			}},
			"admin": {Value: false},
		},
	}
}

func TestHasPermission(t *testing.T) {
	u := permTestUser()

	tests := []struct {
		path string
		want bool
	}{
		{"articles.read", true},
		{"articles.write", false},
		{"articles.delete", false},
		{"articles", false},
		{"admin", false},
		{"missing.path", false},
		{"", false},
		// The leaf answers even though path segments remain.
		{"billing.invoices.read", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, u.HasPermission(tc.path))
		})
	}
}

func TestHasPermission_AdminBypassesTree(t *testing.T) {
	u := &User{ID: "1", Role: "admin"}
	assert.True(t, u.HasPermission("anything.at.all"))
	assert.True(t, u.HasPermission("articles.write"))
}

func TestHasPermission_NoTree(t *testing.T) {
	u := &User{ID: "1", Role: "user"}
	assert.False(t, u.HasPermission("articles.read"))
}

func TestPermissionTree_JSONRoundTrip(t *testing.T) {
	wire := `{"articles":{"read":true,"write":false},"admin":false}`

	var tree PermissionTree
	require.NoError(t, json.Unmarshal([]byte(wire), &tree))

	require.NotNil(t, tree["articles"])
	assert.False(t, tree["articles"].IsLeaf())
	assert.True(t, tree["articles"].Children["read"].Value)
	assert.True(t, tree["admin"].IsLeaf())
	assert.False(t, tree["admin"].Value)

	encoded, err := json.Marshal(tree)
	require.NoError(t, err)

	var again PermissionTree
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, tree, again)
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	// Admins can do anything an editor can.
	assert.True(t, (&User{Role: "admin"}).IsEditor())
	assert.True(t, (&User{Role: "editor"}).IsEditor())
	assert.False(t, (&User{Role: "editor"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsEditor())
}
