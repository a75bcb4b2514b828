// Package models defines the data types exchanged with the CygnusOne API
// and persisted in the local session store.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UserID is the server-side user identifier. Deployed backends disagree on
// its wire form (some serve a JSON string, some a number), so it decodes
// both and normalizes to a string.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = UserID(n.String())
		return nil
	}
	return fmt.Errorf("user id must be a string or a number, got %s", data)
}

// User is the account record as served by the API.
type User struct {
	ID          UserID         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	Permissions PermissionTree `json:"permissions,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == "admin" }

// IsEditor reports whether the user may edit content. Administrators are
// implicitly editors.
func (u *User) IsEditor() bool { return u.Role == "admin" || u.Role == "editor" }

// HasPermission evaluates a dotted permission path against the user's
// permission tree. Administrators hold every permission regardless of the
// tree. A path segment that is missing denies; a boolean node answers
// immediately, even when path segments remain; a path that ends on a
// subtree denies.
func (u *User) HasPermission(path string) bool {
	if u.IsAdmin() {
		return true
	}
	if u.Permissions == nil || path == "" {
		return false
	}

	nodes := u.Permissions
	for _, segment := range strings.Split(path, ".") {
		node, ok := nodes[segment]
		if !ok || node == nil {
			return false
		}
		if node.IsLeaf() {
			return node.Value
		}
		nodes = node.Children
	}
	// Path exhausted inside a subtree.
	return false
}

// PermissionTree is the top level of a permission hierarchy.
type PermissionTree map[string]*PermissionNode

// PermissionNode is either a boolean leaf or a named subtree. On the wire a
// leaf is a JSON bool and a subtree is a JSON object.
type PermissionNode struct {
	Value    bool
	Children map[string]*PermissionNode
}

// IsLeaf reports whether the node carries a boolean answer.
func (n *PermissionNode) IsLeaf() bool { return n.Children == nil }

func (n *PermissionNode) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		n.Value = b
		n.Children = nil
		return nil
	}
	var children map[string]*PermissionNode
	if err := json.Unmarshal(data, &children); err != nil {
		return fmt.Errorf("permission node must be a bool or an object: %w", err)
	}
	if children == nil {
		children = map[string]*PermissionNode{}
	}
	n.Value = false
	n.Children = children
	return nil
}

func (n *PermissionNode) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		return json.Marshal(n.Value)
	}
	return json.Marshal(n.Children)
}
