package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role decides which side of a rental a user acts on.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleTenant
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

func (r Role) IsTenant() bool {
	return r == RoleTenant
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Unknown values are kept so validation can report them with the field name.
	if parsed, err := ParseRole(s); err == nil {
		*r = parsed
		return nil
	}
	*r = Role(s)
	return nil
}
