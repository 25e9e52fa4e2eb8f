// Package entitlement holds the Role order, the Entitlement grant record and
// the pure role policy shared by every board-scoped operation.
package entitlement

import (
	"fmt"
	"strings"
)

// Role is the privilege level a user holds on a specific board.
// Roles form a total order: USER < EDITOR < ADMIN < OWNER.
type Role string

const (
	RoleUser   Role = "USER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
)

// roleRanks assigns each role its position in the privilege order. Comparing
// ranks replaces chains of equality checks, so adding a role cannot silently
// miss a comparison site.
var roleRanks = map[Role]int{
	RoleUser:   1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// IsValid returns true if the role is one of the defined constants.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the privilege order, higher is
// stronger. Unknown roles rank below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast returns true if the role is as strong as min or stronger.
// An invalid role is never at least anything.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && r.Rank() >= min.Rank()
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role, accepting any casing.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
