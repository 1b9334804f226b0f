package auth

import "fmt"

// Roles known to the board.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Departments that qualify staff to close out service.
var foodServiceDepartments = map[string]bool{
	"kitchen":      true,
	"restaurant":   true,
	"room-service": true,
}

// CanMarkAsServed decides whether the caller may complete the ready-to-served
// transition. Admins and managers always may; staff only when one of their
// departments is a food service department. The reason string is meant for
// the disabled control's tooltip: the action is disabled with an explanation,
// never hidden.
//
// Pure predicate over the claims: authorization stays out of the transition
// logic itself.
func CanMarkAsServed(claims Claims) (bool, string) {
	switch claims.Role {
	case RoleAdmin, RoleManager:
		return true, ""
	case RoleStaff:
		for _, dept := range claims.Departments {
			if foodServiceDepartments[dept] {
				return true, ""
			}
		}
		return false, "staff can mark tickets as served only when assigned to a food service department"
	default:
		return false, fmt.Sprintf("role %q is not allowed to mark tickets as served", claims.Role)
	}
}
