package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMarkAsServed(t *testing.T) {
	tests := []struct {
		name        string
		claims      Claims
		wantAllowed bool
	}{
		{
			name:        "admin",
			claims:      Claims{Role: RoleAdmin},
			wantAllowed: true,
		},
		{
			name:        "manager",
			claims:      Claims{Role: RoleManager},
			wantAllowed: true,
		},
		{
			name:        "kitchenStaff",
			claims:      Claims{Role: RoleStaff, Departments: []string{"kitchen"}},
			wantAllowed: true,
		},
		{
			name:        "restaurantStaff",
			claims:      Claims{Role: RoleStaff, Departments: []string{"restaurant"}},
			wantAllowed: true,
		},
		{
			name:        "roomServiceStaff",
			claims:      Claims{Role: RoleStaff, Departments: []string{"room-service"}},
			wantAllowed: true,
		},
		{
			name:        "mixedDepartments",
			claims:      Claims{Role: RoleStaff, Departments: []string{"housekeeping", "kitchen"}},
			wantAllowed: true,
		},
		{
			name:        "housekeepingOnly",
			claims:      Claims{Role: RoleStaff, Departments: []string{"housekeeping"}},
			wantAllowed: false,
		},
		{
			name:        "staffWithoutDepartments",
			claims:      Claims{Role: RoleStaff},
			wantAllowed: false,
		},
		{
			name:        "unknownRole",
			claims:      Claims{Role: "guest"},
			wantAllowed: false,
		},
		{
			name:        "emptyClaims",
			claims:      Claims{},
			wantAllowed: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			allowed, reason := CanMarkAsServed(tc.claims)
			assert.Equal(t, tc.wantAllowed, allowed)
			if tc.wantAllowed {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason, "a denial must carry a reason for the disabled control")
			}
		})
	}
}
