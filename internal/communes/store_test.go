package communes

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"civicadmin/internal/auth"
)

// The route gate only decides reachability; these pin the row filter each
// role's queries carry.
func TestScopeClausePerRole(t *testing.T) {
	managerID := uuid.New()
	communeID := uuid.New()

	t.Run("platform admin unrestricted", func(t *testing.T) {
		clause, args := scopeClause(&auth.SessionUser{Role: auth.RolePlatformAdmin}, 1)
		if clause != "TRUE" || len(args) != 0 {
			t.Fatalf("clause %q args %v", clause, args)
		}
	})

	t.Run("account manager assigned or own drafts", func(t *testing.T) {
		user := &auth.SessionUser{ID: managerID, Role: auth.RoleAccountManager}
		clause, args := scopeClause(user, 1)
		if !strings.Contains(clause, "account_manager_id = $1") ||
			!strings.Contains(clause, "created_by = $1") ||
			!strings.Contains(clause, "NOT published") {
			t.Fatalf("clause %q misses the assigned-or-own-unpublished filter", clause)
		}
		if len(args) != 1 || args[0] != managerID {
			t.Fatalf("args = %v, want principal id", args)
		}
	})

	t.Run("municipal roles pinned to own commune", func(t *testing.T) {
		for _, role := range []auth.Role{auth.RoleMunicipalManager, auth.RoleMunicipalEmployee} {
			user := &auth.SessionUser{ID: uuid.New(), Role: role, CommuneID: &communeID}
			clause, args := scopeClause(user, 1)
			if clause != "id = $1" {
				t.Fatalf("role %s clause %q", role, clause)
			}
			if len(args) != 1 || args[0] != communeID {
				t.Fatalf("role %s args %v, want commune affiliation", role, args)
			}
		}
	})

	t.Run("municipal role without affiliation sees nothing", func(t *testing.T) {
		clause, args := scopeClause(&auth.SessionUser{Role: auth.RoleMunicipalEmployee}, 1)
		if clause != "FALSE" || len(args) != 0 {
			t.Fatalf("clause %q args %v, want FALSE", clause, args)
		}
	})

	t.Run("unknown role sees nothing", func(t *testing.T) {
		clause, _ := scopeClause(&auth.SessionUser{Role: auth.Role("intern")}, 1)
		if clause != "FALSE" {
			t.Fatalf("clause %q, want FALSE", clause)
		}
	})
}
