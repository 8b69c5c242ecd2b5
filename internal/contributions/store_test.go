package contributions

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"civicadmin/internal/auth"
)

func TestScopeClausePinsCommune(t *testing.T) {
	communeID := uuid.New()
	user := &auth.SessionUser{ID: uuid.New(), Role: auth.RoleMunicipalManager, CommuneID: &communeID}

	clause, args := scopeClause(user, 1)
	if clause != "commune_id = $1" {
		t.Fatalf("clause %q", clause)
	}
	if len(args) != 1 || args[0] != communeID {
		t.Fatalf("args %v, want commune affiliation", args)
	}
}

func TestScopeClauseAccountManagerViaAssignments(t *testing.T) {
	user := &auth.SessionUser{ID: uuid.New(), Role: auth.RoleAccountManager}

	clause, args := scopeClause(user, 1)
	if !strings.Contains(clause, "commune_id IN (SELECT id FROM communes") {
		t.Fatalf("clause %q does not route through commune assignments", clause)
	}
	if len(args) != 1 || args[0] != user.ID {
		t.Fatalf("args %v, want principal id", args)
	}
}

func TestScopeClauseDeniesUnaffiliated(t *testing.T) {
	for _, user := range []*auth.SessionUser{
		{Role: auth.RoleMunicipalEmployee},
		{Role: auth.Role("intern")},
	} {
		if clause, _ := scopeClause(user, 1); clause != "FALSE" {
			t.Fatalf("role %s clause %q, want FALSE", user.Role, clause)
		}
	}
}
