package authz

import (
	"testing"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdminBypassesTable(t *testing.T) {
	admin := Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	for _, action := range []Action{ActionList, ActionRetrieve, ActionCreate, ActionUpdate, ActionDestroy, ActionChangePassword} {
		for _, kind := range []string{"supplier", "customer", "biller", "user"} {
			assert.True(t, Allowed(admin, action, Resource{Kind: kind, OwnerID: uuid.New()}),
				"admin must pass %s on %s", action, kind)
		}
	}
}

func TestDenyByDefault(t *testing.T) {
	supplier := Principal{UserID: uuid.New(), Role: model.RoleSupplier}

	// Actions with no grant for non-admins
	assert.False(t, Allowed(supplier, ActionCreate, Resource{Kind: "supplier"}))
	assert.False(t, Allowed(supplier, ActionDestroy, Resource{Kind: "supplier", OwnerID: supplier.UserID}))
	assert.False(t, Allowed(supplier, ActionRetrieve, Resource{Kind: "supplier", OwnerID: supplier.UserID}))

	// Unknown role gets nothing
	ghost := Principal{UserID: uuid.New(), Role: "Ghost"}
	assert.False(t, Allowed(ghost, ActionList, Resource{Kind: "supplier"}))

	// Unknown action gets nothing
	assert.False(t, Allowed(supplier, Action("export"), Resource{Kind: "supplier"}))
}

func TestAnyAuthenticatedMayList(t *testing.T) {
	for _, role := range []string{model.RoleSupplier, model.RoleCustomer, model.RoleBiller} {
		p := Principal{UserID: uuid.New(), Role: role}
		assert.True(t, Allowed(p, ActionList, Resource{Kind: "supplier"}), "role %s", role)
	}

	// No identity, no access
	anon := Principal{Role: model.RoleSupplier}
	assert.False(t, Allowed(anon, ActionList, Resource{Kind: "supplier"}))
}

func TestOwnershipGrants(t *testing.T) {
	owner := Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	stranger := Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	resource := Resource{Kind: "customer", OwnerID: owner.UserID}

	assert.True(t, Allowed(owner, ActionUpdate, resource))
	assert.True(t, Allowed(owner, ActionChangePassword, resource))
	assert.False(t, Allowed(stranger, ActionUpdate, resource))
	assert.False(t, Allowed(stranger, ActionChangePassword, resource))

	// Ownership never grants destroy
	assert.False(t, Allowed(owner, ActionDestroy, resource))
}

func TestAllowedIsTotal(t *testing.T) {
	// Zero values everywhere still produce an answer, never a panic
	assert.False(t, Allowed(Principal{}, Action(""), Resource{}))
	assert.False(t, Allowed(Principal{Role: model.RoleBiller}, ActionUpdate, Resource{}))
}
