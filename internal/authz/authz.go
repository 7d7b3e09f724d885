// Package authz implements the role/permission gate evaluated before every
// state-changing operation. It is a pure, total function over a static
// {role x action} table: admins pass unconditionally, any pair absent from
// the table is denied, and mutations additionally require ownership.
package authz

import (
	"posbackend/internal/model"

	"github.com/google/uuid"
)

// Action names mirror the HTTP-verb dispatch of the REST surface.
type Action string

const (
	ActionList           Action = "list"
	ActionRetrieve       Action = "retrieve"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDestroy        Action = "destroy"
	ActionChangePassword Action = "change_password"
)

// Principal is the acting account, passed explicitly to every check. There is
// no ambient current-user lookup anywhere in the core.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// Resource identifies the target of an action by kind and owning account.
type Resource struct {
	Kind    string
	OwnerID uuid.UUID
}

type rule int

const (
	deny rule = iota // zero value: unmapped pairs are denied
	anyAuthenticated
	ownerOnly
)

// mutating is the set of actions that change state. Ownership grants apply to
// these only; an ownerOnly grant on a read action still denies.
var mutating = map[Action]bool{
	ActionCreate:         true,
	ActionUpdate:         true,
	ActionDestroy:        true,
	ActionChangePassword: true,
}

// table whitelists non-admin capabilities. Every role may list; owners may
// update their own record and change their own password. Retrieve, create and
// destroy stay admin-only, matching the per-action permission sets of the
// REST surface.
var table = map[string]map[Action]rule{
	model.RoleSupplier: {
		ActionList:           anyAuthenticated,
		ActionUpdate:         ownerOnly,
		ActionChangePassword: ownerOnly,
	},
	model.RoleCustomer: {
		ActionList:           anyAuthenticated,
		ActionUpdate:         ownerOnly,
		ActionChangePassword: ownerOnly,
	},
	model.RoleBiller: {
		ActionList:           anyAuthenticated,
		ActionUpdate:         ownerOnly,
		ActionChangePassword: ownerOnly,
	},
}

// Allowed reports whether caller may perform action on resource.
func Allowed(caller Principal, action Action, resource Resource) bool {
	if caller.Role == model.RoleAdmin {
		return true
	}
	switch table[caller.Role][action] {
	case anyAuthenticated:
		return caller.UserID != uuid.Nil
	case ownerOnly:
		return mutating[action] && caller.UserID != uuid.Nil && caller.UserID == resource.OwnerID
	default:
		return false
	}
}
