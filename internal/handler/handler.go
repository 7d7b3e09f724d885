package handler

import (
	"net/http"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/middleware"
	"posbackend/pkg/response"
	pkgvalidator "posbackend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error onto the response envelope, including the
// per-field breakdown for validation failures.
func writeError(c *gin.Context, err error) {
	status := apperror.MapErrorToStatus(err)
	if fields := apperror.FieldsOf(err); fields != nil {
		c.JSON(status, response.ValidationFailed(status, "validation failed", fields))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// writeBindError maps a gin binding failure onto the response envelope.
func writeBindError(c *gin.Context, err error) {
	if fields := pkgvalidator.FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(http.StatusBadRequest, "validation failed", fields))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
}

// principal pulls the authenticated principal set by the auth middleware,
// aborting with 401 when absent.
func principal(c *gin.Context) (authz.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
	}
	return p, ok
}

// authorize evaluates the static role table and aborts with 403 on denial.
func authorize(c *gin.Context, caller authz.Principal, action authz.Action, resource authz.Resource) bool {
	if authz.Allowed(caller, action, resource) {
		return true
	}
	c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	return false
}
