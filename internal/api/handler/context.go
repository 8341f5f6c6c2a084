package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

// ctxCaller extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - actor_id and a parseable role must be present (presence proves the
//     middleware ran and the token carried a known tier).
//   - scoped tiers require their membership id; a token without it is
//     structurally valid but operationally unusable, so reject with 401.
func ctxCaller(c echo.Context) (ports.ActorContext, error) {
	actorID, _ := c.Get("actor_id").(string)
	rawRole, _ := c.Get("role").(string)

	role, ok := domain.ParseRole(rawRole)
	if actorID == "" || !ok {
		return ports.ActorContext{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	branchID, _ := c.Get("branch_id").(string)
	clinicID, _ := c.Get("clinic_id").(string)

	switch role {
	case domain.RoleAdminFilial:
		if branchID == "" {
			return ports.ActorContext{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing branch membership")
		}
	case domain.RoleAdminClinica, domain.RoleDentist:
		if clinicID == "" {
			return ports.ActorContext{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing clinic membership")
		}
	}

	return ports.ActorContext{
		ActorID:  actorID,
		Role:     role,
		BranchID: branchID,
		ClinicID: clinicID,
	}, nil
}
