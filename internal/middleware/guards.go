package middleware

import "github.com/danielgtaylor/huma/v2"

// Role names carried in the session.
const (
	RoleAdmin       = "admin"
	RoleDonor       = "donor"
	RoleBeneficiary = "beneficiary"
)

// Guards bundles the per-operation middlewares that module handlers attach to
// protected routes. Auth must resolve the caller into the request context.
type Guards struct {
	Auth func(huma.Context, func(huma.Context))
}

// Authenticated requires any signed-in user.
func (g Guards) Authenticated() huma.Middlewares {
	return huma.Middlewares{g.Auth}
}

// Role requires a signed-in user holding one of roles.
func (g Guards) Role(roles ...string) huma.Middlewares {
	return huma.Middlewares{g.Auth, RequireRole(roles...)}
}

func (g Guards) Admin() huma.Middlewares       { return g.Role(RoleAdmin) }
func (g Guards) Donor() huma.Middlewares       { return g.Role(RoleDonor) }
func (g Guards) Beneficiary() huma.Middlewares { return g.Role(RoleBeneficiary) }
