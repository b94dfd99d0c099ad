package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/internal/service"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

// Context keys populated by the gate.
const (
	ContextIdentityKey = "identity"
	ContextRoleKey     = "role"
)

const (
	msgAdminRequired     = "Forbidden access: Admin required"
	msgModeratorRequired = "Forbidden access: Moderator or Admin required"
	msgEmailMismatch     = "Forbidden: Email mismatch."
	msgEmailParamMissing = "Email parameter is required."
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*models.IdentityClaims, error)
}

// Access is the per-request state the gate hands to predicates. The caller
// role is looked up lazily and at most once.
type Access struct {
	Identity models.Identity

	ctx      context.Context
	roles    service.RoleResolver
	role     models.UserRole
	found    bool
	resolved bool
	err      error
}

// Role returns the stored role of the caller. found is false for callers
// without a user record.
func (a *Access) Role() (role models.UserRole, found bool, err error) {
	if !a.resolved {
		a.resolved = true
		if a.roles == nil {
			a.err = appErrors.Clone(appErrors.ErrInternal, "role resolver unavailable")
		} else {
			a.role, a.found, a.err = a.roles.ResolveRole(a.ctx, a.Identity.Email)
		}
	}
	return a.role, a.found, a.err
}

// Predicate is one authorization check evaluated after token verification.
type Predicate interface {
	Check(c *gin.Context, access *Access) error
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(c *gin.Context, access *Access) error

// Check implements Predicate.
func (f PredicateFunc) Check(c *gin.Context, access *Access) error {
	return f(c, access)
}

// Gate authenticates requests and evaluates predicates in order, stopping
// at the first failure.
type Gate struct {
	verifier TokenVerifier
	roles    service.RoleResolver
	metrics  *service.MetricsService
}

// NewGate builds a gate from a token verifier and a role resolver.
func NewGate(verifier TokenVerifier, roles service.RoleResolver, metrics *service.MetricsService) *Gate {
	return &Gate{verifier: verifier, roles: roles, metrics: metrics}
}

// Require returns middleware that demands a valid token and every predicate.
func (g *Gate) Require(predicates ...Predicate) gin.HandlerFunc {
	chain := append([]Predicate(nil), predicates...)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			g.deny(c, appErrors.ErrUnauthorized)
			return
		}
		claims, err := g.verifier.Verify(token)
		if err != nil {
			g.deny(c, err)
			return
		}

		access := &Access{Identity: claims.Identity(), ctx: c.Request.Context(), roles: g.roles}
		c.Set(ContextIdentityKey, access.Identity)

		for _, predicate := range chain {
			if err := predicate.Check(c, access); err != nil {
				g.deny(c, err)
				return
			}
		}
		if access.resolved && access.found {
			c.Set(ContextRoleKey, access.role)
		}
		c.Next()
	}
}

// Token requires a valid token only.
func (g *Gate) Token() gin.HandlerFunc {
	return g.Require()
}

func (g *Gate) deny(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	g.metrics.RecordGateDenial(appErr.Status)
	response.Error(c, appErr)
	c.Abort()
}

// RequireRoles passes callers whose stored role is one of roles. Callers
// without a user record never pass.
func RequireRoles(roles ...models.UserRole) Predicate {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	message := msgModeratorRequired
	if len(roles) == 1 && roles[0] == models.RoleAdmin {
		message = msgAdminRequired
	}
	return PredicateFunc(func(c *gin.Context, access *Access) error {
		role, found, err := access.Role()
		if err != nil {
			return err
		}
		if !found {
			return appErrors.Clone(appErrors.ErrForbidden, message)
		}
		if _, ok := allowed[role]; !ok {
			return appErrors.Clone(appErrors.ErrForbidden, message)
		}
		return nil
	})
}

// RequireAdmin passes admins only.
func RequireAdmin() Predicate {
	return RequireRoles(models.RoleAdmin)
}

// RequireModerator passes moderators and admins.
func RequireModerator() Predicate {
	return RequireRoles(models.RoleModerator, models.RoleAdmin)
}

// EmailSource extracts the email a request claims to act for.
type EmailSource func(c *gin.Context) string

// QueryEmail reads the email query parameter.
func QueryEmail(c *gin.Context) string {
	return c.Query("email")
}

// RequireSelf passes when the email from source matches the token email.
func RequireSelf(source EmailSource) Predicate {
	return PredicateFunc(func(c *gin.Context, access *Access) error {
		claimed := strings.ToLower(strings.TrimSpace(source(c)))
		if claimed == "" {
			return appErrors.Clone(appErrors.ErrValidation, msgEmailParamMissing)
		}
		if claimed != strings.ToLower(access.Identity.Email) {
			return appErrors.Clone(appErrors.ErrForbidden, msgEmailMismatch)
		}
		return nil
	})
}

// IdentityFromContext returns the identity attached by the gate.
func IdentityFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
