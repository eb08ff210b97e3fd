package auth

import "context"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess reports whether p may act on a resource owned by ownerID.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

func RoleFor(isAdmin bool) string {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}
