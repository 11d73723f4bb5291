package permissions

import (
	"context"
	"strings"

	"campusbook/shared/constant"
)

// Role is the closed set of campus roles carried in access tokens.
type Role string

const (
	RolePortalAdmin        Role = "Portal Admin"
	RoleSystemAdmin        Role = "System Admin"
	RoleFaculty            Role = "Faculty"
	RoleStudentCoordinator Role = "Student Coordinator"
	RolePlacementExecutive Role = "Placement Executive"
)

var roles = []Role{
	RolePortalAdmin,
	RoleSystemAdmin,
	RoleFaculty,
	RoleStudentCoordinator,
	RolePlacementExecutive,
}

// ParseRole matches case-insensitively. Unknown values yield false.
func ParseRole(value string) (Role, bool) {
	value = strings.TrimSpace(value)

	for _, role := range roles {
		if strings.EqualFold(string(role), value) {
			return role, true
		}
	}

	return "", false
}

func (r Role) String() string {
	return string(r)
}

// CanCreateDirect allows creating bookings that skip approval.
func (r Role) CanCreateDirect() bool {
	return r == RolePortalAdmin || r == RoleSystemAdmin
}

// CanManageStatus allows approving, denying and editing any booking.
func (r Role) CanManageStatus() bool {
	return r == RolePortalAdmin || r == RoleSystemAdmin
}

// CanOverride allows priority bookings that displace conflicting ones.
func (r Role) CanOverride() bool {
	return r == RolePlacementExecutive
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// ActorFromContext reads the identity placed by the auth middleware.
func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)
	rawRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	role, _ := ParseRole(rawRole)

	return Actor{
		ID:    id,
		Email: email,
		Name:  name,
		Role:  role,
	}
}

// WithActor stores actor the same way the auth middleware does.
func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.ID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, actor.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, actor.Name)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role.String())

	return ctx
}
