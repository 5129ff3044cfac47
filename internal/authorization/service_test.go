package authorization

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	dbpkg "github.com/lumonlabs/severatee/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAuthz(t *testing.T) (Service, *snowflake.Node, func(workspaceID, userID snowflake.ID, role workspacedomain.Role)) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&workspacedomain.Member{}))

	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)
	svc := NewService(db, zaptest.NewLogger(t), enforcer)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	addMember := func(workspaceID, userID snowflake.ID, role workspacedomain.Role) {
		require.NoError(t, db.Create(&workspacedomain.Member{
			ID:          node.Generate(),
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        role,
		}).Error)
	}
	return svc, node, addMember
}

func TestAuthorizeFollowsRoleMatrix(t *testing.T) {
	svc, node, addMember := newAuthz(t)
	ctx := context.Background()

	wsID := node.Generate()
	owner := node.Generate()
	admin := node.Generate()
	member := node.Generate()
	addMember(wsID, owner, workspacedomain.RoleOwner)
	addMember(wsID, admin, workspacedomain.RoleAdmin)
	addMember(wsID, member, workspacedomain.RoleMember)

	for role, userID := range map[workspacedomain.Role]snowflake.ID{
		workspacedomain.RoleOwner:  owner,
		workspacedomain.RoleAdmin:  admin,
		workspacedomain.RoleMember: member,
	} {
		perms := workspacedomain.PermissionsFor(role)
		for _, perm := range workspacedomain.AllPermissions {
			err := svc.Authorize(ctx, "user:"+userID.String(), wsID.String(), string(perm))
			if workspacedomain.CanPerform(perms, perm) {
				assert.NoError(t, err, "%s should hold %s", role, perm)
			} else {
				assert.ErrorIs(t, err, ErrForbidden, "%s should lack %s", role, perm)
			}
		}
	}
}

func TestAuthorizeRejectsNonMember(t *testing.T) {
	svc, node, _ := newAuthz(t)

	err := svc.Authorize(context.Background(), "user:"+node.Generate().String(), node.Generate().String(), string(workspacedomain.PermViewWorkspace))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeScopesRoleToWorkspace(t *testing.T) {
	svc, node, addMember := newAuthz(t)
	ctx := context.Background()

	wsA := node.Generate()
	wsB := node.Generate()
	user := node.Generate()
	addMember(wsA, user, workspacedomain.RoleOwner)
	addMember(wsB, user, workspacedomain.RoleMember)

	actor := "user:" + user.String()
	assert.NoError(t, svc.Authorize(ctx, actor, wsA.String(), string(workspacedomain.PermDeleteWorkspace)))
	assert.ErrorIs(t, svc.Authorize(ctx, actor, wsB.String(), string(workspacedomain.PermDeleteWorkspace)), ErrForbidden)
}

func TestAuthorizeSystemActor(t *testing.T) {
	svc, node, _ := newAuthz(t)
	assert.NoError(t, svc.Authorize(context.Background(), "system", node.Generate().String(), string(workspacedomain.PermManageMembers)))
}

func TestAuthorizeValidation(t *testing.T) {
	svc, node, _ := newAuthz(t)
	ctx := context.Background()
	wsID := node.Generate().String()

	assert.ErrorIs(t, svc.Authorize(ctx, "", wsID, "VIEW_WORKSPACE"), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:1", "", "VIEW_WORKSPACE"), ErrInvalidWorkspace)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:1", wsID, ""), ErrInvalidAction)
	assert.ErrorIs(t, svc.Authorize(ctx, "robot:9", wsID, "VIEW_WORKSPACE"), ErrInvalidActor)
}
