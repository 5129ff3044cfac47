package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/clock"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
	profilerepo "github.com/lumonlabs/severatee/internal/profile/repository"
	"github.com/lumonlabs/severatee/internal/workspace/domain"
	"github.com/lumonlabs/severatee/internal/workspace/repository"
	dbpkg "github.com/lumonlabs/severatee/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      domain.Service
	repo     domain.Repository
	profiles profiledomain.Repository
	node     *snowflake.Node
	clock    *clock.FakeClock
}

func newFixture(t *testing.T, cfg domain.Config) *fixture {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Workspace{},
		&domain.Member{},
		&domain.Invitation{},
		&profiledomain.Profile{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	repo := repository.NewRepository(db)
	profiles := profilerepo.New(db)
	svc := NewService(db, repo, profiles, node, fake, cfg, zaptest.NewLogger(t))

	return &fixture{db: db, svc: svc, repo: repo, profiles: profiles, node: node, clock: fake}
}

func (f *fixture) newUser(t *testing.T, email string) snowflake.ID {
	t.Helper()
	userID := f.node.Generate()
	require.NoError(t, f.profiles.Create(context.Background(), &profiledomain.Profile{
		ID:     f.node.Generate(),
		UserID: userID,
		Name:   email,
		Email:  email,
	}))
	return userID
}

func (f *fixture) newWorkspace(t *testing.T, ownerID snowflake.ID, name string) *domain.WorkspaceResponse {
	t.Helper()
	resp, err := f.svc.CreateWorkspace(context.Background(), ownerID, domain.CreateWorkspaceRequest{Name: name})
	require.NoError(t, err)
	return resp
}

func (f *fixture) addMember(t *testing.T, wsID snowflake.ID, email string, role domain.Role) (snowflake.ID, snowflake.ID) {
	t.Helper()
	userID := f.newUser(t, email)
	member := domain.Member{
		ID:          f.node.Generate(),
		WorkspaceID: wsID,
		UserID:      userID,
		Role:        role,
	}
	require.NoError(t, f.repo.AddMember(context.Background(), member))
	return userID, member.ID
}

func TestCreateWorkspaceGrantsOwnership(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")

	resp, err := f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{
		Name: "Macrodata Refinement",
		Slug: "Macrodata Refinement",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, resp.Role)
	assert.ElementsMatch(t, domain.PermissionsFor(domain.RoleOwner), resp.Permissions)
	require.NotNil(t, resp.Workspace.Slug)
	assert.Equal(t, "macrodata-refinement", *resp.Workspace.Slug)

	member, err := f.repo.GetMember(context.Background(), resp.Workspace.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, member.Role)
}

func TestCreateWorkspaceRejectsDuplicateSlug(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")

	_, err := f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{Name: "MDR", Slug: "mdr"})
	require.NoError(t, err)

	_, err = f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{Name: "Other", Slug: "mdr"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestCreateWorkspaceAllowsMissingSlug(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")

	a, err := f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{Name: "One"})
	require.NoError(t, err)
	b, err := f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{Name: "Two"})
	require.NoError(t, err)
	assert.Nil(t, a.Workspace.Slug)
	assert.Nil(t, b.Workspace.Slug)
}

func TestLastOwnerCannotBeDemoted(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	ownerMember, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, owner)
	require.NoError(t, err)

	_, err = f.svc.UpdateMemberRole(context.Background(), owner, ws.Workspace.ID, ownerMember.ID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrLastOwner)

	// The rejected transaction must leave state untouched.
	after, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, after.Role)
	assert.Equal(t, ownerMember.UpdatedAt.UTC(), after.UpdatedAt.UTC())
}

func TestLastOwnerCannotBeRemoved(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	ownerMember, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, owner)
	require.NoError(t, err)

	err = f.svc.RemoveMember(context.Background(), owner, ws.Workspace.ID, ownerMember.ID)
	assert.ErrorIs(t, err, domain.ErrLastOwner)

	_, err = f.repo.GetMember(context.Background(), ws.Workspace.ID, owner)
	assert.NoError(t, err)
}

func TestDemoteOwnerSucceedsWithCoOwner(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	_, coOwnerMemberID := f.addMember(t, ws.Workspace.ID, "helly.r@lumon.industries", domain.RoleOwner)

	resp, err := f.svc.UpdateMemberRole(context.Background(), owner, ws.Workspace.ID, coOwnerMemberID, domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, resp.Role)

	// Now only one owner remains and the guard re-arms.
	ownerMember, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, owner)
	require.NoError(t, err)
	_, err = f.svc.UpdateMemberRole(context.Background(), owner, ws.Workspace.ID, ownerMember.ID, domain.RoleMember)
	assert.ErrorIs(t, err, domain.ErrLastOwner)
}

func TestMemberCannotManageRoles(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, memberID := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)

	_, err := f.svc.UpdateMemberRole(context.Background(), memberUser, ws.Workspace.ID, memberID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMemberCanRemoveThemselves(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, memberID := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)

	require.NoError(t, f.svc.RemoveMember(context.Background(), memberUser, ws.Workspace.ID, memberID))

	_, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, memberUser)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestMemberCannotRemoveOthers(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, _ := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)
	_, otherMemberID := f.addMember(t, ws.Workspace.ID, "irving.b@lumon.industries", domain.RoleMember)

	err := f.svc.RemoveMember(context.Background(), memberUser, ws.Workspace.ID, otherMemberID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRemovedMemberCanRejoin(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, memberID := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)

	require.NoError(t, f.svc.RemoveMember(context.Background(), owner, ws.Workspace.ID, memberID))

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "dylan.g@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	resp, err := f.svc.AcceptInvitation(context.Background(), memberUser, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, resp.Role)

	fresh, err := f.repo.GetMember(context.Background(), ws.Workspace.ID, memberUser)
	require.NoError(t, err)
	assert.NotEqual(t, memberID, fresh.ID)
}

func TestUpdateWorkspaceRequiresEditPermission(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, _ := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)
	adminUser, _ := f.addMember(t, ws.Workspace.ID, "milchick@lumon.industries", domain.RoleAdmin)

	name := "Optics and Design"
	_, err := f.svc.UpdateWorkspace(context.Background(), memberUser, ws.Workspace.ID, domain.UpdateWorkspaceRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := f.svc.UpdateWorkspace(context.Background(), adminUser, ws.Workspace.ID, domain.UpdateWorkspaceRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Optics and Design", resp.Workspace.Name)
}

func TestUpdateWorkspaceSlugConflict(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	f.newWorkspace(t, owner, "MDR")
	_, err := f.svc.CreateWorkspace(context.Background(), owner, domain.CreateWorkspaceRequest{Name: "Taken", Slug: "taken"})
	require.NoError(t, err)
	ws := f.newWorkspace(t, owner, "Other")

	slugValue := "taken"
	_, err = f.svc.UpdateWorkspace(context.Background(), owner, ws.Workspace.ID, domain.UpdateWorkspaceRequest{Slug: &slugValue})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestDeleteWorkspaceOwnerOnly(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	adminUser, _ := f.addMember(t, ws.Workspace.ID, "milchick@lumon.industries", domain.RoleAdmin)

	err := f.svc.DeleteWorkspace(context.Background(), adminUser, ws.Workspace.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.DeleteWorkspace(context.Background(), owner, ws.Workspace.ID))
	_, err = f.repo.GetWorkspace(context.Background(), ws.Workspace.ID)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestMembersCannotInvite(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	memberUser, _ := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)

	_, err := f.svc.CreateInvitation(context.Background(), memberUser, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInvitationCannotGrantOwnership(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	_, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleOwner,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestDuplicatePendingInvitationRejected(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	_, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "Helly.R@lumon.industries",
		Role:  domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrInvitePending)
}

func TestInvitingExistingMemberRejected(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)

	_, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "dylan.g@lumon.industries",
		Role:  domain.RoleMember,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestRevokeAllowsReinvite(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	revoked, err := f.svc.RevokeInvitation(context.Background(), owner, ws.Workspace.ID, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, revoked.ID)

	_, err = f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleAdmin,
	})
	assert.NoError(t, err)
}

func TestRevokeRequiresMemberManagement(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	member, _ := f.addMember(t, ws.Workspace.ID, "dylan.g@lumon.industries", domain.RoleMember)
	admin, _ := f.addMember(t, ws.Workspace.ID, "irving.b@lumon.industries", domain.RoleAdmin)

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	_, err = f.svc.RevokeInvitation(context.Background(), member, ws.Workspace.ID, invite.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.RevokeInvitation(context.Background(), admin, ws.Workspace.ID, invite.ID)
	assert.NoError(t, err)
}

func TestAcceptInvitationIsAtomic(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	invitee := f.newUser(t, "helly.r@lumon.industries")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := f.svc.AcceptInvitation(context.Background(), invitee, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, resp.Role)
	assert.ElementsMatch(t, domain.PermissionsFor(domain.RoleAdmin), resp.Permissions)

	// Membership exists and the invitation is gone.
	_, err = f.repo.GetMember(context.Background(), ws.Workspace.ID, invitee)
	assert.NoError(t, err)
	_, err = f.repo.GetInvitation(context.Background(), invite.ID)
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
}

func TestAcceptInvitationFailureLeavesInvitation(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")

	invite := domain.Invitation{
		ID:          f.node.Generate(),
		WorkspaceID: ws.Workspace.ID,
		Email:       "mark.s@lumon.industries",
		Role:        domain.RoleMember,
		Status:      domain.InvitationStatusPending,
		InvitedBy:   owner,
		ExpiresAt:   f.clock.Now().Add(domain.InvitationTTL),
	}
	require.NoError(t, f.repo.CreateInvitation(context.Background(), invite))

	_, err := f.svc.AcceptInvitation(context.Background(), owner, invite.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	// The failed acceptance must not consume the invitation.
	_, err = f.repo.GetInvitation(context.Background(), invite.ID)
	assert.NoError(t, err)
}

func TestAcceptInvitationIntoDeletedWorkspace(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	invitee := f.newUser(t, "helly.r@lumon.industries")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteWorkspace(context.Background(), owner, ws.Workspace.ID))

	_, err = f.svc.AcceptInvitation(context.Background(), invitee, invite.ID)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)

	// The failed acceptance must not create a membership or consume the
	// invitation.
	_, err = f.repo.GetMember(context.Background(), ws.Workspace.ID, invitee)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	_, err = f.repo.GetInvitation(context.Background(), invite.ID)
	assert.NoError(t, err)
}

func TestAcceptUnknownInvitation(t *testing.T) {
	f := newFixture(t, domain.Config{})
	user := f.newUser(t, "helly.r@lumon.industries")

	_, err := f.svc.AcceptInvitation(context.Background(), user, f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
}

func TestExpiredInvitationAcceptedByDefault(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	invitee := f.newUser(t, "helly.r@lumon.industries")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)

	_, err = f.svc.AcceptInvitation(context.Background(), invitee, invite.ID)
	assert.NoError(t, err)
}

func TestExpiredInvitationRejectedWhenEnforced(t *testing.T) {
	f := newFixture(t, domain.Config{EnforceExpiry: true})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	invitee := f.newUser(t, "helly.r@lumon.industries")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)

	_, err = f.svc.AcceptInvitation(context.Background(), invitee, invite.ID)
	assert.ErrorIs(t, err, domain.ErrInvitationExpired)

	// The expired invitation stays in place for auditing.
	_, err = f.repo.GetInvitation(context.Background(), invite.ID)
	assert.NoError(t, err)
}

func TestEmailMismatchRejectedWhenEnforced(t *testing.T) {
	f := newFixture(t, domain.Config{RequireEmailMatch: true})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	stranger := f.newUser(t, "cobel@lumon.industries")

	invite, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	_, err = f.svc.AcceptInvitation(context.Background(), stranger, invite.ID)
	assert.ErrorIs(t, err, domain.ErrEmailMismatch)
}

func TestGetUserInvitationsRequiresProfileEmail(t *testing.T) {
	f := newFixture(t, domain.Config{})
	_, err := f.svc.GetUserInvitations(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrEmailRequired)
}

func TestGetUserInvitationsListsByEmail(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	invitee := f.newUser(t, "helly.r@lumon.industries")

	_, err := f.svc.CreateInvitation(context.Background(), owner, ws.Workspace.ID, domain.CreateInvitationRequest{
		Email: "helly.r@lumon.industries",
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)

	invites, err := f.svc.GetUserInvitations(context.Background(), invitee)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "MDR", invites[0].WorkspaceName)
}

func TestGetWorkspaceMembersRequiresMembership(t *testing.T) {
	f := newFixture(t, domain.Config{})
	owner := f.newUser(t, "mark.s@lumon.industries")
	ws := f.newWorkspace(t, owner, "MDR")
	outsider := f.newUser(t, "cobel@lumon.industries")

	_, err := f.svc.GetWorkspaceMembers(context.Background(), outsider, ws.Workspace.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	members, err := f.svc.GetWorkspaceMembers(context.Background(), owner, ws.Workspace.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "mark.s@lumon.industries", members[0].Email)
}
