package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemovalGuard_LeaderRemovesMember(t *testing.T) {
	assert.NoError(t, removalGuard(1, 1, 2))
}

func TestRemovalGuard_MemberRemovesThemself(t *testing.T) {
	assert.NoError(t, removalGuard(1, 2, 2))
}

func TestRemovalGuard_MemberRemovesOther(t *testing.T) {
	assert.ErrorIs(t, removalGuard(1, 2, 3), errRemoveForbidden)
}

func TestRemovalGuard_LeaderNeverRemovable(t *testing.T) {
	// not by another member, not by the leader themself
	assert.ErrorIs(t, removalGuard(1, 1, 1), errRemoveLeader)
	assert.ErrorIs(t, removalGuard(1, 2, 1), errRemoveForbidden)
}

func TestInviteTransition_PendingAccepts(t *testing.T) {
	assert.NoError(t, inviteTransition(InvitePending, InviteAccepted))
}

func TestInviteTransition_PendingDeclines(t *testing.T) {
	assert.NoError(t, inviteTransition(InvitePending, InviteDeclined))
}

func TestInviteTransition_TerminalStatesStay(t *testing.T) {
	// a consumed invite cannot be accepted again, declined, or re-declined
	assert.ErrorIs(t, inviteTransition(InviteAccepted, InviteAccepted), errInviteNotPending)
	assert.ErrorIs(t, inviteTransition(InviteAccepted, InviteDeclined), errInviteNotPending)
	assert.ErrorIs(t, inviteTransition(InviteDeclined, InviteDeclined), errInviteNotPending)
	assert.ErrorIs(t, inviteTransition(InviteDeclined, InviteAccepted), errInviteNotPending)
}

func TestInviteTransition_OnlyTerminalTargets(t *testing.T) {
	assert.ErrorIs(t, inviteTransition(InvitePending, InvitePending), errInviteNotPending)
	assert.ErrorIs(t, inviteTransition(InvitePending, "expired"), errInviteNotPending)
}
