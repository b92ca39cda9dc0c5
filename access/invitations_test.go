package access

import (
	"errors"
	"testing"

	"sharehub/models"
)

func TestGroupInvitationLifecycle(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	grp := mustGroup(t, e, alice, "team")

	if err := e.InviteUserToGroup(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("invite: %v", err)
	}
	// An invitation is not a grant.
	in, err := e.UserInGroup(bob, grp)
	if err != nil || in {
		t.Fatalf("expected bob not a member yet, got %v %v", in, err)
	}
	pending, err := e.GetGroupInvitationsForUser(bob)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Privilege != models.PrivilegeRW || pending[0].InviterUUID != alice {
		t.Fatalf("unexpected pending list: %+v", pending)
	}
	if err := e.AcceptGroupInvitation(bob, grp, alice); err != nil {
		t.Fatalf("accept: %v", err)
	}
	p, err := e.GetUserPrivilegeOverGroup(bob, grp)
	if err != nil || p != models.PrivilegeRW {
		t.Fatalf("expected rw after accept, got %v %v", p, err)
	}
	// Accepting consumed the invitation.
	err = e.AcceptGroupInvitation(bob, grp, alice)
	if !errors.Is(err, ErrNoInvitation) {
		t.Fatalf("expected ErrNoInvitation, got %v", err)
	}
}

func TestGroupInvitationRefuse(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	grp := mustGroup(t, e, alice, "team")

	if err := e.InviteUserToGroup(alice, grp, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if err := e.RefuseGroupInvitation(bob, grp, alice); err != nil {
		t.Fatalf("refuse: %v", err)
	}
	in, err := e.UserInGroup(bob, grp)
	if err != nil || in {
		t.Fatalf("expected bob not a member, got %v %v", in, err)
	}
	pending, err := e.GetGroupInvitationsForUser(bob)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending invitations, got %v %v", pending, err)
	}
}

func TestInvitePolicies(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	grp := mustGroup(t, e, alice, "team")

	if err := e.InviteUserToGroup(alice, grp, alice, models.PrivilegeRO); !errors.Is(err, ErrSelfInvite) {
		t.Fatalf("expected ErrSelfInvite, got %v", err)
	}
	// An ro member may not invite.
	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("add ro member: %v", err)
	}
	err := e.InviteUserToGroup(bob, grp, carol, models.PrivilegeRO)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
	// Nobody offers more than they hold.
	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("upgrade bob: %v", err)
	}
	err = e.InviteUserToGroup(bob, grp, carol, models.PrivilegeOwn)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege on escalating offer, got %v", err)
	}
	if err := e.InviteUserToGroup(bob, grp, carol, models.PrivilegeRW); err != nil {
		t.Fatalf("valid invite: %v", err)
	}
}

func TestUninviteWithdrawsOffer(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	grp := mustGroup(t, e, alice, "team")

	if err := e.InviteUserToGroup(alice, grp, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if err := e.UninviteUserToGroup(alice, grp, bob); err != nil {
		t.Fatalf("uninvite: %v", err)
	}
	err := e.AcceptGroupInvitation(bob, grp, alice)
	if !errors.Is(err, ErrNoInvitation) {
		t.Fatalf("expected ErrNoInvitation after withdrawal, got %v", err)
	}
	if err := e.UninviteUserToGroup(alice, grp, bob); !errors.Is(err, ErrNoInvitation) {
		t.Fatalf("expected ErrNoInvitation on double withdrawal, got %v", err)
	}
}

func TestResourceInvitationLifecycle(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.InviteUserToResource(alice, res, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("invite: %v", err)
	}
	p, err := e.GetUserPrivilegeOverResource(bob, res)
	if err != nil || p != models.PrivilegeNone {
		t.Fatalf("expected no grant before accept, got %v %v", p, err)
	}
	sent, err := e.GetResourceInvitationsSentByUser(alice)
	if err != nil || len(sent) != 1 {
		t.Fatalf("expected one sent invitation, got %v %v", sent, err)
	}
	if err := e.AcceptResourceInvitation(bob, res, alice); err != nil {
		t.Fatalf("accept: %v", err)
	}
	p, err = e.GetUserPrivilegeOverResource(bob, res)
	if err != nil || p != models.PrivilegeRW {
		t.Fatalf("expected rw after accept, got %v %v", p, err)
	}
}

// Re-inviting the same user rewrites the pending level rather than stacking
// a second offer.
func TestReinviteRewritesPendingLevel(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.InviteUserToResource(alice, res, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("invite rw: %v", err)
	}
	if err := e.InviteUserToResource(alice, res, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("re-invite ro: %v", err)
	}
	pending, err := e.GetResourceInvitationsForUser(bob)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Privilege != models.PrivilegeRO {
		t.Fatalf("expected single ro offer, got %+v", pending)
	}
}

// Distinct inviters hold distinct offers for the same user and object.
func TestInvitationsPerInviter(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("share rw with bob: %v", err)
	}
	if err := e.InviteUserToResource(alice, res, carol, models.PrivilegeRW); err != nil {
		t.Fatalf("alice invites: %v", err)
	}
	if err := e.InviteUserToResource(bob, res, carol, models.PrivilegeRO); err != nil {
		t.Fatalf("bob invites: %v", err)
	}
	pending, err := e.GetResourceInvitationsForUser(carol)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected two offers, got %v %v", pending, err)
	}
	// Accepting one leaves the other pending.
	if err := e.AcceptResourceInvitation(carol, res, bob); err != nil {
		t.Fatalf("accept bob's offer: %v", err)
	}
	p, err := e.GetUserPrivilegeOverResource(carol, res)
	if err != nil || p != models.PrivilegeRO {
		t.Fatalf("expected ro, got %v %v", p, err)
	}
	pending, err = e.GetResourceInvitationsForUser(carol)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one offer left, got %v %v", pending, err)
	}
}
