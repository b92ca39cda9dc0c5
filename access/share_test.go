package access

import (
	"errors"
	"testing"

	"sharehub/models"
)

// Two users sharing a resource: the holder can re-share at or below their
// own level but never above it.
func TestShareResourceNoEscalation(t *testing.T) {
	e, admin := newTestEngine(t)
	cat := mustUser(t, e, admin, "cat")
	dog := mustUser(t, e, admin, "dog")
	bird := mustUser(t, e, admin, "bird")
	posts := mustResource(t, e, cat, "/data/posts")

	if err := e.ShareResourceWithUser(cat, posts, dog, models.PrivilegeRW); err != nil {
		t.Fatalf("owner shares rw: %v", err)
	}
	got, err := e.GetUserPrivilegeOverResource(dog, posts)
	if err != nil || got != models.PrivilegeRW {
		t.Fatalf("expected rw, got %v %v", got, err)
	}
	// dog holds rw: may pass along ro or rw, not own.
	if err := e.ShareResourceWithUser(dog, posts, bird, models.PrivilegeRO); err != nil {
		t.Fatalf("rw holder shares ro: %v", err)
	}
	err = e.ShareResourceWithUser(dog, posts, bird, models.PrivilegeOwn)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
	// bird holds ro: cannot upgrade anyone to rw.
	err = e.ShareResourceWithUser(bird, posts, dog, models.PrivilegeRW)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
}

func TestShareResourceRequiresShareableOrOwner(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := e.SetResourceShareable(alice, res, false); err != nil {
		t.Fatalf("unset shareable: %v", err)
	}
	// Non-owners lose the ability to pass access along.
	err := e.ShareResourceWithUser(bob, res, carol, models.PrivilegeRO)
	if !errors.Is(err, ErrNotShareable) {
		t.Fatalf("expected ErrNotShareable, got %v", err)
	}
	// The owner is unaffected.
	if err := e.ShareResourceWithUser(alice, res, carol, models.PrivilegeRO); err != nil {
		t.Fatalf("owner shares unshareable resource: %v", err)
	}
}

func TestGroupCannotOwnResource(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	res := mustResource(t, e, alice, "/data/alice")
	grp := mustGroup(t, e, alice, "team")

	err := e.ShareResourceWithGroup(alice, res, grp, models.PrivilegeOwn)
	if !errors.Is(err, ErrGroupCannotOwn) {
		t.Fatalf("expected ErrGroupCannotOwn, got %v", err)
	}
	// Admins get no exception from structural rules.
	err = e.ShareResourceWithGroup(admin, res, grp, models.PrivilegeOwn)
	if !errors.Is(err, ErrGroupCannotOwn) {
		t.Fatalf("expected ErrGroupCannotOwn for admin, got %v", err)
	}
}

func TestShareResourceWithGroupNeedsMembership(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, bob, "/data/bob")
	grp := mustGroup(t, e, alice, "team")

	// bob owns the resource but is not in the group.
	err := e.ShareResourceWithGroup(bob, res, grp, models.PrivilegeRO)
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add bob to group: %v", err)
	}
	if err := e.ShareResourceWithGroup(bob, res, grp, models.PrivilegeRO); err != nil {
		t.Fatalf("member shares into group: %v", err)
	}
}

func TestLastOwnerProtection(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	// The sole owner cannot downgrade or remove themself, and even an
	// administrator cannot do it for them.
	err := e.ShareResourceWithUser(alice, res, alice, models.PrivilegeRO)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner on self-downgrade, got %v", err)
	}
	err = e.UnshareResourceWithUser(admin, res, alice)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner for admin, got %v", err)
	}
	// The failed attempts changed nothing.
	p, err := e.GetUserPrivilegeOverResource(alice, res)
	if err != nil || p != models.PrivilegeOwn {
		t.Fatalf("expected alice still owner, got %v %v", p, err)
	}
	// With a second owner the downgrade goes through.
	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeOwn); err != nil {
		t.Fatalf("add second owner: %v", err)
	}
	if err := e.ShareResourceWithUser(alice, res, alice, models.PrivilegeRO); err != nil {
		t.Fatalf("downgrade with second owner present: %v", err)
	}
}

func TestUnshareResourceRules(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := e.ShareResourceWithUser(alice, res, carol, models.PrivilegeRO); err != nil {
		t.Fatalf("share: %v", err)
	}
	// An ro holder cannot strip someone else.
	err := e.UnshareResourceWithUser(carol, res, bob)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
	// Anyone may walk away from their own grant.
	if err := e.UnshareResourceWithUser(carol, res, carol); err != nil {
		t.Fatalf("self-unshare: %v", err)
	}
	if err := e.UnshareResourceWithUser(alice, res, bob); err != nil {
		t.Fatalf("owner unshare: %v", err)
	}
	p, err := e.GetUserPrivilegeOverResource(bob, res)
	if err != nil || p != models.PrivilegeNone {
		t.Fatalf("expected none, got %v %v", p, err)
	}
}

func TestUnshareResourceWithGroupOwnerOnly(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")
	grp := mustGroup(t, e, alice, "team")

	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := e.ShareResourceWithGroup(alice, res, grp, models.PrivilegeRO); err != nil {
		t.Fatalf("share with group: %v", err)
	}
	// Resource ownership, not group standing, controls revocation.
	err := e.UnshareResourceWithGroup(bob, res, grp)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := e.UnshareResourceWithGroup(alice, res, grp); err != nil {
		t.Fatalf("owner revokes group grant: %v", err)
	}
}

func TestShareGroupWithUser(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	grp := mustGroup(t, e, alice, "team")

	// A non-member has no standing to extend the group.
	err := e.ShareGroupWithUser(bob, grp, carol, models.PrivilegeRO)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("owner adds rw member: %v", err)
	}
	if err := e.ShareGroupWithUser(bob, grp, carol, models.PrivilegeRO); err != nil {
		t.Fatalf("rw member adds ro member: %v", err)
	}
	err = e.ShareGroupWithUser(bob, grp, carol, models.PrivilegeOwn)
	if !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege on escalation, got %v", err)
	}
	in, err := e.UserInGroup(carol, grp)
	if err != nil || !in {
		t.Fatalf("expected carol in group, got %v %v", in, err)
	}
}

func TestUnshareGroupWithUser(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	grp := mustGroup(t, e, alice, "team")

	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add bob: %v", err)
	}
	if err := e.ShareGroupWithUser(alice, grp, carol, models.PrivilegeRO); err != nil {
		t.Fatalf("add carol: %v", err)
	}
	// rw membership is not enough to expel others; that takes ownership.
	err := e.UnshareGroupWithUser(bob, grp, carol)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	// Members may leave on their own.
	if err := e.UnshareGroupWithUser(carol, grp, carol); err != nil {
		t.Fatalf("leave group: %v", err)
	}
	// The founding owner is pinned while alone.
	err = e.UnshareGroupWithUser(alice, grp, alice)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
}

func TestAssertUserInGroupIdempotent(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	grp := mustGroup(t, e, alice, "team")

	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add bob at rw: %v", err)
	}
	// Asserting membership again must not clobber the rw level.
	if err := e.AssertUserInGroup(alice, grp, bob); err != nil {
		t.Fatalf("assert member: %v", err)
	}
	p, err := e.GetUserPrivilegeOverGroup(bob, grp)
	if err != nil || p != models.PrivilegeRW {
		t.Fatalf("expected rw preserved, got %v %v", p, err)
	}
}

func TestAdminBypassesPolicyNotFloor(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.SetResourceShareable(alice, res, false); err != nil {
		t.Fatalf("unset shareable: %v", err)
	}
	// Admin shares an unshareable resource it holds nothing on.
	if err := e.ShareResourceWithUser(admin, res, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("admin share: %v", err)
	}
	// But cannot downgrade the last owner.
	err := e.ShareResourceWithUser(admin, res, alice, models.PrivilegeRO)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
}
