package access

import (
	"testing"

	"sharehub/models"
)

// A group path contributes the weaker of the membership level and the
// group's grant on the resource.
func TestGroupDerivedPrivilegeWeakestLink(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	carol := mustUser(t, e, admin, "carol")
	res := mustResource(t, e, alice, "/data/shared")
	grp := mustGroup(t, e, alice, "felines")

	if err := e.ShareGroupWithUser(alice, grp, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("add ro member: %v", err)
	}
	if err := e.ShareGroupWithUser(alice, grp, carol, models.PrivilegeRW); err != nil {
		t.Fatalf("add rw member: %v", err)
	}
	if err := e.ShareResourceWithGroup(alice, res, grp, models.PrivilegeRW); err != nil {
		t.Fatalf("grant group rw: %v", err)
	}

	for _, tc := range []struct {
		login string
		user  string
		want  models.Privilege
	}{
		{"bob", bob, models.PrivilegeRO},   // weakest(ro membership, rw grant)
		{"carol", carol, models.PrivilegeRW}, // weakest(rw membership, rw grant)
	} {
		got, err := e.GetCumulativeUserPrivilegeOverResource(tc.user, res)
		if err != nil {
			t.Fatalf("%s: %v", tc.login, err)
		}
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.login, tc.want.Code(), got.Code())
		}
		// No direct grant exists for either member.
		direct, err := e.GetUserPrivilegeOverResource(tc.user, res)
		if err != nil || direct != models.PrivilegeNone {
			t.Errorf("%s: expected no direct grant, got %v %v", tc.login, direct, err)
		}
	}
}

// With several paths to the same resource the best one wins.
func TestCumulativePrivilegeBestPath(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/shared")
	readers := mustGroup(t, e, alice, "readers")
	writers := mustGroup(t, e, alice, "writers")

	if err := e.ShareGroupWithUser(alice, readers, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add to readers: %v", err)
	}
	if err := e.ShareGroupWithUser(alice, writers, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("add to writers: %v", err)
	}
	if err := e.ShareResourceWithGroup(alice, res, readers, models.PrivilegeRO); err != nil {
		t.Fatalf("readers grant: %v", err)
	}
	if err := e.ShareResourceWithGroup(alice, res, writers, models.PrivilegeRW); err != nil {
		t.Fatalf("writers grant: %v", err)
	}
	got, err := e.GetCumulativeUserPrivilegeOverResource(bob, res)
	if err != nil || got != models.PrivilegeRW {
		t.Fatalf("expected rw via writers, got %v %v", got, err)
	}
}

// A public resource reads at ro for any active user; inactive users get
// nothing from the floor.
func TestPublicResourceFloor(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/open")

	got, err := e.GetCumulativeUserPrivilegeOverResource(bob, res)
	if err != nil || got != models.PrivilegeNone {
		t.Fatalf("expected none before publishing, got %v %v", got, err)
	}
	if err := e.SetResourcePublic(alice, res, true); err != nil {
		t.Fatalf("set public: %v", err)
	}
	got, err = e.GetCumulativeUserPrivilegeOverResource(bob, res)
	if err != nil || got != models.PrivilegeRO {
		t.Fatalf("expected ro floor, got %v %v", got, err)
	}
	// The floor never appears in the direct grant.
	direct, err := e.GetUserPrivilegeOverResource(bob, res)
	if err != nil || direct != models.PrivilegeNone {
		t.Fatalf("expected no direct grant, got %v %v", direct, err)
	}
	if err := e.SetUserActive(admin, bob, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err = e.GetCumulativeUserPrivilegeOverResource(bob, res)
	if err != nil || got != models.PrivilegeNone {
		t.Fatalf("expected none for inactive user, got %v %v", got, err)
	}
}

func TestPublicGroupFloor(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	grp := mustGroup(t, e, alice, "forum")

	if err := e.SetGroupPublic(alice, grp, true); err != nil {
		t.Fatalf("set public: %v", err)
	}
	got, err := e.GetCumulativeUserPrivilegeOverGroup(bob, grp)
	if err != nil || got != models.PrivilegeRO {
		t.Fatalf("expected ro floor, got %v %v", got, err)
	}
	// Readability via the floor is not membership.
	in, err := e.UserInGroup(bob, grp)
	if err != nil || in {
		t.Fatalf("expected bob not a member, got %v %v", in, err)
	}
}

// Admins resolve by what is granted, not by who they are.
func TestResolverIgnoresAdminStatus(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	res := mustResource(t, e, alice, "/data/alice")

	got, err := e.GetCumulativeUserPrivilegeOverResource(admin, res)
	if err != nil || got != models.PrivilegeNone {
		t.Fatalf("expected none for admin without grants, got %v %v", got, err)
	}
}

// Resolved privilege is a snapshot: a later revocation is visible on the
// next query.
func TestPrivilegeSnapshotGoesStale(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeRW); err != nil {
		t.Fatalf("share: %v", err)
	}
	writable, err := e.ResourceIsWritable(bob, res)
	if err != nil || !writable {
		t.Fatalf("expected writable, got %v %v", writable, err)
	}
	if err := e.UnshareResourceWithUser(alice, res, bob); err != nil {
		t.Fatalf("unshare: %v", err)
	}
	writable, err = e.ResourceIsWritable(bob, res)
	if err != nil || writable {
		t.Fatalf("expected not writable after revocation, got %v %v", writable, err)
	}
}
