package access

import (
	"errors"
	"testing"

	"sharehub/models"
)

func TestFolderLifecycle(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.AssertFolder(alice, ""); !errors.Is(err, ErrBadArgument) {
		t.Fatalf("expected ErrBadArgument, got %v", err)
	}
	if err := e.AssertFolder(alice, "projects"); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if err := e.AssertFolder(alice, "projects"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := e.AssertResourceInFolder(alice, "projects", res); err != nil {
		t.Fatalf("file resource: %v", err)
	}
	// Filing twice is a no-op.
	if err := e.AssertResourceInFolder(alice, "projects", res); err != nil {
		t.Fatalf("re-file resource: %v", err)
	}
	filed, err := e.GetResourcesInFolder(alice, "projects")
	if err != nil || len(filed) != 1 || filed[0].UUID != res {
		t.Fatalf("unexpected folder contents: %v %v", filed, err)
	}
	names, err := e.GetFolders(alice)
	if err != nil || len(names) != 1 || names[0] != "projects" {
		t.Fatalf("unexpected folder list: %v %v", names, err)
	}
	if err := e.RetractResourceInFolder(alice, "projects", res); err != nil {
		t.Fatalf("unfile: %v", err)
	}
	if err := e.RetractResourceInFolder(alice, "projects", res); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double unfile, got %v", err)
	}
	if err := e.RetractFolder(alice, "projects"); err != nil {
		t.Fatalf("retract folder: %v", err)
	}
	if err := e.RetractFolder(alice, "projects"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Folder names are scoped per user; two users may both have "projects".
func TestFoldersArePerUser(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")

	if err := e.AssertFolder(alice, "projects"); err != nil {
		t.Fatalf("alice folder: %v", err)
	}
	if err := e.AssertFolder(bob, "projects"); err != nil {
		t.Fatalf("bob folder: %v", err)
	}
	names, err := e.GetFolders(bob)
	if err != nil || len(names) != 1 {
		t.Fatalf("expected bob to see one folder, got %v %v", names, err)
	}
}

// Filing carries no privilege and survives losing access.
func TestFolderCarriesNoPrivilege(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	bob := mustUser(t, e, admin, "bob")
	res := mustResource(t, e, alice, "/data/alice")

	if err := e.ShareResourceWithUser(alice, res, bob, models.PrivilegeRO); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := e.AssertFolder(bob, "borrowed"); err != nil {
		t.Fatalf("folder: %v", err)
	}
	if err := e.AssertResourceInFolder(bob, "borrowed", res); err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := e.UnshareResourceWithUser(alice, res, bob); err != nil {
		t.Fatalf("unshare: %v", err)
	}
	filed, err := e.GetResourcesInFolder(bob, "borrowed")
	if err != nil || len(filed) != 1 {
		t.Fatalf("expected filing to survive revocation, got %v %v", filed, err)
	}
	p, err := e.GetCumulativeUserPrivilegeOverResource(bob, res)
	if err != nil || p != models.PrivilegeNone {
		t.Fatalf("expected no privilege, got %v %v", p, err)
	}
}

func TestTagLifecycle(t *testing.T) {
	e, admin := newTestEngine(t)
	alice := mustUser(t, e, admin, "alice")
	res1 := mustResource(t, e, alice, "/data/one")
	res2 := mustResource(t, e, alice, "/data/two")

	if err := e.AssertTag(alice, "hydrology"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := e.AssertTag(alice, "hydrology"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := e.AssertResourceHasTag(alice, "hydrology", res1); err != nil {
		t.Fatalf("tag res1: %v", err)
	}
	if err := e.AssertResourceHasTag(alice, "hydrology", res2); err != nil {
		t.Fatalf("tag res2: %v", err)
	}
	tagged, err := e.GetResourcesByTag(alice, "hydrology")
	if err != nil || len(tagged) != 2 {
		t.Fatalf("expected 2 tagged resources, got %v %v", tagged, err)
	}
	if err := e.RetractResourceHasTag(alice, "hydrology", res1); err != nil {
		t.Fatalf("untag: %v", err)
	}
	if err := e.RetractTag(alice, "hydrology"); err != nil {
		t.Fatalf("retract tag: %v", err)
	}
	if _, err := e.GetResourcesByTag(alice, "hydrology"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
