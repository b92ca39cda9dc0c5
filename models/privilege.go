package models

// Privilege is an access level over a resource or group. Lower values are
// more permissive; PrivilegeNone is a sentinel meaning "no privilege" and is
// never stored in a grant row.
type Privilege uint8

const (
	PrivilegeOwn  Privilege = 1
	PrivilegeRW   Privilege = 2
	PrivilegeRO   Privilege = 3
	PrivilegeNone Privilege = 100
)

var privilegeCodes = map[Privilege]string{
	PrivilegeOwn:  "own",
	PrivilegeRW:   "rw",
	PrivilegeRO:   "ro",
	PrivilegeNone: "none",
}

// ParsePrivilege maps a wire code ("own", "rw", "ro", "none") to a level.
func ParsePrivilege(code string) (Privilege, bool) {
	for p, c := range privilegeCodes {
		if c == code {
			return p, true
		}
	}
	return PrivilegeNone, false
}

func (p Privilege) Code() string {
	if c, ok := privilegeCodes[p]; ok {
		return c
	}
	return "invalid"
}

// Grantable reports whether the level can be stored in a grant row.
func (p Privilege) Grantable() bool {
	return p == PrivilegeOwn || p == PrivilegeRW || p == PrivilegeRO
}

// MorePermissive reports whether p is strictly stronger than o.
func (p Privilege) MorePermissive(o Privilege) bool { return p < o }

// AtLeast reports whether p grants everything o does.
func (p Privilege) AtLeast(o Privilege) bool { return p <= o }

// WeakestPrivilege combines two levels that must BOTH hold, e.g. a group
// membership level and the group's grant over an object.
func WeakestPrivilege(a, b Privilege) Privilege {
	if a > b {
		return a
	}
	return b
}

// BestPrivilege combines two alternative access paths.
func BestPrivilege(a, b Privilege) Privilege {
	if a < b {
		return a
	}
	return b
}
