package models

import "testing"

func TestPrivilegeOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Privilege
		want Privilege // BestPrivilege(a, b)
	}{
		{"own beats rw", PrivilegeOwn, PrivilegeRW, PrivilegeOwn},
		{"rw beats ro", PrivilegeRW, PrivilegeRO, PrivilegeRW},
		{"ro beats none", PrivilegeRO, PrivilegeNone, PrivilegeRO},
		{"none absorbs nothing", PrivilegeNone, PrivilegeNone, PrivilegeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestPrivilege(tt.a, tt.b); got != tt.want {
				t.Errorf("BestPrivilege(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := BestPrivilege(tt.b, tt.a); got != tt.want {
				t.Errorf("BestPrivilege(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestWeakestPrivilege(t *testing.T) {
	tests := []struct {
		name string
		a, b Privilege
		want Privilege
	}{
		{"membership ro caps group rw", PrivilegeRO, PrivilegeRW, PrivilegeRO},
		{"membership rw capped by group ro", PrivilegeRW, PrivilegeRO, PrivilegeRO},
		{"own and own", PrivilegeOwn, PrivilegeOwn, PrivilegeOwn},
		{"none dominates", PrivilegeOwn, PrivilegeNone, PrivilegeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeakestPrivilege(tt.a, tt.b); got != tt.want {
				t.Errorf("WeakestPrivilege(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParsePrivilege(t *testing.T) {
	for _, code := range []string{"own", "rw", "ro", "none"} {
		p, ok := ParsePrivilege(code)
		if !ok {
			t.Fatalf("ParsePrivilege(%q) not ok", code)
		}
		if p.Code() != code {
			t.Errorf("round trip %q = %q", code, p.Code())
		}
	}
	if _, ok := ParsePrivilege("root"); ok {
		t.Error("ParsePrivilege accepted an unknown code")
	}
	if PrivilegeNone.Grantable() {
		t.Error("none must not be grantable")
	}
}
