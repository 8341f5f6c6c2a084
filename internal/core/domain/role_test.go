package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{"admin_master", RoleAdminMaster, true},
		{"admin_filial", RoleAdminFilial, true},
		{"admin_matriz", RoleAdminFilial, true}, // legacy alias
		{"admin_clinica", RoleAdminClinica, true},
		{"dentist", RoleDentist, true},
		{"Admin_Master", "", false},
		{"root", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCanAccess_CapabilityTable(t *testing.T) {
	allRoles := []Role{RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist}

	// Shared capabilities are open to all four tiers.
	for _, cap := range []Capability{CapabilityHome, CapabilityPedidos, CapabilityPacientes, CapabilityAgenda, CapabilityContato} {
		for _, role := range allRoles {
			if !CanAccess(cap, role) {
				t.Errorf("CanAccess(%q, %q) = false, want true", cap, role)
			}
		}
	}

	// Directory tiers narrow progressively.
	if CanAccess(CapabilityDentistas, RoleDentist) {
		t.Error("dentist must not access the dentist directory capability")
	}
	if CanAccess(CapabilityClinicas, RoleDentist) {
		t.Error("dentist must not access clinicas")
	}
	if CanAccess(CapabilityFiliais, RoleAdminClinica) {
		t.Error("admin_clinica must not access filiais")
	}
	if !CanAccess(CapabilityFiliais, RoleAdminFilial) {
		t.Error("admin_filial must access filiais")
	}

	// Admin surfaces are super-admin only.
	for _, cap := range []Capability{CapabilityAdmin, CapabilitySupportAdmin} {
		if !CanAccess(cap, RoleAdminMaster) {
			t.Errorf("admin_master must access %q", cap)
		}
		for _, role := range []Role{RoleAdminFilial, RoleAdminClinica, RoleDentist} {
			if CanAccess(cap, role) {
				t.Errorf("%q must not access %q", role, cap)
			}
		}
	}
}

func TestCanAccess_UnknownInputsDeny(t *testing.T) {
	if CanAccess(Capability("reports"), RoleAdminMaster) {
		t.Error("unknown capability must deny even for admin_master")
	}
	if CanAccess(CapabilityHome, Role("intruder")) {
		t.Error("unknown role must deny")
	}
	if CanAccess(CapabilityHome, Role("")) {
		t.Error("empty role must deny")
	}
}

func TestCanChangeStatus(t *testing.T) {
	if !CanChangeStatus(IsSuperAdmin(RoleAdminMaster)) {
		t.Error("admin_master must be able to change status")
	}
	for _, role := range []Role{RoleAdminFilial, RoleAdminClinica, RoleDentist} {
		if CanChangeStatus(IsSuperAdmin(role)) {
			t.Errorf("%q must not be able to change status", role)
		}
	}
}
