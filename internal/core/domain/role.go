package domain

// Role is the closed set of actor tiers. Every permission and visibility
// decision in the system goes through the functions in this file; nothing
// outside this package branches on role identity directly.
type Role string

const (
	// RoleAdminMaster is the lab's top-level administrator: unrestricted
	// visibility and the only tier allowed to advance order status.
	RoleAdminMaster Role = "admin_master"
	// RoleAdminFilial administers a single branch (filial).
	RoleAdminFilial Role = "admin_filial"
	// RoleAdminClinica administers a single clinic.
	RoleAdminClinica Role = "admin_clinica"
	// RoleDentist only sees orders and patients it created itself.
	RoleDentist Role = "dentist"
)

// ParseRole normalises a raw role string. The legacy "admin_matriz" tag is
// an alias for the branch-admin tier. Unknown strings return ok=false.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin_master":
		return RoleAdminMaster, true
	case "admin_filial", "admin_matriz":
		return RoleAdminFilial, true
	case "admin_clinica":
		return RoleAdminClinica, true
	case "dentist":
		return RoleDentist, true
	}
	return "", false
}

// Capability names a page or feature an actor may be granted access to.
type Capability string

const (
	CapabilityHome         Capability = "home"
	CapabilityPedidos      Capability = "pedidos"
	CapabilityPacientes    Capability = "pacientes"
	CapabilityAgenda       Capability = "agenda"
	CapabilityContato      Capability = "contato"
	CapabilityDentistas    Capability = "dentistas"
	CapabilityClinicas     Capability = "clinicas"
	CapabilityFiliais      Capability = "filiais"
	CapabilityAdmin        Capability = "admin"
	CapabilitySupportAdmin Capability = "supportAdmin"
)

// capabilityGrants is the single authorisation table. A capability absent
// from the table is denied for every role.
var capabilityGrants = map[Capability][]Role{
	CapabilityHome:         {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist},
	CapabilityPedidos:      {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist},
	CapabilityPacientes:    {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist},
	CapabilityAgenda:       {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist},
	CapabilityContato:      {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica, RoleDentist},
	CapabilityDentistas:    {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica},
	CapabilityClinicas:     {RoleAdminMaster, RoleAdminFilial, RoleAdminClinica},
	CapabilityFiliais:      {RoleAdminMaster, RoleAdminFilial},
	CapabilityAdmin:        {RoleAdminMaster},
	CapabilitySupportAdmin: {RoleAdminMaster},
}

// CanAccess reports whether role is granted capability. Unknown
// capabilities and unknown (or empty, i.e. unauthenticated) roles deny.
func CanAccess(capability Capability, role Role) bool {
	for _, allowed := range capabilityGrants[capability] {
		if allowed == role {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether role is the top-level administrator tier.
func IsSuperAdmin(role Role) bool {
	return role == RoleAdminMaster
}

// CanChangeStatus reports whether an actor may advance order status.
// Only the super-admin tier mutates status; every other tier is read-only.
func CanChangeStatus(isSuperAdmin bool) bool {
	return isSuperAdmin
}
