package domain

// Team agrupa usuarios bajo roles con prioridad.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	Members     []User `json:"members,omitempty"`
}

// TeamMember asocia un usuario a un equipo bajo exactamente un rol.
type TeamMember struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	TeamID string `json:"team_id"`
	RoleID string `json:"role_id"`
}

// TeamRole es un paquete de permisos con prioridad dentro de un equipo.
// Prioridad menor significa mayor autoridad; 0 es la maxima.
type TeamRole struct {
	ID              string `json:"id"`
	TeamID          string `json:"team_id"`
	Name            string `json:"name"`
	Priority        int    `json:"priority"`
	CanAddTask      bool   `json:"can_add_task"`
	CanAssignTask   bool   `json:"can_assign_task"`
	CanApproveTask  bool   `json:"can_approve_task"`
	CanInviteInTeam bool   `json:"can_invite_in_team"`
	CanCreateRoles  bool   `json:"can_create_roles"`
}

// Capability identifica un flag de permiso de TeamRole.
type Capability string

const (
	CapAddTask      Capability = "add_task"
	CapAssignTask   Capability = "assign_task"
	CapApproveTask  Capability = "approve_task"
	CapInviteInTeam Capability = "invite_in_team"
	CapCreateRoles  Capability = "create_roles"
)

// Allows indica si el rol habilita la capability dada.
func (r TeamRole) Allows(cap Capability) bool {
	switch cap {
	case CapAddTask:
		return r.CanAddTask
	case CapAssignTask:
		return r.CanAssignTask
	case CapApproveTask:
		return r.CanApproveTask
	case CapInviteInTeam:
		return r.CanInviteInTeam
	case CapCreateRoles:
		return r.CanCreateRoles
	default:
		return false
	}
}
