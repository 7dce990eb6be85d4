package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskhive/internal/domain"
)

// RoleRepository define el contrato de persistencia para roles de equipo.
// El motor de autorización consume esta interfaz; en tests se reemplaza
// por un fake en memoria.
type RoleRepository interface {
	Get(ctx context.Context, roleID string) (domain.TeamRole, error)
	GetByTeamAndUser(ctx context.Context, teamID, userID string) (domain.TeamRole, error)
	GetLowestPriority(ctx context.Context, teamID string) (domain.TeamRole, error)
	ListForTeam(ctx context.Context, teamID string) ([]domain.TeamRole, error)
	Create(ctx context.Context, role domain.TeamRole) (domain.TeamRole, error)
	UpdateMemberRole(ctx context.Context, roleID, userID string) (domain.TeamRole, error)
}

// PgRoleRepository implementa RoleRepository usando pgxpool.
type PgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoleRepository(pool *pgxpool.Pool) *PgRoleRepository {
	return &PgRoleRepository{pool: pool}
}

const roleColumns = `id, team_id, name, priority,
	can_add_task, can_assign_task, can_approve_task, can_invite_in_team, can_create_roles`

func (r *PgRoleRepository) Get(ctx context.Context, roleID string) (domain.TeamRole, error) {
	query := `SELECT ` + roleColumns + ` FROM team_role WHERE id = $1`
	return scanRole(r.pool.QueryRow(ctx, query, roleID))
}

func (r *PgRoleRepository) GetByTeamAndUser(ctx context.Context, teamID, userID string) (domain.TeamRole, error) {
	query := `
		SELECT tr.id, tr.team_id, tr.name, tr.priority,
			tr.can_add_task, tr.can_assign_task, tr.can_approve_task,
			tr.can_invite_in_team, tr.can_create_roles
		FROM team_member tm
		JOIN team_role tr ON tr.id = tm.role_id
		WHERE tm.team_id = $1 AND tm.user_id = $2
	`
	return scanRole(r.pool.QueryRow(ctx, query, teamID, userID))
}

func (r *PgRoleRepository) GetLowestPriority(ctx context.Context, teamID string) (domain.TeamRole, error) {
	query := `SELECT ` + roleColumns + `
		FROM team_role
		WHERE team_id = $1
		ORDER BY priority DESC
		LIMIT 1`
	return scanRole(r.pool.QueryRow(ctx, query, teamID))
}

func (r *PgRoleRepository) ListForTeam(ctx context.Context, teamID string) ([]domain.TeamRole, error) {
	query := `SELECT ` + roleColumns + ` FROM team_role WHERE team_id = $1 ORDER BY priority`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.TeamRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PgRoleRepository) Create(ctx context.Context, role domain.TeamRole) (domain.TeamRole, error) {
	const query = `
		INSERT INTO team_role (id, team_id, name, priority,
			can_add_task, can_assign_task, can_approve_task, can_invite_in_team, can_create_roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		role.ID,
		role.TeamID,
		role.Name,
		role.Priority,
		role.CanAddTask,
		role.CanAssignTask,
		role.CanApproveTask,
		role.CanInviteInTeam,
		role.CanCreateRoles,
	)
	return role, err
}

// UpdateMemberRole reasigna al usuario al rol dado dentro del equipo del rol.
// Es un único UPDATE: la atomicidad queda en el store, no en el proceso.
// Devuelve pgx.ErrNoRows si el usuario no es miembro del equipo del rol.
func (r *PgRoleRepository) UpdateMemberRole(ctx context.Context, roleID, userID string) (domain.TeamRole, error) {
	const query = `
		UPDATE team_member
		SET role_id = $1
		WHERE user_id = $2
		  AND team_id = (SELECT team_id FROM team_role WHERE id = $1)
		RETURNING role_id
	`
	var assignedRoleID string
	if err := r.pool.QueryRow(ctx, query, roleID, userID).Scan(&assignedRoleID); err != nil {
		return domain.TeamRole{}, err
	}
	return r.Get(ctx, assignedRoleID)
}

func scanRole(row pgx.Row) (domain.TeamRole, error) {
	var role domain.TeamRole
	err := row.Scan(
		&role.ID,
		&role.TeamID,
		&role.Name,
		&role.Priority,
		&role.CanAddTask,
		&role.CanAssignTask,
		&role.CanApproveTask,
		&role.CanInviteInTeam,
		&role.CanCreateRoles,
	)
	return role, err
}
