package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhive/internal/domain"
	"taskhive/internal/repository"
)

// AuthzService decide si un principal puede ejecutar una acción privilegiada
// sobre un equipo, usando roles con prioridad (menor número = mayor autoridad).
type AuthzService struct {
	logger *zap.Logger
	roles  repository.RoleRepository
}

func NewAuthzService(logger *zap.Logger, roles repository.RoleRepository) *AuthzService {
	return &AuthzService{
		logger: logger,
		roles:  roles,
	}
}

// RoleOf devuelve el rol del usuario en el equipo, o ErrNotFound si no
// es miembro.
func (s *AuthzService) RoleOf(ctx context.Context, teamID, userID string) (domain.TeamRole, error) {
	role, err := s.roles.GetByTeamAndUser(ctx, teamID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamRole{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("role lookup failed",
			zap.String("team_id", teamID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return domain.TeamRole{}, err
	}
	return role, nil
}

// LowestPriorityRole devuelve el rol de menor autoridad del equipo, el que
// recibe un miembro nuevo al unirse.
func (s *AuthzService) LowestPriorityRole(ctx context.Context, teamID string) (domain.TeamRole, error) {
	role, err := s.roles.GetLowestPriority(ctx, teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamRole{}, ErrNotFound
	}
	return role, err
}

func (s *AuthzService) CreateRole(ctx context.Context, role domain.TeamRole) (domain.TeamRole, error) {
	return s.roles.Create(ctx, role)
}

func (s *AuthzService) ListRoles(ctx context.Context, teamID string) ([]domain.TeamRole, error) {
	return s.roles.ListForTeam(ctx, teamID)
}

// RequireCapability falla con ErrPermissionDenied si el rol del usuario en
// el equipo no habilita la capability, o ErrNotFound si no es miembro.
func (s *AuthzService) RequireCapability(ctx context.Context, teamID, userID string, cap domain.Capability) error {
	role, err := s.RoleOf(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !role.Allows(cap) {
		s.logger.Debug("capability denied",
			zap.String("team_id", teamID),
			zap.String("user_id", userID),
			zap.String("capability", string(cap)),
		)
		return ErrPermissionDenied
	}
	return nil
}

// CanAssign verifica que el asignador tenga can_assign_task y que el
// asignado no tenga mayor autoridad: assigneePriority >= assignerPriority.
func (s *AuthzService) CanAssign(ctx context.Context, teamID, assignerID, assigneeID string) error {
	assigner, err := s.RoleOf(ctx, teamID, assignerID)
	if err != nil {
		return err
	}
	if !assigner.CanAssignTask {
		return ErrPermissionDenied
	}

	assignee, err := s.RoleOf(ctx, teamID, assigneeID)
	if err != nil {
		return err
	}
	if assignee.Priority < assigner.Priority {
		return ErrPermissionDenied
	}
	return nil
}

// TransferRole reasigna la membresía del usuario objetivo al rol dado.
// La autoridad del llamador (can_create_roles en el equipo del rol) se
// verifica antes de escribir, así una denegación nunca deja mutación visible.
func (s *AuthzService) TransferRole(ctx context.Context, callerID, roleID, targetUserID string) (domain.TeamRole, error) {
	role, err := s.roles.Get(ctx, roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamRole{}, ErrNotFound
	}
	if err != nil {
		return domain.TeamRole{}, err
	}

	caller, err := s.RoleOf(ctx, role.TeamID, callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.TeamRole{}, ErrPermissionDenied
		}
		return domain.TeamRole{}, err
	}
	if !caller.CanCreateRoles {
		return domain.TeamRole{}, ErrPermissionDenied
	}

	updated, err := s.roles.UpdateMemberRole(ctx, roleID, targetUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		// El objetivo no es miembro del equipo del rol.
		return domain.TeamRole{}, ErrConflict
	}
	if err != nil {
		s.logger.Error("member role update failed",
			zap.String("role_id", roleID),
			zap.String("target_user_id", targetUserID),
			zap.Error(err),
		)
		return domain.TeamRole{}, err
	}
	return updated, nil
}
