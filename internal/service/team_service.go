package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhive/internal/domain"
	"taskhive/internal/repository"
)

// TeamService coordina creación de equipos, membresías y roles.
type TeamService struct {
	logger *zap.Logger
	teams  repository.TeamRepository
	authz  *AuthzService
}

func NewTeamService(logger *zap.Logger, teams repository.TeamRepository, authz *AuthzService) *TeamService {
	return &TeamService{
		logger: logger,
		teams:  teams,
		authz:  authz,
	}
}

// CreateTeam da de alta el equipo con sus tres roles fijos y une al creador
// con el rol de prioridad 0.
func (s *TeamService) CreateTeam(ctx context.Context, creatorID, name, description string) (domain.Team, error) {
	team := domain.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Creator:     creatorID,
	}

	adminRole := domain.TeamRole{
		ID:              uuid.NewString(),
		TeamID:          team.ID,
		Name:            "Admin",
		Priority:        0,
		CanAddTask:      true,
		CanAssignTask:   true,
		CanApproveTask:  true,
		CanInviteInTeam: true,
		CanCreateRoles:  true,
	}
	managerRole := domain.TeamRole{
		ID:              uuid.NewString(),
		TeamID:          team.ID,
		Name:            "Manager",
		Priority:        1,
		CanAddTask:      true,
		CanAssignTask:   true,
		CanApproveTask:  true,
		CanInviteInTeam: true,
		CanCreateRoles:  true,
	}
	memberRole := domain.TeamRole{
		ID:       uuid.NewString(),
		TeamID:   team.ID,
		Name:     "Member",
		Priority: 2,
	}

	created, err := s.teams.Create(ctx, team)
	if err != nil {
		return domain.Team{}, err
	}

	for _, role := range []domain.TeamRole{adminRole, managerRole, memberRole} {
		if _, err := s.authz.CreateRole(ctx, role); err != nil {
			s.logger.Error("bootstrap role failed",
				zap.String("team_id", created.ID),
				zap.String("role", role.Name),
				zap.Error(err),
			)
			return domain.Team{}, err
		}
	}

	creator := domain.TeamMember{
		ID:     uuid.NewString(),
		UserID: creatorID,
		TeamID: created.ID,
		RoleID: adminRole.ID,
	}
	if err := s.teams.Join(ctx, creator); err != nil {
		return domain.Team{}, err
	}

	s.logger.Info("team created",
		zap.String("team_id", created.ID),
		zap.String("creator", creatorID),
	)
	return created, nil
}

// JoinTeam une al usuario con el rol de menor autoridad del equipo.
// No hay paso de aprobación.
func (s *TeamService) JoinTeam(ctx context.Context, userID, teamID string) (domain.TeamRole, error) {
	role, err := s.authz.LowestPriorityRole(ctx, teamID)
	if err != nil {
		return domain.TeamRole{}, err
	}

	member := domain.TeamMember{
		ID:     uuid.NewString(),
		UserID: userID,
		TeamID: teamID,
		RoleID: role.ID,
	}
	if err := s.teams.Join(ctx, member); err != nil {
		return domain.TeamRole{}, err
	}
	return role, nil
}

func (s *TeamService) LeaveTeam(ctx context.Context, userID, teamID string) error {
	return s.teams.Leave(ctx, teamID, userID)
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (domain.Team, error) {
	team, err := s.teams.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, ErrNotFound
	}
	return team, err
}

func (s *TeamService) ListUserTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	return s.teams.GetUserTeams(ctx, userID)
}

func (s *TeamService) ListJoinable(ctx context.Context, userID string) ([]domain.Team, error) {
	return s.teams.GetAllCanJoin(ctx, userID)
}

func (s *TeamService) ListRoles(ctx context.Context, teamID string) ([]domain.TeamRole, error) {
	return s.authz.ListRoles(ctx, teamID)
}

// CreateRole agrega un rol nuevo al equipo; requiere can_create_roles.
func (s *TeamService) CreateRole(ctx context.Context, callerID string, role domain.TeamRole) (domain.TeamRole, error) {
	if err := s.authz.RequireCapability(ctx, role.TeamID, callerID, domain.CapCreateRoles); err != nil {
		return domain.TeamRole{}, err
	}
	role.ID = uuid.NewString()
	return s.authz.CreateRole(ctx, role)
}

// ChangeMemberRole delega en el motor de autorización, que verifica la
// autoridad del llamador antes de confirmar el cambio.
func (s *TeamService) ChangeMemberRole(ctx context.Context, callerID, roleID, targetUserID string) (domain.TeamRole, error) {
	return s.authz.TransferRole(ctx, callerID, roleID, targetUserID)
}
