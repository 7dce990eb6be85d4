package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskhive/internal/domain"
)

// TeamRepository define el contrato de persistencia para equipos y membresías.
type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	Get(ctx context.Context, id string) (domain.Team, error)
	GetUserTeams(ctx context.Context, userID string) ([]domain.Team, error)
	GetAllCanJoin(ctx context.Context, userID string) ([]domain.Team, error)
	Join(ctx context.Context, member domain.TeamMember) error
	Leave(ctx context.Context, teamID, userID string) error
}

// PgTeamRepository implementa TeamRepository usando pgxpool.
type PgTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgTeamRepository(pool *pgxpool.Pool) *PgTeamRepository {
	return &PgTeamRepository{pool: pool}
}

func (r *PgTeamRepository) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	const query = `
		INSERT INTO team_information (id, name, description, creator)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Description, team.Creator)
	return team, err
}

func (r *PgTeamRepository) Get(ctx context.Context, id string) (domain.Team, error) {
	const query = `
		SELECT id, name, description, creator
		FROM team_information
		WHERE id = $1
	`
	var t domain.Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.Creator)
	if err != nil {
		return domain.Team{}, err
	}

	members, err := r.members(ctx, t.ID)
	if err != nil {
		return domain.Team{}, err
	}
	t.Members = members
	return t, nil
}

func (r *PgTeamRepository) GetUserTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	const query = `
		SELECT t.id, t.name, t.description, t.creator
		FROM team_information t
		JOIN team_member tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
	`
	return r.listWithMembers(ctx, query, userID)
}

func (r *PgTeamRepository) GetAllCanJoin(ctx context.Context, userID string) ([]domain.Team, error) {
	const query = `
		SELECT t.id, t.name, t.description, t.creator
		FROM team_information t
		WHERE NOT EXISTS (
			SELECT 1 FROM team_member tm
			WHERE tm.team_id = t.id AND tm.user_id = $1
		)
	`
	return r.listWithMembers(ctx, query, userID)
}

func (r *PgTeamRepository) Join(ctx context.Context, member domain.TeamMember) error {
	const query = `
		INSERT INTO team_member (id, user_id, team_id, role_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, member.ID, member.UserID, member.TeamID, member.RoleID)
	return err
}

func (r *PgTeamRepository) Leave(ctx context.Context, teamID, userID string) error {
	const query = `
		DELETE FROM team_member WHERE team_id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

func (r *PgTeamRepository) listWithMembers(ctx context.Context, query, arg string) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Creator); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		members, err := r.members(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}
	return teams, nil
}

func (r *PgTeamRepository) members(ctx context.Context, teamID string) ([]domain.User, error) {
	const query = `
		SELECT u.id, u.email, u.user_name, COALESCE(u.profile_image, ''), u.created_at
		FROM user_information u
		JOIN team_member tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.UserName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
