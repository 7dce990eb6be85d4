package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhive/internal/domain"
)

// fakeRoleRepo implementa repository.RoleRepository en memoria.
type fakeRoleRepo struct {
	roles   map[string]domain.TeamRole // roleID -> role
	members map[string]string          // teamID|userID -> roleID
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:   make(map[string]domain.TeamRole),
		members: make(map[string]string),
	}
}

func memberKey(teamID, userID string) string { return teamID + "|" + userID }

func (f *fakeRoleRepo) addMember(teamID, userID, roleID string) {
	f.members[memberKey(teamID, userID)] = roleID
}

func (f *fakeRoleRepo) Get(_ context.Context, roleID string) (domain.TeamRole, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return domain.TeamRole{}, pgx.ErrNoRows
	}
	return role, nil
}

func (f *fakeRoleRepo) GetByTeamAndUser(_ context.Context, teamID, userID string) (domain.TeamRole, error) {
	roleID, ok := f.members[memberKey(teamID, userID)]
	if !ok {
		return domain.TeamRole{}, pgx.ErrNoRows
	}
	return f.roles[roleID], nil
}

func (f *fakeRoleRepo) GetLowestPriority(_ context.Context, teamID string) (domain.TeamRole, error) {
	var candidates []domain.TeamRole
	for _, role := range f.roles {
		if role.TeamID == teamID {
			candidates = append(candidates, role)
		}
	}
	if len(candidates) == 0 {
		return domain.TeamRole{}, pgx.ErrNoRows
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Priority > candidates[j].Priority })
	return candidates[0], nil
}

func (f *fakeRoleRepo) ListForTeam(_ context.Context, teamID string) ([]domain.TeamRole, error) {
	var roles []domain.TeamRole
	for _, role := range f.roles {
		if role.TeamID == teamID {
			roles = append(roles, role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Priority < roles[j].Priority })
	return roles, nil
}

func (f *fakeRoleRepo) Create(_ context.Context, role domain.TeamRole) (domain.TeamRole, error) {
	f.roles[role.ID] = role
	return role, nil
}

func (f *fakeRoleRepo) UpdateMemberRole(_ context.Context, roleID, userID string) (domain.TeamRole, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return domain.TeamRole{}, pgx.ErrNoRows
	}
	key := memberKey(role.TeamID, userID)
	if _, ok := f.members[key]; !ok {
		return domain.TeamRole{}, pgx.ErrNoRows
	}
	f.members[key] = roleID
	return role, nil
}

// seedTeam arma un equipo con los tres roles fijos y devuelve sus IDs.
func seedTeam(repo *fakeRoleRepo, teamID string) (admin, manager, member domain.TeamRole) {
	admin = domain.TeamRole{
		ID: teamID + "-admin", TeamID: teamID, Name: "Admin", Priority: 0,
		CanAddTask: true, CanAssignTask: true, CanApproveTask: true,
		CanInviteInTeam: true, CanCreateRoles: true,
	}
	manager = domain.TeamRole{
		ID: teamID + "-manager", TeamID: teamID, Name: "Manager", Priority: 1,
		CanAddTask: true, CanAssignTask: true, CanApproveTask: true,
		CanInviteInTeam: true, CanCreateRoles: true,
	}
	member = domain.TeamRole{
		ID: teamID + "-member", TeamID: teamID, Name: "Member", Priority: 2,
	}
	repo.roles[admin.ID] = admin
	repo.roles[manager.ID] = manager
	repo.roles[member.ID] = member
	return admin, manager, member
}

func TestAuthzRoleOf(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	svc := NewAuthzService(zap.NewNop(), repo)
	admin, _, _ := seedTeam(repo, "team-1")
	repo.addMember("team-1", "alice", admin.ID)

	t.Run("member role resolved", func(t *testing.T) {
		role, err := svc.RoleOf(ctx, "team-1", "alice")
		if err != nil {
			t.Fatalf("roleOf: %v", err)
		}
		if role.Name != "Admin" || role.Priority != 0 {
			t.Fatalf("unexpected role %+v", role)
		}
	})

	t.Run("non-member not found", func(t *testing.T) {
		if _, err := svc.RoleOf(ctx, "team-1", "mallory"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAuthzLowestPriorityRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	svc := NewAuthzService(zap.NewNop(), repo)
	seedTeam(repo, "team-1")

	role, err := svc.LowestPriorityRole(ctx, "team-1")
	if err != nil {
		t.Fatalf("lowestPriorityRole: %v", err)
	}
	if role.Name != "Member" || role.Priority != 2 {
		t.Fatalf("expected Member p2, got %+v", role)
	}

	if _, err := svc.LowestPriorityRole(ctx, "empty-team"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for team without roles, got %v", err)
	}
}

func TestAuthzRequireCapability(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	svc := NewAuthzService(zap.NewNop(), repo)
	admin, _, member := seedTeam(repo, "team-1")
	repo.addMember("team-1", "alice", admin.ID)
	repo.addMember("team-1", "bob", member.ID)

	if err := svc.RequireCapability(ctx, "team-1", "alice", domain.CapAddTask); err != nil {
		t.Fatalf("admin should add tasks: %v", err)
	}
	if err := svc.RequireCapability(ctx, "team-1", "bob", domain.CapAddTask); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.RequireCapability(ctx, "team-1", "mallory", domain.CapAddTask); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-member, got %v", err)
	}
}

func TestAuthzCanAssignPriorityDomination(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRoleRepo()
	svc := NewAuthzService(zap.NewNop(), repo)
	admin, manager, member := seedTeam(repo, "team-1")
	repo.addMember("team-1", "root", admin.ID)     // p0
	repo.addMember("team-1", "lead", manager.ID)   // p1
	repo.addMember("team-1", "junior", member.ID)  // p2

	t.Run("equal priority allowed", func(t *testing.T) {
		if err := svc.CanAssign(ctx, "team-1", "lead", "lead"); err != nil {
			t.Fatalf("p1 -> p1 should be allowed: %v", err)
		}
	})

	t.Run("lower authority target allowed", func(t *testing.T) {
		if err := svc.CanAssign(ctx, "team-1", "lead", "junior"); err != nil {
			t.Fatalf("p1 -> p2 should be allowed: %v", err)
		}
	})

	t.Run("higher authority target denied", func(t *testing.T) {
		if err := svc.CanAssign(ctx, "team-1", "lead", "root"); !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("p1 -> p0 expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("assigner without capability denied", func(t *testing.T) {
		if err := svc.CanAssign(ctx, "team-1", "junior", "junior"); !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})
}

func TestAuthzTransferRole(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeRoleRepo, *AuthzService, domain.TeamRole, domain.TeamRole, domain.TeamRole) {
		repo := newFakeRoleRepo()
		svc := NewAuthzService(zap.NewNop(), repo)
		admin, manager, member := seedTeam(repo, "team-1")
		repo.addMember("team-1", "alice", admin.ID)
		repo.addMember("team-1", "bob", member.ID)
		return repo, svc, admin, manager, member
	}

	t.Run("authorized caller promotes member", func(t *testing.T) {
		repo, svc, _, manager, _ := setup()

		role, err := svc.TransferRole(ctx, "alice", manager.ID, "bob")
		if err != nil {
			t.Fatalf("transferRole: %v", err)
		}
		if role.Name != "Manager" {
			t.Fatalf("expected Manager, got %+v", role)
		}
		if repo.members[memberKey("team-1", "bob")] != manager.ID {
			t.Fatalf("membership not updated")
		}
	})

	t.Run("caller without can_create_roles denied before commit", func(t *testing.T) {
		repo, svc, _, manager, member := setup()

		_, err := svc.TransferRole(ctx, "bob", manager.ID, "bob")
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
		// La mutación nunca se confirmó.
		if repo.members[memberKey("team-1", "bob")] != member.ID {
			t.Fatalf("membership mutated despite denial")
		}
	})

	t.Run("target outside the role team conflicts", func(t *testing.T) {
		_, svc, _, manager, _ := setup()

		if _, err := svc.TransferRole(ctx, "alice", manager.ID, "mallory"); !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("non-member caller denied", func(t *testing.T) {
		_, svc, _, manager, _ := setup()

		if _, err := svc.TransferRole(ctx, "mallory", manager.ID, "bob"); !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("unknown role not found", func(t *testing.T) {
		_, svc, _, _, _ := setup()

		if _, err := svc.TransferRole(ctx, "alice", "ghost-role", "bob"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
