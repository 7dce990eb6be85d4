package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhive/internal/domain"
	"taskhive/internal/service"
)

// TeamHandler mantiene dependencias para endpoints de equipos.
type TeamHandler struct {
	logger   *zap.Logger
	teamServ *service.TeamService
	authz    *service.AuthzService
}

func NewTeamHandler(logger *zap.Logger, teamServ *service.TeamService, authz *service.AuthzService) *TeamHandler {
	return &TeamHandler{
		logger:   logger,
		teamServ: teamServ,
		authz:    authz,
	}
}

type memberView struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Role     string `json:"role"`
}

func (h *TeamHandler) teamView(ctx context.Context, team domain.Team) gin.H {
	members := make([]memberView, 0, len(team.Members))
	for _, m := range team.Members {
		view := memberView{ID: m.ID, UserName: m.UserName}
		if role, err := h.authz.RoleOf(ctx, team.ID, m.ID); err == nil {
			view.Role = role.Name
		}
		members = append(members, view)
	}
	return gin.H{
		"id":          team.ID,
		"name":        team.Name,
		"description": team.Description,
		"creator":     team.Creator,
		"members":     members,
	}
}

func (h *TeamHandler) teamViews(ctx context.Context, teams []domain.Team) []gin.H {
	views := make([]gin.H, 0, len(teams))
	for _, t := range teams {
		views = append(views, h.teamView(ctx, t))
	}
	return views
}

// Create maneja POST /teams.
func (h *TeamHandler) Create(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	team, err := h.teamServ.CreateTeam(c.Request.Context(), principalID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "team successfully created", "team_id": team.ID})
}

// Get maneja GET /teams/:id.
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.teamServ.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.teamView(c.Request.Context(), team))
}

// ListMine maneja GET /teams.
func (h *TeamHandler) ListMine(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	teams, err := h.teamServ.ListUserTeams(c.Request.Context(), principalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": h.teamViews(c.Request.Context(), teams)})
}

// ListJoinable maneja GET /teams/joinable.
func (h *TeamHandler) ListJoinable(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	teams, err := h.teamServ.ListJoinable(c.Request.Context(), principalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": h.teamViews(c.Request.Context(), teams)})
}

// Join maneja POST /teams/:id/join. El nuevo miembro recibe siempre el rol
// de menor autoridad del equipo.
func (h *TeamHandler) Join(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	role, err := h.teamServ.JoinTeam(c.Request.Context(), principalID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully joined to team", "role": role.Name})
}

// Leave maneja POST /teams/:id/leave.
func (h *TeamHandler) Leave(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	if err := h.teamServ.LeaveTeam(c.Request.Context(), principalID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left team"})
}

// ListRoles maneja GET /teams/:id/roles.
func (h *TeamHandler) ListRoles(c *gin.Context) {
	roles, err := h.teamServ.ListRoles(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// CreateRole maneja POST /teams/:id/roles; requiere can_create_roles.
func (h *TeamHandler) CreateRole(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Name            string `json:"name" binding:"required"`
		Priority        int    `json:"priority" binding:"min=1"`
		CanAddTask      bool   `json:"can_add_task"`
		CanAssignTask   bool   `json:"can_assign_task"`
		CanApproveTask  bool   `json:"can_approve_task"`
		CanInviteInTeam bool   `json:"can_invite_in_team"`
		CanCreateRoles  bool   `json:"can_create_roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, err := h.teamServ.CreateRole(c.Request.Context(), principalID, domain.TeamRole{
		TeamID:          c.Param("id"),
		Name:            req.Name,
		Priority:        req.Priority,
		CanAddTask:      req.CanAddTask,
		CanAssignTask:   req.CanAssignTask,
		CanApproveTask:  req.CanApproveTask,
		CanInviteInTeam: req.CanInviteInTeam,
		CanCreateRoles:  req.CanCreateRoles,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"role": role})
}

// ChangeMemberRole maneja PUT /roles/member. La autoridad del llamador se
// verifica antes de confirmar la mutación.
func (h *TeamHandler) ChangeMemberRole(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		RoleID string `json:"role_id" binding:"required,uuid"`
		UserID string `json:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, err := h.teamServ.ChangeMemberRole(c.Request.Context(), principalID, req.RoleID, req.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}
