package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
	"github.com/workbenchflow/workbench-api/internal/utils"
)

// ProjectHandler serves projects, memberships and roles.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(middleware.GetUserID(c), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		LogoID:      req.LogoID,
	})
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, err := h.projectService.List(params.Offset, params.Limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(projects),
		"page":     params.Page,
		"limit":    params.Limit,
	})
}

// ListMyProjects handles GET /projects/my
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	projects, err := h.projectService.ListMine(middleware.GetUserID(c))
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	project, err := h.projectService.Get(projectID, middleware.GetUserID(c))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject handles PATCH /projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(projectID, middleware.GetUserID(c), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		LogoID:      req.LogoID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.projectService.Delete(projectID, middleware.GetUserID(c)); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// AddMember handles POST /projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(projectID, middleware.GetUserID(c), req.MemberID, req.AccessLevel)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// ListMembers handles GET /projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	members, err := h.projectService.ListMembers(projectID, middleware.GetUserID(c))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(members)})
}

// UpdateMember handles PATCH /projects/:id/members/:memberId
func (h *ProjectHandler) UpdateMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.UpdateMember(projectID, middleware.GetUserID(c), memberID, services.UpdateMemberInput{
		AccessLevel: req.AccessLevel,
		RoleID:      req.RoleID,
		ClearRole:   req.ClearRole,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectMemberDTO(*member))
}

// RemoveMember handles DELETE /projects/:id/members/:memberId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		return
	}

	if err := h.projectService.RemoveMember(projectID, middleware.GetUserID(c), memberID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// CreateRole handles POST /projects/:id/roles
func (h *ProjectHandler) CreateRole(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.projectService.CreateRole(projectID, middleware.GetUserID(c), services.CreateRoleInput{
		RoleName: req.RoleName,
		Rate:     req.Rate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectRoleDTO(*role))
}

// ListRoles handles GET /projects/:id/roles
func (h *ProjectHandler) ListRoles(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	roles, err := h.projectService.ListRoles(projectID, middleware.GetUserID(c))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": dto.ToProjectRoleDTOs(roles)})
}

// UpdateRole handles PATCH /projects/:id/roles/:roleId
func (h *ProjectHandler) UpdateRole(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	roleID, err := parseIDParam(c, "roleId")
	if err != nil {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.projectService.UpdateRole(projectID, middleware.GetUserID(c), roleID, services.UpdateRoleInput{
		RoleName: req.RoleName,
		Rate:     req.Rate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectRoleDTO(*role))
}

// DeleteRole handles DELETE /projects/:id/roles/:roleId
func (h *ProjectHandler) DeleteRole(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	roleID, err := parseIDParam(c, "roleId")
	if err != nil {
		return
	}

	if err := h.projectService.DeleteRole(projectID, middleware.GetUserID(c), roleID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// respondProjectError maps project service errors to HTTP responses.
// Shared by the group, task, mark, comment, pin and file handlers for
// the access errors they surface.
func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apperrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrMemberNotFound):
		apperrors.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrRoleNotFound), errors.Is(err, services.ErrRoleProjectMismatch):
		apperrors.NotFound(c, "Role not found")
	case errors.Is(err, services.ErrUserNotFound):
		apperrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrNotProjectMember), errors.Is(err, services.ErrNotProjectAdmin):
		apperrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotModifyOwner), errors.Is(err, services.ErrCannotRemoveSelf):
		apperrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apperrors.Conflict(c, err.Error())
	default:
		apperrors.InternalError(c, "")
	}
}
