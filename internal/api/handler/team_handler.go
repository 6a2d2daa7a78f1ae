package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	"noah/backend/pkg/response"
)

// TeamHandler 团队模块 HTTP 处理器（公司租户内）
type TeamHandler struct {
	teamSvc service.TeamService
}

// NewTeamHandler 创建 TeamHandler
func NewTeamHandler(teamSvc service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// Create 创建团队
// POST /api/v1/teams
func (h *TeamHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	team, err := h.teamSvc.Create(c.Request.Context(), companyID, &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, team)
}

// Get 团队详情
// GET /api/v1/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			response.NotFound(c, 15001, "团队不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, team)
}

// List 团队列表
// GET /api/v1/teams
func (h *TeamHandler) List(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.TeamListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teams, total, err := h.teamSvc.List(c.Request.Context(), companyID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, teams, total, req.GetPage(), req.GetPageSize())
}

// Update 更新团队
// PUT /api/v1/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	team, err := h.teamSvc.Update(c.Request.Context(), companyID, c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			response.NotFound(c, 15001, "团队不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, team)
}

// SetMembers 设置团队成员（全量替换）
// PUT /api/v1/teams/:id/members
func (h *TeamHandler) SetMembers(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.SetTeamMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	team, err := h.teamSvc.SetMembers(c.Request.Context(), companyID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.NotFound(c, 15001, "团队不存在")
		case errors.Is(err, service.ErrMemberNotEligible):
			response.BadRequest(c, 15002, "成员必须是本公司的保洁员")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, team)
}

// Delete 删除团队（软删除）
// DELETE /api/v1/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.teamSvc.Delete(c.Request.Context(), companyID, c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			response.NotFound(c, 15001, "团队不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
