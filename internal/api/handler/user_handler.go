package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	"noah/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
// 平台管理员可跨公司操作，公司账号只能操作本公司用户
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func callerContext(c *gin.Context) (callerID, callerRole, callerCompanyID string, ok bool) {
	if callerID, ok = MustGetUserID(c); !ok {
		return
	}
	if callerRole, ok = MustGetRole(c); !ok {
		return
	}
	callerCompanyID, ok = MustGetCompanyID(c)
	return
}

// Create 创建用户
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	callerID, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.CreateUser(c.Request.Context(), &req, callerID, callerRole, callerCompanyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.Conflict(c, 13002, "邮箱已被使用")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 13004, "无权操作")
		case errors.Is(err, service.ErrCompanyNotFound):
			response.NotFound(c, 12001, "公司不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Get 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	_, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"), callerRole, callerCompanyID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 13001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// List 用户列表
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	_, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req, callerRole, callerCompanyID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Update 更新用户
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	callerID, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID, callerRole, callerCompanyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 13001, "用户不存在")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 13004, "无权操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// Delete 删除用户（软删除）
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID, callerRole, callerCompanyID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 13001, "用户不存在")
		case errors.Is(err, service.ErrUserSelfDelete):
			response.BadRequest(c, 13003, "不能删除自己")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 13004, "无权操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.NoContent(c)
}

// ResetPassword 重置用户密码
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	callerID, callerRole, callerCompanyID, ok := callerContext(c)
	if !ok {
		return
	}

	result, err := h.userSvc.ResetPassword(c.Request.Context(), c.Param("id"), callerID, callerRole, callerCompanyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 13001, "用户不存在")
		case errors.Is(err, service.ErrNoPermission):
			response.Forbidden(c, 13004, "无权操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
