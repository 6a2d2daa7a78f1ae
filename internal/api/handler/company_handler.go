package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	pkgerrors "noah/backend/pkg/errors"
	"noah/backend/pkg/response"
)

// CompanyHandler 公司（租户）模块 HTTP 处理器，仅平台管理员可用
type CompanyHandler struct {
	companySvc service.CompanyService
}

// NewCompanyHandler 创建 CompanyHandler
func NewCompanyHandler(companySvc service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companySvc: companySvc}
}

// Create 创建公司（同时创建公司管理员账号）
// POST /api/v1/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.companySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.Conflict(c, 12002, "邮箱已被使用")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 公司详情
// GET /api/v1/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.NotFound(c, 12001, "公司不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, company)
}

// List 公司列表
// GET /api/v1/companies
func (h *CompanyHandler) List(c *gin.Context) {
	var req dto.CompanyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	companies, total, err := h.companySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, companies, total, req.GetPage(), req.GetPageSize())
}

// Update 更新公司
// PUT /api/v1/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	company, err := h.companySvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			response.NotFound(c, 12001, "公司不存在")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 12003, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, company)
}

// Delete 删除公司（软删除）
// DELETE /api/v1/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.companySvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.NotFound(c, 12001, "公司不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
