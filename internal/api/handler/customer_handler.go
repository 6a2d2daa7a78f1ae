package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	"noah/backend/pkg/response"
)

// CustomerHandler 客户模块 HTTP 处理器（公司租户内）
type CustomerHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHandler 创建 CustomerHandler
func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

// Create 创建客户
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customer, err := h.customerSvc.Create(c.Request.Context(), companyID, &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, customer)
}

// Get 客户详情
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	customer, err := h.customerSvc.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			response.NotFound(c, 14001, "客户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, customer)
}

// List 客户列表
// GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customers, total, err := h.customerSvc.List(c.Request.Context(), companyID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, customers, total, req.GetPage(), req.GetPageSize())
}

// Update 更新客户
// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	customer, err := h.customerSvc.Update(c.Request.Context(), companyID, c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			response.NotFound(c, 14001, "客户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, customer)
}

// Delete 删除客户（软删除）
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.customerSvc.Delete(c.Request.Context(), companyID, c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			response.NotFound(c, 14001, "客户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}
