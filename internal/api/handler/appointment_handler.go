package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	pkgerrors "noah/backend/pkg/errors"
	"noah/backend/pkg/response"
)

// AppointmentHandler 预约模块 HTTP 处理器
type AppointmentHandler struct {
	appointmentSvc service.AppointmentService
}

// NewAppointmentHandler 创建 AppointmentHandler
func NewAppointmentHandler(appointmentSvc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentSvc: appointmentSvc}
}

// Create 创建预约
// POST /api/v1/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	appointment, err := h.appointmentSvc.Create(c.Request.Context(), companyID, &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			response.NotFound(c, 14001, "客户不存在")
		case errors.Is(err, service.ErrProfessionalInvalid):
			response.BadRequest(c, 16003, "保洁员不存在或不属于本公司")
		case errors.Is(err, service.ErrTeamNotFound):
			response.NotFound(c, 15001, "团队不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, appointment)
}

// Get 预约详情
// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	appointment, err := h.appointmentSvc.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			response.NotFound(c, 16001, "预约不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, appointment)
}

// List 预约列表（公司侧）
// GET /api/v1/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	appointments, total, err := h.appointmentSvc.List(c.Request.Context(), companyID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, appointments, total, req.GetPage(), req.GetPageSize())
}

// ListMy 保洁员查看分派给自己的预约
// GET /api/v1/appointments/my
func (h *AppointmentHandler) ListMy(c *gin.Context) {
	professionalID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	appointments, total, err := h.appointmentSvc.ListMy(c.Request.Context(), companyID, professionalID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, appointments, total, req.GetPage(), req.GetPageSize())
}

// Update 更新预约
// PUT /api/v1/appointments/:id
func (h *AppointmentHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	appointment, err := h.appointmentSvc.Update(c.Request.Context(), companyID, c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFound(c, 16001, "预约不存在")
		case errors.Is(err, service.ErrAppointmentCancelled):
			response.BadRequest(c, 16002, "预约已取消")
		case errors.Is(err, service.ErrCustomerNotFound):
			response.NotFound(c, 14001, "客户不存在")
		case errors.Is(err, service.ErrProfessionalInvalid):
			response.BadRequest(c, 16003, "保洁员不存在或不属于本公司")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 16004, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, appointment)
}

// Cancel 取消预约
// POST /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.appointmentSvc.Cancel(c.Request.Context(), companyID, c.Param("id"), callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFound(c, 16001, "预约不存在")
		case errors.Is(err, service.ErrAppointmentCancelled):
			response.BadRequest(c, 16002, "预约已取消")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 16004, "数据已被他人修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Delete 删除预约（软删除）
// DELETE /api/v1/appointments/:id
func (h *AppointmentHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.appointmentSvc.Delete(c.Request.Context(), companyID, c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			response.NotFound(c, 16001, "预约不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}

// Import 从 iCalendar 批量导入预约
// POST /api/v1/appointments/import
func (h *AppointmentHandler) Import(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.ImportAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.appointmentSvc.ImportICS(c.Request.Context(), companyID, &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrICSInvalid) {
			response.BadRequest(c, 16005, "iCalendar 内容无法解析")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
