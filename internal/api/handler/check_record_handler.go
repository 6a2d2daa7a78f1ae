package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/service"
	pkgerrors "noah/backend/pkg/errors"
	"noah/backend/pkg/response"
)

// CheckRecordHandler 打卡记录模块 HTTP 处理器
//
// 错误分层约定：
//   - 业务规则拒绝（非法转换、越权、已取消）→ 400/403/404
//   - 并发冲突（乐观锁版本过期）→ 409
//   - 其余（DB、网络）→ 500
type CheckRecordHandler struct {
	checkSvc service.CheckService
}

// NewCheckRecordHandler 创建 CheckRecordHandler
func NewCheckRecordHandler(checkSvc service.CheckService) *CheckRecordHandler {
	return &CheckRecordHandler{checkSvc: checkSvc}
}

// CheckIn 保洁员签到
// POST /api/v1/check-records/check-in
func (h *CheckRecordHandler) CheckIn(c *gin.Context) {
	professionalID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.checkSvc.CheckIn(c.Request.Context(), companyID, professionalID, &req)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.OK(c, record)
}

// CheckOut 保洁员签退
// POST /api/v1/check-records/:id/check-out
func (h *CheckRecordHandler) CheckOut(c *gin.Context) {
	professionalID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.checkSvc.CheckOut(c.Request.Context(), companyID, professionalID, c.Param("id"), &req)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.OK(c, record)
}

// GetCurrent 保洁员当前状态（进行中的记录 + 当日待签到）
// GET /api/v1/check-records/current
func (h *CheckRecordHandler) GetCurrent(c *gin.Context) {
	professionalID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	status, err := h.checkSvc.GetCurrent(c.Request.Context(), professionalID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, status)
}

// ListMy 保洁员打卡历史
// GET /api/v1/check-records/my
func (h *CheckRecordHandler) ListMy(c *gin.Context) {
	professionalID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CheckRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.checkSvc.ListMy(c.Request.Context(), companyID, professionalID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// List 打卡记录列表（公司侧，支持搜索/状态/日期过滤）
// GET /api/v1/check-records
func (h *CheckRecordHandler) List(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CheckRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.checkSvc.List(c.Request.Context(), companyID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// Get 打卡记录详情
// GET /api/v1/check-records/:id
func (h *CheckRecordHandler) Get(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	record, err := h.checkSvc.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.OK(c, record)
}

// Create 公司手工为预约建档
// POST /api/v1/check-records
func (h *CheckRecordHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateCheckRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.checkSvc.Create(c.Request.Context(), companyID, &req, callerID)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.Created(c, record)
}

// Update 公司修正打卡记录（需携带版本号）
// PUT /api/v1/check-records/:id
func (h *CheckRecordHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	var req dto.UpdateCheckRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	record, err := h.checkSvc.Update(c.Request.Context(), companyID, c.Param("id"), &req, callerID)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.OK(c, record)
}

// Cancel 公司取消打卡记录
// POST /api/v1/check-records/:id/cancel
func (h *CheckRecordHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	record, err := h.checkSvc.Cancel(c.Request.Context(), companyID, c.Param("id"), callerID)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.OK(c, record)
}

// Delete 删除打卡记录（软删除）
// DELETE /api/v1/check-records/:id
func (h *CheckRecordHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	if err := h.checkSvc.Delete(c.Request.Context(), companyID, c.Param("id"), callerID); err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.NoContent(c)
}

// GetPhoto 按内容哈希取回打卡照片
// GET /api/v1/check-records/photos/:hash
func (h *CheckRecordHandler) GetPhoto(c *gin.Context) {
	companyID, ok := MustGetCompanyID(c)
	if !ok {
		return
	}

	photo, err := h.checkSvc.GetPhoto(c.Request.Context(), companyID, c.Param("hash"))
	if err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			response.NotFound(c, 18001, "照片不存在")
			return
		}
		response.InternalError(c)
		return
	}

	// 内容寻址，照片不可变，可长期缓存
	c.Header("Cache-Control", "private, max-age=31536000, immutable")
	c.Data(http.StatusOK, photo.MimeType, photo.Data)
}

// writeCheckError 打卡模块业务错误 → HTTP 响应
func (h *CheckRecordHandler) writeCheckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCheckRecordNotFound):
		response.NotFound(c, 17001, "打卡记录不存在")
	case errors.Is(err, service.ErrCheckRecordExists):
		response.Conflict(c, 17002, "该预约已有打卡记录")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.BadRequest(c, 17003, "已签到，不能重复签到")
	case errors.Is(err, service.ErrNotCheckedIn):
		response.BadRequest(c, 17004, "尚未签到，不能签退")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.BadRequest(c, 17005, "已签退，不能重复签退")
	case errors.Is(err, service.ErrCheckRecordCancelled):
		response.BadRequest(c, 17006, "记录已取消")
	case errors.Is(err, service.ErrCheckRecordTerminal):
		response.BadRequest(c, 17007, "记录已处于终态")
	case errors.Is(err, service.ErrNotRecordOwner):
		response.Forbidden(c, 17008, "只有被分派的保洁员可以执行打卡")
	case errors.Is(err, service.ErrInvalidCheckTimes):
		response.BadRequest(c, 17009, "签到签退时间不合法")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17010, "数据已被他人修改，请刷新后重试")
	case errors.Is(err, service.ErrAppointmentNotFound):
		response.NotFound(c, 16001, "预约不存在")
	case errors.Is(err, service.ErrAppointmentCancelled):
		response.BadRequest(c, 16002, "预约已取消")
	case errors.Is(err, service.ErrProfessionalInvalid):
		response.BadRequest(c, 16003, "保洁员不存在或不属于本公司")
	case errors.Is(err, service.ErrPhotoInvalid):
		response.BadRequest(c, 18002, "照片数据无效")
	case errors.Is(err, service.ErrPhotoTooLarge):
		response.BadRequest(c, 18003, "照片超过大小限制")
	default:
		response.InternalError(c)
	}
}
