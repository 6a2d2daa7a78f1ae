package dto

import (
	"time"

	"noah/backend/internal/model"
)

// ── 打卡记录模块 DTO ──

// CheckInRequest 保洁员签到请求
type CheckInRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
	Notes         string `json:"notes"          binding:"omitempty,max=1000"`
	PhotoBase64   string `json:"photo_base64"   binding:"omitempty"`
}

// CheckOutRequest 保洁员签退请求
type CheckOutRequest struct {
	Notes            string `json:"notes"             binding:"omitempty,max=1000"`
	ServiceCompleted *bool  `json:"service_completed"`
	PhotoBase64      string `json:"photo_base64"      binding:"omitempty"`
}

// CreateCheckRecordRequest 公司侧手工创建打卡记录请求
type CreateCheckRecordRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

// UpdateCheckRecordRequest 公司侧修正打卡记录请求
// 任意字段编辑，不经过转换校验；乐观锁版本必填
type UpdateCheckRecordRequest struct {
	CheckInTime      *time.Time `json:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time"`
	CheckInNotes     *string    `json:"check_in_notes"    binding:"omitempty,max=1000"`
	CheckOutNotes    *string    `json:"check_out_notes"   binding:"omitempty,max=1000"`
	ServiceCompleted *bool      `json:"service_completed"`
	Version          int        `json:"version"           binding:"required,min=1"`
}

// CheckRecordListRequest 打卡记录列表查询参数
// Search 在 customer_name / address / service_type 三个字段上做大小写不敏感子串匹配
type CheckRecordListRequest struct {
	PaginationRequest
	Search         string `form:"search"          binding:"omitempty,max=100"`
	Status         string `form:"status"          binding:"omitempty,oneof=all pending checked_in completed cancelled"`
	ServiceType    string `form:"service_type"    binding:"omitempty,max=100"`
	ProfessionalID string `form:"professional_id" binding:"omitempty,uuid"`
	From           string `form:"from"            binding:"omitempty,datetime=2006-01-02"`
	To             string `form:"to"              binding:"omitempty,datetime=2006-01-02"`
}

// CheckRecordResponse 打卡记录响应
// status 为服务端派生值，客户端不应再自行推导
type CheckRecordResponse struct {
	ID                string     `json:"id"`
	AppointmentID     string     `json:"appointment_id"`
	ProfessionalID    string     `json:"professional_id"`
	ProfessionalName  string     `json:"professional_name"`
	CustomerID        string     `json:"customer_id"`
	CustomerName      string     `json:"customer_name"`
	TeamID            *string    `json:"team_id,omitempty"`
	TeamName          *string    `json:"team_name,omitempty"`
	Address           string     `json:"address"`
	ServiceType       string     `json:"service_type"`
	Status            string     `json:"status"`
	StatusLabel       string     `json:"status_label"`
	CheckInTime       *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CheckInNotes      string     `json:"check_in_notes,omitempty"`
	CheckOutNotes     string     `json:"check_out_notes,omitempty"`
	ServiceCompleted  *bool      `json:"service_completed,omitempty"`
	DurationMinutes   int        `json:"duration_minutes"`
	CheckInPhotoHash  *string    `json:"check_in_photo_hash,omitempty"`
	CheckOutPhotoHash *string    `json:"check_out_photo_hash,omitempty"`
	Version           int        `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CurrentStatusResponse 保洁员当前状态视图
// Current 为进行中的记录（已签到未签退），没有则为 nil；
// Pending 为当日尚未签到的记录
type CurrentStatusResponse struct {
	Current *CheckRecordResponse  `json:"current,omitempty"`
	Pending []CheckRecordResponse `json:"pending"`
}

// NewCheckRecordResponse 由模型构造响应，状态在此处唯一派生
func NewCheckRecordResponse(r *model.CheckRecord) *CheckRecordResponse {
	status := r.Status()
	return &CheckRecordResponse{
		ID:                r.CheckRecordID,
		AppointmentID:     r.AppointmentID,
		ProfessionalID:    r.ProfessionalID,
		ProfessionalName:  r.ProfessionalName,
		CustomerID:        r.CustomerID,
		CustomerName:      r.CustomerName,
		TeamID:            r.TeamID,
		TeamName:          r.TeamName,
		Address:           r.Address,
		ServiceType:       r.ServiceType,
		Status:            status,
		StatusLabel:       model.CheckStatusLabel(status),
		CheckInTime:       r.CheckInTime,
		CheckOutTime:      r.CheckOutTime,
		CheckInNotes:      r.CheckInNotes,
		CheckOutNotes:     r.CheckOutNotes,
		ServiceCompleted:  r.ServiceCompleted,
		DurationMinutes:   int(r.Duration().Minutes()),
		CheckInPhotoHash:  r.CheckInPhotoHash,
		CheckOutPhotoHash: r.CheckOutPhotoHash,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
	}
}
