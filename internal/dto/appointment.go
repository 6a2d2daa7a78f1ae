package dto

import "time"

// ── 预约模块 DTO ──

// CreateAppointmentRequest 创建预约请求
type CreateAppointmentRequest struct {
	CustomerID      string    `json:"customer_id"      binding:"required,uuid"`
	ProfessionalID  *string   `json:"professional_id"  binding:"omitempty,uuid"`
	TeamID          *string   `json:"team_id"          binding:"omitempty,uuid"`
	ServiceType     string    `json:"service_type"     binding:"required,max=100"`
	Address         string    `json:"address"          binding:"omitempty,max=500"` // 缺省取客户地址
	ScheduledAt     time.Time `json:"scheduled_at"     binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=15,max=1440"`
	Notes           string    `json:"notes"            binding:"omitempty,max=1000"`
}

// UpdateAppointmentRequest 更新预约请求
type UpdateAppointmentRequest struct {
	CustomerID      *string    `json:"customer_id"      binding:"omitempty,uuid"`
	ProfessionalID  *string    `json:"professional_id"  binding:"omitempty,uuid"`
	TeamID          *string    `json:"team_id"          binding:"omitempty,uuid"`
	ServiceType     *string    `json:"service_type"     binding:"omitempty,max=100"`
	Address         *string    `json:"address"          binding:"omitempty,max=500"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=15,max=1440"`
	Notes           *string    `json:"notes"            binding:"omitempty,max=1000"`
}

// AppointmentListRequest 预约列表查询参数
type AppointmentListRequest struct {
	PaginationRequest
	CustomerID     string `form:"customer_id"     binding:"omitempty,uuid"`
	ProfessionalID string `form:"professional_id" binding:"omitempty,uuid"`
	Status         string `form:"status"          binding:"omitempty,oneof=scheduled cancelled"`
	From           string `form:"from"            binding:"omitempty,datetime=2006-01-02"`
	To             string `form:"to"              binding:"omitempty,datetime=2006-01-02"`
}

// AppointmentResponse 预约信息响应
type AppointmentResponse struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name,omitempty"`
	ProfessionalID  *string   `json:"professional_id,omitempty"`
	TeamID          *string   `json:"team_id,omitempty"`
	ServiceType     string    `json:"service_type"`
	Address         string    `json:"address"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
}

// ── iCalendar 导入 ──

// ImportAppointmentsRequest ICS 导入请求
// ics 内容整体作为字符串提交；客户匹配不到时逐行报错
type ImportAppointmentsRequest struct {
	ICS             string  `json:"ics"              binding:"required"`
	ProfessionalID  *string `json:"professional_id"  binding:"omitempty,uuid"`
	TeamID          *string `json:"team_id"          binding:"omitempty,uuid"`
	DefaultService  string  `json:"default_service"  binding:"omitempty,max=100"`
	DurationMinutes int     `json:"duration_minutes" binding:"omitempty,min=15,max=1440"`
}

// ImportAppointmentsResponse ICS 导入响应
type ImportAppointmentsResponse struct {
	Total   int                      `json:"total"`
	Success int                      `json:"success"`
	Failed  int                      `json:"failed"`
	Errors  []ImportAppointmentError `json:"errors,omitempty"`
}

// ImportAppointmentError 导入错误详情
type ImportAppointmentError struct {
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
}
