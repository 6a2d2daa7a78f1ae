package model

import "time"

// 打卡记录派生状态
// 状态不落库：pending/checked_in/completed 由两个时间戳派生，
// cancelled 由公司侧显式设置的 CancelledAt 覆盖派生结果。
const (
	CheckStatusPending   = "pending"
	CheckStatusCheckedIn = "checked_in"
	CheckStatusCompleted = "completed"
	CheckStatusCancelled = "cancelled"
)

// CheckRecord 打卡记录表 — 对应 check_records
// 一条记录跟踪保洁员在单次服务预约中的到场/离场；
// professional_name 等为创建时的冗余快照，公司侧列表不做 JOIN。
type CheckRecord struct {
	CheckRecordID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"check_record_id"`
	CompanyID      string  `gorm:"type:uuid;not null"                             json:"company_id"`
	AppointmentID  string  `gorm:"type:uuid;not null"                             json:"appointment_id"`
	ProfessionalID string  `gorm:"type:uuid;not null"                             json:"professional_id"`
	CustomerID     string  `gorm:"type:uuid;not null"                             json:"customer_id"`
	TeamID         *string `gorm:"type:uuid"                                      json:"team_id,omitempty"`

	ProfessionalName string  `gorm:"type:varchar(100);not null" json:"professional_name"` // 冗余快照
	CustomerName     string  `gorm:"type:varchar(200);not null" json:"customer_name"`     // 冗余快照
	TeamName         *string `gorm:"type:varchar(100)"          json:"team_name,omitempty"`
	Address          string  `gorm:"type:varchar(500);not null" json:"address"`
	ServiceType      string  `gorm:"type:varchar(100);not null" json:"service_type"`

	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	CheckInNotes     string     `gorm:"type:varchar(1000)" json:"check_in_notes,omitempty"`
	CheckOutNotes    string     `gorm:"type:varchar(1000)" json:"check_out_notes,omitempty"`
	ServiceCompleted *bool      `json:"service_completed,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *string    `gorm:"type:uuid" json:"cancelled_by,omitempty"`

	// 照片证据按内容寻址存储，记录只持有 sha256 引用
	CheckInPhotoHash  *string `gorm:"type:varchar(64)" json:"check_in_photo_hash,omitempty"`
	CheckOutPhotoHash *string `gorm:"type:varchar(64)" json:"check_out_photo_hash,omitempty"`

	VersionedModel

	// 关联
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;references:AppointmentID" json:"appointment,omitempty"`
}

// TableName 指定表名
func (CheckRecord) TableName() string { return "check_records" }

// ── 状态派生与转换校验 ──
// 纯函数：不触库、不改状态。服务端写入前仍会在乐观锁保护下复查，
// 这里的判定供本层与调用方（按钮可用性）共用。

// Status 由时间戳派生记录状态，CancelledAt 覆盖派生结果
func (r *CheckRecord) Status() string {
	switch {
	case r.CancelledAt != nil:
		return CheckStatusCancelled
	case r.CheckInTime == nil:
		return CheckStatusPending
	case r.CheckOutTime == nil:
		return CheckStatusCheckedIn
	default:
		return CheckStatusCompleted
	}
}

// CanCheckIn 是否允许签到：尚未签到且未被取消
func (r *CheckRecord) CanCheckIn() bool {
	return r.CheckInTime == nil && r.CancelledAt == nil
}

// CanCheckOut 是否允许签退：已签到、尚未签退且未被取消
func (r *CheckRecord) CanCheckOut() bool {
	return r.CheckInTime != nil && r.CheckOutTime == nil && r.CancelledAt == nil
}

// IsTerminal 是否处于终态（completed / cancelled），终态不接受任何转换
func (r *CheckRecord) IsTerminal() bool {
	s := r.Status()
	return s == CheckStatusCompleted || s == CheckStatusCancelled
}

// Duration 在场时长；未完成时为 0
func (r *CheckRecord) Duration() time.Duration {
	if r.CheckInTime == nil || r.CheckOutTime == nil {
		return 0
	}
	return r.CheckOutTime.Sub(*r.CheckInTime)
}

// CheckStatusLabel 状态展示文案
func CheckStatusLabel(status string) string {
	switch status {
	case CheckStatusPending:
		return "Pending"
	case CheckStatusCheckedIn:
		return "Checked In"
	case CheckStatusCompleted:
		return "Completed"
	case CheckStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
