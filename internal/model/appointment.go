package model

import "time"

// 预约状态
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment 服务预约表 — 对应 appointments
// 到场/完成进度不落在预约上，由对应的 CheckRecord 派生。
type Appointment struct {
	AppointmentID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"appointment_id"`
	CompanyID       string    `gorm:"type:uuid;not null"                             json:"company_id"`
	CustomerID      string    `gorm:"type:uuid;not null"                             json:"customer_id"`
	ProfessionalID  *string   `gorm:"type:uuid"                                      json:"professional_id,omitempty"`
	TeamID          *string   `gorm:"type:uuid"                                      json:"team_id,omitempty"`
	ServiceType     string    `gorm:"type:varchar(100);not null"                     json:"service_type"`
	Address         string    `gorm:"type:varchar(500);not null"                     json:"address"`
	ScheduledAt     time.Time `gorm:"not null"                                       json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null;default:120"                           json:"duration_minutes"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | cancelled
	Notes           string    `gorm:"type:varchar(1000)"                             json:"notes,omitempty"`
	VersionedModel

	// 关联
	Customer     *Customer `gorm:"foreignKey:CustomerID;references:CustomerID"   json:"customer,omitempty"`
	Professional *User     `gorm:"foreignKey:ProfessionalID;references:UserID"   json:"professional,omitempty"`
	Team         *Team     `gorm:"foreignKey:TeamID;references:TeamID"           json:"team,omitempty"`
}

// TableName 指定表名
func (Appointment) TableName() string { return "appointments" }
