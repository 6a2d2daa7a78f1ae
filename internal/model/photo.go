package model

import "time"

// Photo 打卡照片表 — 对应 photos
// 按内容寻址：主键为图片字节的 sha256 十六进制摘要，
// 同一公司重复上传相同图片只存一份。
type Photo struct {
	PhotoHash string    `gorm:"type:varchar(64);primaryKey"        json:"photo_hash"`
	CompanyID string    `gorm:"type:uuid;not null"                 json:"company_id"`
	MimeType  string    `gorm:"type:varchar(100);not null"         json:"mime_type"`
	SizeBytes int64     `gorm:"not null"                           json:"size_bytes"`
	Data      []byte    `gorm:"type:bytea;not null"                json:"-"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Photo) TableName() string { return "photos" }
