package repository

import (
	"strings"

	"gorm.io/gorm"
)

// escapeLike 转义 LIKE/ILIKE 模式元字符，使搜索词按字面量匹配
// （Postgres 默认转义符为反斜杠）
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Company     CompanyRepository
	User        UserRepository
	Customer    CustomerRepository
	Team        TeamRepository
	Appointment AppointmentRepository
	CheckRecord CheckRecordRepository
	Photo       PhotoRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Company:     NewCompanyRepo(db),
		User:        NewUserRepo(db),
		Customer:    NewCustomerRepo(db),
		Team:        NewTeamRepo(db),
		Appointment: NewAppointmentRepo(db),
		CheckRecord: NewCheckRecordRepo(db),
		Photo:       NewPhotoRepo(db),
	}
}
