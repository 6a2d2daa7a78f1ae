package model

// 用户角色
const (
	RoleAdmin        = "admin"        // 平台管理员
	RoleCompany      = "company"      // 公司（租户）账号
	RoleProfessional = "professional" // 保洁员
)

// User 用户表 — 对应 users
// 平台管理员不属于任何公司（CompanyID 为 nil），其余角色必有租户归属。
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"user_id"`
	Name               string  `gorm:"type:varchar(100);not null"                          json:"name"`
	Email              string  `gorm:"type:varchar(255);not null"                          json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                          json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'professional'"    json:"role"`
	CompanyID          *string `gorm:"type:uuid"                                           json:"company_id,omitempty"`
	Phone              string  `gorm:"type:varchar(30)"                                    json:"phone,omitempty"`
	MustChangePassword bool    `gorm:"not null;default:false"                              json:"must_change_password"`
	VersionedModel

	// 关联
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
