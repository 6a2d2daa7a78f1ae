package model

// Team 保洁团队表 — 对应 teams
type Team struct {
	TeamID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	CompanyID string `gorm:"type:uuid;not null"                             json:"company_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联：团队成员（保洁员）
	Members []User `gorm:"many2many:team_members;foreignKey:TeamID;joinForeignKey:TeamID;references:UserID;joinReferences:UserID" json:"members,omitempty"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }
