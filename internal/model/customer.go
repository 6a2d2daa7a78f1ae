package model

// Customer 客户表 — 对应 customers
type Customer struct {
	CustomerID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"customer_id"`
	CompanyID  string `gorm:"type:uuid;not null"                             json:"company_id"`
	Name       string `gorm:"type:varchar(200);not null"                     json:"name"`
	Email      string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone      string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Address    string `gorm:"type:varchar(500);not null"                     json:"address"`
	Notes      string `gorm:"type:varchar(1000)"                             json:"notes,omitempty"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Customer) TableName() string { return "customers" }
