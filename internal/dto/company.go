package dto

// ── 公司（租户）模块 DTO ──

// CreateCompanyRequest 创建公司请求（平台管理员）
// 同时创建公司管理账号，返回临时密码
type CreateCompanyRequest struct {
	Name       string `json:"name"        binding:"required,min=2,max=200"`
	Email      string `json:"email"       binding:"required,email"`
	Phone      string `json:"phone"       binding:"omitempty,max=30"`
	AdminName  string `json:"admin_name"  binding:"required,min=2,max=100"`
	AdminEmail string `json:"admin_email" binding:"required,email"`
}

// CreateCompanyResponse 创建公司响应
type CreateCompanyResponse struct {
	Company      *CompanyResponse `json:"company"`
	AdminUser    *UserResponse    `json:"admin_user"`
	TempPassword string           `json:"temp_password"`
}

// UpdateCompanyRequest 更新公司请求
type UpdateCompanyRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=200"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
	IsActive *bool   `json:"is_active"`
}

// CompanyListRequest 公司列表查询参数
type CompanyListRequest struct {
	PaginationRequest
	Keyword         string `form:"keyword"          binding:"omitempty,max=100"`
	IncludeInactive bool   `form:"include_inactive"`
}
