package dto

// ── 客户模块 DTO ──

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	Name    string `json:"name"    binding:"required,min=2,max=200"`
	Email   string `json:"email"   binding:"omitempty,email"`
	Phone   string `json:"phone"   binding:"omitempty,max=30"`
	Address string `json:"address" binding:"required,max=500"`
	Notes   string `json:"notes"   binding:"omitempty,max=1000"`
}

// UpdateCustomerRequest 更新客户请求
type UpdateCustomerRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=200"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
	Address  *string `json:"address"   binding:"omitempty,max=500"`
	Notes    *string `json:"notes"     binding:"omitempty,max=1000"`
	IsActive *bool   `json:"is_active"`
}

// CustomerListRequest 客户列表查询参数
type CustomerListRequest struct {
	PaginationRequest
	Keyword         string `form:"keyword"          binding:"omitempty,max=100"`
	IncludeInactive bool   `form:"include_inactive"`
}

// CustomerResponse 客户信息响应
type CustomerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address"`
	Notes    string `json:"notes,omitempty"`
	IsActive bool   `json:"is_active"`
}
