package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
// 公司账号只能创建本公司的保洁员；平台管理员可指定 company_id
type CreateUserRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Email     string `json:"email"      binding:"required,email"`
	Role      string `json:"role"       binding:"required,oneof=company professional"`
	Phone     string `json:"phone"      binding:"omitempty,max=30"`
	CompanyID string `json:"company_id" binding:"omitempty,uuid"`
}

// CreateUserResponse 创建用户响应（含临时密码）
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=30"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin company professional"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}
