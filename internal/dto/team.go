package dto

// ── 团队模块 DTO ──

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateTeamRequest 更新团队请求
type UpdateTeamRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	IsActive *bool   `json:"is_active"`
}

// SetTeamMembersRequest 设置团队成员请求（整体替换）
type SetTeamMembersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,dive,uuid"`
}

// TeamListRequest 团队列表查询参数
type TeamListRequest struct {
	PaginationRequest
	IncludeInactive bool `form:"include_inactive"`
}

// TeamResponse 团队信息响应
type TeamResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	IsActive bool           `json:"is_active"`
	Members  []UserResponse `json:"members,omitempty"`
}
