package handler

import "noah/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Company     *CompanyHandler
	User        *UserHandler
	Customer    *CustomerHandler
	Team        *TeamHandler
	Appointment *AppointmentHandler
	Check       *CheckRecordHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Company:     NewCompanyHandler(svc.Company),
		User:        NewUserHandler(svc.User),
		Customer:    NewCustomerHandler(svc.Customer),
		Team:        NewTeamHandler(svc.Team),
		Appointment: NewAppointmentHandler(svc.Appointment),
		Check:       NewCheckRecordHandler(svc.Check),
		Export:      NewExportHandler(svc.Export),
	}
}
