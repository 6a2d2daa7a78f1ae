package service

import (
	"go.uber.org/zap"

	"noah/backend/config"
	"noah/backend/internal/repository"
	"noah/backend/pkg/jwt"
	"noah/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Company     CompanyService
	User        UserService
	Customer    CustomerService
	Team        TeamService
	Appointment AppointmentService
	Check       CheckService
	Export      ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Company:     NewCompanyService(repo, logger),
		User:        NewUserService(repo, logger),
		Customer:    NewCustomerService(repo, logger),
		Team:        NewTeamService(repo, logger),
		Appointment: NewAppointmentService(repo, logger),
		Check:       NewCheckService(cfg, repo, logger),
		Export:      NewExportService(repo, logger),
	}
}
