package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"noah/backend/internal/model"
	"noah/backend/internal/repository"
	pkgerrors "noah/backend/pkg/errors"
)

// ── Mock Repositories ──
// 以内存 map 模拟各 Repository；查不到一律返回 gorm.ErrRecordNotFound，
// CheckRecord.Update 模拟乐观锁条件更新。

// ── Company ──

type mockCompanyRepo struct {
	companies map[string]*model.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[string]*model.Company)}
}

func (m *mockCompanyRepo) Create(_ context.Context, company *model.Company) error {
	if company.CompanyID == "" {
		company.CompanyID = "company-" + company.Name
	}
	m.companies[company.CompanyID] = company
	return nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompanyRepo) List(_ context.Context, filters *repository.CompanyListFilters, offset, limit int) ([]model.Company, int64, error) {
	var all []model.Company
	for _, c := range m.companies {
		if filters != nil && !filters.IncludeInactive && !c.IsActive {
			continue
		}
		if filters != nil && filters.Keyword != "" && !strings.Contains(c.Name, filters.Keyword) {
			continue
		}
		all = append(all, *c)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockCompanyRepo) Update(_ context.Context, company *model.Company) error {
	if _, ok := m.companies[company.CompanyID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.companies[company.CompanyID] = company
	return nil
}

func (m *mockCompanyRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.companies, id)
	return nil
}

// ── User ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.CompanyID != "" && (u.CompanyID == nil || *u.CompanyID != filters.CompanyID) {
				continue
			}
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(u.Name, filters.Keyword) && !strings.Contains(u.Email, filters.Keyword) {
				continue
			}
		}
		all = append(all, *u)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Customer ──

type mockCustomerRepo struct {
	customers map[string]*model.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (m *mockCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	if customer.CustomerID == "" {
		customer.CustomerID = "customer-" + customer.Name
	}
	m.customers[customer.CustomerID] = customer
	return nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, companyID, id string) (*model.Customer, error) {
	if c, ok := m.customers[id]; ok && c.CompanyID == companyID {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) GetByName(_ context.Context, companyID, name string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.CompanyID == companyID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) List(_ context.Context, companyID string, filters *repository.CustomerListFilters, offset, limit int) ([]model.Customer, int64, error) {
	var all []model.Customer
	for _, c := range m.customers {
		if c.CompanyID != companyID {
			continue
		}
		if filters != nil && filters.Keyword != "" && !strings.Contains(c.Name, filters.Keyword) {
			continue
		}
		all = append(all, *c)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	if _, ok := m.customers[customer.CustomerID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.customers[customer.CustomerID] = customer
	return nil
}

func (m *mockCustomerRepo) Delete(_ context.Context, companyID, id string, _ string) error {
	if c, ok := m.customers[id]; !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(m.customers, id)
	return nil
}

// ── Team ──

type mockTeamRepo struct {
	teams map[string]*model.Team
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: make(map[string]*model.Team)}
}

func (m *mockTeamRepo) Create(_ context.Context, team *model.Team) error {
	if team.TeamID == "" {
		team.TeamID = "team-" + team.Name
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, companyID, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok && t.CompanyID == companyID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) List(_ context.Context, companyID string, includeInactive bool, offset, limit int) ([]model.Team, int64, error) {
	var all []model.Team
	for _, t := range m.teams {
		if t.CompanyID != companyID {
			continue
		}
		if !includeInactive && !t.IsActive {
			continue
		}
		all = append(all, *t)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockTeamRepo) Update(_ context.Context, team *model.Team) error {
	if _, ok := m.teams[team.TeamID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) SetMembers(_ context.Context, team *model.Team, members []model.User) error {
	team.Members = members
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) Delete(_ context.Context, companyID, id string, _ string) error {
	if t, ok := m.teams[id]; !ok || t.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(m.teams, id)
	return nil
}

// ── Appointment ──

type mockAppointmentRepo struct {
	appointments map[string]*model.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[string]*model.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appointment *model.Appointment) error {
	if appointment.AppointmentID == "" {
		appointment.AppointmentID = "appointment-" + appointment.CustomerID
	}
	if appointment.Version == 0 {
		appointment.Version = 1
	}
	m.appointments[appointment.AppointmentID] = appointment
	return nil
}

func (m *mockAppointmentRepo) BatchCreate(_ context.Context, appointments []model.Appointment) error {
	for i := range appointments {
		a := appointments[i]
		_ = m.Create(nil, &a)
	}
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, companyID, id string) (*model.Appointment, error) {
	if a, ok := m.appointments[id]; ok && a.CompanyID == companyID {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppointmentRepo) ListWithFilters(_ context.Context, companyID string, filters *repository.AppointmentListFilters, offset, limit int) ([]model.Appointment, int64, error) {
	var all []model.Appointment
	for _, a := range m.appointments {
		if a.CompanyID != companyID {
			continue
		}
		if filters != nil {
			if filters.CustomerID != "" && a.CustomerID != filters.CustomerID {
				continue
			}
			if filters.ProfessionalID != "" && (a.ProfessionalID == nil || *a.ProfessionalID != filters.ProfessionalID) {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if filters.From != nil && a.ScheduledAt.Before(*filters.From) {
				continue
			}
			if filters.To != nil && !a.ScheduledAt.Before(*filters.To) {
				continue
			}
		}
		all = append(all, *a)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, appointment *model.Appointment) error {
	stored, ok := m.appointments[appointment.AppointmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != appointment.Version {
		return pkgerrors.ErrOptimisticLock
	}
	appointment.Version++
	m.appointments[appointment.AppointmentID] = appointment
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, companyID, id string, _ string) error {
	if a, ok := m.appointments[id]; !ok || a.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(m.appointments, id)
	return nil
}

// ── CheckRecord ──

type mockCheckRecordRepo struct {
	records map[string]*model.CheckRecord
	seq     int
}

func newMockCheckRecordRepo() *mockCheckRecordRepo {
	return &mockCheckRecordRepo{records: make(map[string]*model.CheckRecord)}
}

func (m *mockCheckRecordRepo) Create(_ context.Context, record *model.CheckRecord) error {
	if record.CheckRecordID == "" {
		m.seq++
		record.CheckRecordID = fmt.Sprintf("record-%d", m.seq)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	cp := *record
	m.records[record.CheckRecordID] = &cp
	return nil
}

func (m *mockCheckRecordRepo) GetByID(_ context.Context, id string) (*model.CheckRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckRecordRepo) GetByAppointment(_ context.Context, appointmentID string) (*model.CheckRecord, error) {
	for _, r := range m.records {
		if r.AppointmentID == appointmentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckRecordRepo) GetOpenByProfessional(_ context.Context, professionalID string) (*model.CheckRecord, error) {
	for _, r := range m.records {
		if r.ProfessionalID == professionalID && r.Status() == model.CheckStatusCheckedIn {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckRecordRepo) ListPendingByProfessional(_ context.Context, professionalID string, _ time.Time) ([]model.CheckRecord, error) {
	var result []model.CheckRecord
	for _, r := range m.records {
		if r.ProfessionalID == professionalID && r.Status() == model.CheckStatusPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockCheckRecordRepo) ListWithFilters(_ context.Context, companyID string, filters *repository.CheckRecordFilters, offset, limit int) ([]model.CheckRecord, int64, error) {
	var all []model.CheckRecord
	for _, r := range m.records {
		if r.CompanyID == companyID {
			all = append(all, *r)
		}
	}
	// 与 SQL 过滤语义保持一致：复用纯过滤器
	all = FilterCheckRecords(all, filters)
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockCheckRecordRepo) ListByCompany(_ context.Context, companyID string) ([]model.CheckRecord, error) {
	var result []model.CheckRecord
	for _, r := range m.records {
		if r.CompanyID == companyID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// Update 模拟乐观锁：版本不匹配返回 ErrOptimisticLock
func (m *mockCheckRecordRepo) Update(_ context.Context, record *model.CheckRecord) error {
	stored, ok := m.records[record.CheckRecordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != record.Version {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version++
	cp := *record
	m.records[record.CheckRecordID] = &cp
	return nil
}

func (m *mockCheckRecordRepo) Delete(_ context.Context, companyID, id string, _ string) error {
	if r, ok := m.records[id]; !ok || r.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// ── Photo ──

type mockPhotoRepo struct {
	photos map[string]*model.Photo
}

func newMockPhotoRepo() *mockPhotoRepo {
	return &mockPhotoRepo{photos: make(map[string]*model.Photo)}
}

func (m *mockPhotoRepo) Save(_ context.Context, photo *model.Photo) error {
	// 内容寻址：同哈希重复保存为 no-op
	if _, ok := m.photos[photo.PhotoHash]; !ok {
		m.photos[photo.PhotoHash] = photo
	}
	return nil
}

func (m *mockPhotoRepo) GetByHash(_ context.Context, companyID, hash string) (*model.Photo, error) {
	if p, ok := m.photos[hash]; ok && p.CompanyID == companyID {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── 公共辅助 ──

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Company:     newMockCompanyRepo(),
		User:        newMockUserRepo(),
		Customer:    newMockCustomerRepo(),
		Team:        newMockTeamRepo(),
		Appointment: newMockAppointmentRepo(),
		CheckRecord: newMockCheckRecordRepo(),
		Photo:       newMockPhotoRepo(),
	}
}
