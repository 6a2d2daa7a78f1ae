package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

func setupTestTeamService() (TeamService, *repository.Repository) {
	repo := newMockRepository()

	companyID := testCompanyID
	repo.User.Create(context.Background(), &model.User{
		UserID:    testProfessionalID,
		Name:      "张三",
		Role:      model.RoleProfessional,
		CompanyID: &companyID,
	})

	return NewTeamService(repo, zap.NewNop()), repo
}

func TestTeamCreate_Success(t *testing.T) {
	svc, _ := setupTestTeamService()

	team, err := svc.Create(context.Background(), testCompanyID, &dto.CreateTeamRequest{
		Name: "A 组",
	}, "caller-1")

	if err != nil {
		t.Fatalf("创建团队应成功: %v", err)
	}
	if team.Name != "A 组" {
		t.Errorf("期望团队名 A 组，实际 %s", team.Name)
	}
	if !team.IsActive {
		t.Error("新建团队应为启用状态")
	}
}

func TestTeamSetMembers_Success(t *testing.T) {
	svc, _ := setupTestTeamService()

	team, err := svc.Create(context.Background(), testCompanyID, &dto.CreateTeamRequest{Name: "A 组"}, "caller-1")
	if err != nil {
		t.Fatalf("创建团队失败: %v", err)
	}

	updated, err := svc.SetMembers(context.Background(), testCompanyID, team.ID, &dto.SetTeamMembersRequest{
		UserIDs: []string{testProfessionalID},
	})
	if err != nil {
		t.Fatalf("设置成员应成功: %v", err)
	}
	if len(updated.Members) != 1 || updated.Members[0].ID != testProfessionalID {
		t.Errorf("期望成员 [%s]，实际 %+v", testProfessionalID, updated.Members)
	}
}

func TestTeamSetMembers_RejectsNonProfessional(t *testing.T) {
	svc, repo := setupTestTeamService()

	companyID := testCompanyID
	repo.User.Create(context.Background(), &model.User{
		UserID:    "company-account-1",
		Name:      "公司账号",
		Role:      model.RoleCompany,
		CompanyID: &companyID,
	})

	team, err := svc.Create(context.Background(), testCompanyID, &dto.CreateTeamRequest{Name: "A 组"}, "caller-1")
	if err != nil {
		t.Fatalf("创建团队失败: %v", err)
	}

	_, err = svc.SetMembers(context.Background(), testCompanyID, team.ID, &dto.SetTeamMembersRequest{
		UserIDs: []string{"company-account-1"},
	})
	if !errors.Is(err, ErrMemberNotEligible) {
		t.Errorf("非保洁员账号应被拒绝，实际: %v", err)
	}
}

func TestTeamSetMembers_RejectsOtherTenantProfessional(t *testing.T) {
	svc, repo := setupTestTeamService()

	otherCompany := "company-2"
	repo.User.Create(context.Background(), &model.User{
		UserID:    "outsider-1",
		Name:      "外部保洁员",
		Role:      model.RoleProfessional,
		CompanyID: &otherCompany,
	})

	team, err := svc.Create(context.Background(), testCompanyID, &dto.CreateTeamRequest{Name: "A 组"}, "caller-1")
	if err != nil {
		t.Fatalf("创建团队失败: %v", err)
	}

	_, err = svc.SetMembers(context.Background(), testCompanyID, team.ID, &dto.SetTeamMembersRequest{
		UserIDs: []string{"outsider-1"},
	})
	if !errors.Is(err, ErrMemberNotEligible) {
		t.Errorf("跨租户保洁员应被拒绝，实际: %v", err)
	}
}

func TestTeamGetByID_WrongTenant(t *testing.T) {
	svc, _ := setupTestTeamService()

	team, err := svc.Create(context.Background(), testCompanyID, &dto.CreateTeamRequest{Name: "A 组"}, "caller-1")
	if err != nil {
		t.Fatalf("创建团队失败: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "company-2", team.ID); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("跨租户查询应返回 ErrTeamNotFound，实际: %v", err)
	}
}

func TestTeamDelete_NotFound(t *testing.T) {
	svc, _ := setupTestTeamService()

	if err := svc.Delete(context.Background(), testCompanyID, "missing", "caller-1"); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("删除不存在的团队应返回 ErrTeamNotFound，实际: %v", err)
	}
}
