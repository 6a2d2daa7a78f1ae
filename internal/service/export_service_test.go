package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
)

func TestExportCheckRecords(t *testing.T) {
	repo := newMockRepository()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)

	repo.CheckRecord.Create(context.Background(), &model.CheckRecord{
		CompanyID:        "company-1",
		AppointmentID:    "appointment-1",
		ProfessionalID:   "professional-1",
		CustomerID:       "customer-1",
		ProfessionalName: "张三",
		CustomerName:     "Acme Corp",
		Address:          "望京街 1 号",
		ServiceType:      "深度保洁",
		CheckInTime:      &now,
		CheckOutTime:     &later,
	})
	repo.CheckRecord.Create(context.Background(), &model.CheckRecord{
		CompanyID:        "company-1",
		AppointmentID:    "appointment-2",
		ProfessionalID:   "professional-1",
		CustomerID:       "customer-2",
		ProfessionalName: "张三",
		CustomerName:     "Beta Ltd",
		Address:          "中关村",
		ServiceType:      "日常保洁",
	})

	svc := NewExportService(repo, zap.NewNop())

	// 过滤条件只留已完成记录
	buf, filename, err := svc.ExportCheckRecords(context.Background(), "company-1", &dto.CheckRecordListRequest{
		Status: "completed",
	})
	if err != nil {
		t.Fatalf("ExportCheckRecords 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际 %s", filename)
	}

	// 回读 Excel 验证内容
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应是合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("打卡记录")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	// 表头 + 1 条数据
	if len(rows) != 2 {
		t.Fatalf("期望 2 行（表头+1 条数据），实际 %d", len(rows))
	}
	if rows[1][0] != "Acme Corp" {
		t.Errorf("数据行客户应为 Acme Corp，实际 %s", rows[1][0])
	}
	if rows[1][5] != "Completed" {
		t.Errorf("状态列应为 Completed，实际 %s", rows[1][5])
	}
	if rows[1][8] != "120" {
		t.Errorf("时长列应为 120，实际 %s", rows[1][8])
	}
}

func TestExportCheckRecords_Empty(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	_, _, err := svc.ExportCheckRecords(context.Background(), "company-1", &dto.CheckRecordListRequest{})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}
