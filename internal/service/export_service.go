package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("没有符合条件的打卡记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出与列表接口共用同一套过滤参数，过滤在内存做（FilterCheckRecords），
//     保证导出结果与界面筛选结果一致
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCheckRecords 导出打卡记录为 Excel
	ExportCheckRecords(ctx context.Context, companyID string, req *dto.CheckRecordListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportCheckRecords 导出打卡记录为 Excel
//
// 表头: | 客户 | 地址 | 服务类型 | 保洁员 | 团队 | 状态 | 签到时间 | 签退时间 | 时长(分钟) | 服务完成 | 备注 |
func (s *exportService) ExportCheckRecords(ctx context.Context, companyID string, req *dto.CheckRecordListRequest) (*bytes.Buffer, string, error) {
	// 1. 拉取公司全量记录，再做内存过滤
	all, err := s.repo.CheckRecord.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, "", err
	}

	records := FilterCheckRecords(all, toCheckRecordFilters(req))
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "打卡记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headers := []string{"客户", "地址", "服务类型", "保洁员", "团队", "状态", "签到时间", "签退时间", "时长(分钟)", "服务完成", "备注"}
	widths := []float64{18, 30, 14, 14, 14, 10, 20, 20, 12, 10, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellName, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", lastCol), headerStyle)

	// 数据行
	row := 2
	for i := range records {
		r := &records[i]

		teamName := "-"
		if r.TeamName != nil {
			teamName = *r.TeamName
		}
		completed := "-"
		if r.ServiceCompleted != nil {
			if *r.ServiceCompleted {
				completed = "是"
			} else {
				completed = "否"
			}
		}
		notes := r.CheckInNotes
		if r.CheckOutNotes != "" {
			if notes != "" {
				notes += " / "
			}
			notes += r.CheckOutNotes
		}

		values := []interface{}{
			r.CustomerName,
			r.Address,
			r.ServiceType,
			r.ProfessionalName,
			teamName,
			model.CheckStatusLabel(r.Status()),
			formatCheckTime(r.CheckInTime),
			formatCheckTime(r.CheckOutTime),
			int(r.Duration().Minutes()),
			completed,
			notes,
		}
		for col, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cellName, v)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("打卡记录_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func formatCheckTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
