package service

import (
	"strings"
	"time"

	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

// FilterCheckRecords 纯函数过滤打卡记录，语义与 repository 的 SQL 过滤一一对应：
//   - Search：在快照的客户名/地址/服务类型上做大小写不敏感子串匹配
//   - Status：与派生状态精确相等（空串或 all 不过滤）
//   - ServiceType：精确相等（区分大小写，与 SQL 的 `service_type = ?` 一致）
//   - 日期区间：按签到时间，未签到时回退到预约计划时间
//
// 输入切片不被修改，同样的输入永远得到同样的输出。
func FilterCheckRecords(records []model.CheckRecord, f *repository.CheckRecordFilters) []model.CheckRecord {
	if f == nil {
		f = &repository.CheckRecordFilters{}
	}

	result := make([]model.CheckRecord, 0, len(records))
	for _, r := range records {
		if !matchCheckRecord(&r, f) {
			continue
		}
		result = append(result, r)
	}
	return result
}

func matchCheckRecord(r *model.CheckRecord, f *repository.CheckRecordFilters) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(r.Address), needle) &&
			!strings.Contains(strings.ToLower(r.ServiceType), needle) {
			return false
		}
	}

	if f.Status != "" && f.Status != "all" && r.Status() != f.Status {
		return false
	}

	if f.ServiceType != "" && r.ServiceType != f.ServiceType {
		return false
	}

	if f.ProfessionalID != "" && r.ProfessionalID != f.ProfessionalID {
		return false
	}

	if f.From != nil || f.To != nil {
		at := checkRecordEffectiveTime(r)
		if at == nil {
			return false
		}
		if f.From != nil && at.Before(*f.From) {
			return false
		}
		if f.To != nil && !at.Before(*f.To) {
			return false
		}
	}

	return true
}

// checkRecordEffectiveTime 日期过滤采用的时间：签到时间，缺省回退到预约计划时间
func checkRecordEffectiveTime(r *model.CheckRecord) *time.Time {
	if r.CheckInTime != nil {
		return r.CheckInTime
	}
	if r.Appointment != nil {
		return &r.Appointment.ScheduledAt
	}
	return nil
}
