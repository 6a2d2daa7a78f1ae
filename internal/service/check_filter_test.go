package service

import (
	"reflect"
	"testing"
	"time"

	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

func timePtr(t time.Time) *time.Time { return &t }

func sampleCheckRecords() []model.CheckRecord {
	morning := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	noon := morning.Add(3 * time.Hour)
	nextDay := morning.Add(24 * time.Hour)

	return []model.CheckRecord{
		{
			CheckRecordID:  "r1",
			ProfessionalID: "p1",
			CustomerName:   "Acme Corp",
			Address:        "望京街 1 号",
			ServiceType:    "深度保洁",
			CheckInTime:    timePtr(morning),
			CheckOutTime:   timePtr(noon),
		},
		{
			CheckRecordID:  "r2",
			ProfessionalID: "p2",
			CustomerName:   "Beta Ltd",
			Address:        "ACME 大厦 3 层",
			ServiceType:    "日常保洁",
			CheckInTime:    timePtr(nextDay),
		},
		{
			CheckRecordID:  "r3",
			ProfessionalID: "p1",
			CustomerName:   "Gamma Inc",
			Address:        "中关村",
			ServiceType:    "深度保洁",
			Appointment:    &model.Appointment{ScheduledAt: nextDay},
		},
		{
			CheckRecordID:  "r4",
			ProfessionalID: "p2",
			CustomerName:   "Delta Co",
			Address:        "上地",
			ServiceType:    "开荒保洁",
			CancelledAt:    timePtr(noon),
		},
	}
}

func filteredIDs(records []model.CheckRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.CheckRecordID)
	}
	return ids
}

// ── 搜索 ──

func TestFilterCheckRecords_SearchCaseInsensitive(t *testing.T) {
	records := sampleCheckRecords()

	// "acme" 命中 r1 的客户名与 r2 的地址，大小写不敏感
	got := FilterCheckRecords(records, &repository.CheckRecordFilters{Search: "acme"})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r1", "r2"}) {
		t.Errorf("搜索 acme 期望 [r1 r2]，实际 %v", filteredIDs(got))
	}

	got = FilterCheckRecords(records, &repository.CheckRecordFilters{Search: "ACME"})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r1", "r2"}) {
		t.Errorf("搜索 ACME 期望 [r1 r2]，实际 %v", filteredIDs(got))
	}

	got = FilterCheckRecords(records, &repository.CheckRecordFilters{Search: "xyz"})
	if len(got) != 0 {
		t.Errorf("搜索 xyz 期望空结果，实际 %v", filteredIDs(got))
	}
}

func TestFilterCheckRecords_SearchServiceType(t *testing.T) {
	records := sampleCheckRecords()

	got := FilterCheckRecords(records, &repository.CheckRecordFilters{Search: "开荒"})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r4"}) {
		t.Errorf("按服务类型搜索期望 [r4]，实际 %v", filteredIDs(got))
	}
}

// ── 服务类型 ──

// 服务类型过滤为精确匹配（区分大小写），必须与 SQL 的 `service_type = ?` 谓词一致，
// 否则导出（内存过滤）与列表（SQL 过滤）对同一查询会返回不同子集
func TestFilterCheckRecords_ServiceTypeExactMatch(t *testing.T) {
	records := []model.CheckRecord{
		{CheckRecordID: "r1", ServiceType: "Deep Clean"},
		{CheckRecordID: "r2", ServiceType: "deep clean"},
		{CheckRecordID: "r3", ServiceType: "深度保洁"},
	}

	got := FilterCheckRecords(records, &repository.CheckRecordFilters{ServiceType: "Deep Clean"})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r1"}) {
		t.Errorf("服务类型应精确匹配，期望 [r1]，实际 %v", filteredIDs(got))
	}

	got = FilterCheckRecords(records, &repository.CheckRecordFilters{ServiceType: "deep clean"})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r2"}) {
		t.Errorf("大小写不同不应命中，期望 [r2]，实际 %v", filteredIDs(got))
	}

	got = FilterCheckRecords(records, &repository.CheckRecordFilters{ServiceType: "开荒保洁"})
	if len(got) != 0 {
		t.Errorf("无匹配服务类型期望空结果，实际 %v", filteredIDs(got))
	}
}

// ── 状态 ──

func TestFilterCheckRecords_Status(t *testing.T) {
	records := sampleCheckRecords()

	tests := []struct {
		status string
		want   []string
	}{
		{"completed", []string{"r1"}},
		{"checked_in", []string{"r2"}},
		{"pending", []string{"r3"}},
		{"cancelled", []string{"r4"}},
		{"all", []string{"r1", "r2", "r3", "r4"}},
		{"", []string{"r1", "r2", "r3", "r4"}},
	}

	for _, tt := range tests {
		got := FilterCheckRecords(records, &repository.CheckRecordFilters{Status: tt.status})
		if !reflect.DeepEqual(filteredIDs(got), tt.want) {
			t.Errorf("状态 %q 期望 %v，实际 %v", tt.status, tt.want, filteredIDs(got))
		}
	}
}

// ── 日期范围 ──

func TestFilterCheckRecords_DateRange(t *testing.T) {
	records := sampleCheckRecords()
	dayOne := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayTwo := dayOne.Add(24 * time.Hour)

	// 3/10 当天：r1 按签到时间命中；r4 无任何时间戳被排除
	got := FilterCheckRecords(records, &repository.CheckRecordFilters{From: &dayOne, To: &dayTwo})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r1"}) {
		t.Errorf("3/10 当天期望 [r1]，实际 %v", filteredIDs(got))
	}

	// 3/11 起：r2 按签到时间、r3 未签到回退到预约计划时间
	got = FilterCheckRecords(records, &repository.CheckRecordFilters{From: &dayTwo})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r2", "r3"}) {
		t.Errorf("3/11 起期望 [r2 r3]，实际 %v", filteredIDs(got))
	}
}

// ── 组合条件 ──

func TestFilterCheckRecords_Combined(t *testing.T) {
	records := sampleCheckRecords()

	got := FilterCheckRecords(records, &repository.CheckRecordFilters{
		ServiceType:    "深度保洁",
		ProfessionalID: "p1",
		Status:         "pending",
	})
	if !reflect.DeepEqual(filteredIDs(got), []string{"r3"}) {
		t.Errorf("组合过滤期望 [r3]，实际 %v", filteredIDs(got))
	}
}

// ── 纯函数性质 ──

// 同一输入重复过滤结果一致，且不修改输入
func TestFilterCheckRecords_Idempotent(t *testing.T) {
	records := sampleCheckRecords()
	snapshot := sampleCheckRecords()
	f := &repository.CheckRecordFilters{Search: "acme", Status: "completed"}

	first := FilterCheckRecords(records, f)
	second := FilterCheckRecords(records, f)
	if !reflect.DeepEqual(filteredIDs(first), filteredIDs(second)) {
		t.Errorf("两次过滤结果不一致: %v vs %v", filteredIDs(first), filteredIDs(second))
	}

	// 对已过滤结果再过滤，结果不变
	third := FilterCheckRecords(first, f)
	if !reflect.DeepEqual(filteredIDs(first), filteredIDs(third)) {
		t.Errorf("重复过滤改变了结果: %v vs %v", filteredIDs(first), filteredIDs(third))
	}

	if !reflect.DeepEqual(records, snapshot) {
		t.Error("过滤不应修改输入切片")
	}
}

func TestFilterCheckRecords_NilFilters(t *testing.T) {
	records := sampleCheckRecords()
	got := FilterCheckRecords(records, nil)
	if len(got) != len(records) {
		t.Errorf("nil 过滤条件应返回全部记录，实际 %d/%d", len(got), len(records))
	}
}
