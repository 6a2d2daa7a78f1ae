package model

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

// ── 状态派生 ──

func TestCheckRecordStatus_Derivation(t *testing.T) {
	now := time.Now()
	later := now.Add(2 * time.Hour)

	tests := []struct {
		name   string
		record CheckRecord
		want   string
	}{
		{"无时间戳为待签到", CheckRecord{}, CheckStatusPending},
		{"仅签到为进行中", CheckRecord{CheckInTime: timePtr(now)}, CheckStatusCheckedIn},
		{"签到签退齐全为已完成", CheckRecord{CheckInTime: timePtr(now), CheckOutTime: timePtr(later)}, CheckStatusCompleted},
		{"取消覆盖待签到", CheckRecord{CancelledAt: timePtr(now)}, CheckStatusCancelled},
		{"取消覆盖进行中", CheckRecord{CheckInTime: timePtr(now), CancelledAt: timePtr(later)}, CheckStatusCancelled},
		{"取消覆盖已完成", CheckRecord{CheckInTime: timePtr(now), CheckOutTime: timePtr(later), CancelledAt: timePtr(later)}, CheckStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Status(); got != tt.want {
				t.Errorf("Status() = %s, 期望 %s", got, tt.want)
			}
		})
	}
}

// Status 是纯派生：重复调用结果一致且不改变记录
func TestCheckRecordStatus_Pure(t *testing.T) {
	now := time.Now()
	r := CheckRecord{CheckInTime: timePtr(now)}

	first := r.Status()
	for i := 0; i < 10; i++ {
		if got := r.Status(); got != first {
			t.Fatalf("第 %d 次调用 Status() = %s，与首次 %s 不一致", i, got, first)
		}
	}
	if r.CheckOutTime != nil || r.CancelledAt != nil {
		t.Error("Status() 不应修改记录")
	}
}

// ── 转换校验 ──

func TestCanCheckIn(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		record CheckRecord
		want   bool
	}{
		{"待签到可签到", CheckRecord{}, true},
		{"已签到不可重复签到", CheckRecord{CheckInTime: timePtr(now)}, false},
		{"已完成不可签到", CheckRecord{CheckInTime: timePtr(now), CheckOutTime: timePtr(now)}, false},
		{"已取消不可签到", CheckRecord{CancelledAt: timePtr(now)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.CanCheckIn(); got != tt.want {
				t.Errorf("CanCheckIn() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestCanCheckOut(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		record CheckRecord
		want   bool
	}{
		{"待签到不可签退", CheckRecord{}, false},
		{"进行中可签退", CheckRecord{CheckInTime: timePtr(now)}, true},
		{"已完成不可重复签退", CheckRecord{CheckInTime: timePtr(now), CheckOutTime: timePtr(now)}, false},
		{"已取消不可签退", CheckRecord{CheckInTime: timePtr(now), CancelledAt: timePtr(now)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.CanCheckOut(); got != tt.want {
				t.Errorf("CanCheckOut() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

// 每个状态下恰好有一组合法动作：校验器与派生状态一一对应
func TestTransitionValidator_MatchesStatus(t *testing.T) {
	now := time.Now()
	records := []CheckRecord{
		{},
		{CheckInTime: timePtr(now)},
		{CheckInTime: timePtr(now), CheckOutTime: timePtr(now.Add(time.Hour))},
		{CancelledAt: timePtr(now)},
	}

	for _, r := range records {
		switch r.Status() {
		case CheckStatusPending:
			if !r.CanCheckIn() || r.CanCheckOut() {
				t.Errorf("pending 状态应只允许签到: CanCheckIn=%v CanCheckOut=%v", r.CanCheckIn(), r.CanCheckOut())
			}
		case CheckStatusCheckedIn:
			if r.CanCheckIn() || !r.CanCheckOut() {
				t.Errorf("checked_in 状态应只允许签退: CanCheckIn=%v CanCheckOut=%v", r.CanCheckIn(), r.CanCheckOut())
			}
		case CheckStatusCompleted, CheckStatusCancelled:
			if r.CanCheckIn() || r.CanCheckOut() {
				t.Errorf("%s 为终态，不应允许任何转换", r.Status())
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	now := time.Now()

	if (&CheckRecord{}).IsTerminal() {
		t.Error("pending 不是终态")
	}
	if (&CheckRecord{CheckInTime: timePtr(now)}).IsTerminal() {
		t.Error("checked_in 不是终态")
	}
	if !(&CheckRecord{CheckInTime: timePtr(now), CheckOutTime: timePtr(now)}).IsTerminal() {
		t.Error("completed 是终态")
	}
	if !(&CheckRecord{CancelledAt: timePtr(now)}).IsTerminal() {
		t.Error("cancelled 是终态")
	}
}

// ── 时长与展示 ──

func TestDuration(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(150 * time.Minute)

	r := CheckRecord{CheckInTime: &checkIn, CheckOutTime: &checkOut}
	if got := r.Duration(); got != 150*time.Minute {
		t.Errorf("Duration() = %v, 期望 150m", got)
	}

	open := CheckRecord{CheckInTime: &checkIn}
	if got := open.Duration(); got != 0 {
		t.Errorf("未签退记录 Duration() = %v, 期望 0", got)
	}
}

func TestCheckStatusLabel(t *testing.T) {
	tests := map[string]string{
		CheckStatusPending:   "Pending",
		CheckStatusCheckedIn: "Checked In",
		CheckStatusCompleted: "Completed",
		CheckStatusCancelled: "Cancelled",
		"bogus":              "Unknown",
	}
	for status, want := range tests {
		if got := CheckStatusLabel(status); got != want {
			t.Errorf("CheckStatusLabel(%s) = %s, 期望 %s", status, got, want)
		}
	}
}
