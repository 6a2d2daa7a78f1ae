package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ErrICSInvalid iCalendar 内容无法解析（含超限）
var ErrICSInvalid = errors.New("iCalendar 内容无法解析")

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为预约导入中间结构。
//
// 约定：
//   - SUMMARY  → 客户名称（与客户档案按名称匹配）
//   - LOCATION → 服务地址（为空时回退到客户档案地址）
//   - DESCRIPTION → 服务类型（为空时使用导入请求的 default_service）
//   - DTSTART/DTEND → 预约时间与时长
//   - 无 DTEND 的事件使用导入请求的 duration_minutes
// ─────────────────────────────────────────────────────────────

const icsMaxContentSize = 5 * 1024 * 1024 // 5MB

// parsedAppointmentEvent ICS 解析中间结构
type parsedAppointmentEvent struct {
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         *time.Time
}

// ParseAppointmentICS 解析 ICS 内容为预约事件列表
// 跳过缺少 SUMMARY 或 DTSTART 的事件；内容超限直接报错
func ParseAppointmentICS(content string) ([]parsedAppointmentEvent, error) {
	if len(content) > icsMaxContentSize {
		return nil, fmt.Errorf("%w: 内容超过 %d 字节上限", ErrICSInvalid, icsMaxContentSize)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	var events []parsedAppointmentEvent
	for _, comp := range cal.Events() {
		evt, ok := parseAppointmentVEvent(comp)
		if !ok {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

// parseAppointmentVEvent 解析单个 VEVENT 组件
func parseAppointmentVEvent(comp *ics.VEvent) (parsedAppointmentEvent, bool) {
	var evt parsedAppointmentEvent

	if p := comp.GetProperty(ics.ComponentPropertySummary); p != nil {
		evt.Summary = strings.TrimSpace(p.Value)
	}
	if evt.Summary == "" {
		return evt, false
	}

	start, err := comp.GetStartAt()
	if err != nil {
		return evt, false
	}
	evt.Start = start

	if end, err := comp.GetEndAt(); err == nil && end.After(start) {
		evt.End = &end
	}

	if p := comp.GetProperty(ics.ComponentPropertyLocation); p != nil {
		evt.Location = strings.TrimSpace(p.Value)
	}
	if p := comp.GetProperty(ics.ComponentPropertyDescription); p != nil {
		evt.Description = strings.TrimSpace(p.Value)
	}

	return evt, true
}
