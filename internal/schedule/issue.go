package schedule

import "fmt"

// IssueKind 解析/解算过程中的可恢复问题类别。
// 引擎从不因这些问题返回 error 或 panic，只是产出更少的结果并附带 Issue。
type IssueKind string

const (
	IssueUnresolvableToken IssueKind = "unresolvable_token" // 星期或节次不在对照表中
	IssueMixedWeekday      IssueKind = "mixed_weekday"      // 同一组内星期不一致，仅取第一个
	IssueSemesterNotFound  IssueKind = "semester_not_found"
	IssueMalformedRow      IssueKind = "malformed_row"
	IssueEmptyNotation     IssueKind = "empty_notation"
)

// Issue 单条问题描述
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Input  string    `json:"input,omitempty"`
	Detail string    `json:"detail"`
}

func (i Issue) String() string {
	if i.Input == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s: %s (%q)", i.Kind, i.Detail, i.Input)
}
