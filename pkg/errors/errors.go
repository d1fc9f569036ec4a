package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound 仓储层未命中记录（替代 ORM 的 record-not-found 哨兵）
var ErrNotFound = errors.New("记录不存在")

// ValidationError 字段级参数校验错误，每个字段给出独立的失败原因
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败: %s: %s", e.Field, e.Reason)
}

// NewValidation 构造字段校验错误
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation 取出 err 中的校验错误明细；不是校验错误时返回 nil
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
