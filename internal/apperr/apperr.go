// Package apperr classifies errors returned by service operations.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Kind 错误分类
type Kind int

const (
	// KindInternal 未预期的错误，调用方只看到通用文案
	KindInternal Kind = iota
	// KindValidation 用户可修正的字段错误
	KindValidation
	// KindNotFound 记录不存在或不属于当前用户
	KindNotFound
	// KindBackend 数据库/存储等后端服务错误
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBackend:
		return "backend"
	default:
		return "internal"
	}
}

// ServiceMessager is implemented by errors that carry a message safe to show
// to the caller (object storage errors, for example).
type ServiceMessager interface {
	ServiceMessage() string
}

type Error struct {
	Kind     Kind
	Op       string
	Message  string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// Validation joins every field message with "\n".
func Validation(messages []string) *Error {
	return &Error{
		Kind:     KindValidation,
		Message:  strings.Join(messages, "\n"),
		Messages: messages,
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Backend wraps a database or storage failure. The message is left empty so
// PublicMessage can pick the underlying service message or the fallback.
func Backend(op string, err error) *Error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns KindInternal for errors not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the message a caller is allowed to see.
func PublicMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	switch e.Kind {
	case KindValidation, KindNotFound:
		return e.Message
	case KindBackend:
		if msg := serviceMessage(e.Err); msg != "" {
			return msg
		}
		return fallback
	default:
		return fallback
	}
}

func serviceMessage(err error) string {
	if err == nil {
		return ""
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	var sm ServiceMessager
	if errors.As(err, &sm) {
		return sm.ServiceMessage()
	}
	return ""
}

// HTTPStatus 错误类型 -> HTTP 状态码
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
