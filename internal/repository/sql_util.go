package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// rowScanner *sql.Row / *sql.Rows 共同接口
type rowScanner interface {
	Scan(dest ...any) error
}

// validID 非 UUID 的 id 不可能存在于库中，直接按 not found 处理，
// 避免 $1::uuid 转换报错变成 500
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// notFoundOr sql.ErrNoRows -> ErrNotFound，其余错误带上操作描述
func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func checkRowsAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (%s): %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeStringList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// whereBuilder 动态 WHERE 条件（$n 占位符递增）
type whereBuilder struct {
	conds  []string
	args   []any
	argIdx int
}

func newWhereBuilder(first string, arg any) *whereBuilder {
	return &whereBuilder{conds: []string{first}, args: []any{arg}, argIdx: 2}
}

// add 追加条件，format 中的 %d 替换为下一个占位符序号
func (w *whereBuilder) add(format string, arg any) {
	w.conds = append(w.conds, fmt.Sprintf(format, w.argIdx))
	w.args = append(w.args, arg)
	w.argIdx++
}

func (w *whereBuilder) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) clause() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}
