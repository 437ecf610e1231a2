// Package validation checks submitted entity fields and reports every
// violated rule as one human readable message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"unithub/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator 表单字段校验（基于 validate/msg 标签）
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns an *apperr.Error of kind validation listing
// one message per failing field, in field declaration order.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validate", err)
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, messageFor(t, fe))
	}
	return apperr.Validation(messages)
}

// messageFor msg_<tag> 优先于 msg（如 msg_datetime）
func messageFor(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := f.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
