// Package validator はechoのValidatorをgo-playground/validatorで実装する。
package validator

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
)

type RequestValidator struct {
	validate *validator.Validate
}

// エラーメッセージのフィールド名はjson/formタグの名前にする
func New() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &RequestValidator{validate: v}
}

// c.Validate から呼ばれる。失敗は400のHTTPErrorにする。
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	//最初の1件だけ返す
	vErr := vErrs[0]
	switch vErr.Tag() {
	case "required":
		return usecase.NewHTTPError(http.StatusBadRequest, vErr.Field()+" required")
	case "max":
		return usecase.NewHTTPError(http.StatusBadRequest, vErr.Field()+" too long")
	case "min", "gte", "gt":
		return usecase.NewHTTPError(http.StatusBadRequest, vErr.Field()+" is less than "+vErr.Param())
	default:
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid "+vErr.Field())
	}
}
