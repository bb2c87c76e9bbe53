package booking

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/bookingrisk/internal/domain/failure"
)

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match the feature column names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidationCtx("catalog", func(ctx context.Context, fl validator.FieldLevel) bool {
		c, ok := ctx.Value(catalogKey{}).(Catalog)
		if !ok {
			c = DefaultCatalog
		}
		return c.Allows(fl.Param(), fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// catalogKey carries the catalog the "catalog" rule checks against.
type catalogKey struct{}

// validateStruct runs the struct rules against c and converts violations into
// stage errors. An empty catalog means DefaultCatalog.
func validateStruct(c Catalog, s any) error {
	if len(c) == 0 {
		c = DefaultCatalog
	}
	err := validate.StructCtx(context.WithValue(context.Background(), catalogKey{}, c), s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return failure.Wrap(failure.StageValidate, "", failure.ErrInvalidRecord, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		kind := failure.ErrInvalidRecord
		if fe.Tag() == "catalog" {
			kind = failure.ErrUnknownCategory
		}
		errs = append(errs, failure.Newf(failure.StageValidate, fe.Field(), kind, "%s", describe(fe)))
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "catalog":
		return fmt.Sprintf("value %q is not offered", fe.Value())
	case "gte", "min":
		return fmt.Sprintf("value %v must be >= %s", fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("value %v must be <= %s", fe.Value(), fe.Param())
	case "datetime":
		return fmt.Sprintf("value %q must be a %s date", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
