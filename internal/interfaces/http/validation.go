package http

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// validationError campos rechazados por el validador; se clasifica como entrada inválida.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for f, msg := range e.fields {
		parts = append(parts, f+" "+msg)
	}
	return fmt.Sprintf("%s: %s", domain.ErrInvalidInput.Error(), strings.Join(parts, "; "))
}

func (e *validationError) Unwrap() error { return domain.ErrInvalidInput }

// parseBody decodifica el JSON del body y aplica las etiquetas validate.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = validationMessage(fe)
	}
	return &validationError{fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "uuid":
		return "debe ser un uuid"
	case "min", "gte":
		return "debe ser al menos " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "max":
		return "admite como máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gtefield":
		return "debe ser >= " + fe.Param()
	}
	return "es inválido"
}

// queryInt lee un entero opcional del query string.
func queryInt(c *fiber.Ctx, key string, def int64) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s debe ser un entero", domain.ErrInvalidInput, key)
	}
	return n, nil
}
