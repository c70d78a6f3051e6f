package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-api/internal/domain"
)

// MaxAmount cota exclusiva de un monto: la columna es NUMERIC(14,2).
var MaxAmount = decimal.New(1, 12)

// MaxPasswordBytes bcrypt no admite passwords de más de 72 bytes.
const MaxPasswordBytes = 72

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// Los nombres de campo en las violaciones son los del JSON.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Amount se valida como su texto; sin valor se trata como nil (required / omitempty).
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			a, ok := field.Interface().(Amount)
			if !ok || !a.IsSet() {
				return nil
			}
			return a.String()
		}, Amount{})
		// decimal acepta todo lo que acepta decimal.NewFromString, incluido 1e3.
		_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			_, err := decimal.NewFromString(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
		_ = v.RegisterValidation("decimals", func(fl validator.FieldLevel) bool {
			places, err := strconv.ParseInt(fl.Param(), 10, 32)
			if err != nil {
				return false
			}
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.Equal(d.Round(int32(places)))
		})
		_ = v.RegisterValidation("amountmax", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.Abs().LessThan(MaxAmount)
		})
		_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		})
		validate = v
	})
	return validate
}

// Validate valida la petición y devuelve *domain.ValidationError con una violación por campo.
func Validate(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validar petición: %w", err)
	}
	out := &domain.ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range fieldErrs {
		field := fe.Field()
		// una violación por campo: la primera regla que falla
		if seen[field] {
			continue
		}
		seen[field] = true
		out.Violations = append(out.Violations, domain.Violation{Field: field, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser una dirección de email válida"
	case "min":
		return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
	case "oneof":
		return "debe ser uno de: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "decimal":
		return "debe ser un valor numérico"
	case "nonnegative":
		return "no puede ser negativo"
	case "decimals":
		return fmt.Sprintf("admite como máximo %s decimales", fe.Param())
	case "amountmax":
		return "debe ser menor que " + MaxAmount.String()
	case "bcryptmax":
		return fmt.Sprintf("debe tener como máximo %d bytes", MaxPasswordBytes)
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}
