package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount monto tal como llegó en el JSON (número o string). La conversión a decimal se
// difiere a la validación para poder reportar "no numérico" como error del campo.
type Amount struct {
	raw string
	set bool
}

// NewAmount construye un monto a partir de su representación textual.
func NewAmount(s string) Amount {
	return Amount{raw: s, set: true}
}

// UnmarshalJSON acepta 12.5, "12.5" y null; cualquier otro valor se conserva para validación.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	*a = Amount{raw: strings.TrimSpace(s), set: true}
	return nil
}

// IsSet indica si el campo vino en la petición.
func (a Amount) IsSet() bool { return a.set }

// String representación original.
func (a Amount) String() string { return a.raw }

// Decimal convierte el monto; solo debe llamarse tras validar.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(a.raw)
}
