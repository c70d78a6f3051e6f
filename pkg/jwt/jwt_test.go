package jwt_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/facturas-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testSubject = pkgjwt.Subject{
	UserID:    "00000000-0000-0000-0000-000000000001",
	Email:     "ana@example.com",
	Role:      "user",
	FirstName: "Ana",
	LastName:  "Pérez",
}

func TestGenerateAndParse_IncluyePerfil(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "facturas-test", 60, testSubject)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSubject.UserID, claims.UserID)
	assert.Equal(t, testSubject.UserID, claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "Ana", claims.FirstName)
	assert.Equal(t, "Pérez", claims.LastName)
	assert.Equal(t, "facturas-test", claims.Issuer)
}

func TestGenerate_PayloadUsaClavesFirstnameLastname(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "facturas-test", 60, testSubject)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "Ana", payload["firstname"])
	assert.Equal(t, "Pérez", payload["lastname"])
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "facturas-test", -1, testSubject)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "facturas-test", 60, testSubject)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "facturas-test", 60, testSubject)
	assert.Error(t, err)
}
