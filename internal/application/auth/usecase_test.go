package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturas-api/internal/application/auth"
	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/infrastructure/memory"
	"github.com/jhoicas/facturas-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "facturas-test"}, bcrypt.MinCost)
	return uc, store
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) *dto.UserRead {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: email, Password: "password123", FirstName: "Ana", LastName: "Pérez",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_HasheaPasswordYNoLoExpone(t *testing.T) {
	uc, store := newAuth(t)

	u := register(t, uc, "Ana@Example.com")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)

	stored, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth(t)
	register(t, uc, "ana@example.com")

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "ANA@example.com", Password: "otra-clave-1", FirstName: "Ana", LastName: "Otra",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validacion(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "no-email", Password: "corta"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "firstName", "lastName"}, fields)
}

func TestRegister_PasswordExcedeLimiteBcrypt(t *testing.T) {
	uc, store := newAuth(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: strings.Repeat("x", 80), FirstName: "Ana", LastName: "Pérez",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "password", verr.Violations[0].Field)

	u, err := store.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestHashPassword_DemasiadoLargoEsViolacion(t *testing.T) {
	u := &entity.User{Password: strings.Repeat("x", 73)}
	err := auth.HashPassword(bcrypt.MinCost)(context.Background(), entity.Identity{}, u)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Violations[0].Field)
	assert.Empty(t, u.PasswordHash)
}

func TestLogin_TokenConNombreYApellido(t *testing.T) {
	uc, _ := newAuth(t)
	u := register(t, uc, "ana@example.com")

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "Ana", claims.FirstName)
	assert.Equal(t, "Pérez", claims.LastName)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	register(t, uc, "ana@example.com")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetUser_SoloPropioOAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	ana := register(t, uc, "ana@example.com")
	luis := register(t, uc, "luis@example.com")

	got, err := uc.GetUser(ctx, entity.Identity{UserID: ana.ID, Role: entity.RoleUser}, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.Email, got.Email)

	_, err = uc.GetUser(ctx, entity.Identity{UserID: ana.ID, Role: entity.RoleUser}, luis.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetUser(ctx, entity.Identity{UserID: "root", Role: entity.RoleAdmin}, luis.ID)
	assert.NoError(t, err)
}

func TestListUsers_SoloAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	register(t, uc, "ana@example.com")
	register(t, uc, "luis@example.com")
	register(t, uc, "eva@example.com")

	_, err := uc.ListUsers(ctx, entity.Identity{UserID: "x", Role: entity.RoleUser}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := uc.WithPaging(2, 10).ListUsers(ctx, entity.Identity{UserID: "root", Role: entity.RoleAdmin}, dto.PageRequest{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "eva@example.com", res.Items[0].Email)
}

func TestCreateAdmin_RolAdminEnToken(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	admin, err := uc.CreateAdmin(ctx, dto.RegisterRequest{
		Email: "admin@example.com", Password: "password123", FirstName: "Admin", LastName: "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}
