package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturas-api/internal/application/dto"
	"github.com/jhoicas/facturas-api/internal/application/hooks"
	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
	"github.com/jhoicas/facturas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y consulta de usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	hooks    *hooks.Registry[entity.User]
	paging   dto.PageRequest
	maxPage  int
}

// NewAuthUseCase construye el caso de uso de auth. cost es el costo bcrypt (0 = bcrypt.DefaultCost).
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, cost int) *AuthUseCase {
	uc := &AuthUseCase{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		hooks:    &hooks.Registry[entity.User]{},
		paging:   dto.PageRequest{ItemsPerPage: 20},
		maxPage:  100,
	}
	uc.hooks.OnCreate(HashPassword(cost))
	return uc
}

// WithPaging fija el tamaño de página por defecto y máximo del listado de usuarios.
func (uc *AuthUseCase) WithPaging(itemsPerPage, maxItemsPerPage int) *AuthUseCase {
	uc.paging.ItemsPerPage = itemsPerPage
	uc.maxPage = maxItemsPerPage
	return uc
}

// HashPassword hook de alta: reemplaza el password en claro por su hash bcrypt.
func HashPassword(cost int) hooks.Func[entity.User] {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return func(_ context.Context, _ entity.Identity, u *entity.User) error {
		if u.Password == "" {
			return domain.NewValidationError("password", "es obligatorio")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.NewValidationError("password", fmt.Sprintf("debe tener como máximo %d bytes", dto.MaxPasswordBytes))
		}
		if err != nil {
			return fmt.Errorf("hashear password: %w", err)
		}
		u.PasswordHash = string(hash)
		u.Password = ""
		return nil
	}
}

// RegisterUser crea un usuario con rol "user". Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserRead, error) {
	return uc.register(ctx, in, entity.RoleUser)
}

// CreateAdmin crea un administrador. No está expuesto por HTTP; lo usa el seed.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, in dto.RegisterRequest) (*dto.UserRead, error) {
	return uc.register(ctx, in, entity.RoleAdmin)
}

func (uc *AuthUseCase) register(ctx context.Context, in dto.RegisterRequest, role string) (*dto.UserRead, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := time.Now()
	user := &entity.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.hooks.RunCreate(ctx, entity.Identity{}, user); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.NewUserRead(user)
	return &out, nil
}

// Login verifica email/password, genera el JWT con nombre y apellido y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Subject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserRead(user),
	}, nil
}

// GetUser devuelve un usuario: el propio o cualquiera si quien consulta es admin.
func (uc *AuthUseCase) GetUser(ctx context.Context, who entity.Identity, id string) (*dto.UserRead, error) {
	if !who.IsAdmin() && who.UserID != id {
		return nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserRead(user)
	return &out, nil
}

// ListUsers lista los usuarios; solo admin.
func (uc *AuthUseCase) ListUsers(ctx context.Context, who entity.Identity, p dto.PageRequest) (*dto.ListResponse[dto.UserRead], error) {
	if !who.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	p.Normalize(uc.paging.ItemsPerPage, uc.maxPage)
	users, total, err := uc.userRepo.List(ctx, repository.Page{Number: p.Page, Size: p.ItemsPerPage})
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[dto.UserRead]{
		Items:        lo.Map(users, func(u *entity.User, _ int) dto.UserRead { return dto.NewUserRead(u) }),
		Page:         p.Page,
		ItemsPerPage: p.ItemsPerPage,
		Total:        total,
	}, nil
}
