package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/pkg/jwt"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de usuarios (admin) y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// RegisterInput datos de un usuario nuevo.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Solo un admin registra usuarios; el email duplicado es ErrAlreadyExists.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, actor entity.Actor, in RegisterInput) (*entity.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validation("email", "email inválido")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Validation("password", "debe tener al menos %d caracteres", minPasswordLen)
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.Validation("role", "rol desconocido %q", in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         in.Role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("actor_id", actor.ID).Msg("usuario registrado")
	return user, nil
}

// Login verifica email/password y genera el JWT con el rol del usuario.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, domain.Validation("email", "email y password son requeridos")
	}
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.Unauthorized()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Unauthorized()
	}
	if !user.Active {
		return "", nil, domain.Permission("cuenta inactiva")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
