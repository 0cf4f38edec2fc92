package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/token"
)

// UserRepository define o contrato que o Serviço de Usuários espera da camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo UserRepository
	TokenSvc TokenService
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo UserRepository, tokenSvc TokenService) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
	}
}

// Register registra um novo usuário no sistema.
// Ele faz o hashing da senha e lida com validações básicas.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	if registration.Email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}
	if registration.Name == "" {
		return domain.User{}, apperror.NewValidationError("O nome do usuário é obrigatório.")
	}

	// Gera um hash forte para a senha informada.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newUser := domain.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
	}

	// O repositório traduz violação de unicidade do email para ConflictError.
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira Unauthorized para não dar dicas a invasores.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	// Compara a senha informada (texto puro) com o hash salvo no DB.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return tokenString, nil
}
