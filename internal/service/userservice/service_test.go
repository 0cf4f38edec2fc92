package userservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/token"
	"clinistock/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.CustomClaims)
	return claims, args.Error(1)
}

// TestRegister_Success testa o registro com hashing de senha e role padrão.
func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	registration := domain.UserRegistration{
		Name:     "Dra. Helena",
		Email:    "helena@clinistock.com",
		Password: "senha-forte-123",
	}

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		// a senha nunca vai em texto puro para o repositório
		return u.Email == registration.Email &&
			u.Role == domain.RoleUser &&
			u.PasswordHash != registration.Password &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(registration.Password)) == nil
	})).Return(domain.User{ID: uuid.New().String(), Email: registration.Email, Role: domain.RoleUser}, nil)

	user, err := svc.Register(context.Background(), registration)

	assert.NoError(t, err)
	assert.Equal(t, registration.Email, user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_SemCredenciais testa a validação de email e senha obrigatórios.
func TestRegister_Fail_SemCredenciais(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Sem Credenciais"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestLogin_Success testa o login com credenciais corretas.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockTokens)

	userID := uuid.New().String()
	password := "senha-forte-123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockRepo.On("FindByEmail", mock.Anything, "helena@clinistock.com").
		Return(domain.User{ID: userID, Email: "helena@clinistock.com", PasswordHash: string(hash), Role: domain.RoleAdmin}, nil)
	mockTokens.On("GenerateToken", userID, "admin").Return("jwt-assinado", nil)

	tokenString, err := svc.Login(context.Background(), "helena@clinistock.com", password)

	assert.NoError(t, err)
	assert.Equal(t, "jwt-assinado", tokenString)
	mockTokens.AssertExpectations(t)
}

// TestLogin_Fail_SenhaIncorreta testa a rejeição de senha errada.
func TestLogin_Fail_SenhaIncorreta(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockTokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-certa"), bcrypt.DefaultCost)
	mockRepo.On("FindByEmail", mock.Anything, "helena@clinistock.com").
		Return(domain.User{ID: uuid.New().String(), PasswordHash: string(hash)}, nil)

	_, err := svc.Login(context.Background(), "helena@clinistock.com", "senha-errada")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockTokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_Fail_UsuarioInexistente testa que usuário desconhecido vira 401, não 404.
func TestLogin_Fail_UsuarioInexistente(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@clinistock.com").
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.Login(context.Background(), "ninguem@clinistock.com", "qualquer")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
