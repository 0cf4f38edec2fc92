package movementservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
	"clinistock/internal/service/movementservice"
)

// MockMovementRepository é uma implementação mock da interface MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error) {
	args := m.Called(ctx, movement)
	return args.Get(0).(domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id string) (domain.StockMovement, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindAll(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) UpdateAnnotations(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error) {
	args := m.Called(ctx, movement)
	return args.Get(0).(domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductLookup é uma implementação mock da interface ProductLookup
type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

// MockUserLookup é uma implementação mock da interface UserLookup
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockActorLookup é uma implementação mock da interface ActorLookup
type MockActorLookup struct {
	mock.Mock
}

func (m *MockActorLookup) FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(domain.ActorIdentity), args.Error(1)
}

func kindPtr(k domain.LocationKind) *domain.LocationKind { return &k }
func strPtr(s string) *string                            { return &s }

func newTestService() (*movementservice.Service, *MockMovementRepository, *MockProductLookup, *MockUserLookup, *MockActorLookup) {
	mockRepo := new(MockMovementRepository)
	mockProducts := new(MockProductLookup)
	mockUsers := new(MockUserLookup)
	mockActors := new(MockActorLookup)
	svc := movementservice.NewService(mockRepo, mockProducts, mockUsers, mockActors, logger.NewLogger("debug"))
	return svc, mockRepo, mockProducts, mockUsers, mockActors
}

// TestCreateMovement_Success_Entrada testa o registro de uma entrada com destino.
func TestCreateMovement_Success_Entrada(t *testing.T) {
	svc, mockRepo, mockProducts, mockUsers, mockActors := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	supplierID := uuid.New().String()

	input := domain.MovementInput{
		ProductID:      productID,
		Type:           domain.MovementEntrada,
		Quantity:       10,
		ToLocationID:   strPtr(supplierID),
		ToLocationType: kindPtr(domain.LocationSupplier),
		Reason:         "Reposição mensal",
	}

	mockProducts.On("FindByID", mock.Anything, productID).Return(domain.Product{ID: productID}, nil)
	mockUsers.On("FindByID", mock.Anything, userID).Return(domain.User{ID: userID}, nil)
	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{ID: supplierID, Name: "Fornecedor A"}, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("domain.StockMovement")).
		Return(domain.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      productID,
			Type:           domain.MovementEntrada,
			Quantity:       10,
			ToLocationID:   strPtr(supplierID),
			ToLocationType: kindPtr(domain.LocationSupplier),
			UserID:         userID,
		}, nil)

	result, err := svc.CreateMovement(context.Background(), userID, input)

	assert.NoError(t, err)
	assert.Equal(t, domain.MovementEntrada, result.Type)
	assert.Equal(t, userID, result.UserID)
	assert.NotEmpty(t, result.ID)
	mockRepo.AssertExpectations(t)
}

// TestCreateMovement_Success_Transferencia testa o registro de uma transferência
// entre duas localizações distintas, com origem e destino persistidos.
func TestCreateMovement_Success_Transferencia(t *testing.T) {
	svc, mockRepo, mockProducts, mockUsers, mockActors := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	supplierID := uuid.New().String()
	clinicUserID := uuid.New().String()

	input := domain.MovementInput{
		ProductID:        productID,
		Type:             domain.MovementTransferencia,
		Quantity:         4,
		FromLocationID:   strPtr(supplierID),
		FromLocationType: kindPtr(domain.LocationSupplier),
		ToLocationID:     strPtr(clinicUserID),
		ToLocationType:   kindPtr(domain.LocationUser),
		Reason:           "Remanejamento para a sala de procedimentos",
	}

	mockProducts.On("FindByID", mock.Anything, productID).Return(domain.Product{ID: productID}, nil)
	mockUsers.On("FindByID", mock.Anything, userID).Return(domain.User{ID: userID}, nil)
	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{ID: supplierID, Name: "Fornecedor A"}, nil)
	mockActors.On("FindName", mock.Anything, domain.LocationUser, clinicUserID).
		Return(domain.ActorIdentity{ID: clinicUserID, Name: "Dra. Helena"}, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m domain.StockMovement) bool {
		// os dois pares de localização chegam completos ao repositório
		return m.Type == domain.MovementTransferencia &&
			m.FromLocationID != nil && *m.FromLocationID == supplierID &&
			m.ToLocationID != nil && *m.ToLocationID == clinicUserID
	})).Return(domain.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Type:             domain.MovementTransferencia,
		Quantity:         4,
		FromLocationID:   strPtr(supplierID),
		FromLocationType: kindPtr(domain.LocationSupplier),
		ToLocationID:     strPtr(clinicUserID),
		ToLocationType:   kindPtr(domain.LocationUser),
		UserID:           userID,
	}, nil)

	result, err := svc.CreateMovement(context.Background(), userID, input)

	assert.NoError(t, err)
	assert.Equal(t, domain.MovementTransferencia, result.Type)
	assert.Equal(t, supplierID, *result.FromLocationID)
	assert.Equal(t, clinicUserID, *result.ToLocationID)
	mockRepo.AssertExpectations(t)
	mockActors.AssertExpectations(t)
}

// TestCreateMovement_Fail_EntradaSemDestino testa a invariante direcional de entrada.
func TestCreateMovement_Fail_EntradaSemDestino(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID: uuid.New().String(),
		Type:      domain.MovementEntrada,
		Quantity:  5,
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "destino")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_SaidaSemOrigem testa a invariante direcional de saída.
func TestCreateMovement_Fail_SaidaSemOrigem(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID:      uuid.New().String(),
		Type:           domain.MovementSaida,
		Quantity:       5,
		ToLocationID:   strPtr(uuid.New().String()),
		ToLocationType: kindPtr(domain.LocationClient),
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "origem")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_TransferenciaMesmaLocalizacao testa a rejeição de
// transferência com origem e destino iguais, mesmo com tipos diferentes.
func TestCreateMovement_Fail_TransferenciaMesmaLocalizacao(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	sharedID := uuid.New().String()
	input := domain.MovementInput{
		ProductID:        uuid.New().String(),
		Type:             domain.MovementTransferencia,
		Quantity:         3,
		FromLocationID:   strPtr(sharedID),
		FromLocationType: kindPtr(domain.LocationUser),
		ToLocationID:     strPtr(sharedID),
		ToLocationType:   kindPtr(domain.LocationClient),
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "distintos")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_ParIncompleto testa que id e tipo de localização vêm juntos.
func TestCreateMovement_Fail_ParIncompleto(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID:    uuid.New().String(),
		Type:         domain.MovementEntrada,
		Quantity:     2,
		ToLocationID: strPtr(uuid.New().String()), // sem ToLocationType
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "em conjunto")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_TipoInvalido testa a rejeição de tipo desconhecido.
func TestCreateMovement_Fail_TipoInvalido(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID: uuid.New().String(),
		Type:      domain.MovementType("devolucao"),
		Quantity:  2,
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_QuantidadeNaoPositiva testa a rejeição de quantidade <= 0.
func TestCreateMovement_Fail_QuantidadeNaoPositiva(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID:      uuid.New().String(),
		Type:           domain.MovementEntrada,
		Quantity:       0,
		ToLocationID:   strPtr(uuid.New().String()),
		ToLocationType: kindPtr(domain.LocationSupplier),
	}

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "positiva")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_SemUsuario testa a rejeição sem identidade do chamador.
func TestCreateMovement_Fail_SemUsuario(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	input := domain.MovementInput{
		ProductID:      uuid.New().String(),
		Type:           domain.MovementEntrada,
		Quantity:       1,
		ToLocationID:   strPtr(uuid.New().String()),
		ToLocationType: kindPtr(domain.LocationSupplier),
	}

	_, err := svc.CreateMovement(context.Background(), "", input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_ProdutoInexistente testa a checagem de existência do produto.
func TestCreateMovement_Fail_ProdutoInexistente(t *testing.T) {
	svc, mockRepo, mockProducts, _, _ := newTestService()

	productID := uuid.New().String()
	input := domain.MovementInput{
		ProductID:      productID,
		Type:           domain.MovementEntrada,
		Quantity:       1,
		ToLocationID:   strPtr(uuid.New().String()),
		ToLocationType: kindPtr(domain.LocationSupplier),
	}

	mockProducts.On("FindByID", mock.Anything, productID).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))

	_, err := svc.CreateMovement(context.Background(), uuid.New().String(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateMovement_Fail_AtorInexistente testa a checagem de existência do ator referenciado.
func TestCreateMovement_Fail_AtorInexistente(t *testing.T) {
	svc, mockRepo, mockProducts, mockUsers, mockActors := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	clientID := uuid.New().String()

	input := domain.MovementInput{
		ProductID:      productID,
		Type:           domain.MovementEntrada,
		Quantity:       1,
		ToLocationID:   strPtr(clientID),
		ToLocationType: kindPtr(domain.LocationClient),
	}

	mockProducts.On("FindByID", mock.Anything, productID).Return(domain.Product{ID: productID}, nil)
	mockUsers.On("FindByID", mock.Anything, userID).Return(domain.User{ID: userID}, nil)
	mockActors.On("FindName", mock.Anything, domain.LocationClient, clientID).
		Return(domain.ActorIdentity{}, apperror.NewNotFoundError("Cliente não encontrado."))

	_, err := svc.CreateMovement(context.Background(), userID, input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestAnnotateMovement_Success testa que a anotação altera apenas os campos permitidos.
func TestAnnotateMovement_Success(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	movementID := uuid.New().String()
	existing := domain.StockMovement{
		ID:        movementID,
		Type:      domain.MovementSaida,
		Quantity:  7,
		Reason:    "Motivo antigo",
		ProductID: uuid.New().String(),
	}

	mockRepo.On("FindByID", mock.Anything, movementID).Return(existing, nil)
	mockRepo.On("UpdateAnnotations", mock.Anything, mock.MatchedBy(func(m domain.StockMovement) bool {
		// tipo e quantidade preservados, motivo trocado
		return m.Type == domain.MovementSaida && m.Quantity == 7 && m.Reason == "Motivo novo"
	})).Return(domain.StockMovement{
		ID:       movementID,
		Type:     domain.MovementSaida,
		Quantity: 7,
		Reason:   "Motivo novo",
	}, nil)

	annotation := domain.MovementAnnotation{Reason: strPtr("Motivo novo")}
	result, err := svc.AnnotateMovement(context.Background(), movementID, annotation)

	assert.NoError(t, err)
	assert.Equal(t, "Motivo novo", result.Reason)
	assert.Equal(t, 7, result.Quantity)
	mockRepo.AssertExpectations(t)
}

// TestAnnotateMovement_Fail_NaoEncontrado testa a anotação de movimento inexistente.
func TestAnnotateMovement_Fail_NaoEncontrado(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	movementID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, movementID).
		Return(domain.StockMovement{}, apperror.NewNotFoundError("Movimento não encontrado."))

	_, err := svc.AnnotateMovement(context.Background(), movementID, domain.MovementAnnotation{})

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "UpdateAnnotations", mock.Anything, mock.Anything)
}

// TestListMovements_Fail_PeriodoInvertido testa a validação do filtro por período.
func TestListMovements_Fail_PeriodoInvertido(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	from := timeMustParse(t, "2026-02-01T00:00:00Z")
	to := timeMustParse(t, "2026-01-01T00:00:00Z")

	_, err := svc.ListMovements(context.Background(), domain.MovementFilter{From: &from, To: &to})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func timeMustParse(t *testing.T, value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return parsed
}

// TestMovementTypes testa o enum fixo de tipos.
func TestMovementTypes(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	types := svc.MovementTypes()

	assert.Equal(t, []domain.MovementType{
		domain.MovementEntrada,
		domain.MovementSaida,
		domain.MovementTransferencia,
	}, types)
}
