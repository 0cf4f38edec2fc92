package resolverservice_test

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
	"clinistock/internal/service/resolverservice"
)

// MockActorLookup é uma implementação mock da interface ActorLookup
type MockActorLookup struct {
	mock.Mock
}

func (m *MockActorLookup) FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(domain.ActorIdentity), args.Error(1)
}

// MockBatchLookup é uma implementação mock da interface BatchLookup
type MockBatchLookup struct {
	mock.Mock
}

func (m *MockBatchLookup) FindFirstByPair(ctx context.Context, locationID, productID string) (domain.StockLocation, error) {
	args := m.Called(ctx, locationID, productID)
	return args.Get(0).(domain.StockLocation), args.Error(1)
}

func newTestService() (*resolverservice.Service, *MockActorLookup, *MockBatchLookup) {
	mockActors := new(MockActorLookup)
	mockBatches := new(MockBatchLookup)
	svc := resolverservice.NewService(mockActors, mockBatches, logger.NewLogger("debug"))
	return svc, mockActors, mockBatches
}

// TestResolveActor_Success testa a resolução de um fornecedor existente.
func TestResolveActor_Success(t *testing.T) {
	svc, mockActors, _ := newTestService()

	supplierID := uuid.New().String()
	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{ID: supplierID, Name: "Fornecedor A"}, nil)

	identity, err := svc.ResolveActor(context.Background(), domain.ActorRef{ID: supplierID, Kind: domain.LocationSupplier})

	assert.NoError(t, err)
	assert.NotNil(t, identity)
	assert.Equal(t, "Fornecedor A", identity.Name)
	mockActors.AssertExpectations(t)
}

// TestResolveActor_ReferenciaVazia testa que referência ausente resolve para nil sem erro.
func TestResolveActor_ReferenciaVazia(t *testing.T) {
	svc, mockActors, _ := newTestService()

	identity, err := svc.ResolveActor(context.Background(), domain.ActorRef{})

	assert.NoError(t, err)
	assert.Nil(t, identity)
	mockActors.AssertNotCalled(t, "FindName", mock.Anything, mock.Anything, mock.Anything)
}

// TestResolveActor_TagSomenteId testa que id sem tag também é referência ausente.
func TestResolveActor_TagSomenteId(t *testing.T) {
	svc, mockActors, _ := newTestService()

	identity, err := svc.ResolveActor(context.Background(), domain.ActorRef{ID: uuid.New().String()})

	assert.NoError(t, err)
	assert.Nil(t, identity)
	mockActors.AssertNotCalled(t, "FindName", mock.Anything, mock.Anything, mock.Anything)
}

// TestResolveActor_Fail_TagDesconhecida testa que tag desconhecida é erro de
// validação, nunca um null silencioso.
func TestResolveActor_Fail_TagDesconhecida(t *testing.T) {
	svc, mockActors, _ := newTestService()

	_, err := svc.ResolveActor(context.Background(), domain.ActorRef{
		ID:   uuid.New().String(),
		Kind: domain.LocationKind("warehouse"),
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockActors.AssertNotCalled(t, "FindName", mock.Anything, mock.Anything, mock.Anything)
}

// TestResolveActor_AtorApagado testa que um ator que não existe mais degrada para nil.
func TestResolveActor_AtorApagado(t *testing.T) {
	svc, mockActors, _ := newTestService()

	clientID := uuid.New().String()
	mockActors.On("FindName", mock.Anything, domain.LocationClient, clientID).
		Return(domain.ActorIdentity{}, apperror.NewNotFoundError("Cliente não encontrado."))

	identity, err := svc.ResolveActor(context.Background(), domain.ActorRef{ID: clientID, Kind: domain.LocationClient})

	assert.NoError(t, err)
	assert.Nil(t, identity)
	mockActors.AssertExpectations(t)
}

// TestResolveActorWithStock_ComLote testa o enriquecimento com SKU e validade do primeiro lote.
func TestResolveActorWithStock_ComLote(t *testing.T) {
	svc, mockActors, mockBatches := newTestService()

	userID := uuid.New().String()
	productID := uuid.New().String()
	expiry := time.Now().AddDate(0, 6, 0)

	mockActors.On("FindName", mock.Anything, domain.LocationUser, userID).
		Return(domain.ActorIdentity{ID: userID, Name: "Dra. Helena"}, nil)
	mockBatches.On("FindFirstByPair", mock.Anything, userID, productID).
		Return(domain.StockLocation{
			LocationID: userID,
			ProductID:  productID,
			SKU:        "LOTE-2026-001",
			ExpiryDate: &expiry,
		}, nil)

	resolved, err := svc.ResolveActorWithStock(context.Background(),
		domain.ActorRef{ID: userID, Kind: domain.LocationUser}, productID)

	assert.NoError(t, err)
	assert.NotNil(t, resolved)
	assert.Equal(t, "Dra. Helena", resolved.Name)
	assert.NotNil(t, resolved.SKU)
	assert.Equal(t, "LOTE-2026-001", *resolved.SKU)
	assert.Equal(t, &expiry, resolved.ExpiryDate)
	mockBatches.AssertExpectations(t)
}

// TestResolveActorWithStock_SemLote testa que ausência de lote deixa SKU e validade nulos.
func TestResolveActorWithStock_SemLote(t *testing.T) {
	svc, mockActors, mockBatches := newTestService()

	supplierID := uuid.New().String()
	productID := uuid.New().String()

	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{ID: supplierID, Name: "Fornecedor B"}, nil)
	mockBatches.On("FindFirstByPair", mock.Anything, supplierID, productID).
		Return(domain.StockLocation{}, apperror.NewNotFoundError("Nenhum lote."))

	resolved, err := svc.ResolveActorWithStock(context.Background(),
		domain.ActorRef{ID: supplierID, Kind: domain.LocationSupplier}, productID)

	assert.NoError(t, err)
	assert.NotNil(t, resolved)
	assert.Equal(t, "Fornecedor B", resolved.Name)
	assert.Nil(t, resolved.SKU)
	assert.Nil(t, resolved.ExpiryDate)
}

// TestResolveActorWithStock_SemProduto testa que produto ausente resolve para
// nil sem consultar nada, como as demais entradas ausentes.
func TestResolveActorWithStock_SemProduto(t *testing.T) {
	svc, mockActors, mockBatches := newTestService()

	resolved, err := svc.ResolveActorWithStock(context.Background(),
		domain.ActorRef{ID: uuid.New().String(), Kind: domain.LocationSupplier}, "")

	assert.NoError(t, err)
	assert.Nil(t, resolved)
	mockActors.AssertNotCalled(t, "FindName", mock.Anything, mock.Anything, mock.Anything)
	mockBatches.AssertNotCalled(t, "FindFirstByPair", mock.Anything, mock.Anything, mock.Anything)
}

// TestResolveActorWithStock_Idempotente testa que chamadas repetidas com os
// mesmos argumentos produzem o mesmo resultado.
func TestResolveActorWithStock_Idempotente(t *testing.T) {
	svc, mockActors, mockBatches := newTestService()

	supplierID := uuid.New().String()
	productID := uuid.New().String()
	expiry := time.Now().AddDate(0, 3, 0)

	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{ID: supplierID, Name: "Fornecedor A"}, nil)
	mockBatches.On("FindFirstByPair", mock.Anything, supplierID, productID).
		Return(domain.StockLocation{
			LocationID: supplierID,
			ProductID:  productID,
			SKU:        "LOTE-2026-002",
			ExpiryDate: &expiry,
		}, nil)

	ref := domain.ActorRef{ID: supplierID, Kind: domain.LocationSupplier}

	first, err := svc.ResolveActorWithStock(context.Background(), ref, productID)
	assert.NoError(t, err)

	second, err := svc.ResolveActorWithStock(context.Background(), ref, productID)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestResolveActorWithStock_AtorApagado testa que o lote nem é consultado quando o ator não resolve.
func TestResolveActorWithStock_AtorApagado(t *testing.T) {
	svc, mockActors, mockBatches := newTestService()

	supplierID := uuid.New().String()
	mockActors.On("FindName", mock.Anything, domain.LocationSupplier, supplierID).
		Return(domain.ActorIdentity{}, apperror.NewNotFoundError("Fornecedor não encontrado."))

	resolved, err := svc.ResolveActorWithStock(context.Background(),
		domain.ActorRef{ID: supplierID, Kind: domain.LocationSupplier}, uuid.New().String())

	assert.NoError(t, err)
	assert.Nil(t, resolved)
	mockBatches.AssertNotCalled(t, "FindFirstByPair", mock.Anything, mock.Anything, mock.Anything)
}
