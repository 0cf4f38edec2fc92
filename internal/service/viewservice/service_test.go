package viewservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinistock/internal/domain"
	"clinistock/internal/pkg/logger"
	"clinistock/internal/service/viewservice"
)

// MockProductLookup é uma implementação mock da interface ProductLookup
type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) FindSummaries(ctx context.Context, ids []string) (map[string]domain.ProductSummary, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.ProductSummary), args.Error(1)
}

// MockActorLookup é uma implementação mock da interface ActorLookup
type MockActorLookup struct {
	mock.Mock
}

func (m *MockActorLookup) FindNames(ctx context.Context, kind domain.LocationKind, ids []string) (map[string]string, error) {
	args := m.Called(ctx, kind, ids)
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockUserLookup é uma implementação mock da interface UserLookup
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockBatchLookup é uma implementação mock da interface BatchLookup
type MockBatchLookup struct {
	mock.Mock
}

func (m *MockBatchLookup) FindByPairs(ctx context.Context, locationIDs, productIDs []string) ([]domain.StockLocation, error) {
	args := m.Called(ctx, locationIDs, productIDs)
	return args.Get(0).([]domain.StockLocation), args.Error(1)
}

func kindPtr(k domain.LocationKind) *domain.LocationKind { return &k }
func strPtr(s string) *string                            { return &s }

func newTestService() (*viewservice.Service, *MockProductLookup, *MockActorLookup, *MockUserLookup, *MockBatchLookup) {
	mockProducts := new(MockProductLookup)
	mockActors := new(MockActorLookup)
	mockUsers := new(MockUserLookup)
	mockBatches := new(MockBatchLookup)
	svc := viewservice.NewService(mockProducts, mockActors, mockUsers, mockBatches, logger.NewLogger("debug"))
	return svc, mockProducts, mockActors, mockUsers, mockBatches
}

// TestAssembleViews_Entrada testa a montagem completa de uma entrada:
// produto, usuário, destino resolvido e lote com SKU e validade.
func TestAssembleViews_Entrada(t *testing.T) {
	svc, mockProducts, mockActors, mockUsers, mockBatches := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	supplierID := uuid.New().String()
	expiry := time.Now().AddDate(1, 0, 0)

	movement := domain.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Type:           domain.MovementEntrada,
		Quantity:       20,
		ToLocationID:   strPtr(supplierID),
		ToLocationType: kindPtr(domain.LocationSupplier),
		UserID:         userID,
	}

	mockProducts.On("FindSummaries", mock.Anything, []string{productID}).
		Return(map[string]domain.ProductSummary{productID: {ID: productID, Name: "Dipirona 500mg"}}, nil)
	mockActors.On("FindNames", mock.Anything, domain.LocationSupplier, []string{supplierID}).
		Return(map[string]string{supplierID: "Fornecedor A"}, nil)
	mockUsers.On("FindNames", mock.Anything, []string{userID}).
		Return(map[string]string{userID: "Dra. Helena"}, nil)
	mockBatches.On("FindByPairs", mock.Anything, []string{supplierID}, []string{productID}).
		Return([]domain.StockLocation{
			{LocationID: supplierID, ProductID: productID, SKU: "LOTE-001", ExpiryDate: &expiry},
		}, nil)

	views, err := svc.AssembleViews(context.Background(), []domain.StockMovement{movement})

	assert.NoError(t, err)
	assert.Len(t, views, 1)

	view := views[0]
	assert.NotNil(t, view.Product)
	assert.Equal(t, "Dipirona 500mg", view.Product.Name)
	assert.Nil(t, view.FromLocation) // entrada pura não tem origem
	assert.NotNil(t, view.ToLocation)
	assert.Equal(t, "Fornecedor A", view.ToLocation.Name)
	assert.NotNil(t, view.ToLocation.SKU)
	assert.Equal(t, "LOTE-001", *view.ToLocation.SKU)
	assert.NotNil(t, view.User)
	assert.Equal(t, "Dra. Helena", view.User.Name)
}

// TestAssembleViews_Transferencia testa a montagem de uma transferência com
// origem e destino resolvidos, cada um com o lote do seu par.
func TestAssembleViews_Transferencia(t *testing.T) {
	svc, mockProducts, mockActors, mockUsers, mockBatches := newTestService()

	productID := uuid.New().String()
	authorID := uuid.New().String()
	supplierID := uuid.New().String()
	clinicUserID := uuid.New().String()
	expiry := time.Now().AddDate(0, 9, 0)

	movement := domain.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Type:             domain.MovementTransferencia,
		Quantity:         4,
		FromLocationID:   strPtr(supplierID),
		FromLocationType: kindPtr(domain.LocationSupplier),
		ToLocationID:     strPtr(clinicUserID),
		ToLocationType:   kindPtr(domain.LocationUser),
		UserID:           authorID,
	}

	mockProducts.On("FindSummaries", mock.Anything, []string{productID}).
		Return(map[string]domain.ProductSummary{productID: {ID: productID, Name: "Seringa 5ml"}}, nil)
	mockActors.On("FindNames", mock.Anything, domain.LocationSupplier, []string{supplierID}).
		Return(map[string]string{supplierID: "Fornecedor A"}, nil)
	mockActors.On("FindNames", mock.Anything, domain.LocationUser, []string{clinicUserID}).
		Return(map[string]string{clinicUserID: "Dra. Helena"}, nil)
	mockUsers.On("FindNames", mock.Anything, []string{authorID}).
		Return(map[string]string{authorID: "Enf. Paulo"}, nil)
	// os ids de localização saem de um set, então a ordem não é garantida
	mockBatches.On("FindByPairs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	}), []string{productID}).
		Return([]domain.StockLocation{
			{LocationID: supplierID, ProductID: productID, SKU: "LOTE-ORIGEM", ExpiryDate: &expiry},
			{LocationID: clinicUserID, ProductID: productID, SKU: "LOTE-DESTINO"},
		}, nil)

	views, err := svc.AssembleViews(context.Background(), []domain.StockMovement{movement})

	assert.NoError(t, err)
	assert.Len(t, views, 1)

	view := views[0]
	assert.NotNil(t, view.FromLocation)
	assert.Equal(t, "Fornecedor A", view.FromLocation.Name)
	assert.Equal(t, "LOTE-ORIGEM", *view.FromLocation.SKU)
	assert.NotNil(t, view.ToLocation)
	assert.Equal(t, "Dra. Helena", view.ToLocation.Name)
	assert.Equal(t, "LOTE-DESTINO", *view.ToLocation.SKU)
	assert.NotNil(t, view.User)
	assert.Equal(t, "Enf. Paulo", view.User.Name)
}

// TestAssembleViews_AtorApagado testa que referência que não resolve degrada para null.
func TestAssembleViews_AtorApagado(t *testing.T) {
	svc, mockProducts, mockActors, mockUsers, mockBatches := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	clientID := uuid.New().String()

	movement := domain.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Type:             domain.MovementSaida,
		Quantity:         2,
		FromLocationID:   strPtr(clientID),
		FromLocationType: kindPtr(domain.LocationClient),
		UserID:           userID,
	}

	mockProducts.On("FindSummaries", mock.Anything, []string{productID}).
		Return(map[string]domain.ProductSummary{productID: {ID: productID, Name: "Soro Fisiológico"}}, nil)
	// cliente apagado: o mapa volta vazio
	mockActors.On("FindNames", mock.Anything, domain.LocationClient, []string{clientID}).
		Return(map[string]string{}, nil)
	mockUsers.On("FindNames", mock.Anything, []string{userID}).
		Return(map[string]string{userID: "Enf. Paulo"}, nil)
	mockBatches.On("FindByPairs", mock.Anything, []string{clientID}, []string{productID}).
		Return([]domain.StockLocation{}, nil)

	views, err := svc.AssembleViews(context.Background(), []domain.StockMovement{movement})

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Nil(t, views[0].FromLocation) // ator apagado → null, nunca erro
	assert.NotNil(t, views[0].Product)
	assert.NotNil(t, views[0].User)
}

// TestAssembleViews_OrdemPreservada testa que as views saem na ordem dos movimentos.
func TestAssembleViews_OrdemPreservada(t *testing.T) {
	svc, mockProducts, _, mockUsers, _ := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()

	first := domain.StockMovement{ID: "m-1", ProductID: productID, Type: domain.MovementEntrada, UserID: userID}
	second := domain.StockMovement{ID: "m-2", ProductID: productID, Type: domain.MovementSaida, UserID: userID}
	third := domain.StockMovement{ID: "m-3", ProductID: productID, Type: domain.MovementEntrada, UserID: userID}

	mockProducts.On("FindSummaries", mock.Anything, []string{productID}).
		Return(map[string]domain.ProductSummary{productID: {ID: productID, Name: "Gaze Estéril"}}, nil)
	mockUsers.On("FindNames", mock.Anything, []string{userID}).
		Return(map[string]string{userID: "Dra. Helena"}, nil)

	views, err := svc.AssembleViews(context.Background(), []domain.StockMovement{first, second, third})

	assert.NoError(t, err)
	assert.Len(t, views, 3)
	assert.Equal(t, "m-1", views[0].ID)
	assert.Equal(t, "m-2", views[1].ID)
	assert.Equal(t, "m-3", views[2].ID)
}

// TestAssembleViews_PrimeiroLotePorPar testa que, havendo vários lotes para o
// mesmo par, a view usa o primeiro retornado (o de validade mais próxima).
func TestAssembleViews_PrimeiroLotePorPar(t *testing.T) {
	svc, mockProducts, mockActors, mockUsers, mockBatches := newTestService()

	productID := uuid.New().String()
	userID := uuid.New().String()
	supplierID := uuid.New().String()

	movement := domain.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Type:           domain.MovementEntrada,
		ToLocationID:   strPtr(supplierID),
		ToLocationType: kindPtr(domain.LocationSupplier),
		UserID:         userID,
	}

	mockProducts.On("FindSummaries", mock.Anything, []string{productID}).
		Return(map[string]domain.ProductSummary{productID: {ID: productID, Name: "Amoxicilina"}}, nil)
	mockActors.On("FindNames", mock.Anything, domain.LocationSupplier, []string{supplierID}).
		Return(map[string]string{supplierID: "Fornecedor A"}, nil)
	mockUsers.On("FindNames", mock.Anything, []string{userID}).
		Return(map[string]string{userID: "Dra. Helena"}, nil)
	mockBatches.On("FindByPairs", mock.Anything, []string{supplierID}, []string{productID}).
		Return([]domain.StockLocation{
			{LocationID: supplierID, ProductID: productID, SKU: "LOTE-VENCE-ANTES"},
			{LocationID: supplierID, ProductID: productID, SKU: "LOTE-VENCE-DEPOIS"},
		}, nil)

	views, err := svc.AssembleViews(context.Background(), []domain.StockMovement{movement})

	assert.NoError(t, err)
	assert.NotNil(t, views[0].ToLocation)
	assert.Equal(t, "LOTE-VENCE-ANTES", *views[0].ToLocation.SKU)
}

// TestAssembleViews_PaginaVazia testa que página vazia não consulta nada.
func TestAssembleViews_PaginaVazia(t *testing.T) {
	svc, mockProducts, mockActors, mockUsers, mockBatches := newTestService()

	views, err := svc.AssembleViews(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, views)
	mockProducts.AssertNotCalled(t, "FindSummaries", mock.Anything, mock.Anything)
	mockActors.AssertNotCalled(t, "FindNames", mock.Anything, mock.Anything, mock.Anything)
	mockUsers.AssertNotCalled(t, "FindNames", mock.Anything, mock.Anything)
	mockBatches.AssertNotCalled(t, "FindByPairs", mock.Anything, mock.Anything, mock.Anything)
}
