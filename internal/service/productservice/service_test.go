package productservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
	"clinistock/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService() (*productservice.Service, *MockProductRepository) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("debug"))
	return svc, mockRepo
}

// TestCreateProduct_Success testa a criação bem-sucedida de um produto.
func TestCreateProduct_Success(t *testing.T) {
	svc, mockRepo := newTestService()

	product := domain.Product{
		Name:      "Dipirona 500mg",
		UnitPrice: decimal.NewFromFloat(12.50),
		IsActive:  true,
	}
	created := product
	created.ID = uuid.New().String()

	mockRepo.On("Save", mock.Anything, product).Return(created, nil)

	result, err := svc.CreateProduct(context.Background(), product)

	assert.NoError(t, err)
	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, "Dipirona 500mg", result.Name)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Fail_NomeVazio testa a validação do nome obrigatório.
func TestCreateProduct_Fail_NomeVazio(t *testing.T) {
	svc, mockRepo := newTestService()

	_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "   "})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_Fail_PrecoNegativo testa a rejeição de preço unitário negativo.
func TestCreateProduct_Fail_PrecoNegativo(t *testing.T) {
	svc, mockRepo := newTestService()

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:      "Soro Fisiológico",
		UnitPrice: decimal.NewFromFloat(-1.00),
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestGetProductByID_Fail_IDInvalido testa a validação de formato do ID.
func TestGetProductByID_Fail_IDInvalido(t *testing.T) {
	svc, mockRepo := newTestService()

	_, err := svc.GetProductByID(context.Background(), "nao-e-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestUpdateProduct_Fail_NaoEncontrado testa a propagação do NotFound do repositório.
func TestUpdateProduct_Fail_NaoEncontrado(t *testing.T) {
	svc, mockRepo := newTestService()

	product := domain.Product{
		ID:        uuid.New().String(),
		Name:      "Gaze Estéril",
		UnitPrice: decimal.NewFromFloat(3.20),
	}
	mockRepo.On("Update", mock.Anything, product).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))

	_, err := svc.UpdateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestDeleteProduct_Success testa a exclusão de um produto.
func TestDeleteProduct_Success(t *testing.T) {
	svc, mockRepo := newTestService()

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.DeleteProduct(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestListProducts_Filtro testa que o filtro é repassado intacto ao repositório.
func TestListProducts_Filtro(t *testing.T) {
	svc, mockRepo := newTestService()

	filter := domain.ProductFilter{Page: 2, Limit: 10, Name: "soro", ActiveOnly: true}
	mockRepo.On("FindAll", mock.Anything, filter).Return([]domain.Product{}, nil)

	products, err := svc.ListProducts(context.Background(), filter)

	assert.NoError(t, err)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)
}
