package productservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ProductRepository define o contrato que o Serviço de Produtos espera da camada de Persistência.
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio do catálogo de produtos.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produtos.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ctxGoFrom(ctx domain.Context, op string) context.Context {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background()", map[string]interface{}{"op": op})
	}
	return ctxGo
}

// CreateProduct cria um novo produto após validações de negócio.
func (s *Service) CreateProduct(ctx domain.Context, product domain.Product) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto no serviço.", map[string]interface{}{"name": product.Name})

	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.Save(s.ctxGoFrom(ctx, "CreateProduct"), product)
	if err != nil {
		s.logger.Error("Falha ao criar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx domain.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return s.repo.FindByID(s.ctxGoFrom(ctx, "GetProductByID"), id)
}

// ListProducts lista produtos com paginação e filtros opcionais.
func (s *Service) ListProducts(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.FindAll(s.ctxGoFrom(ctx, "ListProducts"), filter)
}

// UpdateProduct atualiza um produto existente.
func (s *Service) UpdateProduct(ctx domain.Context, product domain.Product) (domain.Product, error) {
	if _, err := uuid.Parse(product.ID); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.Update(s.ctxGoFrom(ctx, "UpdateProduct"), product)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteProduct remove um produto do catálogo. A exclusão propaga em cascata
// para os movimentos e lotes do produto.
func (s *Service) DeleteProduct(ctx domain.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	if err := s.repo.Delete(s.ctxGoFrom(ctx, "DeleteProduct"), id); err != nil {
		s.logger.Error("Falha ao deletar produto no repositório.", err)
		return err
	}

	s.logger.Info("Produto deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateProduct(product domain.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return apperror.NewValidationError("O nome do produto não pode ser vazio.")
	}
	if len(product.Name) > 150 {
		return apperror.NewValidationError("O nome do produto deve ter no máximo 150 caracteres.")
	}
	if product.UnitPrice.IsNegative() {
		return apperror.NewValidationError("O preço unitário do produto não pode ser negativo.")
	}
	return nil
}
