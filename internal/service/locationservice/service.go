package locationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// LocationRepository define o contrato que o Serviço do Índice de Lotes espera da camada de Persistência.
type LocationRepository interface {
	Create(ctx context.Context, location domain.StockLocation) (domain.StockLocation, error)
	FindByID(ctx context.Context, id string) (domain.StockLocation, error)
	FindByLocation(ctx context.Context, locationID string) ([]domain.StockLocation, error)
	FindByProduct(ctx context.Context, productID string) ([]domain.StockLocation, error)
	Update(ctx context.Context, location domain.StockLocation) (domain.StockLocation, error)
	Delete(ctx context.Context, id string) error
}

// ProductLookup valida a existência do produto referenciado pelo lote.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

// ActorLookup valida a existência da localização referenciada pelo lote.
type ActorLookup interface {
	FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error)
}

// Service implementa a manutenção do índice de lotes: as entradas
// (localização, produto, sku, validade) consultadas pelo resolvedor.
// O índice é mantido por estes endpoints; o registro de um movimento
// não altera o índice.
type Service struct {
	repo     LocationRepository
	products ProductLookup
	actors   ActorLookup
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço do Índice de Lotes.
func NewService(repo LocationRepository, products ProductLookup, actors ActorLookup, logger logger.Logger) *Service {
	return &Service{repo: repo, products: products, actors: actors, logger: logger}
}

func (s *Service) ctxGoFrom(ctx domain.Context, op string) context.Context {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background()", map[string]interface{}{"op": op})
	}
	return ctxGo
}

// CreateLocation cria uma nova entrada no índice de lotes.
func (s *Service) CreateLocation(ctx domain.Context, location domain.StockLocation) (domain.StockLocation, error) {
	s.logger.Debug("Iniciando criação de lote no serviço.", map[string]interface{}{
		"location_id": location.LocationID,
		"product_id":  location.ProductID,
		"sku":         location.SKU,
	})

	if err := validateLocation(location); err != nil {
		return domain.StockLocation{}, err
	}

	ctxGo := s.ctxGoFrom(ctx, "CreateLocation")

	if _, err := s.products.FindByID(ctxGo, location.ProductID); err != nil {
		return domain.StockLocation{}, err
	}
	if _, err := s.actors.FindName(ctxGo, location.LocationType, location.LocationID); err != nil {
		return domain.StockLocation{}, err
	}

	created, err := s.repo.Create(ctxGo, location)
	if err != nil {
		s.logger.Error("Falha ao criar lote no repositório.", err)
		return domain.StockLocation{}, err
	}

	s.logger.Info("Lote criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// GetLocationByID busca uma entrada do índice pelo ID.
func (s *Service) GetLocationByID(ctx domain.Context, id string) (domain.StockLocation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.StockLocation{}, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}
	return s.repo.FindByID(s.ctxGoFrom(ctx, "GetLocationByID"), id)
}

// ListByLocation lista as entradas do índice de uma localização.
func (s *Service) ListByLocation(ctx domain.Context, locationID string) ([]domain.StockLocation, error) {
	if locationID == "" {
		return nil, apperror.NewValidationError("A localização da consulta é obrigatória.")
	}
	return s.repo.FindByLocation(s.ctxGoFrom(ctx, "ListByLocation"), locationID)
}

// ListByProduct lista as entradas do índice de um produto.
func (s *Service) ListByProduct(ctx domain.Context, productID string) ([]domain.StockLocation, error) {
	if productID == "" {
		return nil, apperror.NewValidationError("O produto da consulta é obrigatório.")
	}
	return s.repo.FindByProduct(s.ctxGoFrom(ctx, "ListByProduct"), productID)
}

// UpdateLocation atualiza sku, validade e quantidade de uma entrada do índice.
func (s *Service) UpdateLocation(ctx domain.Context, location domain.StockLocation) (domain.StockLocation, error) {
	if _, err := uuid.Parse(location.ID); err != nil {
		return domain.StockLocation{}, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}
	if location.Quantity < 0 {
		return domain.StockLocation{}, apperror.NewValidationError("A quantidade do lote não pode ser negativa.")
	}

	updated, err := s.repo.Update(s.ctxGoFrom(ctx, "UpdateLocation"), location)
	if err != nil {
		s.logger.Error("Falha ao atualizar lote no repositório.", err)
		return domain.StockLocation{}, err
	}

	s.logger.Info("Lote atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteLocation remove uma entrada do índice de lotes.
func (s *Service) DeleteLocation(ctx domain.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}

	if err := s.repo.Delete(s.ctxGoFrom(ctx, "DeleteLocation"), id); err != nil {
		s.logger.Error("Falha ao deletar lote no repositório.", err)
		return err
	}

	s.logger.Info("Lote deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateLocation(location domain.StockLocation) error {
	if location.LocationID == "" {
		return apperror.NewValidationError("A localização do lote é obrigatória.")
	}
	if !location.LocationType.Valid() {
		return apperror.NewValidationError(fmt.Sprintf("Tipo da localização do lote inválido: %q.", location.LocationType))
	}
	if location.ProductID == "" {
		return apperror.NewValidationError("O produto do lote é obrigatório.")
	}
	if location.Quantity < 0 {
		return apperror.NewValidationError("A quantidade do lote não pode ser negativa.")
	}
	return nil
}
