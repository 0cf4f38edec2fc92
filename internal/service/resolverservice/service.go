package resolverservice

import (
	"context"
	goerrors "errors"
	"fmt"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ActorLookup resolve a identidade de exibição de um ator por (tipo, id).
type ActorLookup interface {
	FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error)
}

// BatchLookup busca o primeiro lote de um produto em uma localização.
type BatchLookup interface {
	FindFirstByPair(ctx context.Context, locationID, productID string) (domain.StockLocation, error)
}

// Service resolve referências polimórficas de localização
// {Supplier(id) | Client(id) | User(id)} para identidades de exibição.
type Service struct {
	actors  ActorLookup
	batches BatchLookup
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Resolvedor de Localizações.
func NewService(actors ActorLookup, batches BatchLookup, logger logger.Logger) *Service {
	return &Service{actors: actors, batches: batches, logger: logger}
}

func (s *Service) ctxGoFrom(ctx domain.Context, op string) context.Context {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background()", map[string]interface{}{"op": op})
	}
	return ctxGo
}

// ResolveActor resolve uma referência de ator para sua identidade de exibição.
// Referência vazia resolve para (nil, nil): ausência de participante é estado
// legítimo de entradas e saídas puras. Tag desconhecida é erro de validação.
// Referência presente cujo id não existe mais também resolve para (nil, nil) —
// o histórico degrada para null em vez de quebrar a leitura.
func (s *Service) ResolveActor(ctx domain.Context, ref domain.ActorRef) (*domain.ActorIdentity, error) {
	if ref.Empty() {
		return nil, nil
	}
	if !ref.Kind.Valid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Tipo de localização desconhecido: %q.", ref.Kind))
	}

	ctxGo := s.ctxGoFrom(ctx, "ResolveActor")

	identity, err := s.actors.FindName(ctxGo, ref.Kind, ref.ID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if goerrors.As(err, &notFound) {
			s.logger.Debug("Ator não resolvido, degradando para null.", map[string]interface{}{
				"kind": ref.Kind,
				"id":   ref.ID,
			})
			return nil, nil
		}
		s.logger.Error("Falha ao resolver ator.", err)
		return nil, err
	}

	return &identity, nil
}

// ResolveActorWithStock resolve um ator e o enriquece com o primeiro lote do
// produto naquela localização (SKU e validade). Ausência de lote deixa os
// campos nulos. Qualquer entrada ausente (id, tipo ou produto) resolve para
// (nil, nil), como em ResolveActor.
func (s *Service) ResolveActorWithStock(ctx domain.Context, ref domain.ActorRef, productID string) (*domain.ResolvedLocation, error) {
	if productID == "" {
		return nil, nil
	}

	identity, err := s.ResolveActor(ctx, ref)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, nil
	}

	resolved := &domain.ResolvedLocation{
		ID:   identity.ID,
		Name: identity.Name,
	}

	ctxGo := s.ctxGoFrom(ctx, "ResolveActorWithStock")

	batch, err := s.batches.FindFirstByPair(ctxGo, ref.ID, productID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if goerrors.As(err, &notFound) {
			// Localização sem lote para este produto: SKU e validade ficam nulos.
			return resolved, nil
		}
		s.logger.Error("Falha ao buscar lote da localização.", err)
		return nil, err
	}

	if batch.SKU != "" {
		sku := batch.SKU
		resolved.SKU = &sku
	}
	resolved.ExpiryDate = batch.ExpiryDate

	return resolved, nil
}
