package movementservice

import (
	"context"
	"fmt"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// MovementRepository define o contrato que o Serviço de Movimentos espera da camada de Persistência.
type MovementRepository interface {
	Create(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error)
	FindByID(ctx context.Context, id string) (domain.StockMovement, error)
	FindAll(ctx context.Context, filter domain.MovementFilter) ([]domain.StockMovement, error)
	FindByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error)
	UpdateAnnotations(ctx context.Context, movement domain.StockMovement) (domain.StockMovement, error)
	Delete(ctx context.Context, id string) error
}

// ProductLookup valida a existência do produto referenciado pelo movimento.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

// UserLookup valida a existência do usuário autor do movimento.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// ActorLookup valida a existência dos participantes de localização referenciados.
type ActorLookup interface {
	FindName(ctx context.Context, kind domain.LocationKind, id string) (domain.ActorIdentity, error)
}

// Service implementa o livro-razão de movimentos de estoque: registro com
// validação direcional, consulta paginada e anotação pós-registro.
type Service struct {
	repo     MovementRepository
	products ProductLookup
	users    UserLookup
	actors   ActorLookup
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Movimentos.
func NewService(repo MovementRepository, products ProductLookup, users UserLookup, actors ActorLookup, logger logger.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		users:    users,
		actors:   actors,
		logger:   logger,
	}
}

// ctxGoFrom converte domain.Context para context.Context, degradando para
// Background quando o chamador não propagou um contexto válido.
func (s *Service) ctxGoFrom(ctx domain.Context, op string) context.Context {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background()", map[string]interface{}{"op": op})
	}
	return ctxGo
}

// CreateMovement registra um novo movimento no livro-razão.
// userID vem das claims de autenticação do chamador, nunca do payload.
func (s *Service) CreateMovement(ctx domain.Context, userID string, input domain.MovementInput) (domain.StockMovement, error) {
	s.logger.Debug("Iniciando registro de movimento no serviço.", map[string]interface{}{
		"product_id": input.ProductID,
		"type":       input.Type,
		"quantity":   input.Quantity,
		"user_id":    userID,
	})

	if userID == "" {
		return domain.StockMovement{}, apperror.NewUnauthorizedError("Identidade do usuário ausente para registrar movimento.")
	}

	if err := validateInput(input); err != nil {
		return domain.StockMovement{}, err
	}

	ctxGo := s.ctxGoFrom(ctx, "CreateMovement")

	// Referências são checadas antes de gravar: um movimento nunca nasce
	// apontando para produto, usuário ou ator inexistente.
	if _, err := s.products.FindByID(ctxGo, input.ProductID); err != nil {
		s.logger.Info("Produto do movimento não encontrado.", map[string]interface{}{"product_id": input.ProductID})
		return domain.StockMovement{}, err
	}
	if _, err := s.users.FindByID(ctxGo, userID); err != nil {
		s.logger.Info("Usuário autor do movimento não encontrado.", map[string]interface{}{"user_id": userID})
		return domain.StockMovement{}, err
	}
	if err := s.checkActor(ctxGo, "origem", input.FromLocationID, input.FromLocationType); err != nil {
		return domain.StockMovement{}, err
	}
	if err := s.checkActor(ctxGo, "destino", input.ToLocationID, input.ToLocationType); err != nil {
		return domain.StockMovement{}, err
	}

	movement := domain.StockMovement{
		ProductID:        input.ProductID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		FromLocationID:   input.FromLocationID,
		FromLocationType: input.FromLocationType,
		ToLocationID:     input.ToLocationID,
		ToLocationType:   input.ToLocationType,
		UserID:           userID,
		Reason:           input.Reason,
		Notes:            input.Notes,
		UnitPrice:        input.UnitPrice,
		TotalValue:       input.TotalValue,
	}

	created, err := s.repo.Create(ctxGo, movement)
	if err != nil {
		s.logger.Error("Falha ao registrar movimento no repositório.", err)
		return domain.StockMovement{}, err
	}

	s.logger.Info("Movimento registrado com sucesso.", map[string]interface{}{
		"id":       created.ID,
		"type":     created.Type,
		"quantity": created.Quantity,
	})
	return created, nil
}

// validateInput aplica as invariantes direcionais do livro-razão.
func validateInput(input domain.MovementInput) error {
	if input.ProductID == "" {
		return apperror.NewValidationError("O produto do movimento é obrigatório.")
	}
	if !input.Type.Valid() {
		return apperror.NewValidationError(fmt.Sprintf("Tipo de movimento inválido: %q. Use entrada, saida ou transferencia.", input.Type))
	}
	if input.Quantity <= 0 {
		return apperror.NewValidationError("A quantidade do movimento deve ser positiva.")
	}

	if err := validatePair("origem", input.FromLocationID, input.FromLocationType); err != nil {
		return err
	}
	if err := validatePair("destino", input.ToLocationID, input.ToLocationType); err != nil {
		return err
	}

	hasFrom := input.FromLocationID != nil
	hasTo := input.ToLocationID != nil

	switch input.Type {
	case domain.MovementEntrada:
		if !hasTo {
			return apperror.NewValidationError("Movimento de entrada exige localização de destino.")
		}
	case domain.MovementSaida:
		if !hasFrom {
			return apperror.NewValidationError("Movimento de saída exige localização de origem.")
		}
	case domain.MovementTransferencia:
		if !hasFrom || !hasTo {
			return apperror.NewValidationError("Transferência exige localizações de origem e destino.")
		}
		if *input.FromLocationID == *input.ToLocationID {
			return apperror.NewValidationError("Transferência exige origem e destino distintos.")
		}
	}
	return nil
}

// validatePair garante que id e tipo de localização vêm juntos e que o tipo é
// uma das três tags reconhecidas. Par totalmente ausente é legítimo.
func validatePair(side string, id *string, kind *domain.LocationKind) error {
	if id == nil && kind == nil {
		return nil
	}
	if id == nil || kind == nil {
		return apperror.NewValidationError(fmt.Sprintf("Localização de %s exige id e tipo em conjunto.", side))
	}
	if *id == "" {
		return apperror.NewValidationError(fmt.Sprintf("Id da localização de %s não pode ser vazio.", side))
	}
	if !kind.Valid() {
		return apperror.NewValidationError(fmt.Sprintf("Tipo da localização de %s inválido: %q.", side, *kind))
	}
	return nil
}

// checkActor valida a existência do ator referenciado por um par presente.
func (s *Service) checkActor(ctx context.Context, side string, id *string, kind *domain.LocationKind) error {
	if id == nil || kind == nil {
		return nil
	}
	if _, err := s.actors.FindName(ctx, *kind, *id); err != nil {
		s.logger.Info("Ator referenciado pelo movimento não encontrado.", map[string]interface{}{
			"side": side,
			"kind": *kind,
			"id":   *id,
		})
		return err
	}
	return nil
}

// GetMovementByID busca um movimento pelo ID.
func (s *Service) GetMovementByID(ctx domain.Context, id string) (domain.StockMovement, error) {
	ctxGo := s.ctxGoFrom(ctx, "GetMovementByID")
	return s.repo.FindByID(ctxGo, id)
}

// ListMovements lista os movimentos do livro-razão com paginação e filtro por período.
func (s *Service) ListMovements(ctx domain.Context, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	ctxGo := s.ctxGoFrom(ctx, "ListMovements")

	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.NewValidationError("O início do período não pode ser posterior ao fim.")
	}

	return s.repo.FindAll(ctxGo, filter)
}

// ListMovementsByProduct lista os movimentos de um produto específico.
func (s *Service) ListMovementsByProduct(ctx domain.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	if productID == "" {
		return nil, apperror.NewValidationError("O produto da consulta é obrigatório.")
	}

	ctxGo := s.ctxGoFrom(ctx, "ListMovementsByProduct")

	if _, err := s.products.FindByID(ctxGo, productID); err != nil {
		return nil, err
	}

	return s.repo.FindByProduct(ctxGo, productID, filter)
}

// AnnotateMovement atualiza os campos de anotação de um movimento existente.
// Tipo, quantidade e localizações são imutáveis depois do registro.
func (s *Service) AnnotateMovement(ctx domain.Context, id string, annotation domain.MovementAnnotation) (domain.StockMovement, error) {
	s.logger.Debug("Iniciando anotação de movimento no serviço.", map[string]interface{}{"id": id})

	ctxGo := s.ctxGoFrom(ctx, "AnnotateMovement")

	movement, err := s.repo.FindByID(ctxGo, id)
	if err != nil {
		return domain.StockMovement{}, err
	}

	if annotation.Reason != nil {
		movement.Reason = *annotation.Reason
	}
	if annotation.Notes != nil {
		movement.Notes = *annotation.Notes
	}
	if annotation.UnitPrice != nil {
		movement.UnitPrice = *annotation.UnitPrice
	}
	if annotation.TotalValue != nil {
		movement.TotalValue = *annotation.TotalValue
	}

	updated, err := s.repo.UpdateAnnotations(ctxGo, movement)
	if err != nil {
		s.logger.Error("Falha ao anotar movimento no repositório.", err)
		return domain.StockMovement{}, err
	}

	s.logger.Info("Movimento anotado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteMovement remove um movimento do livro-razão.
func (s *Service) DeleteMovement(ctx domain.Context, id string) error {
	ctxGo := s.ctxGoFrom(ctx, "DeleteMovement")
	return s.repo.Delete(ctxGo, id)
}

// MovementTypes retorna o enum fixo de tipos de movimento.
func (s *Service) MovementTypes() []domain.MovementType {
	return domain.MovementTypes()
}
