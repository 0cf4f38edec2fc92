package clientservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ClientRepository define o contrato que o Serviço de Clientes espera da camada de Persistência.
type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
	FindByID(ctx context.Context, id string) (domain.Client, error)
	FindAll(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio de clientes.
type Service struct {
	repo   ClientRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo ClientRepository, logger logger.Logger) *Service {
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

// CreateClient cria um novo cliente após validações de negócio.
func (s *Service) CreateClient(ctx domain.Context, client domain.Client) (domain.Client, error) {
	s.logger.Debug("Iniciando criação de cliente no serviço.", map[string]interface{}{"name": client.Name})

	if err := validateName(client.Name); err != nil {
		return domain.Client{}, err
	}

	created, err := s.repo.Create(s.ctxGoFrom(ctx, "CreateClient"), client)
	if err != nil {
		s.logger.Error("Falha ao criar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetClientByID busca um cliente pelo ID.
func (s *Service) GetClientByID(ctx domain.Context, id string) (domain.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Client{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	return s.repo.FindByID(s.ctxGoFrom(ctx, "GetClientByID"), id)
}

// GetAllClients lista todos os clientes.
func (s *Service) GetAllClients(ctx domain.Context) ([]domain.Client, error) {
	return s.repo.FindAll(s.ctxGoFrom(ctx, "GetAllClients"))
}

// UpdateClient atualiza um cliente existente.
func (s *Service) UpdateClient(ctx domain.Context, client domain.Client) (domain.Client, error) {
	if _, err := uuid.Parse(client.ID); err != nil {
		return domain.Client{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	if err := validateName(client.Name); err != nil {
		return domain.Client{}, err
	}

	updated, err := s.repo.Update(s.ctxGoFrom(ctx, "UpdateClient"), client)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteClient remove um cliente.
func (s *Service) DeleteClient(ctx domain.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}

	if err := s.repo.Delete(s.ctxGoFrom(ctx, "DeleteClient"), id); err != nil {
		s.logger.Error("Falha ao deletar cliente no repositório.", err)
		return err
	}

	s.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("O nome do cliente não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome do cliente deve ter entre 3 e 100 caracteres.")
	}
	return nil
}
