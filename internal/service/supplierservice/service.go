package supplierservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// SupplierRepository define o contrato que o Serviço de Fornecedores espera da camada de Persistência.
type SupplierRepository interface {
	Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	FindByID(ctx context.Context, id string) (domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio de fornecedores.
type Service struct {
	repo   SupplierRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, logger logger.Logger) *Service {
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

// CreateSupplier cria um novo fornecedor após validações de negócio.
func (s *Service) CreateSupplier(ctx domain.Context, supplier domain.Supplier) (domain.Supplier, error) {
	s.logger.Debug("Iniciando criação de fornecedor no serviço.", map[string]interface{}{"name": supplier.Name})

	if err := validateName(supplier.Name); err != nil {
		return domain.Supplier{}, err
	}

	created, err := s.repo.Create(s.ctxGoFrom(ctx, "CreateSupplier"), supplier)
	if err != nil {
		s.logger.Error("Falha ao criar fornecedor no repositório.", err)
		return domain.Supplier{}, err
	}

	s.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetSupplierByID busca um fornecedor pelo ID.
func (s *Service) GetSupplierByID(ctx domain.Context, id string) (domain.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	return s.repo.FindByID(s.ctxGoFrom(ctx, "GetSupplierByID"), id)
}

// GetAllSuppliers lista todos os fornecedores.
func (s *Service) GetAllSuppliers(ctx domain.Context) ([]domain.Supplier, error) {
	return s.repo.FindAll(s.ctxGoFrom(ctx, "GetAllSuppliers"))
}

// UpdateSupplier atualiza um fornecedor existente.
func (s *Service) UpdateSupplier(ctx domain.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if _, err := uuid.Parse(supplier.ID); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	if err := validateName(supplier.Name); err != nil {
		return domain.Supplier{}, err
	}

	updated, err := s.repo.Update(s.ctxGoFrom(ctx, "UpdateSupplier"), supplier)
	if err != nil {
		s.logger.Error("Falha ao atualizar fornecedor no repositório.", err)
		return domain.Supplier{}, err
	}

	s.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteSupplier remove um fornecedor.
func (s *Service) DeleteSupplier(ctx domain.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	if err := s.repo.Delete(s.ctxGoFrom(ctx, "DeleteSupplier"), id); err != nil {
		s.logger.Error("Falha ao deletar fornecedor no repositório.", err)
		return err
	}

	s.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("O nome do fornecedor não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome do fornecedor deve ter entre 3 e 100 caracteres.")
	}
	return nil
}
