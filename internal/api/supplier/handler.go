package supplier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// SupplierService define o contrato que o Handler espera da camada de Serviço.
type SupplierService interface {
	CreateSupplier(ctx domain.Context, supplier domain.Supplier) (domain.Supplier, error)
	GetSupplierByID(ctx domain.Context, id string) (domain.Supplier, error)
	GetAllSuppliers(ctx domain.Context) ([]domain.Supplier, error)
	UpdateSupplier(ctx domain.Context, supplier domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx domain.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de fornecedores.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// SuppliersHandler lida com a coleção /v1/suppliers (GET lista, POST cria).
func (h *Handler) SuppliersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getAllSuppliers(w, r)
	case http.MethodPost:
		h.createSupplier(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createSupplier lida com a requisição POST /v1/suppliers.
// @Summary Cria um novo fornecedor
// @Description Cria um novo fornecedor no sistema.
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.Supplier true "Dados do fornecedor"
// @Success 201 {object} domain.Supplier "Fornecedor criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateSupplier(ctx, supplier)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// getAllSuppliers lida com a requisição GET /v1/suppliers.
// @Summary Lista todos os fornecedores
// @Tags suppliers
// @Produce json
// @Success 200 {array} domain.Supplier "Lista de fornecedores"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /suppliers [get]
func (h *Handler) getAllSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	suppliers, err := h.Service.GetAllSuppliers(ctx)
	h.handleServiceResponse(w, r, suppliers, err, http.StatusOK)
}

// SupplierByIDHandler lida com /v1/suppliers/{id} (GET, PUT, DELETE).
func (h *Handler) SupplierByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/suppliers/")

	switch r.Method {
	case http.MethodGet:
		supplier, err := h.Service.GetSupplierByID(ctx, id)
		h.handleServiceResponse(w, r, supplier, err, http.StatusOK)

	case http.MethodPut:
		var supplier domain.Supplier
		if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		supplier.ID = id

		updated, err := h.Service.UpdateSupplier(ctx, supplier)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteSupplier(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
