package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// ClientService define o contrato que o Handler espera da camada de Serviço.
type ClientService interface {
	CreateClient(ctx domain.Context, client domain.Client) (domain.Client, error)
	GetClientByID(ctx domain.Context, id string) (domain.Client, error)
	GetAllClients(ctx domain.Context) ([]domain.Client, error)
	UpdateClient(ctx domain.Context, client domain.Client) (domain.Client, error)
	DeleteClient(ctx domain.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de clientes.
type Handler struct {
	Service ClientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ClientService, log logger.Logger) *Handler {
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

// ClientsHandler lida com a coleção /v1/clients (GET lista, POST cria).
func (h *Handler) ClientsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getAllClients(w, r)
	case http.MethodPost:
		h.createClient(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createClient lida com a requisição POST /v1/clients.
// @Summary Cria um novo cliente
// @Description Cria um novo cliente/paciente no sistema.
// @Tags clients
// @Accept json
// @Produce json
// @Param client body domain.Client true "Dados do cliente"
// @Success 201 {object} domain.Client "Cliente criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /clients [post]
func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var client domain.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateClient(ctx, client)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// getAllClients lida com a requisição GET /v1/clients.
// @Summary Lista todos os clientes
// @Tags clients
// @Produce json
// @Success 200 {array} domain.Client "Lista de clientes"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /clients [get]
func (h *Handler) getAllClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.Service.GetAllClients(ctx)
	h.handleServiceResponse(w, r, clients, err, http.StatusOK)
}

// ClientByIDHandler lida com /v1/clients/{id} (GET, PUT, DELETE).
func (h *Handler) ClientByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/clients/")

	switch r.Method {
	case http.MethodGet:
		client, err := h.Service.GetClientByID(ctx, id)
		h.handleServiceResponse(w, r, client, err, http.StatusOK)

	case http.MethodPut:
		var client domain.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		client.ID = id

		updated, err := h.Service.UpdateClient(ctx, client)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteClient(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
