package movement

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
	"clinistock/internal/pkg/middleware"
)

// MovementService define o contrato que o Handler espera da camada de Serviço.
type MovementService interface {
	CreateMovement(ctx domain.Context, userID string, input domain.MovementInput) (domain.StockMovement, error)
	GetMovementByID(ctx domain.Context, id string) (domain.StockMovement, error)
	ListMovements(ctx domain.Context, filter domain.MovementFilter) ([]domain.StockMovement, error)
	ListMovementsByProduct(ctx domain.Context, productID string, filter domain.MovementFilter) ([]domain.StockMovement, error)
	AnnotateMovement(ctx domain.Context, id string, annotation domain.MovementAnnotation) (domain.StockMovement, error)
	DeleteMovement(ctx domain.Context, id string) error
	MovementTypes() []domain.MovementType
}

// ViewService monta o modelo de leitura dos movimentos retornados.
type ViewService interface {
	AssembleView(ctx domain.Context, movement domain.StockMovement) (domain.MovementView, error)
	AssembleViews(ctx domain.Context, movements []domain.StockMovement) ([]domain.MovementView, error)
}

// Handler agrupa todos os métodos de Handler de movimentos de estoque.
type Handler struct {
	Service MovementService
	Views   ViewService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Services e o Logger.
func NewHandler(svc MovementService, views ViewService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Views:   views,
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

// parseFilter extrai paginação e período da query string.
func parseFilter(r *http.Request) (domain.MovementFilter, error) {
	var filter domain.MovementFilter
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, apperror.NewValidationError("O parâmetro 'page' deve ser um inteiro positivo.")
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, apperror.NewValidationError("O parâmetro 'limit' deve ser um inteiro positivo.")
		}
		filter.Limit = limit
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperror.NewValidationError("O parâmetro 'from' deve estar no formato RFC3339.")
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperror.NewValidationError("O parâmetro 'to' deve estar no formato RFC3339.")
		}
		filter.To = &to
	}

	return filter, nil
}

// MovementsHandler lida com a coleção /v1/stock-movements (GET lista, POST registra).
func (h *Handler) MovementsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listMovements(w, r)
	case http.MethodPost:
		h.createMovement(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createMovement lida com a requisição POST /v1/stock-movements.
// @Summary Registra um movimento de estoque
// @Description Registra um movimento de entrada, saída ou transferência no livro-razão. O usuário autor vem do token.
// @Tags stock-movements
// @Accept json
// @Produce json
// @Param movement body domain.MovementInput true "Dados do movimento"
// @Success 201 {object} domain.MovementView "Movimento registrado"
// @Failure 400 {object} domain.ErrorResponse "Payload ou invariante direcional inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto ou ator referenciado não existe"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /stock-movements [post]
func (h *Handler) createMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Identidade do usuário ausente."), http.StatusOK)
		return
	}

	var input domain.MovementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateMovement(ctx, claims.UserID, input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	view, err := h.Views.AssembleView(ctx, created)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, view, nil, http.StatusCreated)
}

// listMovements lida com a requisição GET /v1/stock-movements.
// @Summary Lista movimentos de estoque
// @Description Retorna a página mais recente do livro-razão, com referências resolvidas para exibição.
// @Tags stock-movements
// @Produce json
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 10)"
// @Param from query string false "Início do período (RFC3339)"
// @Param to query string false "Fim do período (RFC3339)"
// @Success 200 {array} domain.MovementView "Página de movimentos"
// @Failure 400 {object} domain.ErrorResponse "Parâmetros de consulta inválidos"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-movements [get]
func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	movements, err := h.Service.ListMovements(ctx, filter)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	views, err := h.Views.AssembleViews(ctx, movements)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, views, nil, http.StatusOK)
}

// MovementTypesHandler lida com a requisição GET /v1/stock-movements/types.
// @Summary Lista os tipos de movimento
// @Description Retorna o enum fixo de tipos de movimento reconhecidos.
// @Tags stock-movements
// @Produce json
// @Success 200 {array} string "Tipos de movimento"
// @Router /stock-movements/types [get]
func (h *Handler) MovementTypesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	h.handleServiceResponse(w, r, h.Service.MovementTypes(), nil, http.StatusOK)
}

// MovementsByProductHandler lida com a requisição GET /v1/stock-movements/product/{id}.
// @Summary Lista movimentos de um produto
// @Description Retorna os movimentos de um produto específico, com referências resolvidas.
// @Tags stock-movements
// @Produce json
// @Param id path string true "ID do Produto"
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 10)"
// @Success 200 {array} domain.MovementView "Movimentos do produto"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-movements/product/{id} [get]
func (h *Handler) MovementsByProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	productID := strings.TrimPrefix(r.URL.Path, "/v1/stock-movements/product/")

	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	movements, err := h.Service.ListMovementsByProduct(ctx, productID, filter)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	views, err := h.Views.AssembleViews(ctx, movements)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, views, nil, http.StatusOK)
}

// MovementByIDHandler lida com /v1/stock-movements/{id} (GET, PUT, DELETE).
func (h *Handler) MovementByIDHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getMovementByID(w, r)
	case http.MethodPut:
		h.annotateMovement(w, r)
	case http.MethodDelete:
		h.deleteMovement(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// getMovementByID lida com a requisição GET /v1/stock-movements/{id}.
// @Summary Obtém um movimento por ID
// @Description Busca um movimento específico do livro-razão, com referências resolvidas.
// @Tags stock-movements
// @Produce json
// @Param id path string true "ID do Movimento"
// @Success 200 {object} domain.MovementView "Movimento encontrado"
// @Failure 404 {object} domain.ErrorResponse "Movimento não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-movements/{id} [get]
func (h *Handler) getMovementByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/stock-movements/")

	movement, err := h.Service.GetMovementByID(ctx, id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	view, err := h.Views.AssembleView(ctx, movement)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, view, nil, http.StatusOK)
}

// annotateMovement lida com a requisição PUT /v1/stock-movements/{id}.
// @Summary Anota um movimento
// @Description Atualiza motivo, observações e valores de um movimento. Tipo, quantidade e localizações são imutáveis.
// @Tags stock-movements
// @Accept json
// @Produce json
// @Param id path string true "ID do Movimento"
// @Param annotation body domain.MovementAnnotation true "Campos de anotação"
// @Success 200 {object} domain.MovementView "Movimento anotado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Movimento não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /stock-movements/{id} [put]
func (h *Handler) annotateMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/stock-movements/")

	// Campos fora do conjunto de anotação (tipo, quantidade, localizações)
	// são rejeitados: o livro-razão é imutável nos campos contábeis.
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var annotation domain.MovementAnnotation
	if err := decoder.Decode(&annotation); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Apenas motivo, observações e valores podem ser anotados."), http.StatusBadRequest)
		return
	}

	updated, err := h.Service.AnnotateMovement(ctx, id, annotation)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	view, err := h.Views.AssembleView(ctx, updated)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, view, nil, http.StatusOK)
}

// deleteMovement lida com a requisição DELETE /v1/stock-movements/{id}.
// @Summary Deleta um movimento
// @Description Remove um movimento do livro-razão. Restrito a administradores.
// @Tags stock-movements
// @Param id path string true "ID do Movimento"
// @Success 204 "Nenhum conteúdo"
// @Failure 403 {object} domain.ErrorResponse "Permissão insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Movimento não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /stock-movements/{id} [delete]
func (h *Handler) deleteMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/stock-movements/")

	if err := h.Service.DeleteMovement(ctx, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
