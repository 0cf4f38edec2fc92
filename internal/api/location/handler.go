package location

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"clinistock/internal/domain"
	apperror "clinistock/internal/errors"
	"clinistock/internal/pkg/logger"
)

// LocationService define o contrato que o Handler espera da camada de Serviço.
type LocationService interface {
	CreateLocation(ctx domain.Context, location domain.StockLocation) (domain.StockLocation, error)
	GetLocationByID(ctx domain.Context, id string) (domain.StockLocation, error)
	ListByLocation(ctx domain.Context, locationID string) ([]domain.StockLocation, error)
	ListByProduct(ctx domain.Context, productID string) ([]domain.StockLocation, error)
	UpdateLocation(ctx domain.Context, location domain.StockLocation) (domain.StockLocation, error)
	DeleteLocation(ctx domain.Context, id string) error
}

// ResolverService define o contrato de resolução de atores polimórficos.
type ResolverService interface {
	ResolveActorWithStock(ctx domain.Context, ref domain.ActorRef, productID string) (*domain.ResolvedLocation, error)
}

// Handler agrupa todos os métodos de Handler do índice de lotes.
type Handler struct {
	Service  LocationService
	Resolver ResolverService
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Services e o Logger.
func NewHandler(svc LocationService, resolver ResolverService, log logger.Logger) *Handler {
	return &Handler{
		Service:  svc,
		Resolver: resolver,
		Logger:   log,
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

// LocationsHandler lida com a coleção /v1/stock-locations (GET lista, POST cria).
func (h *Handler) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listLocations(w, r)
	case http.MethodPost:
		h.createLocation(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createLocation lida com a requisição POST /v1/stock-locations.
// @Summary Cria uma entrada no índice de lotes
// @Description Registra um lote (localização, produto, sku, validade) consultado pelas views de movimentos.
// @Tags stock-locations
// @Accept json
// @Produce json
// @Param location body domain.StockLocation true "Dados do lote"
// @Success 201 {object} domain.StockLocation "Lote criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto ou localização referenciada não existe"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /stock-locations [post]
func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var location domain.StockLocation
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateLocation(ctx, location)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// listLocations lida com a requisição GET /v1/stock-locations.
// @Summary Lista entradas do índice de lotes
// @Description Lista os lotes de uma localização (location_id) ou de um produto (product_id).
// @Tags stock-locations
// @Produce json
// @Param location_id query string false "ID da localização"
// @Param product_id query string false "ID do produto"
// @Success 200 {array} domain.StockLocation "Lotes encontrados"
// @Failure 400 {object} domain.ErrorResponse "Nenhum filtro informado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-locations [get]
func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if locationID := q.Get("location_id"); locationID != "" {
		locations, err := h.Service.ListByLocation(ctx, locationID)
		h.handleServiceResponse(w, r, locations, err, http.StatusOK)
		return
	}
	if productID := q.Get("product_id"); productID != "" {
		locations, err := h.Service.ListByProduct(ctx, productID)
		h.handleServiceResponse(w, r, locations, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil,
		apperror.NewValidationError("Informe 'location_id' ou 'product_id' para listar lotes."), http.StatusOK)
}

// LocationsByLocationHandler lida com a requisição GET /v1/stock-locations/location/{locationId}.
// @Summary Lista os lotes de uma localização
// @Description Lista todas as entradas do índice de lotes de uma localização (fornecedor, cliente ou usuário).
// @Tags stock-locations
// @Produce json
// @Param locationId path string true "ID da localização"
// @Success 200 {array} domain.StockLocation "Lotes encontrados"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-locations/location/{locationId} [get]
func (h *Handler) LocationsByLocationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	locationID := strings.TrimPrefix(r.URL.Path, "/v1/stock-locations/location/")
	locations, err := h.Service.ListByLocation(r.Context(), locationID)
	h.handleServiceResponse(w, r, locations, err, http.StatusOK)
}

// LocationsByProductHandler lida com a requisição GET /v1/stock-locations/product/{productId}.
// @Summary Lista os lotes de um produto
// @Description Lista todas as entradas do índice de lotes de um produto, em todas as localizações.
// @Tags stock-locations
// @Produce json
// @Param productId path string true "ID do produto"
// @Success 200 {array} domain.StockLocation "Lotes encontrados"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-locations/product/{productId} [get]
func (h *Handler) LocationsByProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	productID := strings.TrimPrefix(r.URL.Path, "/v1/stock-locations/product/")
	locations, err := h.Service.ListByProduct(r.Context(), productID)
	h.handleServiceResponse(w, r, locations, err, http.StatusOK)
}

// ResolveHandler lida com a requisição GET /v1/stock-locations/resolve.
// @Summary Resolve uma referência de localização
// @Description Resolve um par (tipo, id) para a identidade de exibição do ator, enriquecida com o primeiro lote do produto. Qualquer parâmetro ausente, ou referência que não resolve mais, retorna null, não erro.
// @Tags stock-locations
// @Produce json
// @Param kind query string true "Tipo da localização (supplier, client ou user)"
// @Param id query string true "ID do ator"
// @Param product_id query string true "ID do produto para o SKU e validade do primeiro lote"
// @Success 200 {object} domain.ResolvedLocation "Localização resolvida (null se algum parâmetro falta ou o ator não existe mais)"
// @Failure 400 {object} domain.ErrorResponse "Tipo de localização desconhecido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stock-locations/resolve [get]
func (h *Handler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	ref := domain.ActorRef{
		ID:   q.Get("id"),
		Kind: domain.LocationKind(q.Get("kind")),
	}

	resolved, err := h.Resolver.ResolveActorWithStock(ctx, ref, q.Get("product_id"))
	// o ponteiro nulo serializa como null no corpo: ausência é resposta válida
	h.handleServiceResponse(w, r, resolved, err, http.StatusOK)
}

// LocationByIDHandler lida com /v1/stock-locations/{id} (GET, PUT, DELETE).
func (h *Handler) LocationByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/v1/stock-locations/")

	switch r.Method {
	case http.MethodGet:
		location, err := h.Service.GetLocationByID(ctx, id)
		h.handleServiceResponse(w, r, location, err, http.StatusOK)

	case http.MethodPut:
		var location domain.StockLocation
		if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
		location.ID = id

		updated, err := h.Service.UpdateLocation(ctx, location)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	case http.MethodDelete:
		if err := h.Service.DeleteLocation(ctx, id); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
