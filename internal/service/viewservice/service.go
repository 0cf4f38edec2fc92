package viewservice

import (
	"context"

	"clinistock/internal/domain"
	"clinistock/internal/pkg/logger"
)

// ProductLookup busca em lote a projeção (id, nome) dos produtos de uma página.
type ProductLookup interface {
	FindSummaries(ctx context.Context, ids []string) (map[string]domain.ProductSummary, error)
}

// ActorLookup busca em lote os nomes dos atores de um mesmo tipo.
type ActorLookup interface {
	FindNames(ctx context.Context, kind domain.LocationKind, ids []string) (map[string]string, error)
}

// UserLookup busca em lote os nomes dos usuários autores dos movimentos.
type UserLookup interface {
	FindNames(ctx context.Context, ids []string) (map[string]string, error)
}

// BatchLookup busca em lote as entradas do índice de lotes para os pares
// (localização, produto) de uma página.
type BatchLookup interface {
	FindByPairs(ctx context.Context, locationIDs, productIDs []string) ([]domain.StockLocation, error)
}

/// Service monta o modelo de leitura dos movimentos: resolve produto, atores e
// lotes de uma página inteira em poucas idas ao banco (uma por tipo de ator,
// uma para produtos, uma para lotes), nunca uma por linha.
type Service struct {
	products ProductLookup
	actors   ActorLookup
	users    UserLookup
	batches  BatchLookup
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Montador de Views.
func NewService(products ProductLookup, actors ActorLookup, users UserLookup, batches BatchLookup, logger logger.Logger) *Service {
	return &Service{
		products: products,
		actors:   actors,
		users:    users,
		batches:  batches,
		logger:   logger,
	}
}

func (s *Service) ctxGoFrom(ctx domain.Context, op string) context.Context {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background()", map[string]interface{}{"op": op})
	}
	return ctxGo
}

// pairKey identifica uma entrada do índice de lotes por (localização, produto).
type pairKey struct {
	locationID string
	productID  string
}

// page agrega os mapas resolvidos de uma página de movimentos.
type page struct {
	products map[string]domain.ProductSummary
	actors   map[domain.LocationKind]map[string]string
	users    map[string]string
	batches  map[pairKey]domain.StockLocation
}

// AssembleView monta a view de um único movimento.
func (s *Service) AssembleView(ctx domain.Context, movement domain.StockMovement) (domain.MovementView, error) {
	views, err := s.AssembleViews(ctx, []domain.StockMovement{movement})
	if err != nil {
		return domain.MovementView{}, err
	}
	return views[0], nil
}

// AssembleViews monta as views de uma página de movimentos, preservando a
// ordem de entrada. Referências que não resolvem (ator apagado, produto
// removido, tag desconhecida gravada antes do enrijecimento da validação)
// degradam para null no campo correspondente.
func (s *Service) AssembleViews(ctx domain.Context, movements []domain.StockMovement) ([]domain.MovementView, error) {
	ctxGo := s.ctxGoFrom(ctx, "AssembleViews")

	p, err := s.loadPage(ctxGo, movements)
	if err != nil {
		return nil, err
	}

	views := make([]domain.MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, s.assemble(m, p))
	}

	s.logger.Debug("Views de movimentos montadas.", map[string]interface{}{"total": len(views)})
	return views, nil
}

// loadPage coleta as referências da página e resolve tudo em lote.
func (s *Service) loadPage(ctx context.Context, movements []domain.StockMovement) (page, error) {
	productIDs := map[string]bool{}
	actorIDs := map[domain.LocationKind]map[string]bool{}
	userIDs := map[string]bool{}
	locationIDs := map[string]bool{}

	collectRef := func(ref domain.ActorRef) {
		if ref.Empty() || !ref.Kind.Valid() {
			return
		}
		if actorIDs[ref.Kind] == nil {
			actorIDs[ref.Kind] = map[string]bool{}
		}
		actorIDs[ref.Kind][ref.ID] = true
		locationIDs[ref.ID] = true
	}

	for _, m := range movements {
		if m.ProductID != "" {
			productIDs[m.ProductID] = true
		}
		if m.UserID != "" {
			userIDs[m.UserID] = true
		}
		collectRef(m.FromRef())
		collectRef(m.ToRef())
	}

	p := page{
		products: map[string]domain.ProductSummary{},
		actors:   map[domain.LocationKind]map[string]string{},
		users:    map[string]string{},
		batches:  map[pairKey]domain.StockLocation{},
	}

	if len(productIDs) > 0 {
		summaries, err := s.products.FindSummaries(ctx, keys(productIDs))
		if err != nil {
			s.logger.Error("Falha ao resolver produtos da página.", err)
			return page{}, err
		}
		p.products = summaries
	}

	// Uma consulta por tipo de ator presente na página, não uma por linha.
	for kind, ids := range actorIDs {
		names, err := s.actors.FindNames(ctx, kind, keys(ids))
		if err != nil {
			s.logger.Error("Falha ao resolver atores da página.", err)
			return page{}, err
		}
		p.actors[kind] = names
	}

	if len(userIDs) > 0 {
		names, err := s.users.FindNames(ctx, keys(userIDs))
		if err != nil {
			s.logger.Error("Falha ao resolver usuários da página.", err)
			return page{}, err
		}
		p.users = names
	}

	if len(locationIDs) > 0 && len(productIDs) > 0 {
		rows, err := s.batches.FindByPairs(ctx, keys(locationIDs), keys(productIDs))
		if err != nil {
			s.logger.Error("Falha ao resolver lotes da página.", err)
			return page{}, err
		}
		// As linhas vêm ordenadas por validade; a primeira por par vence.
		for _, row := range rows {
			key := pairKey{locationID: row.LocationID, productID: row.ProductID}
			if _, seen := p.batches[key]; !seen {
				p.batches[key] = row
			}
		}
	}

	return p, nil
}

// assemble monta a view de um movimento a partir dos mapas da página.
func (s *Service) assemble(m domain.StockMovement, p page) domain.MovementView {
	view := domain.MovementView{
		ID:         m.ID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		Notes:      m.Notes,
		UnitPrice:  m.UnitPrice,
		TotalValue: m.TotalValue,
		CreatedAt:  m.CreatedAt,
	}

	if summary, ok := p.products[m.ProductID]; ok {
		view.Product = &summary
	}
	if name, ok := p.users[m.UserID]; ok {
		view.User = &domain.ActorIdentity{ID: m.UserID, Name: name}
	}
	view.FromLocation = s.resolveLocation(m.FromRef(), m.ProductID, p)
	view.ToLocation = s.resolveLocation(m.ToRef(), m.ProductID, p)

	return view
}

// resolveLocation monta a localização resolvida de um lado do movimento.
// Retorna nil quando o lado está ausente ou o ator não resolve mais.
func (s *Service) resolveLocation(ref domain.ActorRef, productID string, p page) *domain.ResolvedLocation {
	if ref.Empty() || !ref.Kind.Valid() {
		return nil
	}
	name, ok := p.actors[ref.Kind][ref.ID]
	if !ok {
		return nil
	}

	resolved := &domain.ResolvedLocation{ID: ref.ID, Name: name}

	if batch, ok := p.batches[pairKey{locationID: ref.ID, productID: productID}]; ok {
		if batch.SKU != "" {
			sku := batch.SKU
			resolved.SKU = &sku
		}
		resolved.ExpiryDate = batch.ExpiryDate
	}

	return resolved
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
