package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/shopchat/internal/adapters/storage/memory"
	"github.com/PabloGalante/shopchat/internal/app/cart"
	"github.com/PabloGalante/shopchat/internal/app/search"
	"github.com/PabloGalante/shopchat/internal/domain"
	"github.com/PabloGalante/shopchat/internal/observability"
)

const DefaultSearchResultLimit = 5

// Service routes classified customer messages to product search or the cart
// engine and keeps the per-session state up to date.
type Service struct {
	sessions   *memory.SessionStore
	catalog    domain.CatalogSource
	classifier domain.IntentClassifier
	responder  domain.ResponseGenerator
	cart       *cart.Engine

	storeDomain string
	searchLimit int
}

type Options struct {
	StoreDomain string
	// SearchResultLimit caps the products returned and cached per search.
	SearchResultLimit int
}

func NewService(
	sessions *memory.SessionStore,
	catalog domain.CatalogSource,
	classifier domain.IntentClassifier,
	responder domain.ResponseGenerator,
	opts Options,
) *Service {
	limit := opts.SearchResultLimit
	if limit <= 0 {
		limit = DefaultSearchResultLimit
	}

	return &Service{
		sessions:    sessions,
		catalog:     catalog,
		classifier:  classifier,
		responder:   responder,
		cart:        cart.NewEngine(opts.StoreDomain),
		storeDomain: opts.StoreDomain,
		searchLimit: limit,
	}
}

// Handle applies an already classified message to the session and returns
// the structured result. The exchange (message, result summary) is recorded
// in the session history. Collaborator failures are returned as errors and
// leave the history untouched.
func (s *Service) Handle(
	ctx context.Context,
	sessionID domain.SessionID,
	message string,
	cls domain.Classification,
) (domain.Result, error) {
	session, release := s.sessions.Acquire(sessionID)
	defer release()

	result, err := s.dispatch(ctx, session, message, cls)
	if err != nil {
		return domain.Result{}, err
	}

	s.sessions.AppendExchange(session, domain.Exchange{
		UserMessage:      message,
		AssistantMessage: result.Summary(),
	})
	return result, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	Classification domain.Classification
	Result         domain.Result
	Reply          string
}

// SendMessage runs the full pipeline for a raw customer message: classify,
// dispatch, generate prose and record the exchange. The session is held for
// the whole call so messages of one conversation are applied in order.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, release := s.sessions.Acquire(in.SessionID)
	defer release()

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)
	log.Info("sending message", "text", in.Text)

	convCtx := conversationContext(session)

	cls, err := s.classifier.Classify(ctx, in.Text, convCtx)
	if err != nil {
		// Without a classification the message is still a useful search.
		log.Warn("classifier failed, falling back to search", "error", err)
		cls = domain.Classification{Intent: domain.IntentSearch, SearchQuery: in.Text}
	}

	result, err := s.dispatch(ctx, session, in.Text, cls)
	if err != nil {
		log.Error("dispatch failed", "intent", cls.Intent, "error", err)
		return nil, err
	}

	reply, err := s.responder.GenerateResponse(ctx, in.Text, result, conversationContext(session))
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Warn("response generator failed, using summary", "error", err)
		reply = result.Summary()
	}

	s.sessions.AppendExchange(session, domain.Exchange{
		UserMessage:      in.Text,
		AssistantMessage: reply,
	})

	log.Info("send message completed", "intent", cls.Intent, "result", result.Kind)

	return &SendMessageOutput{
		Classification: cls,
		Result:         result,
		Reply:          reply,
	}, nil
}

// SessionView is a read-only copy of a session for inspection.
type SessionView struct {
	Session domain.Session
	Cart    domain.CartView
}

// GetSession returns a copy of an existing session and its cart view.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*SessionView, error) {
	snap, ok := s.sessions.Snapshot(id)
	if !ok {
		observability.LoggerFromContext(ctx).Info("session not found", "session_id", id)
		return nil, domain.ErrSessionNotFound
	}
	return &SessionView{
		Session: snap,
		Cart:    s.cart.View(&snap),
	}, nil
}

// ListSessions returns the ids of live sessions.
func (s *Service) ListSessions(ctx context.Context) []domain.SessionID {
	return s.sessions.IDs()
}

func (s *Service) dispatch(
	ctx context.Context,
	session *domain.Session,
	message string,
	cls domain.Classification,
) (domain.Result, error) {
	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"intent", cls.Intent,
	)
	log.Debug("routing message", "product_reference", cls.ProductReference, "quantity", cls.Quantity)

	switch cls.Intent {
	case domain.IntentAddToCart:
		return s.addToCart(session, cls), nil
	case domain.IntentRemoveFromCart:
		return s.removeFromCart(session, cls), nil
	case domain.IntentViewCart:
		view := s.cart.View(session)
		return domain.Result{Kind: domain.ResultCart, Intent: cls.Intent, Cart: &view}, nil
	case domain.IntentClearCart:
		s.cart.Clear(session)
		return domain.Result{Kind: domain.ResultCartCleared, Intent: cls.Intent}, nil
	case domain.IntentCheckout:
		url, ok := s.cart.CheckoutURL(session)
		if !ok {
			return domain.Result{Kind: domain.ResultCartEmpty, Intent: cls.Intent}, nil
		}
		return domain.Result{Kind: domain.ResultCheckout, Intent: cls.Intent, CheckoutURL: url}, nil
	case domain.IntentDetails:
		if p, ok := cart.Resolve(session, cls.ProductReference); ok {
			return domain.Result{
				Kind:     domain.ResultDetails,
				Intent:   cls.Intent,
				Query:    cls.ProductReference,
				Products: []domain.KnownProduct{p},
			}, nil
		}
		return s.search(ctx, session, cls.Intent, searchText(message, cls))
	case domain.IntentSearch, domain.IntentFollowup:
		return s.search(ctx, session, cls.Intent, searchText(message, cls))
	default:
		// Unrecognized intents are treated as a fresh search.
		return s.search(ctx, session, domain.IntentUnknown, searchText(message, cls))
	}
}

func (s *Service) search(
	ctx context.Context,
	session *domain.Session,
	intent domain.Intent,
	query string,
) (domain.Result, error) {
	catalog, err := s.catalog.FetchCatalog(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("fetching catalog: %w", err)
	}

	matched := search.Top(search.Match(catalog, query), s.searchLimit)

	products := make([]domain.KnownProduct, 0, len(matched))
	for _, p := range matched {
		products = append(products, domain.NewKnownProduct(p, s.storeDomain))
	}
	s.sessions.CacheProducts(session, products)

	return domain.Result{
		Kind:     domain.ResultProducts,
		Intent:   intent,
		Query:    query,
		Products: products,
	}, nil
}

func (s *Service) addToCart(session *domain.Session, cls domain.Classification) domain.Result {
	out := s.cart.Add(session, cls.ProductReference, cls.Quantity)
	if !out.OK {
		return domain.Result{Kind: domain.ResultNotFound, Intent: cls.Intent, Query: cls.ProductReference, Reason: out.Reason}
	}

	added := cls.Quantity
	if added < 1 {
		added = 1
	}
	return domain.Result{
		Kind:     domain.ResultItemAdded,
		Intent:   cls.Intent,
		Query:    cls.ProductReference,
		Item:     out.Product.Title,
		Quantity: added,
	}
}

func (s *Service) removeFromCart(session *domain.Session, cls domain.Classification) domain.Result {
	out := s.cart.Remove(session, cls.ProductReference)
	if !out.OK {
		return domain.Result{Kind: domain.ResultNotFound, Intent: cls.Intent, Query: cls.ProductReference, Reason: out.Reason}
	}
	return domain.Result{
		Kind:   domain.ResultItemRemoved,
		Intent: cls.Intent,
		Query:  cls.ProductReference,
		Item:   out.Product.Title,
	}
}

// searchText picks the most specific text available for a search.
func searchText(message string, cls domain.Classification) string {
	if q := strings.TrimSpace(cls.SearchQuery); q != "" {
		return q
	}
	if q := strings.TrimSpace(cls.ProductReference); q != "" {
		return q
	}
	return message
}

func conversationContext(session *domain.Session) domain.ConversationContext {
	return domain.ConversationContext{
		SessionID:     session.ID,
		History:       append([]domain.Exchange(nil), session.Exchanges...),
		KnownProducts: session.KnownProducts.Values(),
	}
}
