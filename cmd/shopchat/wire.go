package main

import (
	"context"
	"fmt"
	"io"

	"github.com/PabloGalante/shopchat/internal/adapters/catalog"
	"github.com/PabloGalante/shopchat/internal/adapters/llm"
	"github.com/PabloGalante/shopchat/internal/adapters/storage/memory"
	"github.com/PabloGalante/shopchat/internal/app/conversation"
	"github.com/PabloGalante/shopchat/internal/config"
	"github.com/PabloGalante/shopchat/internal/domain"
	"github.com/PabloGalante/shopchat/internal/observability"
)

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// buildService wires the catalog, the LLM collaborators and the session
// store from cfg. The returned closer releases backend clients.
func buildService(ctx context.Context, cfg *config.Config) (*conversation.Service, io.Closer, error) {
	log := observability.WithFields("component", "wire")

	source, closer, err := buildCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("catalog configured", "backend", cfg.CatalogBackend, "cache_ttl", cfg.CatalogCacheTTL)

	var (
		classifier domain.IntentClassifier
		responder  domain.ResponseGenerator
	)
	if cfg.UseMockLLM {
		log.Info("using mock LLM")
		mock := llm.NewMockLLM()
		classifier, responder = mock, mock
	} else {
		log.Info("using Gemini LLM", "model", cfg.ModelName, "project", cfg.GCPProjectID)
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.ModelName,
		})
		if err != nil {
			_ = closer.Close()
			return nil, nil, fmt.Errorf("initializing Gemini client: %w", err)
		}
		limited := llm.NewRateLimited(client, client, cfg.LLMPerMinute)
		classifier, responder = limited, limited
	}

	sessions := memory.NewSessionStore(
		memory.WithMaxHistory(cfg.MaxHistory),
		memory.WithMaxKnownProducts(cfg.MaxKnownProducts),
		memory.WithStaleAfter(cfg.SessionTTL),
	)

	svc := conversation.NewService(sessions, source, classifier, responder, conversation.Options{
		StoreDomain:       cfg.StoreDomain,
		SearchResultLimit: cfg.SearchResultLimit,
	})
	return svc, closer, nil
}

func buildCatalog(ctx context.Context, cfg *config.Config) (domain.CatalogSource, io.Closer, error) {
	var (
		source domain.CatalogSource
		closer io.Closer = noopCloser{}
	)

	switch cfg.CatalogBackend {
	case config.CatalogDemo:
		return catalog.Demo(), closer, nil
	case config.CatalogFile:
		source = catalog.NewFile(cfg.CatalogFile)
	case config.CatalogFirestore:
		fs, err := catalog.NewFirestore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing Firestore catalog: %w", err)
		}
		source, closer = fs, fs
	default:
		var opts []catalog.ShopifyOption
		if cfg.ShopifyAccessToken != "" {
			opts = append(opts, catalog.WithAccessToken(cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion))
		}
		source = catalog.NewShopify(cfg.StoreDomain, opts...)
	}

	if cfg.CatalogCacheTTL > 0 {
		source = catalog.NewCached(source, cfg.CatalogCacheTTL)
	}
	return source, closer, nil
}
