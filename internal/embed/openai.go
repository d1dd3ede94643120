package embed

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/factrace/factrace/internal/cache"
)

// OpenAIProvider implements Similarity against the OpenAI embeddings
// API. Embedding vectors are memoized by text content in a layered
// store (bounded LRU, optionally backed by disk), so the provider may
// safely be shared process-wide across document passes. API calls are
// rate limited.
type OpenAIProvider struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	store   cache.VectorStore
	limiter *rate.Limiter
	log     *zap.Logger
}

// OpenAIConfig configures the embedding provider.
type OpenAIConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	CacheSize         int
	CacheDir          string
	RequestsPerSecond float64
	Burst             int
}

// NewOpenAIProvider creates an embedding provider.
func NewOpenAIProvider(cfg OpenAIConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 4096
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if log == nil {
		log = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	store, err := cache.NewLayeredStore(cfg.CacheSize, cfg.CacheDir, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   openai.EmbeddingModel(cfg.Model),
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:     log,
	}, nil
}

// Similarity embeds both texts (memoized) and returns their cosine
// similarity.
func (p *OpenAIProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := p.embedding(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := p.embedding(ctx, b)
	if err != nil {
		return 0, err
	}
	return cosine(va, vb), nil
}

// embedding returns the vector for a text, consulting the store first.
func (p *OpenAIProvider) embedding(ctx context.Context, text string) ([]float32, error) {
	key := memoKey(text)
	if vec, ok := p.store.Get(key); ok {
		return vec, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		p.log.Debug("embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	vec := resp.Data[0].Embedding
	p.store.Put(key, vec)
	return vec, nil
}
