// prodex-ingest rebuilds the product catalog from a JSON file: it
// creates a fresh collection version, embeds every description,
// bulk-inserts the documents and atomically promotes the new version.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/catalog"
	"github.com/kailas-cloud/prodex/internal/config"
	"github.com/kailas-cloud/prodex/internal/db"
	dbQdrant "github.com/kailas-cloud/prodex/internal/db/qdrant"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/prodex/internal/repository/catalog"
	openaiEmb "github.com/kailas-cloud/prodex/internal/transport/openai"
	ingestuc "github.com/kailas-cloud/prodex/internal/usecase/ingest"
	"github.com/kailas-cloud/prodex/internal/version"
)

func main() {
	productsPath := flag.String("products", "data/products.json", "path to the product catalog JSON file")
	flag.Parse()

	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog ingest",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("products", *productsPath),
		zap.String("db_driver", cfg.Database.Driver),
	)

	products, err := catalog.Load(*productsPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("products", len(products)))

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	repo, err := catalogrepo.New(store, catalogrepo.Config{
		Logical:   cfg.Catalog.Collection,
		VectorDim: cfg.Embedding.Dimensions,
		BatchSize: cfg.Catalog.InsertBatchSize,
		HNSW: db.HNSWParams{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		},
	})
	if err != nil {
		logger.Fatal("Failed to create catalog repository", zap.Error(err))
	}

	svc := ingestuc.New(repo, embedder, ingestuc.Config{
		VectorDim:      cfg.Embedding.Dimensions,
		EmbedBatchSize: cfg.Embedding.BatchSize,
		EmbedTimeout:   time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
	})

	report, err := svc.Rebuild(ctx, products)
	if err != nil {
		logger.Fatal("Catalog rebuild failed", zap.Error(err))
	}

	logger.Info("Catalog rebuilt",
		zap.String("collection", report.Collection),
		zap.String("previous", report.Previous),
		zap.Int("indexed", report.Indexed),
		zap.Int("embedding_tokens", report.TotalTokens),
	)
}

// newStore creates the vector store for the configured driver.
func newStore(cfg config.Config) (db.Store, error) {
	reqTimeout := time.Duration(cfg.Database.RequestTimeoutSec) * time.Second
	switch cfg.Database.Driver {
	case "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:          cfg.Database.Addrs,
			Password:       cfg.Database.Password,
			KeyPrefix:      cfg.Catalog.KeyPrefix,
			RequestTimeout: reqTimeout,
		})
	case "qdrant":
		return dbQdrant.NewStore(dbQdrant.Config{
			URL:            cfg.Database.Addrs[0],
			APIKey:         cfg.Database.APIKey,
			RequestTimeout: reqTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
