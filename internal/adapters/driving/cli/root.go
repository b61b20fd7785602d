// Package cli implements the command-line driving adapter.
//
// Commands talk to the core exclusively through the driving ports;
// the composition root in initServices wires the adapters behind them
// based on configuration.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/cached"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/extractor"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/filestorage/disk"
	memindex "github.com/custodia-labs/recall-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/groq"
	memstorage "github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// defaultUserID identifies the local user when no identity is
// configured. The CLI is single-user; the user dimension exists so the
// core carries multi-tenant semantics unchanged.
const defaultUserID = "default"

var (
	version  = "dev"
	verbose  bool
	userFlag string

	contentService driving.ContentService
	queryService   driving.QueryService
	spaceService   driving.SpaceService
	configStore    driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Save content and ask grounded questions about it",
	Long: `Recall keeps notes and files in named spaces, indexes them for
semantic search, and answers questions grounded in what you saved.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "acting user ID (default: from config, else \"default\")")
}

// Execute wires the services and runs the root command.
func Execute(v string) error {
	version = v
	if err := initServices(); err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	return rootCmd.Execute()
}

// currentUser resolves the acting user: flag, then config, then the
// single-user default.
func currentUser() string {
	if userFlag != "" {
		return userFlag
	}
	if configStore != nil {
		if id := configStore.GetString("user.id"); id != "" {
			return id
		}
	}
	return defaultUserID
}

// initServices is the composition root. It reads configuration, builds
// the driven adapters, and assembles the core services. Both backends
// are optional: without an embedding provider items are saved but not
// searchable, without an LLM provider questions get fallback answers.
func initServices() error {
	cfg, err := configfile.NewConfigStore(os.Getenv("RECALL_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	embedder := buildEmbedder(cfg)
	answer := buildAnswerService(cfg)

	dimensions := openai.DefaultDimensions
	if embedder != nil {
		dimensions = embedder.Dimensions()
	}
	vectorIndex := memindex.New(dimensions)

	baseDir := filepath.Dir(cfg.Path())
	fileStorage, err := disk.New(filepath.Join(baseDir, "uploads"))
	if err != nil {
		return fmt.Errorf("open file storage: %w", err)
	}

	var (
		itemStore  driven.ItemStore
		spaceStore driven.SpaceStore
		queryStore driven.QueryStore
		persistent bool
	)
	switch backend := cfg.GetString("storage.backend"); backend {
	case "sqlite":
		store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		itemStore = store.ItemStore()
		spaceStore = store.SpaceStore()
		queryStore = store.QueryStore()
		persistent = true
		if embedder != nil {
			embedder.SetPersistence(store.EmbeddingCacheStore())
		}
	case "", "memory":
		itemStore = memstorage.NewItemStore()
		spaceStore = memstorage.NewSpaceStore()
		queryStore = memstorage.NewQueryStore()
	default:
		return fmt.Errorf("unknown storage backend %q", backend)
	}

	content := services.NewContentService(
		itemStore, spaceStore, vectorIndex, embeddingOrNil(embedder), fileStorage, extractor.New())

	// Persistent items outlive the in-memory index; rebuild it before
	// the first command runs.
	if persistent && embedder != nil {
		indexed, err := content.Reindex(context.Background(), configuredUser(cfg))
		if err != nil {
			logger.Warn("startup reindex failed: %v", err)
		} else {
			logger.Debug("startup reindex: %d items indexed", indexed)
		}
	}

	contentService = content
	queryService = services.NewQueryService(content, queryStore, answer)
	spaceService = services.NewSpaceService(spaceStore)
	return nil
}

// configuredUser resolves the user at init time, before flags parse.
func configuredUser(cfg driven.ConfigStore) string {
	if id := cfg.GetString("user.id"); id != "" {
		return id
	}
	return defaultUserID
}

// buildEmbedder constructs the cached embedding service, or nil when
// no provider is configured.
func buildEmbedder(cfg driven.ConfigStore) *cached.Service {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("embedding.api_key")
	}
	if apiKey == "" {
		logger.Debug("no embedding provider configured, search disabled")
		return nil
	}

	backend, err := openai.New(openai.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.GetString("embedding.base_url"),
		Model:      cfg.GetString("embedding.model"),
		Dimensions: cfg.GetInt("embedding.dimensions"),
	})
	if err != nil {
		logger.Warn("embedding provider misconfigured, search disabled: %v", err)
		return nil
	}
	return cached.New(backend)
}

// embeddingOrNil avoids storing a typed nil in the interface field.
func embeddingOrNil(embedder *cached.Service) driven.EmbeddingService {
	if embedder == nil {
		return nil
	}
	return embedder
}

// buildAnswerService constructs the Groq answer backend, or nil when
// no provider is configured.
func buildAnswerService(cfg driven.ConfigStore) driven.AnswerService {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("llm.api_key")
	}
	if apiKey == "" {
		logger.Debug("no LLM provider configured, answering in fallback mode")
		return nil
	}

	svc, err := groq.New(groq.Config{
		APIKey:  apiKey,
		BaseURL: cfg.GetString("llm.base_url"),
		Model:   cfg.GetString("llm.model"),
	})
	if err != nil {
		logger.Warn("LLM provider misconfigured, answering in fallback mode: %v", err)
		return nil
	}
	return svc
}
