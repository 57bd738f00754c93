package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/satriahrh/lumi/adapters/http"
	"github.com/satriahrh/lumi/adapters/llm"
	"github.com/satriahrh/lumi/adapters/session"
	"github.com/satriahrh/lumi/adapters/storage"
	"github.com/satriahrh/lumi/config"
	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/usecase"
	"github.com/satriahrh/lumi/utils/log"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "lumi",
	Short: "Lumi, the Portuguese-language personal assistant",
	Long: `Lumi serves a chat assistant with five specialist personas
(conteudo, produtividade, estudo, negocios, vida) plus a small
workspace of tasks, goals and saved content.

Running lumi with no subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return err
	}

	var store domain.Store
	configured := cfg.StoreConfigured()
	if configured {
		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.With(zap.Error(err)).Warn("failed to close store")
			}
		}()
		store = s
	} else {
		log.With().Warn("store not configured, serving simulated data")
	}

	if cfg.Session.Secret == config.DevSessionSecret {
		log.With().Warn("using the development session secret, set LUMI_SESSION_SECRET in production")
	}

	router := httpadapter.NewRouter(httpadapter.Deps{
		Chat:      usecase.NewChatService(completer, usecase.NewPromptTable(cfg.LLM.BasePrompt), cfg.HasLLMCredential()),
		Workspace: usecase.NewWorkspaceService(store, configured),
		Auth:      usecase.NewAuthService(store, configured),
		Sessions:  session.NewManager(cfg.Session),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.With(zap.String("addr", srv.Addr)).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.With().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newCompleter returns nil when no credential is configured; the chat
// service then answers every request with a configuration error.
func newCompleter(ctx context.Context, cfg *config.Config) (domain.Completer, error) {
	switch {
	case cfg.LLM.UseMock:
		log.With().Warn("using the mock LLM")
		return llm.NewMockClient(), nil
	case cfg.LLM.APIKey != "":
		c, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	log.With().Warn("GEMINI_API_KEY not set, chat requests will fail until it is configured")
	return nil, nil
}

func openStore(cfg config.StoreConfig) (*storage.Store, error) {
	db, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}
	s := storage.NewStore(db)
	if cfg.AutoMigrate {
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}
