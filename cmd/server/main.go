package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/config"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/httpapi"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/llms/gemini"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/llms/openai"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/notes"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/prompts"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	log := logging.NewLogger(context.Background())
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("configure logging: %v", err)
	}
	log = logging.NewLogger(context.Background())

	service, err := newService(cfg)
	if err != nil {
		log.Fatalf("build service: %v", err)
	}
	if !service.HasCredential() {
		log.Warnf("no API key configured for provider %s; requests will fail until one is provided", cfg.Provider.Name)
	}

	gin.SetMode(gin.ReleaseMode)
	handler := httpapi.NewRouter(service, httpapi.RouterConfig{MaxUploadBytes: cfg.Server.MaxUploadBytes})
	srv := server.New(cfg.Addr(), cfg.Server.ShutdownTimeout, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Errorf("server stopped with error: %v", err)
		os.Exit(1)
	}
}

func newService(cfg *config.Config) (*notes.Service, error) {
	webPrompts, err := prompts.Web.WithOverrides(cfg.Prompts.Web)
	if err != nil {
		return nil, err
	}
	interactivePrompts, err := prompts.Interactive.WithOverrides(cfg.Prompts.Interactive)
	if err != nil {
		return nil, err
	}

	var factory model.NewAudioContentGeneratorFunc = gemini.NewGenerator
	if cfg.Provider.Name == config.ProviderOpenAI {
		factory = openai.NewGenerator
	}

	return notes.NewService(notes.Options{
		NewGenerator:       factory,
		APIKey:             cfg.Provider.APIKey,
		BaseURL:            cfg.Provider.BaseURL,
		Model:              cfg.Provider.Model,
		InteractiveModel:   cfg.Provider.InteractiveModel,
		Temperature:        cfg.Provider.Temperature,
		MaxTokens:          cfg.Provider.MaxTokens,
		WebPrompts:         webPrompts,
		InteractivePrompts: interactivePrompts,
	})
}
