// Package leeai exposes the LeeAI API as a Cloud Function.
package leeai

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/leeai-studio/internal/config"
	"github.com/pep299/leeai-studio/internal/handlers"
)

var (
	handlerOnce sync.Once
	handler     http.Handler
	handlerErr  error
)

func init() {
	functions.HTTP("LeeAI", LeeAI)
}

// LeeAI serves every /api/leeai route. The server is built on the first
// request so a cold start without configuration still answers.
func LeeAI(w http.ResponseWriter, r *http.Request) {
	handlerOnce.Do(func() {
		handler, handlerErr = newHandler(context.Background())
	})
	if handlerErr != nil {
		log.Printf("❌ LeeAI is not configured: %v", handlerErr)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}

func newHandler(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	server, err := handlers.NewServer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ LeeAI function ready (cache: %s, speech: %s)", cfg.CacheType, cfg.TTSProvider)
	return server.SetupRoutes(), nil
}
