package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/chiehyu/popodoc/config"
	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/linebot"
	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/bot"
	"github.com/chiehyu/popodoc/services/search"
	"github.com/chiehyu/popodoc/services/session"
	"github.com/chiehyu/popodoc/validation"
	"github.com/gin-gonic/gin"
)

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	db         persondb.DB
	botService *bot.Service
	validator  *validation.Validator
	logger     logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.db, err = persondb.New(ctx, s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating personnel DB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	lineClient, err := linebot.NewClient(s.logger, s.cfg.GetLineChannelToken())
	if err != nil {
		s.logger.Error("error creating LINE client", "err", err.Error())
		return err
	}

	searchService := search.New(s.logger, s.db)
	sessions := session.New(s.logger, s.cfg.GetSessionTTL())
	s.botService = bot.New(s.logger, searchService, sessions, lineClient)

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.db, s.botService, s.validator, s.cfg)

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		s.db.Close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
