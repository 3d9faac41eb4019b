package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/middleware"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/authenticator"
	"github.com/scratchcard-lab/backend/pkg/prometheus"
	"github.com/scratchcard-lab/backend/pkg/router"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(cfg.ApiServer),
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown api server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.ApiServer.Address())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := s.publisher.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
	}

	xcontext.Logger(s.ctx).Infof("Api server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger(), middleware.Prometheus())

	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCollectors()...))

	// Public API
	router.GET(s.router, "/getPrizeTable", s.scratchCardDomain.GetPrizeTable)

	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)
	authVerifier := middleware.NewAuthVerifier(tokenEngine)

	shopkeeperRouter := s.router.Branch()
	shopkeeperRouter.Before(authVerifier.Middleware(), middleware.OnlyRole(entity.ShopkeeperRole))
	{
		// Customer API
		router.POST(shopkeeperRouter, "/registerCustomer", s.customerDomain.Register)
		router.GET(shopkeeperRouter, "/getCustomer", s.customerDomain.Get)
		router.GET(shopkeeperRouter, "/getListCustomer", s.customerDomain.GetList)

		// Purchase API
		router.POST(shopkeeperRouter, "/recordPurchase", s.purchaseDomain.Record)
		router.GET(shopkeeperRouter, "/getListPurchase", s.purchaseDomain.GetList)

		// Card API
		router.GET(shopkeeperRouter, "/getListCard", s.scratchCardDomain.GetList)
		router.POST(shopkeeperRouter, "/issueCards", s.scratchCardDomain.IssueCards)
	}

	customerRouter := s.router.Branch()
	customerRouter.Before(authVerifier.Middleware(), middleware.OnlyRole(entity.CustomerRole))
	{
		router.GET(customerRouter, "/getMyCards", s.scratchCardDomain.GetMyCards)
		router.POST(customerRouter, "/revealCard", s.scratchCardDomain.Reveal)
	}
}
