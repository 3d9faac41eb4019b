package main

import (
	"context"
	"strings"
	"time"

	"github.com/scratchcard-lab/backend/config"
	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/domain"
	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/clock"
	"github.com/scratchcard-lab/backend/pkg/crypto"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/kafka"
	"github.com/scratchcard-lab/backend/pkg/logger"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/router"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/scratchcard-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	customerRepo repository.CustomerRepository
	purchaseRepo repository.PurchaseRepository
	cardRepo     repository.ScratchCardRepository

	customerDomain     domain.CustomerDomain
	purchaseDomain     domain.PurchaseDomain
	scratchCardDomain  domain.ScratchCardDomain
	notificationDomain domain.NotificationDomain

	publisher   pubsub.Publisher
	redisClient xredis.Client

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	if err := idutil.SetNode(cctx.Int64("node")); err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	s.loadLogger()
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx).Log
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.Options{
		Level:      logger.ParseLevel(cfg.Level),
		Pretty:     cfg.Pretty,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	}))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(), // data source name
		DefaultStringSize:         256,                    // default size for string fields
		DisableDatetimePrecision:  false,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka

	var err error
	s.publisher, err = kafka.NewPublisher(cfg.ClientID, []string{cfg.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.customerRepo = repository.NewCustomerRepository()
	s.purchaseRepo = repository.NewPurchaseRepository()
	s.cardRepo = repository.NewScratchCardRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx).Reward

	accrual, err := reward.NewAccrual(cfg.SpendPerCard)
	if err != nil {
		panic(err)
	}

	prizeTable, err := reward.NewPrizeTableFromConfigs(cfg.Prizes)
	if err != nil {
		panic(err)
	}

	realClock := clock.New()
	verifier := common.NewShopCustomerVerifier(s.customerRepo)
	cardStore := domain.NewCardStore(s.cardRepo, s.customerRepo, realClock, cfg.ExpiryWindow)
	issuer := domain.NewIssuer(
		s.customerRepo,
		s.purchaseRepo,
		cardStore,
		accrual,
		reward.NewDrawer(prizeTable, crypto.Source{}),
		s.publisher,
	)

	s.customerDomain = domain.NewCustomerDomain(s.customerRepo, s.purchaseRepo, verifier)
	s.purchaseDomain = domain.NewPurchaseDomain(s.purchaseRepo, verifier, issuer, realClock)
	s.scratchCardDomain = domain.NewScratchCardDomain(cardStore, issuer, accrual, prizeTable, verifier)
}
