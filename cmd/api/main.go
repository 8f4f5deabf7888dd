package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/event"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/session"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	//セッション（Redis）
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis ping failed", zap.Error(err))
	}
	cartStore := session.NewRedisCartStore(rdb, cfg.SessionTTL)

	//決済
	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:  cfg.StripeSecretKey,
		PublicKey:  cfg.StripePublicKey,
		SecretKeys: cfg.StripeSecretKeys,
		PublicKeys: cfg.StripePublicKeys,
		APIURL:     cfg.StripeAPIURL,
		Timeout:    cfg.PaymentTimeout,
	}, logger)

	//注文イベント（ブローカー未設定なら送らない）
	var events usecase.OrderEventPublisher = event.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := event.NewKafkaOrderPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer func() { _ = kp.Close() }()
		events = kp
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	discountRepo := infraRepo.NewDiscountGormRepository(gormDB)
	taxRepo := infraRepo.NewTaxGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	pricingUC := usecase.NewPricingUsecase(itemRepo)
	recorder := usecase.NewOrderRecorder(txManager)
	itemUC := usecase.NewItemUsecase(itemRepo, gateway)
	cartUC := usecase.NewCartUsecase(cartStore, discountRepo, taxRepo, pricingUC)
	checkoutUC := usecase.NewCheckoutUsecase(
		cartStore, itemRepo, discountRepo, taxRepo,
		pricingUC, recorder, gateway, events, logger,
	)

	//Handler生成
	e := server.New(cfg, logger, server.Handlers{
		Item:     handler.NewItemHandler(itemUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC, cfg.PublicBaseURL),
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, e, addr, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
