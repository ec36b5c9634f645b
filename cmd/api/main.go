package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalogcart/internal/config"
	"catalogcart/internal/handler"
	"catalogcart/internal/infra/db"
	infraRepo "catalogcart/internal/infra/repository"
	"catalogcart/internal/pkg/logger"
	repo "catalogcart/internal/repository"
	"catalogcart/internal/server"
	"catalogcart/internal/usecase"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	productRepo, cartRepo, cleanup := openStores(ctx, cfg, log)
	defer cleanup()

	// usecases
	productUC := usecase.NewProductUsecase(productRepo, log)
	cartUC := usecase.NewCartUsecase(cartRepo, productUC, log)

	// handlers
	productH := handler.NewProductHandler(productUC, log)
	cartH := handler.NewCartHandler(cartUC, log)

	e := server.New(log, cfg.JWTSecret, productH, cartH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	log.Info("starting server", "addr", addr, "store", cfg.StoreDriver, "cart_store", cfg.CartStore)
	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
	log.Info("server stopped")
}

// openStores wires the persistence collaborators selected by cfg.
func openStores(ctx context.Context, cfg config.Config, log *logger.Logger) (repo.ProductRepository, repo.CartRepository, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var productRepo repo.ProductRepository
	var cartRepo repo.CartRepository

	if cfg.StoreDriver == config.DriverMemory {
		productRepo = infraRepo.NewMemoryProductRepository()
		cartRepo = infraRepo.NewMemoryCartRepository()
	} else {
		gormDB, err := db.Connect(cfg)
		if err != nil {
			log.Fatal("connect database", "driver", cfg.StoreDriver, "error", err)
		}
		if err := infraRepo.AutoMigrate(gormDB); err != nil {
			log.Fatal("migrate database", "error", err)
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		productRepo = infraRepo.NewProductGormRepository(gormDB)
		cartRepo = infraRepo.NewCartGormRepository(gormDB)
	}

	if cfg.CartStore == config.CartStoreRedis {
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatal("connect redis", "error", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		cartRepo = infraRepo.NewCartRedisRepository(client)
	}

	return productRepo, cartRepo, cleanup
}
