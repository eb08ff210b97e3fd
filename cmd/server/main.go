package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 15 * time.Second
	limiterSweep    = time.Minute
)

var (
	initDBFunc        = db.InitDB
	openCartStoreFunc = openCartStore
	startServerFunc   = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited with error", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	database := initDBFunc(cfg)
	defer database.Close()

	carts, closeCarts, err := openCartStoreFunc(cfg)
	if err != nil {
		return err
	}
	defer closeCarts()

	done := make(chan struct{})
	defer close(done)

	handler := newServer(cfg, database, carts, done)

	logger.L().Info("storefront api listening",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
	)
	return startServerFunc(":"+cfg.AppPort, handler)
}

// openCartStore connects to MongoDB and makes sure the carts collection
// is indexed. The returned func disconnects.
func openCartStore(cfg *config.Config) (cart.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, nil, err
	}

	repo := cart.NewRepository(database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.L().Info("mongo connection established", zap.String("database", cfg.MongoDBName))
	return repo, func() { _ = client.Disconnect(context.Background()) }, nil
}

// newServer wires repositories, services and handlers into the router.
// done stops the rate limiter's sweeper.
func newServer(cfg *config.Config, database *sql.DB, carts cart.Repository, done <-chan struct{}) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	productSvc := product.NewService(product.NewRepository(database))
	categorySvc := category.NewService(category.NewRepository(database))
	userSvc := user.NewService(user.NewRepository(database), tokens)
	cartSvc := cart.NewService(carts, productSvc)
	orderSvc := order.NewService(order.NewRepository(database), productSvc, cartSvc)
	paymentSvc := payment.NewService(productSvc, payment.NewStripeGateway(cfg.StripeSecretKey))

	limiter := middleware.NewRateLimiter()
	limiter.StartCleanup(limiterSweep, done)

	return setupRouter(cfg, handlers{
		products:   product.NewHandler(productSvc),
		categories: category.NewHandler(categorySvc),
		users:      user.NewHandler(userSvc),
		carts:      cart.NewHandler(cartSvc),
		orders:     order.NewHandler(orderSvc),
		payments:   payment.NewHandler(paymentSvc),
	}, tokens, limiter)
}

func startServer(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.L().Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
