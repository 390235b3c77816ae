package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buspass/internal/cache"
	intconfig "buspass/internal/config"
	intdb "buspass/internal/db"
	"buspass/internal/events"
	router "buspass/internal/http"
	"buspass/internal/http/handlers"
	"buspass/internal/metrics"
	"buspass/internal/passid"
	"buspass/internal/repositories"
	"buspass/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := intconfig.NewStore()
	defer store.Close()

	redisClient := intconfig.NewRedisClient(ctx, env)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher events.Publisher = events.Nop{}
	if env.RabbitMQURL != "" {
		amqpPub := events.NewAMQPPublisher(env.RabbitMQURL)
		defer amqpPub.Close()
		publisher = amqpPub
	}

	ids, err := passid.NewGenerator(env.PassIDPrefix)
	if err != nil {
		log.Fatalf("invalid PASS_ID_PREFIX: %v", err)
	}

	hd := &handlers.Handler{
		Store:       store,
		Uploads:     services.UploadStore{Dir: env.UploadDir},
		IDs:         ids,
		MaxAttempts: env.PassIDTries,
		MaxUploadMB: env.MaxUploadMB,
		Cache:       cache.NewPassCache(redisClient, env.PassCacheTTL),
		Events:      publisher,
		Metrics:     metrics.New(),
		Auth:        services.AuthService{Secret: []byte(env.JWTSecret)},
	}
	r := router.NewRouter(env, hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Requests get 503 until the store is ready; a failed first connect ends the process.
	go func() {
		if err := store.Connect(ctx, env.DBDSN, env.DBConnectTimeout); err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := prepareStore(ctx, store, env); err != nil {
			if errors.Is(err, intconfig.ErrStoreNotReady) {
				log.Printf("store closed before setup: %v", err)
				return
			}
			log.Fatalf("schema setup failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

// prepareStore creates missing tables and seeds the admin account on a connected store.
func prepareStore(ctx context.Context, store *intconfig.Store, env intconfig.Env) error {
	db, err := store.DB()
	if err != nil {
		return err
	}
	if err := intdb.EnsureSchema(ctx, db); err != nil {
		return err
	}
	auth := services.AuthService{Users: repositories.UserRepository{DB: db}, RequestID: "startup"}
	if err := auth.EnsureAdmin(ctx, env.AdminEmail, env.AdminPassword); err != nil {
		log.Printf("warning: admin seed failed: %v", err)
	}
	return nil
}
