package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skouce/assistant"
	"skouce/catalog"
	"skouce/checkout"
	"skouce/config"
	"skouce/db"
	"skouce/models"
	"skouce/mq"
	"skouce/ratelim"
	"skouce/rdx"
	"skouce/routes"
	"skouce/session"
	"skouce/storefront"
	"skouce/wishlist"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

type backends struct {
	mongo *mongo.Client
	redis *redis.Client
}

func (b backends) close() {
	if b.mongo != nil {
		if err := b.mongo.Disconnect(context.Background()); err != nil {
			log.Printf("[db] disconnect: %v", err)
		}
	}
	if b.redis != nil {
		b.redis.Close()
	}
}

// loadCatalog picks the configured source, fronts it with Redis when
// available and takes the snapshot every session shares.
func loadCatalog(ctx context.Context, cfg config.Config, b *backends) (*catalog.Snapshot, error) {
	var src catalog.Catalog = catalog.Seed()
	if cfg.CatalogSource == "mongo" {
		client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		b.mongo = client
		src = catalog.NewMongo(database)
		if b.redis != nil {
			src = catalog.NewCached(src, b.redis, cfg.CatalogCacheTTL)
		}
	}
	snap, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] loaded source=%s products=%d", cfg.CatalogSource, snap.Len())
	return snap, nil
}

func main() {
	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var b backends
	if cfg.RedisURL != "" {
		client, err := rdx.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, using in-memory stores: %v", err)
		} else {
			b.redis = client
		}
	}

	snap, err := loadCatalog(ctx, cfg, &b)
	if err != nil {
		log.Fatalf("❌ Catalog load failed: %v", err)
	}

	var shares wishlist.ShareStore = wishlist.NewMemoryShareStore()
	var notifier checkout.OrderNotifier = mq.LogNotifier{}
	if b.redis != nil {
		shares = wishlist.NewRedisShareStore(b.redis)
		notifier = mq.NewEmitter(b.redis)
		go mq.StartOrderWorker(ctx, b.redis, func(evt models.OrderEvent) {
			log.Printf("[OrderWorker] %s order=%s total=%d items=%d", evt.Type, evt.OrderID, evt.Total, evt.Items)
		})
	}
	sharer := wishlist.NewSharer(shares, wishlist.LogClipboard{}, cfg.ShareBaseURL, cfg.ShareTTL)

	hub := storefront.NewHub()
	go hub.Run()

	store := session.NewStore(session.Deps{
		Catalog:        snap,
		Processor:      checkout.SimulatedProcessor{Delay: cfg.PaymentDelay},
		Notifier:       notifier,
		Sharer:         sharer,
		Responder:      assistant.DefaultResponder(assistant.RandomPicker),
		AssistantDelay: assistant.DelayBetween(cfg.AssistantMinDelay, cfg.AssistantMaxDelay),
		OnReply:        hub.OnReply,
	}, cfg.SessionTTL)
	go store.Run(ctx, time.Minute)

	// one submit or assistant message per second per session, bursts of 5
	rateLimiter := ratelim.NewRateLimiter(rate.Limit(1), 5, 10*time.Minute)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, storefront.New(store, snap, sharer, hub), rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Session-ID"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing sessions and assistant sockets...")
		hub.Stop()
		store.Close()
		stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	b.close()

	log.Println("✅ Server stopped cleanly")
}
