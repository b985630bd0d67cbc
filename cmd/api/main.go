package main

import (
	"net/http"
	"os"
	"time"

	"move-togaether/internal/adapters/auth/supabase"
	"move-togaether/internal/adapters/geo/kakaomap"
	"move-togaether/internal/adapters/social/kakao"
	"move-togaether/internal/adapters/storage/postgres"
	"move-togaether/internal/adapters/storage/supafiles"
	_ "move-togaether/internal/docs"
	"move-togaether/internal/platform/logger"
	"move-togaether/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{Log: log}

	if url := os.Getenv("SUPABASE_URL"); url != "" {
		cfg := supabase.Config{
			ProjectURL: url,
			AnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		}
		client, err := supabase.NewClient(cfg)
		if err != nil {
			log.Error("supabase client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Accounts = client
		opts.AuthVerifier = supabase.NewVerifier(client)

		files, err := supafiles.NewClient(supafiles.Config{
			ProjectURL: url,
			ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		})
		if err != nil {
			log.Error("storage client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Files = files
	} else {
		log.Warn("SUPABASE_URL not set, running in dev mode", nil)
	}

	if key := os.Getenv("KAKAO_REST_API_KEY"); key != "" {
		social, err := kakao.NewClient(kakao.Config{
			RESTAPIKey:   key,
			ClientSecret: os.Getenv("KAKAO_CLIENT_SECRET"),
		})
		if err != nil {
			log.Error("kakao client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Kakao = social

		geocoder, err := kakaomap.NewClient(kakaomap.Config{RESTAPIKey: key})
		if err != nil {
			log.Error("kakao map client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.Geocoder = geocoder
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if err := postgres.Migrate(db); err != nil {
			log.Error("migrations failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
