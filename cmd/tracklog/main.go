package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/tracklog/api/pkg/auth"
	"github.com/tracklog/api/pkg/database"
	"github.com/tracklog/api/pkg/igdb"
	"github.com/tracklog/api/pkg/lists"
	"github.com/tracklog/api/pkg/routes"
)

var (
	ADDR,
	REDIS_HOST,
	REDIS_PORT,
	POSTGRES_HOST,
	POSTGRES_PORT,
	POSTGRES_USER,
	POSTGRES_PASSWORD,
	POSTGRES_DB,
	TWITCH_CLIENT_ID,
	TWITCH_CLIENT_SECRET string

	REQUIRED_ENV = []string{
		"ADDR",
		"REDIS_HOST",
		"REDIS_PORT",
		"POSTGRES_HOST",
		"POSTGRES_PORT",
		"POSTGRES_USER",
		"POSTGRES_PASSWORD",
		"POSTGRES_DB",
		"TWITCH_CLIENT_ID",
		"TWITCH_CLIENT_SECRET",
	}
)

func init() {
	godotenv.Load()

	ADDR = os.Getenv("ADDR")
	REDIS_HOST = os.Getenv("REDIS_HOST")
	REDIS_PORT = os.Getenv("REDIS_PORT")
	POSTGRES_HOST = os.Getenv("POSTGRES_HOST")
	POSTGRES_PORT = os.Getenv("POSTGRES_PORT")
	POSTGRES_USER = os.Getenv("POSTGRES_USER")
	POSTGRES_PASSWORD = os.Getenv("POSTGRES_PASSWORD")
	POSTGRES_DB = os.Getenv("POSTGRES_DB")
	TWITCH_CLIENT_ID = os.Getenv("TWITCH_CLIENT_ID")
	TWITCH_CLIENT_SECRET = os.Getenv("TWITCH_CLIENT_SECRET")

	missing := checkenv(REQUIRED_ENV)

	if len(missing) != 0 {
		log.Fatalf(
			"missing %v in env",
			strings.Join(missing, ", "),
		)
	}
}

func main() {
	redisClient := redis.NewClient(&redis.Options{
		Addr: REDIS_HOST + ":" + REDIS_PORT,
	})

	pgConnUrl := url.URL{
		User:   url.UserPassword(POSTGRES_USER, POSTGRES_PASSWORD),
		Scheme: "postgres",
		Host:   POSTGRES_HOST + ":" + POSTGRES_PORT,
		Path:   POSTGRES_DB,
		RawQuery: url.Values{
			"sslmode": {"disable"},
		}.Encode(),
	}

	db, err := database.Open(pgConnUrl.String())
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v\n", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v\n", err)
	}

	if err := database.SeedPlatforms(db, database.DefaultPlatforms); err != nil {
		log.Fatalf("failed to seed platforms: %v\n", err)
	}

	mgr := &auth.Manager{
		DB:           db,
		Store:        auth.NewRedisSessionStore(redisClient),
		BcryptCost:   envInt("BCRYPT_COST", 0),
		SecureCookie: os.Getenv("COOKIE_SECURE") == "true",
	}

	svc := lists.NewService(db)
	catalog := igdb.NewClient(context.Background(), TWITCH_CLIENT_ID, TWITCH_CLIENT_SECRET)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{origin},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
		}))
	}

	r.Mount("/api", routes.NewAuthRoutes(mgr).Routes())
	r.Mount("/api/users", routes.NewUserRoutes(mgr).Routes())
	r.Mount("/api/platforms", routes.NewPlatformRoutes(mgr, svc).Routes())
	r.Mount("/api/lists", routes.NewListRoutes(mgr, svc).Routes())
	r.Mount("/api/search", routes.NewSearchRoutes(mgr, catalog).Routes())

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := map[string]int64{}

		for name, model := range map[string]interface{}{
			"users":   &database.User{},
			"games":   &database.Game{},
			"entries": &database.ListEntry{},
		} {
			var count int64
			if res := db.Model(model).Count(&count); res.Error != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			stats[name] = count
		}

		b, err := json.Marshal(stats)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})

	if err := http.ListenAndServe(ADDR, r); err != nil {
		log.Fatalf("failed to start server: %v\n", err)
	}
}

func checkenv(keys []string) []string {
	var missing []string
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); len(val) == 0 || !ok {
			missing = append(missing, key)
		}
	}

	return missing
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v\n", key, err)
	}

	return n
}
