package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"chan-engine/internal/analyzer"
	httphandler "chan-engine/internal/delivery/http"
	"chan-engine/internal/delivery/websocket"
	"chan-engine/internal/domain"
	"chan-engine/internal/infrastructure/db"
	"chan-engine/internal/infrastructure/fcm"
	"chan-engine/internal/repository"
	"chan-engine/internal/usecase"
)

// newPivotEventRepository connects to Postgres and migrates when dbURL
// is set, falling back to an in-memory store otherwise, exactly as the
// teacher falls back for its own Postgres-backed repositories.
func newPivotEventRepository(ctx context.Context, dbURL string) domain.PivotEventRepository {
	if dbURL == "" {
		log.Println("⚠ Postgres not configured (DATABASE_URL / HEROKU_POSTGRESQL_*_URL not set); using in-memory storage")
		return repository.NewInMemoryPivotEventRepository()
	}

	pool, err := db.NewPool(ctx, dbURL, db.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("Failed to create DB pool: %v", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("DB migrate failed: %v", err)
	}
	log.Println("✓ Postgres connected (pooled) and migrated")
	return repository.NewPostgresPivotEventRepository(pool)
}

func resolveDatabaseURL() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}

	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := parts[0]
		val := strings.TrimSpace(parts[1])
		if val == "" {
			continue
		}
		if strings.HasPrefix(key, "HEROKU_POSTGRESQL_") && strings.HasSuffix(key, "_URL") {
			return val
		}
	}

	return ""
}

func resolveBiMode() analyzer.BiMode {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("ANALYZER_BI_MODE")))
	if v == "new" {
		return analyzer.BiModeNew
	}
	return analyzer.BiModeOld
}

func resolveMaxRawLen() int {
	v := strings.TrimSpace(os.Getenv("ANALYZER_MAX_RAW_LEN"))
	if v == "" {
		return 2000
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2000
	}
	return n
}

func resolveMaParams() []int {
	v := strings.TrimSpace(os.Getenv("ANALYZER_MA_PARAMS"))
	if v == "" {
		return []int{5, 20, 60}
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return []int{5, 20, 60}
	}
	return out
}

func main() {
	ctx := context.Background()

	// 1. Initialize repositories
	tokenRepo := repository.NewTokenRepository()
	snapshotRepo := repository.NewInMemorySnapshotRepository()

	dbURL := resolveDatabaseURL()
	pivotRepo := newPivotEventRepository(ctx, dbURL)

	// 2. Initialize FCM client
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("Warning: FCM initialization failed: %v", err)
		log.Println("Server will continue without push notifications")
	} else if fcmClient.IsEnabled() {
		log.Println("✓ FCM push notifications enabled")
	} else {
		log.Println("⚠ FCM disabled - set FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS_JSON")
	}

	// 3. Initialize usecases
	notifier := usecase.NewNotificationService(fcmClient, tokenRepo, pivotRepo)
	cfg := usecase.EngineConfig{
		BiMode:    resolveBiMode(),
		MaxRawLen: resolveMaxRawLen(),
		MaParams:  resolveMaParams(),
		MinBiK:    0,
	}
	engine := usecase.NewEngineUsecase(cfg, snapshotRepo, notifier)

	// 4. Initialize HTTP/websocket handlers
	wsHandler := websocket.NewHandler(engine)
	tokenHandler := httphandler.NewTokenHandler(tokenRepo)
	barHandler := httphandler.NewBarHandler(engine)
	snapshotHandler := httphandler.NewSnapshotHandler(engine)

	http.HandleFunc("/ws", wsHandler.Handle)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/api/bars", barHandler.HandleIngestBar)
	http.HandleFunc("/api/snapshot", snapshotHandler.HandleGetSnapshot)

	http.HandleFunc("/api/register-token", tokenHandler.HandleRegisterToken)
	http.HandleFunc("/api/unregister-token", tokenHandler.HandleUnregisterToken)
	http.HandleFunc("/api/token-count", tokenHandler.HandleGetTokenCount)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
