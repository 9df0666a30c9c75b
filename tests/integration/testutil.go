//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tripweave-app/tripweave/internal/ai"
	"github.com/tripweave-app/tripweave/internal/api"
	"github.com/tripweave-app/tripweave/internal/auth"
	"github.com/tripweave-app/tripweave/internal/config"
	"github.com/tripweave-app/tripweave/internal/suggest"
	"github.com/tripweave-app/tripweave/internal/trips"
	"github.com/tripweave-app/tripweave/internal/users"
)

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	Provider    *httptest.Server
	AuthSvc     *auth.Service
	UserSvc     *users.Service
}

var testEnv *TestEnv

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "tripweave_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/tripweave_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	m, err := migrate.New(fmt.Sprintf("file://%s", getMigrationsPath()), dsn)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Stub completion provider so suggestion tests run offline.
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Stub itinerary: meet at noon, grill until sunset."}},
			},
		})
	}))
	t.Cleanup(provider.Close)

	jwtManager := auth.NewJWTManager("test-access-secret-32-chars-long!!", "test-refresh-secret-32-chars-long!!", 15*time.Minute, 7*24*time.Hour)
	authSvc := auth.NewService(jwtManager, redisClient)
	userSvc := users.NewService(users.NewRepository(pool))
	authHandler := auth.NewHandler(authSvc, userSvc)

	tripsSvc := trips.NewService(trips.NewRepository(pool), nil)
	tripsHandler := trips.NewHandler(tripsSvc)

	completer := ai.NewClient(config.AIConfig{
		BaseURL:     provider.URL,
		Model:       "stub-model",
		MaxTokens:   800,
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	})
	suggestSvc := suggest.NewService(suggest.NewRepository(pool), completer, nil, 15)
	suggestHandler := suggest.NewHandler(suggestSvc)

	router := api.NewRouter(pool, func() error { return redisClient.Ping(context.Background()).Err() }, nil,
		api.RouterConfig{},
		api.HandlerSet{
			Register: authHandler.Register,
			Login:    authHandler.Login,
			Refresh:  authHandler.Refresh,
			Logout:   authHandler.Logout,

			CreateWorkspace: tripsHandler.CreateWorkspace,
			ListWorkspaces:  tripsHandler.ListWorkspaces,
			GetWorkspace:    tripsHandler.GetWorkspace,
			CreateIdea:      tripsHandler.CreateIdea,
			ListIdeas:       tripsHandler.ListIdeas,
			GetIdea:         tripsHandler.GetIdea,
			PromoteIdea:     tripsHandler.PromoteIdea,
			DeleteIdea:      tripsHandler.DeleteIdea,
			CreateProposal:  tripsHandler.CreateProposal,
			ListProposals:   tripsHandler.ListProposals,
			LikeIdea:        tripsHandler.LikeIdea,
			UnlikeIdea:      tripsHandler.UnlikeIdea,

			GenerateSuggestion: suggestHandler.Generate,
			GetSuggestionQuota: suggestHandler.Quota,

			AuthMiddleware: auth.Middleware(authSvc),
		})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		Provider:    provider,
		AuthSvc:     authSvc,
		UserSvc:     userSvc,
	}

	return testEnv
}

func getMigrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

func RegisterUser(t *testing.T, env *TestEnv, email, password string) map[string]any {
	t.Helper()
	body := map[string]string{"email": email, "password": password}
	resp := DoRequest(t, env, "POST", "/api/v1/auth/register", body, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: status %d", resp.StatusCode)
	}
	return ParseResponse(t, resp)
}

func LoginUser(t *testing.T, env *TestEnv, email, password string) string {
	t.Helper()
	body := map[string]string{"email": email, "password": password}
	resp := DoRequest(t, env, "POST", "/api/v1/auth/login", body, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: status %d", resp.StatusCode)
	}
	result := ParseResponse(t, resp)
	data := result["data"].(map[string]any)
	return data["access_token"].(string)
}

func DoRequest(t *testing.T, env *TestEnv, method, path string, body any, token string) *http.Response {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, bodyReader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return result
}
