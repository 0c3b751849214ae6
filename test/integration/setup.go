package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/rishithreddy89/PollRooms/internal/adapters/handler/http"
	"github.com/rishithreddy89/PollRooms/internal/adapters/notifier/ws"
	repo "github.com/rishithreddy89/PollRooms/internal/adapters/repository/postgres"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Hub         *ws.Hub
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	hub := ws.NewHub()

	pollSvc := services.NewPollService(pollRepo)
	voteSvc := services.NewVoteService(pollRepo, voteRepo, hub)

	pollHandler := handler.NewPollHandler(pollSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	creatorHandler := handler.NewCreatorHandler(pollSvc)
	wsHandler := ws.NewHandler(hub, []string{"*"})

	router := handler.NewHandler(pollHandler, voteHandler, creatorHandler, wsHandler, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Hub:         hub,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

type createdPoll struct {
	domain.Poll
	CreatorToken uuid.UUID `json:"creator_token"`
}

func (app *TestApp) createPoll(t *testing.T, question string, options []string, expiresAt time.Time) createdPoll {
	t.Helper()

	payload := map[string]interface{}{
		"question":   question,
		"options":    options,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)
	resp, err := app.Client.Post(app.Server.URL+"/api/polls", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll createdPoll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&poll))
	return poll
}

// voteAs submits a vote spoofing the voter fingerprint through the proxy
// header the server trusts.
func (app *TestApp) voteAs(t *testing.T, pollID, optionID uuid.UUID, voterIP string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{"option_id": optionID})
	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/polls/%s/vote", app.Server.URL, pollID), bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", voterIP)

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) voteStatus(t *testing.T, pollID uuid.UUID, voterIP string) bool {
	t.Helper()

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/api/polls/%s/vote-status", app.Server.URL, pollID), nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", voterIP)

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status["has_voted"]
}

func (app *TestApp) getPoll(t *testing.T, pollID uuid.UUID) domain.Poll {
	t.Helper()

	resp, err := app.Client.Get(fmt.Sprintf("%s/api/polls/%s", app.Server.URL, pollID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var poll domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&poll))
	return poll
}

// expirePoll backdates the stored expiry so the next vote attempt discovers
// the poll expired while the active flag is still true.
func (app *TestApp) expirePoll(t *testing.T, pollID uuid.UUID) {
	t.Helper()

	_, err := app.DB.Exec("UPDATE polls SET expires_at = NOW() - INTERVAL '1 second' WHERE id = $1", pollID)
	require.NoError(t, err)
}

// assertCounterInvariant checks that the cached total equals both the sum of
// option counters and the number of ledger rows.
func (app *TestApp) assertCounterInvariant(t *testing.T, pollID uuid.UUID) {
	t.Helper()

	var totalVotes, optionSum, ledgerRows int64
	err := app.DB.QueryRow("SELECT total_votes FROM polls WHERE id = $1", pollID).Scan(&totalVotes)
	require.NoError(t, err)
	err = app.DB.QueryRow("SELECT COALESCE(SUM(vote_count), 0) FROM poll_options WHERE poll_id = $1", pollID).Scan(&optionSum)
	require.NoError(t, err)
	err = app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1", pollID).Scan(&ledgerRows)
	require.NoError(t, err)

	require.Equal(t, totalVotes, optionSum, "total_votes must equal the sum of option counters")
	require.Equal(t, totalVotes, ledgerRows, "total_votes must equal the ledger row count")
}
