package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishithreddy89/PollRooms/internal/core/domain"
)

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, app *TestApp) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(app.Server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func joinPoll(t *testing.T, conn *websocket.Conn, pollID uuid.UUID) {
	t.Helper()

	msg := fmt.Sprintf(`{"event":"join-poll","poll_id":"%s"}`, pollID)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	// Give the server a moment to register the subscription before any
	// broadcast fires.
	time.Sleep(100 * time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var evt wsEvent
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

// TestPollUpdateBroadcast verifies that a successful vote pushes the
// post-commit snapshot to every room subscriber.
func TestPollUpdateBroadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := app.createPoll(t, "Live results", []string{"Cats", "Dogs"}, time.Now().Add(time.Hour))

	conn := dialWS(t, app)
	joinPoll(t, conn, poll.ID)

	resp := app.voteAs(t, poll.ID, poll.Options[0].ID, "1.2.3.4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var returned domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&returned))
	resp.Body.Close()

	evt := readEvent(t, conn)
	require.Equal(t, "poll-update", evt.Event)

	var broadcast domain.Poll
	require.NoError(t, json.Unmarshal(evt.Data, &broadcast))

	// The broadcast snapshot matches what the voter got back.
	assert.Equal(t, returned.ID, broadcast.ID)
	assert.Equal(t, returned.TotalVotes, broadcast.TotalVotes)
	assert.Equal(t, int64(1), broadcast.TotalVotes)
}

// TestPollClosedBroadcast verifies the lazy closure path emits poll-closed
// exactly once.
func TestPollClosedBroadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := app.createPoll(t, "Closing time", []string{"A", "B"}, time.Now().Add(time.Hour))
	app.expirePoll(t, poll.ID)

	conn := dialWS(t, app)
	joinPoll(t, conn, poll.ID)

	resp := app.voteAs(t, poll.ID, poll.Options[0].ID, "1.2.3.4")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	evt := readEvent(t, conn)
	require.Equal(t, "poll-closed", evt.Event)

	var payload struct {
		PollID uuid.UUID `json:"poll_id"`
	}
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	assert.Equal(t, poll.ID, payload.PollID)

	// A retry against the now-closed poll must not re-emit the event.
	resp = app.voteAs(t, poll.ID, poll.Options[0].ID, "5.6.7.8")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var extra wsEvent
	err := conn.ReadJSON(&extra)
	assert.Error(t, err, "no second closure event expected")
}

// TestLeavePollStopsUpdates verifies room membership is honored.
func TestLeavePollStopsUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := app.createPoll(t, "Unsubscribed", []string{"A", "B"}, time.Now().Add(time.Hour))

	conn := dialWS(t, app)
	joinPoll(t, conn, poll.ID)

	msg := fmt.Sprintf(`{"event":"leave-poll","poll_id":"%s"}`, poll.ID)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	time.Sleep(100 * time.Millisecond)

	resp := app.voteAs(t, poll.ID, poll.Options[0].ID, "1.2.3.4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var evt wsEvent
	err := conn.ReadJSON(&evt)
	assert.Error(t, err, "no event expected after leaving the room")
}
