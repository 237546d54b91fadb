package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialGame(t *testing.T, srv *httptest.Server, gameID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=" + gameID
	return websocket.DefaultDialer.Dial(url, nil)
}

func readUpdate(t *testing.T, conn *websocket.Conn) GameUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var update GameUpdate
	require.NoError(t, json.Unmarshal(data, &update))
	return update
}

func TestWebSocketStreamsUpdates(t *testing.T) {
	svc, h := newTestService(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	id := createGame(t, h, CreateGameRequest{}).ID
	conn, _, err := dialGame(t, srv, id)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return svc.hub.ClientCount(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	mustMove(t, h, id, "f2f3")
	update := readUpdate(t, conn)
	assert.Equal(t, id, update.GameID)
	assert.Equal(t, UpdateMove, update.Type)
	data := update.Data.(map[string]interface{})
	assert.Equal(t, "f3", data["san"])

	mustMove(t, h, id, "e7e5", "g2g4")
	readUpdate(t, conn)
	readUpdate(t, conn)

	mustMove(t, h, id, "d8h4")
	assert.Equal(t, UpdateMove, readUpdate(t, conn).Type)
	end := readUpdate(t, conn)
	assert.Equal(t, UpdateGameEnd, end.Type)
	endData := end.Data.(map[string]interface{})
	assert.Equal(t, "checkmate", endData["status"])
	assert.Equal(t, "black", endData["winner"])

	rr := do(t, h, "POST", "/api/games/"+id+"/revert", map[string]int{"index": 0})
	require.Equal(t, 200, rr.Code)
	assert.Equal(t, UpdateRevert, readUpdate(t, conn).Type)
}

func TestWebSocketPing(t *testing.T) {
	svc, h := newTestService(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	id := createGame(t, h, CreateGameRequest{}).ID
	conn, _, err := dialGame(t, srv, id)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return svc.hub.ClientCount(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestWebSocketUnregistersOnClose(t *testing.T) {
	svc, h := newTestService(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	id := createGame(t, h, CreateGameRequest{}).ID
	conn, _, err := dialGame(t, srv, id)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return svc.hub.ClientCount(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return svc.hub.ClientCount(id) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketRejectsUnknownGame(t *testing.T) {
	_, h := newTestService(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	_, resp, err := dialGame(t, srv, "missing")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionLocksSerialize(t *testing.T) {
	locks := newSessionLocks()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("game")
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.len())
}
