package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/rally/config"
	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/memstore"
	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.DB.Driver = config.DriverMemory
	cfg.JWT.AccessTokenSecret = secret

	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := memstore.New()
	events := notify.NewDispatcher(&notify.Recorder{}, &notify.Recorder{}, log)

	games := game.NewService(store.Games(), events, m, log)
	capacity := &waitlist.StaticCapacity{Default: 1, Counter: store.Waitlist()}
	return SetupRoutes(Deps{
		Config:   cfg,
		Log:      log,
		Games:    games,
		Pairing:  pairing.NewService(store.Requests(), games, events, m, log),
		Waitlist: waitlist.NewService(store.Waitlist(), capacity, time.Hour, events, m, log),
		Gatherer: reg,
	})
}

func call(t *testing.T, r http.Handler, method, path string, userID uint, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		tok, err := token.GenerateJWT(userID, role, secret, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/health", 0, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(t, r, http.MethodGet, "/metrics", 0, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rally_pairing_accepted_total")
}

func TestMatchmakingFlow(t *testing.T) {
	r := newTestRouter(t)

	var ids []uint
	for _, user := range []uint{1, 2} {
		w := call(t, r, http.MethodPost, "/api/v1/matchmaking/requests", user, "player",
			map[string]interface{}{"game_type": "competitive"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var req pairing.MatchRequest
		dataOf(t, w, &req)
		ids = append(ids, req.ID)
	}

	w := call(t, r, http.MethodPost, "/api/v1/matchmaking/requests", 1, "player", map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/matchmaking/suggestions", 1, "player", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var suggestions []pairing.Suggestion
	dataOf(t, w, &suggestions)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ids[1], suggestions[0].Request.ID)

	accept := map[string]uint{"request_id": ids[0], "matched_request_id": ids[1]}
	w = call(t, r, http.MethodPost, "/api/v1/matchmaking/accept", 1, "player", accept)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res pairing.AcceptResult
	dataOf(t, w, &res)
	require.NotNil(t, res.Game)

	w = call(t, r, http.MethodPost, "/api/v1/matchmaking/accept", 1, "player", accept)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(t, r, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/score", res.Game.ID), 2, "player",
		map[string]int{"team1_score": 21, "team2_score": 17})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, "/api/v1/users/me/games?status=completed", 1, "player", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"total_items":1`))
}

func TestWaitlistRoutes(t *testing.T) {
	r := newTestRouter(t)
	base := "/api/v1/waitlist/league/3"

	w := call(t, r, http.MethodPost, "/api/v1/waitlist/meetup/3", 1, "player", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodPost, base, 2, "player", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "event still has a seat")

	w = call(t, r, http.MethodPost, base+"/registration", 1, "player", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(t, r, http.MethodPost, base+"/registration", 2, "player", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = call(t, r, http.MethodPost, base, 2, "player", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var pos waitlist.Position
	dataOf(t, w, &pos)
	assert.Equal(t, int64(1), pos.Position)

	w = call(t, r, http.MethodPost, base, 2, "player", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(t, r, http.MethodPost, base+"/accept", 2, "player", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = call(t, r, http.MethodGet, base+"/entries", 2, "player", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = call(t, r, http.MethodGet, base+"/entries", 9, "organizer", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodDelete, base+"/registration", 1, "player", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var offered waitlist.Entry
	dataOf(t, w, &offered)
	assert.Equal(t, uint(2), offered.UserID)
	assert.Equal(t, waitlist.StatusOffered, offered.Status)

	w = call(t, r, http.MethodPost, base+"/accept", 2, "player", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, base, 3, "player", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(t, r, http.MethodDelete, base, 3, "player", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
