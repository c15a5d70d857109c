package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/riskibarqy/puppy-bowl/internal/controller"
	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"github.com/riskibarqy/puppy-bowl/internal/metrics"
	playermock "github.com/riskibarqy/puppy-bowl/internal/mocks/domain/player"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
	"github.com/riskibarqy/puppy-bowl/internal/view"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router   http.Handler
	roster   *playermock.Roster
	recorder *metrics.Recorder
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	logger := logging.NewNop()
	roster := playermock.NewRoster(t)
	recorder := metrics.NewRecorder()
	renderer := view.MustNewRenderer()
	service := usecase.NewRosterService(roster, logger)
	ctrl := controller.New(service, renderer, logger, recorder)
	handler := NewHandler(ctrl, renderer, logger)

	return testApp{
		router:   NewRouter(handler, recorder, logger, RouterConfig{MetricsEnabled: true}),
		roster:   roster,
		recorder: recorder,
	}
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(app testApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestHome_RendersRosterPage(t *testing.T) {
	app := newTestApp(t)
	app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{
		{ID: 1, Name: "Fido", ImageURL: "a.png"},
		{ID: 2, Name: "Rex", ImageURL: "b.png"},
	}, nil).Once()

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Equal(t, 2, strings.Count(body, `class="playerCard"`))
	require.Less(t, strings.Index(body, "Fido"), strings.Index(body, "Rex"))
	require.Contains(t, body, `<main id="main">`)
}

func TestHome_FetchFailureRendersEmptyRoster(t *testing.T) {
	app := newTestApp(t)
	app.roster.On("ListPlayers", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<p>No players to display.</p>")
	require.NotContains(t, rec.Body.String(), `class="playerCard"`)
}

func TestSeeDetails_RendersCarriedPlayerWithoutFetching(t *testing.T) {
	app := newTestApp(t)
	team := int64(4)
	token, err := view.EncodePlayerToken(player.Player{ID: 8, Name: "Bolt", Breed: "Collie", TeamID: &team})
	require.NoError(t, err)

	rec := serve(app, postForm("/players/details", url.Values{"player": {token}}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "<h2>Bolt</h2>")
	require.Contains(t, body, "Breed: Collie")
	require.Contains(t, body, "Team: 4")
	require.Contains(t, body, "Back to all players")
	app.roster.AssertNotCalled(t, "ListPlayers", mock.Anything)
	app.roster.AssertNotCalled(t, "GetPlayer", mock.Anything, mock.Anything)
}

func TestSeeDetails_RejectsBadToken(t *testing.T) {
	app := newTestApp(t)

	for _, token := range []string{"", "***", "WzFd"} {
		rec := serve(app, postForm("/players/details", url.Values{"player": {token}}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("token %q: expected 400, got %d", token, rec.Code)
		}
	}
}

func TestSeeDetails_OpensEveryListedPlayer(t *testing.T) {
	app := newTestApp(t)

	for _, item := range []player.Player{
		{ID: 0, Name: "Ghost"},
		{ID: 6},
		{ID: 7, Name: "Big", ImageURL: "https://img.example/" + strings.Repeat("a", 12000)},
	} {
		token, err := view.EncodePlayerToken(item)
		require.NoError(t, err)

		rec := serve(app, postForm("/players/details", url.Values{"player": {token}}))

		require.Equal(t, http.StatusOK, rec.Code, "player %d", item.ID)
		require.Contains(t, rec.Body.String(), fmt.Sprintf("ID: %d", item.ID))
	}
}

func TestBack_FetchesAndRendersList(t *testing.T) {
	app := newTestApp(t)
	app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{{ID: 1, Name: "Fido"}}, nil).Once()

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/players", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<p>ID: 1</p>")
}

func TestOpenPlayer(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("GetPlayer", mock.Anything, int64(7)).Return(player.Player{ID: 7, Name: "Daisy", Breed: "Beagle"}, nil).Once()

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/players/7", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Team: Unassigned")
	})

	t.Run("missing falls back to roster", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("GetPlayer", mock.Anything, int64(404)).Return(player.Player{}, fmt.Errorf("%w: player", usecase.ErrNotFound)).Once()
		app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{}, nil).Once()

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/players/404", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "No players to display.")
	})

	t.Run("invalid id", func(t *testing.T) {
		app := newTestApp(t)
		for _, path := range []string{"/players/abc", "/players/0", "/players/-3"} {
			rec := serve(app, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", path, rec.Code)
			}
		}
	})
}

func TestRemovePlayer(t *testing.T) {
	t.Run("success re-renders roster", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("RemovePlayer", mock.Anything, int64(1)).Return(nil).Once()
		app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{{ID: 2, Name: "Rex"}}, nil).Once()

		rec := serve(app, postForm("/players/1/remove", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "<h2>Rex</h2>")
	})

	t.Run("already gone still re-renders", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("RemovePlayer", mock.Anything, int64(1)).Return(fmt.Errorf("%w: gone", usecase.ErrNotFound)).Once()
		app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{}, nil).Once()

		rec := serve(app, postForm("/players/1/remove", nil))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failure leaves page untouched", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("RemovePlayer", mock.Anything, int64(1)).Return(errors.New("status=500")).Once()

		rec := serve(app, postForm("/players/1/remove", nil))

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Body.String())
		app.roster.AssertNotCalled(t, "ListPlayers", mock.Anything)
	})
}

func TestCreatePlayer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("CreatePlayer", mock.Anything, player.Draft{Name: "Luna", Breed: "Husky", ImageURL: "https://img.example/luna.png"}).
			Return(player.Player{ID: 55, Name: "Luna"}, nil).Once()
		app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{{ID: 55, Name: "Luna"}}, nil).Once()

		rec := serve(app, postForm("/players", url.Values{
			"name":     {"Luna"},
			"breed":    {"Husky"},
			"imageUrl": {"https://img.example/luna.png"},
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "<h2>Luna</h2>")
		require.NotContains(t, rec.Body.String(), "formError")
	})

	t.Run("validation failure shows form error", func(t *testing.T) {
		app := newTestApp(t)
		app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{}, nil).Once()

		rec := serve(app, postForm("/players", url.Values{"name": {"Luna"}, "imageUrl": {"ftp://nope"}}))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `class="formError"`)
		app.roster.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything)
	})
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint_ExposesRouteCounters(t *testing.T) {
	app := newTestApp(t)
	app.roster.On("ListPlayers", mock.Anything).Return([]player.Player{}, nil).Once()

	serve(app, httptest.NewRequest(http.MethodGet, "/players", nil))
	rec := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `puppy_bowl_http_requests_total{method="GET",route="/players",status="200"} 1`)
	require.Contains(t, rec.Body.String(), `puppy_bowl_renders_total{view="list"} 1`)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	app := newTestApp(t)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/teams", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
