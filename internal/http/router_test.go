package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/provider"
	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/internal/store/drivers/sqlite"
	"github.com/opentransit/stationwatch/pkg/idx"
	"github.com/opentransit/stationwatch/pkg/sessionx"
	"github.com/opentransit/stationwatch/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv   *httptest.Server
	store *sqlite.Store
	codec *sessionx.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	// Stub identity provider: every code is good, every profile the same.
	providerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			fmt.Fprint(w, `{"access_token":"token-abc","token_type":"Bearer"}`)
		case "/profile":
			fmt.Fprint(w, `{"id":"190","username":"rider","email":"rider@example.com","avatar":"a1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(providerSrv.Close)

	codec := sessionx.NewCodec([]byte("test-secret"), time.Hour)
	logger := slogx.New(slogx.Config{Service: "stationwatch-test", Format: "text"})

	router := NewRouter(codec, "test", st, logger)
	router.SignInService = &service.SignInService{
		Provider: provider.NewClient(provider.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			TokenURL:     providerSrv.URL + "/token",
			ProfileURL:   providerSrv.URL + "/profile",
		}, nil),
		Store:    st,
		Sessions: codec,
	}
	router.StationService = &service.StationService{Store: st}
	router.ReportService = &service.ReportService{Store: st}
	router.FavoriteService = &service.FavoriteService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, store: st, codec: codec}
}

func (e *testEnv) seedStation(t *testing.T, name string) domain.Station {
	t.Helper()

	s := domain.Station{
		ID:        idx.New().String(),
		Name:      name,
		Latitude:  40.7527,
		Longitude: -73.9772,
		Lines:     []string{"4", "6"},
	}
	require.NoError(t, e.store.Stations().CreateStation(t.Context(), s))
	return s
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// signIn runs the full sign-in flow and returns the session token.
func (e *testEnv) signIn(t *testing.T) (string, UserResponse) {
	t.Helper()

	resp, raw := e.request(t, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"code":         "auth-code",
		"redirectUri":  "https://app.example.com/callback",
		"codeVerifier": "pkce-verifier",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var body struct {
		User         UserResponse `json:"user"`
		SessionToken string       `json:"sessionToken"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body.SessionToken)
	return body.SessionToken, body.User
}

func TestSignInFlow(t *testing.T) {
	env := newTestEnv(t)

	token, user := env.signIn(t)
	require.Equal(t, "rider", user.Name)
	require.Equal(t, "rider@example.com", user.Email)

	// The token passes verification and resolves back to the same user.
	resp, raw := env.request(t, http.MethodPost, "/v1/auth/verify", "", map[string]string{
		"sessionToken": token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verified struct {
		User UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &verified))
	require.Equal(t, user.ID, verified.User.ID)
}

func TestVerifyFailureKinds(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"garbage token", "not-a-token", "malformed_token"},
		{"forged token", forgedToken(t), "invalid_signature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := env.request(t, http.MethodPost, "/v1/auth/verify", "", map[string]string{
				"sessionToken": tc.token,
			})
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			require.Equal(t, tc.wantCode, body.Error)
		})
	}
}

func forgedToken(t *testing.T) string {
	t.Helper()

	other := sessionx.NewCodec([]byte("attacker-secret"), time.Hour)
	token, err := other.Issue("user-123", "rider@example.com")
	require.NoError(t, err)
	return token
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.request(t, http.MethodPost, "/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"success":true}`, string(raw))
}

func TestStationsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "Grand Central-42 St")

	t.Run("list", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/stations", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stations []StationResponse
		require.NoError(t, json.Unmarshal(raw, &stations))
		require.Len(t, stations, 1)
		require.Equal(t, station.ID, stations[0].ID)
		require.Equal(t, []string{"4", "6"}, stations[0].Lines)
	})

	t.Run("get", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/stations/"+station.ID, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail struct {
			StationResponse
			Reports []ReportResponse `json:"reports"`
		}
		require.NoError(t, json.Unmarshal(raw, &detail))
		require.Equal(t, station.Name, detail.Name)
		require.Empty(t, detail.Reports)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/v1/stations/"+idx.New().String(), "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReportsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "Union Sq-14 St")
	token, user := env.signIn(t)

	t.Run("create requires auth", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/v1/reports", "", map[string]any{
			"stationId": station.ID,
			"content":   "no token",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("create and mirror police flag", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodPost, "/v1/reports", token, map[string]any{
			"stationId":     station.ID,
			"content":       "two officers by the turnstiles",
			"policePresent": true,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

		var report ReportResponse
		require.NoError(t, json.Unmarshal(raw, &report))
		require.Equal(t, station.ID, report.StationID)

		// The station now carries the flag.
		resp, raw = env.request(t, http.MethodGet, "/v1/stations/"+station.ID, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var detail StationResponse
		require.NoError(t, json.Unmarshal(raw, &detail))
		require.True(t, detail.PoliceRecent)
	})

	t.Run("station feed includes author", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/stations/"+station.ID+"/reports", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reports []ReportResponse
		require.NoError(t, json.Unmarshal(raw, &reports))
		require.Len(t, reports, 1)
		require.NotNil(t, reports[0].User)
		require.Equal(t, user.Name, reports[0].User.Name)
	})

	t.Run("recent feed", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/reports/recent", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reports []ReportResponse
		require.NoError(t, json.Unmarshal(raw, &reports))
		require.Len(t, reports, 1)
	})

	t.Run("my reports include station", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/me/reports", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reports []ReportResponse
		require.NoError(t, json.Unmarshal(raw, &reports))
		require.Len(t, reports, 1)
		require.NotNil(t, reports[0].Station)
		require.Equal(t, station.ID, reports[0].Station.ID)
	})

	t.Run("unknown station is 404", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodPost, "/v1/reports", token, map[string]any{
			"stationId": idx.New().String(),
			"content":   "nowhere",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	env := newTestEnv(t)
	station := env.seedStation(t, "Astoria Blvd")
	token, _ := env.signIn(t)

	t.Run("toggle on", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodPost, "/v1/favorites/toggle", token, map[string]string{
			"stationId": station.ID,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"status":"added"}`, string(raw))
	})

	t.Run("listed with station", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/favorites", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var favorites []FavoriteResponse
		require.NoError(t, json.Unmarshal(raw, &favorites))
		require.Len(t, favorites, 1)
		require.Equal(t, station.ID, favorites[0].StationID)
		require.NotNil(t, favorites[0].Station)
	})

	t.Run("is favorite", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodGet, "/v1/favorites/"+station.ID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"isFavorite":true}`, string(raw))
	})

	t.Run("toggle off", func(t *testing.T) {
		resp, raw := env.request(t, http.MethodPost, "/v1/favorites/toggle", token, map[string]string{
			"stationId": station.ID,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"status":"removed"}`, string(raw))

		resp, raw = env.request(t, http.MethodGet, "/v1/favorites/"+station.ID, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"isFavorite":false}`, string(raw))
	})

	t.Run("requires auth", func(t *testing.T) {
		resp, _ := env.request(t, http.MethodGet, "/v1/favorites", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.request(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))
	require.Equal(t, "ok", health.Status)
	require.Nil(t, health.Checks)

	resp, raw = env.request(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &health))
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
