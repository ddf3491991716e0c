// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quixsi/tablefinder/internal/controller"
	"github.com/quixsi/tablefinder/internal/db/jsondb"
	"github.com/quixsi/tablefinder/internal/lookup"
)

func newTestServer(t *testing.T, lookupURL string) *Server {
	t.Helper()
	store, err := jsondb.NewSessionStore("")
	require.NoError(t, err)
	client, err := lookup.NewClient(lookupURL)
	require.NoError(t, err)
	return NewServer("test", "", "/static/map.svg", controller.New(store, client))
}

func guestService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("action") == "byCode" && q.Get("value") == "ab12cd":
			_, _ = w.Write([]byte(`{"success":true,"code":"FOUND","data":{"name":"Ana Pérez","table":"12"}}`))
		case q.Get("action") == "byCode":
			_, _ = w.Write([]byte(`{"success":false,"code":"NOT_FOUND"}`))
		case q.Get("action") == "byName" && q.Get("value") == "Ana":
			_, _ = w.Write([]byte(`{"success":true,"code":"FOUND","data":[{"name":"Ana Pérez","table":12},{"name":"<b>Ana</b>","table":3}]}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"code":"EMPTY_RESULT"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, s http.Handler, method, target string, form url.Values, cookie *http.Cookie, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestServer_RenderIssuesSession(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)

	rec := do(t, s, http.MethodGet, "/", nil, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Contains(t, rec.Body.String(), "Ingresa el código de invitación.")
	assert.Contains(t, rec.Body.String(), "<html")

	rec = do(t, s, http.MethodGet, "/", nil, cookie, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestServer_SearchCodeFragment(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)
	cookie := sessionFrom(t, do(t, s, http.MethodGet, "/", nil, nil, false))

	rec := do(t, s, http.MethodPost, "/search/code", url.Values{"code": {"ab-12-cd"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "Ana Pérez")
	assert.Contains(t, body, `<div class="mesa">12</div>`)
	assert.Contains(t, body, "Encontrado")

	rec = do(t, s, http.MethodPost, "/search/code", url.Values{"code": {"zz99zz"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Código no encontrado. Prueba buscar por nombre.")
	assert.NotContains(t, rec.Body.String(), "Ana Pérez")
}

func TestServer_SearchNameRedirects(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)
	cookie := sessionFrom(t, do(t, s, http.MethodGet, "/", nil, nil, false))

	rec := do(t, s, http.MethodPost, "/mode", url.Values{"mode": {"byName"}}, cookie, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, s, http.MethodPost, "/search/name", url.Values{"name": {" Ana "}}, cookie, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(t, s, http.MethodGet, "/", nil, cookie, false)
	body := rec.Body.String()
	assert.Contains(t, body, "2 resultado(s) encontrados")
	assert.NotContains(t, body, "<b>Ana</b>")
	assert.Less(t, strings.Index(body, "Ana Pérez"), strings.Index(body, "&lt;b&gt;Ana&lt;/b&gt;"))

	rec = do(t, s, http.MethodPost, "/search", url.Values{"code": {"ab12cd"}, "name": {"Nobody"}}, cookie, true)
	assert.Contains(t, rec.Body.String(), "No se encontraron coincidencias.")
	assert.NotContains(t, rec.Body.String(), "Mesa asignada correctamente.")

	rec = do(t, s, http.MethodPost, "/mode", url.Values{"mode": {"byCode"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/search", url.Values{"code": {"ab12cd"}, "name": {"Nobody"}}, cookie, true)
	assert.Contains(t, rec.Body.String(), "Mesa asignada correctamente.")
}

func TestServer_ModeSwitchClearsResult(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)
	cookie := sessionFrom(t, do(t, s, http.MethodGet, "/", nil, nil, false))

	rec := do(t, s, http.MethodPost, "/search/code", url.Values{"code": {"AB12CD"}}, cookie, true)
	require.Contains(t, rec.Body.String(), "Ana Pérez")

	rec = do(t, s, http.MethodPost, "/mode", url.Values{"mode": {"byName"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Ana Pérez")
	assert.Contains(t, rec.Body.String(), "Escribe el nombre del invitado.")

	rec = do(t, s, http.MethodPost, "/mode", url.Values{"mode": {"byTable"}}, cookie, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_NetworkError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	s := newTestServer(t, deadURL)
	cookie := sessionFrom(t, do(t, s, http.MethodGet, "/", nil, nil, false))

	rec := do(t, s, http.MethodPost, "/search/code", url.Values{"code": {"AB12CD"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error de red")
	assert.NotContains(t, body, `Btn" disabled>`)
}

func TestServer_NormalizeCode(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)
	cookie := sessionFrom(t, do(t, s, http.MethodGet, "/", nil, nil, false))

	rec := do(t, s, http.MethodPost, "/code/input", url.Values{"code": {"ab-12 cd-ef"}}, cookie, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="AB12CD"`)
	assert.NotContains(t, rec.Body.String(), "statusTitle")
}

func TestServer_StaticAndMisc(t *testing.T) {
	s := newTestServer(t, guestService(t).URL)

	rec := do(t, s, http.MethodGet, "/static/map.svg", nil, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/map", nil, nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/static/map.svg", rec.Header().Get("Location"))

	rec = do(t, s, http.MethodGet, "/healthz", nil, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/does/not/exist", nil, nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"code":"PAGE_NOT_FOUND","message":"Page not found"}`, rec.Body.String())
}

func TestServer_MapIsLogged(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	s := newTestServer(t, guestService(t).URL)
	rec := do(t, s, http.MethodGet, "/map", nil, nil, false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, logs.String(), `"path":"/map"`)
}
