package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/sotorko-go/internal/analyzer"
	"github.com/olegiv/sotorko-go/internal/auth"
	"github.com/olegiv/sotorko-go/internal/cache"
	"github.com/olegiv/sotorko-go/internal/gate"
	"github.com/olegiv/sotorko-go/internal/identity"
	"github.com/olegiv/sotorko-go/internal/imaging"
	"github.com/olegiv/sotorko-go/internal/report"
	"github.com/olegiv/sotorko-go/internal/testutil"
)

type testApp struct {
	router   http.Handler
	identity *identity.Manager
	repo     *report.Repository
	gate     *gate.Gate
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	kv := testutil.TestStore(t)

	im, err := identity.New(kv, identity.Config{
		AdminEmail:     "admin@sotorko.com",
		ModeratorEmail: "mod@sotorko.com",
	})
	require.NoError(t, err)

	repo, err := report.New(kv)
	require.NoError(t, err)

	g := gate.New(im, repo)
	c := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })

	router := NewRouter(Deps{
		Auth:       NewAuthHandler(im, auth.NewCodeIssuer(), g),
		Reports:    NewReportsHandler(repo, g, im, c),
		Admin:      NewAdminHandler(im),
		Analyze:    NewAnalyzeHandler(analyzer.New("", "")),
		Uploads:    NewUploadsHandler(imaging.NewNormalizer(t.TempDir())),
		Health:     NewHealthHandler(testutil.TestDB(t)),
		UploadsDir: t.TempDir(),
	})

	return &testApp{router: router, identity: im, repo: repo, gate: g}
}

// do performs a request and decodes the JSON response body.
func (a *testApp) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	}
	return rec.Code, decoded
}

// login walks the full email, password, one-time-code flow.
func (a *testApp) login(t *testing.T, email string) {
	t.Helper()

	code, resp := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "whatever",
	})
	require.Equal(t, http.StatusOK, code, "login: %v", resp)
	otp, _ := resp["code"].(string)
	require.Len(t, otp, 6)

	code, resp = a.do(t, http.MethodPost, "/api/auth/verify", map[string]string{
		"email": email,
		"code":  otp,
	})
	require.Equal(t, http.StatusOK, code, "verify: %v", resp)
}
