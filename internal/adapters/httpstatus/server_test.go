package httpstatus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jose-valero/warbot/internal/app/service"
	"github.com/jose-valero/warbot/internal/infra/logging"
	"github.com/jose-valero/warbot/internal/testkit/memstore"
)

func newServer(t *testing.T) (*Server, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	log := logging.Discard()
	admin := service.NewAdminService(st.Fighters, st.Candidates, st.Vars, st, time.UTC, log)
	roster := service.NewRosterService(st.Fighters, st.Candidates, st.Vars, st.Queues, log)
	return New("s3cret", admin, roster, time.UTC, log), st
}

func do(s *Server, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthAndStatus(t *testing.T) {
	s, st := newServer(t)
	st.Seed("a", "b")

	if w := do(s, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}

	w := do(s, http.MethodGet, "/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Fighters != 2 || got.NextBattle != nil || got.FrequencyHours != 6 || got.FrequencyActive {
		t.Fatalf("status = %+v", got)
	}
}

func TestOptIn(t *testing.T) {
	s, st := newServer(t)
	ctx := context.Background()
	_, _ = st.Vars.SetOptIn(ctx, true)
	auth := map[string]string{SecretHeader: "s3cret"}

	tests := []struct {
		name string
		body string
		hdr  map[string]string
		code int
	}{
		{name: "no secret", body: `{"username":"x"}`, code: http.StatusUnauthorized},
		{name: "bad secret", body: `{"username":"x"}`, hdr: map[string]string{SecretHeader: "nope"}, code: http.StatusUnauthorized},
		{name: "missing username", body: `{}`, hdr: auth, code: http.StatusBadRequest},
		{name: "only at sign", body: `{"username":"@"}`, hdr: auth, code: http.StatusBadRequest},
		{name: "ok", body: `{"username":"@newbie"}`, hdr: auth, code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(s, http.MethodPost, "/optin", tt.body, tt.hdr); w.Code != tt.code {
				t.Fatalf("code = %d body=%s", w.Code, w.Body.String())
			}
		})
	}

	cs, _ := st.Candidates.List(ctx)
	if len(cs) != 1 || cs[0].Username != "newbie" {
		t.Fatalf("candidates = %v", cs)
	}
}
