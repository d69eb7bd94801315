package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/malaynlp/melayu/config"
	"github.com/malaynlp/melayu/corpus"
	"github.com/malaynlp/melayu/stemmer"
	"github.com/malaynlp/melayu/store"
)

func newTestServer(t *testing.T, cfg *config.Config, st *store.Store) *Server {
	t.Helper()
	log := zap.NewNop().Sugar()
	sm, err := stemmer.New(stemmer.WithLogger(log))
	if err != nil {
		t.Fatalf("stemmer.New: %v", err)
	}
	proc := corpus.NewProcessor(sm, log, cfg.Corpus.DropStopwords)
	return New(cfg, sm, proc, st, log)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)
	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestStemEndpoint(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)

	resp, err := s.App().Test(jsonRequest("POST", "/v1/stem", `{"word":"membaca"}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["root"] != "baca" {
		t.Errorf("root = %q, want baca", body["root"])
	}

	for name, payload := range map[string]string{
		"missing word": `{}`,
		"bad JSON":     `{"word":`,
	} {
		resp, err := s.App().Test(jsonRequest("POST", "/v1/stem", payload))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}
}

func TestStemBatchEndpoint(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)
	resp, err := s.App().Test(jsonRequest("POST", "/v1/stem/batch", `{"words":["membaca","ajarannya"]}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Roots []string `json:"roots"`
	}
	decodeBody(t, resp, &body)
	if len(body.Roots) != 2 || body.Roots[0] != "baca" || body.Roots[1] != "ajar" {
		t.Errorf("roots = %v", body.Roots)
	}

	resp, err = s.App().Test(jsonRequest("POST", "/v1/stem/batch", `{"words":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("empty words: status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)
	resp, err := s.App().Test(jsonRequest("POST", "/v1/analyze", `{"word":"kebaikan"}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Word    string `json:"word"`
		Root    string `json:"root"`
		Affixes []struct {
			Form string `json:"form"`
			Kind string `json:"kind"`
		} `json:"affixes"`
	}
	decodeBody(t, resp, &body)
	if body.Root != "baik" {
		t.Errorf("root = %q, want baik", body.Root)
	}
	if len(body.Affixes) == 0 {
		t.Error("no affixes reported for kebaikan")
	}
}

func TestCorpusEndpoint(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)
	text := "Dia membaca buku. Mereka membaca bacaan itu."
	req := httptest.NewRequest("POST", "/v1/corpus?source=ujian", strings.NewReader(text))
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var run corpus.Run
	decodeBody(t, resp, &run)
	if run.Source != "ujian" {
		t.Errorf("source = %q", run.Source)
	}
	if run.ID == "" {
		t.Error("run ID is empty")
	}
	var bacaFreq int
	for _, row := range run.Rows {
		if row.Root == "baca" {
			bacaFreq = row.Freq
		}
	}
	if bacaFreq != 3 {
		t.Errorf("baca frequency = %d, want 3", bacaFreq)
	}

	resp, err = s.App().Test(httptest.NewRequest("POST", "/v1/corpus", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("empty body: status = %d, want 400", resp.StatusCode)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	s := newTestServer(t, config.Default(), nil)
	for _, target := range []string{"/v1/runs/", "/v1/runs/some-id"} {
		resp, err := s.App().Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		if resp.StatusCode != 503 {
			t.Errorf("%s: status = %d, want 503", target, resp.StatusCode)
		}
	}
}

func TestRunsWithStore(t *testing.T) {
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	s := newTestServer(t, config.Default(), st)

	req := httptest.NewRequest("POST", "/v1/corpus?source=ujian", strings.NewReader("Dia membaca buku membaca."))
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("corpus status = %d", resp.StatusCode)
	}
	var run corpus.Run
	decodeBody(t, resp, &run)

	resp, err = s.App().Test(httptest.NewRequest("GET", "/v1/runs/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("runs status = %d", resp.StatusCode)
	}
	var listing struct {
		Runs []store.RunSummary `json:"runs"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Runs) != 1 || listing.Runs[0].ID != run.ID {
		t.Errorf("runs listing = %+v", listing.Runs)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/v1/runs/"+run.ID, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("wordlist status = %d", resp.StatusCode)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/v1/runs/no-such-run", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("missing run: status = %d, want 404", resp.StatusCode)
	}
}

func TestRunsRequireTokenWhenConfigured(t *testing.T) {
	t.Setenv("MELAYU_TEST_JWT_SECRET", "sulit")
	cfg := config.Default()
	cfg.Server.AuthSecretEnv = "MELAYU_TEST_JWT_SECRET"
	s := newTestServer(t, cfg, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/v1/runs/", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode == 200 || resp.StatusCode == 503 {
		t.Errorf("unauthenticated request reached the handler, status = %d", resp.StatusCode)
	}

	// A signed token passes the guard and reaches the handler, which
	// reports 503 because no store is configured.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "penyelidik",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("sulit"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest("GET", "/v1/runs/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("authenticated request: status = %d, want 503", resp.StatusCode)
	}

	// The open endpoints stay open.
	resp, err = s.App().Test(jsonRequest("POST", "/v1/stem", `{"word":"membaca"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("stem with auth configured: status = %d", resp.StatusCode)
	}
}
