package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/rjulia/config"
	"github.com/takoeight0821/rjulia/driver"
	"github.com/takoeight0821/rjulia/server"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	tr := &driver.Translator{Config: config.Default(), Warnings: io.Discard}
	srv := httptest.NewServer(server.New(tr))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, res *http.Response) map[string]string {
	t.Helper()
	defer res.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status %d", res.StatusCode)
	}
	if diff := cmp.Diff(map[string]string{"status": "ok"}, decode(t, res)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK || !strings.Contains(string(body), "/translate") {
		t.Errorf("unexpected index page: %d %s", res.StatusCode, body)
	}

	res, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", res.StatusCode)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	cases := []struct {
		label  string
		body   string
		status int
		want   map[string]string
	}{
		{
			label:  "valid program",
			body:   `{"code": "x <- c(1, 2)\nprint(x)"}`,
			status: http.StatusOK,
			want:   map[string]string{"julia": "x = [1, 2]\nprintln(x)"},
		},
		{
			label:  "syntax error",
			body:   `{"code": "a < b < c"}`,
			status: http.StatusBadRequest,
			want:   map[string]string{"error": "parse: at 1: `<`, comparison operators are non-associative: unexpected `<`"},
		},
	}

	for _, c := range cases {
		res, err := http.Post(srv.URL+"/translate", "application/json", strings.NewReader(c.body))
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != c.status {
			t.Errorf("%s: expected status %d, got %d", c.label, c.status, res.StatusCode)
		}
		if diff := cmp.Diff(c.want, decode(t, res)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", c.label, diff)
		}
	}
}

func TestTranslateMalformedRequest(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	res, err := http.Post(srv.URL+"/translate", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.StatusCode)
	}
	if body := decode(t, res); !strings.HasPrefix(body["error"], "invalid request:") {
		t.Errorf("unexpected body %v", body)
	}

	res, err = http.Get(srv.URL + "/translate")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", res.StatusCode)
	}
}
