package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// newTestClient points a Client at a fake API server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("test-token", "octo", "repo")
	if err != nil {
		t.Fatal(err)
	}
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	c.gh.BaseURL = base
	return c
}

func TestListLabelsFollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/repo/labels", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/repo/labels?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"name":"bug","color":"d73a4a","description":"A bug"}]`)
		case "2":
			fmt.Fprint(w, `[{"name":"feature","color":"0e8a16","description":""}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	client := newTestClient(t, mux)
	labels, err := client.ListLabels(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	if labels[0].GetName() != "bug" || labels[1].GetName() != "feature" {
		t.Fatalf("labels out of order: %v", labels)
	}
}

func TestListLabelsErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Server Error"}`, http.StatusBadGateway)
	}))

	_, err := client.ListLabels(context.Background())
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
}

func TestCreateLabelErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	}))

	err := client.CreateLabel(context.Background(), "bug", "d73a4a", "A bug")
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
}

func TestGetFileContents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/repo/contents/.github/labels.yml", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ref"); got != "abc123" {
			t.Errorf("got ref %q, want abc123", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"bGFiZWxzOiBbXQo="}`)
	})

	client := newTestClient(t, mux)
	data, err := client.GetFileContents(context.Background(), ".github/labels.yml", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "labels: []\n" {
		t.Fatalf("got %q", data)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("", "octo", "repo"); err == nil {
		t.Fatal("expected error for missing token")
	}
}
