package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docflow/docflow/pkg/routes"
)

func handler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: handler("list")},
			{Method: "GET", Pattern: "/{id}/status", Handler: handler("status")},
			{Method: "POST", Pattern: "/upload", Handler: handler("upload")},
		},
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/documents", "list"},
		{"GET", "/documents/abc/status", "status"},
		{"POST", "/documents/upload", "upload"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Body.String() != tt.want {
			t.Errorf("%s %s = %q, want %q", tt.method, tt.path, rec.Body.String(), tt.want)
		}
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/admin",
		Children: []routes.Group{
			{
				Prefix: "/jobs",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: handler("admin jobs")},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/jobs", nil))
	if rec.Body.String() != "admin jobs" {
		t.Errorf("nested route = %q, want %q", rec.Body.String(), "admin jobs")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: handler("list")},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/documents", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
