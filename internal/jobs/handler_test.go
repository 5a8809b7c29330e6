package jobs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/jobs"
	"github.com/docflow/docflow/internal/pipeline"
	"github.com/docflow/docflow/pkg/lifecycle"
	"github.com/docflow/docflow/pkg/routes"
)

// stubSystem scripts each operation's outcome for handler tests.
type stubSystem struct {
	submitErr error
	statusFn  func(uuid.UUID) (*jobs.StatusResponse, error)
	resultFn  func(uuid.UUID) (*jobs.Result, error)
	cancelErr error
	list      jobs.ListResult
}

func (s *stubSystem) Handler(maxUploadSize int64) *jobs.Handler {
	return jobs.NewHandler(s, slog.New(slog.DiscardHandler), maxUploadSize)
}

func (s *stubSystem) Start(*lifecycle.Coordinator) error { return nil }

func (s *stubSystem) Submit(_ context.Context, cmd jobs.SubmitCommand) (*jobs.UploadResponse, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &jobs.UploadResponse{
		DocumentID: uuid.New(),
		Status:     pipeline.StatusPending,
		Message:    "Document uploaded and queued for processing",
	}, nil
}

func (s *stubSystem) Status(id uuid.UUID) (*jobs.StatusResponse, error) {
	if s.statusFn != nil {
		return s.statusFn(id)
	}
	return nil, jobs.ErrNotFound
}

func (s *stubSystem) Result(_ context.Context, id uuid.UUID) (*jobs.Result, error) {
	if s.resultFn != nil {
		return s.resultFn(id)
	}
	return nil, jobs.ErrNotFound
}

func (s *stubSystem) Cancel(_ context.Context, id uuid.UUID) (*jobs.Result, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &jobs.Result{DocumentID: id, Status: pipeline.StatusFailed}, nil
}

func (s *stubSystem) List() jobs.ListResult { return s.list }

func newTestServer(sys *stubSystem) *httptest.Server {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1024*1024).Routes())
	return httptest.NewServer(mux)
}

func multipartUpload(t *testing.T, url, filename string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("INVOICE\nTotal: $100")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	resp, err := http.Post(url+"/documents/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	return resp
}

func TestHandlerUpload(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		server := newTestServer(&stubSystem{})
		defer server.Close()

		resp := multipartUpload(t, server.URL, "invoice.txt")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var payload jobs.UploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Status != pipeline.StatusPending {
			t.Errorf("payload status = %s, want pending", payload.Status)
		}
		if payload.DocumentID == uuid.Nil {
			t.Error("missing document id")
		}
	})

	t.Run("unsupported file type", func(t *testing.T) {
		server := newTestServer(&stubSystem{submitErr: jobs.ErrUnsupportedFileType})
		defer server.Close()

		resp := multipartUpload(t, server.URL, "payload.exe")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("capacity exhausted", func(t *testing.T) {
		server := newTestServer(&stubSystem{submitErr: jobs.ErrAdmissionRejected})
		defer server.Close()

		resp := multipartUpload(t, server.URL, "invoice.txt")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", resp.StatusCode)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		server := newTestServer(&stubSystem{})
		defer server.Close()

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		writer.WriteField("name", "not a file")
		writer.Close()

		resp, err := http.Post(server.URL+"/documents/upload", writer.FormDataContentType(), &body)
		if err != nil {
			t.Fatalf("upload request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		assertErrorBody(t, resp, jobs.ErrMalformedUpload.Error())
	})

	t.Run("malformed multipart body", func(t *testing.T) {
		server := newTestServer(&stubSystem{})
		defer server.Close()

		resp, err := http.Post(server.URL+"/documents/upload",
			"multipart/form-data; boundary=xyz", strings.NewReader("not multipart at all"))
		if err != nil {
			t.Fatalf("upload request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		assertErrorBody(t, resp, jobs.ErrMalformedUpload.Error())
	})
}

// assertErrorBody checks the error payload mentions want, distinguishing
// body parse failures from domain rejections like the extension check.
func assertErrorBody(t *testing.T, resp *http.Response, want string) {
	t.Helper()

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(payload["error"], want) {
		t.Errorf("error = %q, want it to mention %q", payload["error"], want)
	}
}

func TestHandlerStatus(t *testing.T) {
	id := uuid.New()
	sys := &stubSystem{
		statusFn: func(got uuid.UUID) (*jobs.StatusResponse, error) {
			if got != id {
				return nil, jobs.ErrNotFound
			}
			return &jobs.StatusResponse{
				DocumentID: id,
				Status:     pipeline.StatusClassified,
				Filename:   "invoice.txt",
				Timestamp:  time.Now().UTC(),
			}, nil
		},
	}
	server := newTestServer(sys)
	defer server.Close()

	t.Run("known job", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/documents/%s/status", server.URL, id))
		if err != nil {
			t.Fatalf("status request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var payload jobs.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Status != pipeline.StatusClassified {
			t.Errorf("payload status = %s, want classified", payload.Status)
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/documents/%s/status", server.URL, uuid.New()))
		if err != nil {
			t.Fatalf("status request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/documents/not-a-uuid/status")
		if err != nil {
			t.Fatalf("status request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestHandlerResults(t *testing.T) {
	id := uuid.New()

	t.Run("completed job", func(t *testing.T) {
		sys := &stubSystem{
			resultFn: func(uuid.UUID) (*jobs.Result, error) {
				return &jobs.Result{
					DocumentID: id,
					Status:     pipeline.StatusCompleted,
					Filename:   "invoice.txt",
					Routing: &pipeline.RoutingDecision{
						Destination: pipeline.DestHighConfidence,
					},
					Errors: []string{},
				}, nil
			},
		}
		server := newTestServer(sys)
		defer server.Close()

		resp, err := http.Get(fmt.Sprintf("%s/documents/%s/results", server.URL, id))
		if err != nil {
			t.Fatalf("results request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var payload jobs.Result
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Routing.Destination != pipeline.DestHighConfidence {
			t.Errorf("destination = %s, want high_confidence_queue", payload.Routing.Destination)
		}
	})

	t.Run("still processing", func(t *testing.T) {
		sys := &stubSystem{
			resultFn: func(uuid.UUID) (*jobs.Result, error) {
				return nil, jobs.ErrStillProcessing
			},
			statusFn: func(uuid.UUID) (*jobs.StatusResponse, error) {
				return &jobs.StatusResponse{
					DocumentID: id,
					Status:     pipeline.StatusExtracted,
				}, nil
			},
		}
		server := newTestServer(sys)
		defer server.Close()

		resp, err := http.Get(fmt.Sprintf("%s/documents/%s/results", server.URL, id))
		if err != nil {
			t.Fatalf("results request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", resp.StatusCode)
		}

		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload["status"] != string(pipeline.StatusExtracted) {
			t.Errorf("payload status = %v, want extracted", payload["status"])
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		server := newTestServer(&stubSystem{})
		defer server.Close()

		resp, err := http.Get(fmt.Sprintf("%s/documents/%s/results", server.URL, uuid.New()))
		if err != nil {
			t.Fatalf("results request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestHandlerCancel(t *testing.T) {
	doDelete := func(t *testing.T, server *httptest.Server, id string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodDelete,
			fmt.Sprintf("%s/documents/%s", server.URL, id), nil)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("cancel request: %v", err)
		}
		return resp
	}

	t.Run("pending job", func(t *testing.T) {
		server := newTestServer(&stubSystem{})
		defer server.Close()

		resp := doDelete(t, server, uuid.NewString())
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		body, _ := io.ReadAll(resp.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload["status"] != string(pipeline.StatusFailed) {
			t.Errorf("payload status = %v, want failed", payload["status"])
		}
	})

	t.Run("already processing", func(t *testing.T) {
		server := newTestServer(&stubSystem{cancelErr: jobs.ErrInvalidState})
		defer server.Close()

		resp := doDelete(t, server, uuid.NewString())
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		server := newTestServer(&stubSystem{cancelErr: jobs.ErrNotFound})
		defer server.Close()

		resp := doDelete(t, server, uuid.NewString())
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestHandlerList(t *testing.T) {
	sys := &stubSystem{
		list: jobs.ListResult{
			Documents: []jobs.Summary{
				{DocumentID: uuid.New(), Status: pipeline.StatusCompleted, Filename: "a.txt"},
				{DocumentID: uuid.New(), Status: pipeline.StatusProcessing, Filename: "b.txt"},
			},
			Total:      2,
			Processing: 1,
			Completed:  1,
		},
	}
	server := newTestServer(sys)
	defer server.Close()

	resp, err := http.Get(server.URL + "/documents")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload jobs.ListResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total != 2 || payload.Processing != 1 || payload.Completed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			payload.Total, payload.Processing, payload.Completed)
	}
}
