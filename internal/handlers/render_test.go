package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"techblog/internal/importer"
	"techblog/internal/markdown"
	"techblog/internal/service"
	"techblog/internal/service/mocks"
)

func TestRenderHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          string
		mockSetup     func(*mocks.MockBlogService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "renders document and html",
			method: http.MethodPost,
			body:   `{"content":"## Title\n- a"}`,
			mockSetup: func(m *mocks.MockBlogService) {
				m.EXPECT().
					RenderSource(gomock.Any(), service.RenderRequest{Content: "## Title\n- a"}).
					Return(service.RenderResponse{
						Document: markdown.Render("## Title\n- a"),
						TOC:      markdown.ExtractTOC("## Title\n- a"),
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp RenderResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if len(resp.Document.Blocks) != 2 || len(resp.TOC) != 1 {
					t.Errorf("response = %+v", resp)
				}
				if !strings.Contains(resp.HTML, `<h2 id="heading-0">Title</h2>`) || !strings.Contains(resp.HTML, "<ul><li>a</li></ul>") {
					t.Errorf("html = %s", resp.HTML)
				}
			},
		},
		{
			name:   "empty content yields empty lists",
			method: http.MethodPost,
			body:   `{"content":""}`,
			mockSetup: func(m *mocks.MockBlogService) {
				m.EXPECT().RenderSource(gomock.Any(), service.RenderRequest{}).Return(service.RenderResponse{}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if body := w.Body.String(); !strings.Contains(body, `"blocks":[]`) || !strings.Contains(body, `"toc":[]`) {
					t.Errorf("body = %s", body)
				}
			},
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "not json",
			mockSetup:  func(m *mocks.MockBlogService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "body too large",
			method:     http.MethodPost,
			body:       `{"content":"` + strings.Repeat("a", 2*service.MaxSourceBytes) + `"}`,
			mockSetup:  func(m *mocks.MockBlogService) {},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:   "service validation error",
			method: http.MethodPost,
			body:   `{"content":"x"}`,
			mockSetup: func(m *mocks.MockBlogService) {
				m.EXPECT().RenderSource(gomock.Any(), gomock.Any()).
					Return(service.RenderResponse{}, &service.ValidationError{Field: "content", Message: "too large"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockBlogService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockBlogService := mocks.NewMockBlogService(ctrl)
			tt.mockSetup(mockBlogService)
			handler := NewRenderHandler(mockBlogService, markdown.NewHTMLRenderer(""))

			req := httptest.NewRequest(tt.method, "/api/render", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

// fakeImporter records ImportAll calls.
type fakeImporter struct {
	mu      sync.Mutex
	running bool
	calls   []importer.Options
	done    chan struct{}
}

func (f *fakeImporter) ImportAll(ctx context.Context, opts importer.Options) (importer.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()
	defer close(f.done)
	if ctx.Err() != nil {
		return importer.Result{}, ctx.Err()
	}
	return importer.Result{Imported: 1}, errors.New("one file failed")
}

func (f *fakeImporter) Running() bool {
	return f.running
}

func (f *fakeImporter) Status() importer.Status {
	status := importer.Status{Running: f.running}
	if !f.running {
		status.LastRun = &importer.Result{Scanned: 3, Imported: 2, Failed: 1}
		status.FinishedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		status.LastError = "one file failed"
	}
	return status
}

func TestImportHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		running    bool
		wantStatus int
		wantCall   *importer.Options
	}{
		{name: "starts import", method: http.MethodPost, target: "/api/import", wantStatus: http.StatusAccepted, wantCall: &importer.Options{}},
		{name: "forced import", method: http.MethodPost, target: "/api/import?force=true", wantStatus: http.StatusAccepted, wantCall: &importer.Options{Force: true}},
		{name: "bad force flag", method: http.MethodPost, target: "/api/import?force=maybe", wantStatus: http.StatusBadRequest},
		{name: "already running", method: http.MethodPost, target: "/api/import", running: true, wantStatus: http.StatusConflict},
		{name: "method not allowed", method: http.MethodGet, target: "/api/import", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := &fakeImporter{running: tt.running, done: make(chan struct{})}
			handler := NewImportHandler(imp)

			// The request context is cancelled when the handler returns; the
			// import must not inherit that cancellation.
			ctx, cancel := context.WithCancel(context.Background())
			req := httptest.NewRequest(tt.method, tt.target, nil).WithContext(ctx)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			cancel()

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantCall == nil {
				return
			}

			select {
			case <-imp.done:
			case <-time.After(2 * time.Second):
				t.Fatal("background import did not run")
			}
			imp.mu.Lock()
			defer imp.mu.Unlock()
			if len(imp.calls) != 1 || imp.calls[0] != *tt.wantCall {
				t.Errorf("ImportAll() calls = %+v, want [%+v]", imp.calls, *tt.wantCall)
			}
		})
	}
}

func TestImportStatusHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		running    bool
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "last run",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"running":false`, `"imported":2`, `"failed":1`, `"finished_at":"2024-03-01T12:00:00Z"`, `"last_error":"one file failed"`},
		},
		{
			name:       "running without previous run",
			method:     http.MethodGet,
			running:    true,
			wantStatus: http.StatusOK,
			wantBody:   []string{`{"running":true}`},
		},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewImportStatusHandler(&fakeImporter{running: tt.running})

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/import/status", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(w.Body.String(), want) {
					t.Errorf("body missing %s: %s", want, w.Body.String())
				}
			}
		})
	}
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		healthErr       error
		expect          bool
		wantStatus      int
		wantStatusField string
	}{
		{name: "healthy", method: http.MethodGet, expect: true, wantStatus: http.StatusOK, wantStatusField: "healthy"},
		{name: "unhealthy", method: http.MethodGet, healthErr: service.ErrUnavailable, expect: true, wantStatus: http.StatusServiceUnavailable, wantStatusField: "unhealthy"},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockBlogService := mocks.NewMockBlogService(ctrl)
			if tt.expect {
				mockBlogService.EXPECT().Health(gomock.Any()).Return(tt.healthErr)
			}
			handler := NewHealthHandler(mockBlogService)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatusField == "" {
				return
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatusField {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantStatusField)
			}
			if tt.healthErr != nil && (len(resp.Issues) != 1 || resp.Checks["database"] != "error") {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}
