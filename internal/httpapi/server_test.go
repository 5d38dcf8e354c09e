package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ggufconv/internal/jobs"
	"ggufconv/internal/planner"
	"ggufconv/internal/tools"
	"ggufconv/pkg/types"
)

type mockService struct {
	busy       bool
	planErr    error
	convertErr error
	lastReq    types.PlanRequest
}

func (m *mockService) Formats() types.FormatsResponse {
	return types.FormatsResponse{Groups: []types.FormatGroup{{Name: "Q4", Formats: []types.Format{"Q4_0"}}}}
}

func (m *mockService) Plan(req types.PlanRequest) (types.PlanResponse, error) {
	m.lastReq = req
	if m.planErr != nil {
		return types.PlanResponse{}, m.planErr
	}
	return types.PlanResponse{Plan: &types.ConversionPlan{}, Targets: 2, Pending: 1}, nil
}

func (m *mockService) Convert(ctx context.Context, req types.PlanRequest, w io.Writer, flush func()) error {
	m.lastReq = req
	if m.convertErr != nil {
		return m.convertErr
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(types.ProgressEvent{Kind: types.EventCompleted, Progress: 100, Current: 1, Total: 1})
	if flush != nil {
		flush()
	}
	_ = enc.Encode(types.ProgressEvent{Kind: types.EventDone, Progress: 100, Current: 1, Total: 1})
	if flush != nil {
		flush()
	}
	return nil
}

func (m *mockService) Status() types.StatusResponse {
	return types.StatusResponse{Run: types.RunStatus{Active: m.busy}, UptimeSeconds: 7}
}

func (m *mockService) Busy() bool { return m.busy }

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	NewMux(&mockService{busy: true}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "busy") {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestFormatsHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/formats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.FormatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Groups) != 1 || body.Groups[0].Name != "Q4" {
		t.Fatalf("body=%+v", body)
	}
}

func TestStatusHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{busy: true}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !body.Run.Active || body.UptimeSeconds != 7 {
		t.Fatalf("body=%+v", body)
	}
}

func TestPlanHandler(t *testing.T) {
	svc := &mockService{}
	w := postJSON(NewMux(svc), "/plan", `{"inputs":["/m/a.bin"],"formats":["Q4_0"],"output_dir":"/out","keep_intermediate":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.PlanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Targets != 2 || body.Pending != 1 {
		t.Fatalf("body=%+v", body)
	}
	if svc.lastReq.OutputDir != "/out" || len(svc.lastReq.Formats) != 1 {
		t.Fatalf("request not decoded: %+v", svc.lastReq)
	}
	if k := svc.lastReq.KeepIntermediate; k == nil || *k {
		t.Fatalf("explicit keep_intermediate=false lost: %v", k)
	}
}

func TestPlanRequiresInputs(t *testing.T) {
	w := postJSON(NewMux(&mockService{}), "/plan", `{"formats":["Q4_0"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPlanInputErrorMaps400(t *testing.T) {
	svc := &mockService{planErr: &planner.UnsupportedExtensionError{Path: "/m/a.txt", Ext: ".txt"}}
	w := postJSON(NewMux(svc), "/plan", `{"inputs":["/m/a.txt"],"formats":["Q4_0"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusBadRequest || !strings.Contains(body.Error, ".txt") {
		t.Fatalf("body=%+v", body)
	}
}

func TestConvertStreams(t *testing.T) {
	w := postJSON(NewMux(&mockService{}), "/convert", `{"inputs":["/m/a.bin"],"formats":["Q4_0"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("content-type=%s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ndjson lines, got %d", len(lines))
	}
	var last types.ProgressEvent
	if err := json.Unmarshal([]byte(lines[1]), &last); err != nil || last.Kind != types.EventDone {
		t.Fatalf("last=%+v err=%v", last, err)
	}
}

func TestConvertStreamsWithDebugLogging(t *testing.T) {
	w := postJSON(NewMux(&mockService{}), "/convert?log=debug", `{"inputs":["/m/a.bin"],"formats":["Q4_0"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestConvertErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"input", planner.ErrNoFormats, http.StatusBadRequest},
		{"validation", &planner.ValidationError{Invalid: []planner.InvalidInput{{Path: "/x", Reason: "file not found"}}}, http.StatusBadRequest},
		{"busy", jobs.ErrBusy(), http.StatusConflict},
		{"tool", tools.ErrToolUnavailable("quantize", "/bin/llama-quantize", os.ErrNotExist), http.StatusServiceUnavailable},
		{"http", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"generic", io.EOF, http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := postJSON(NewMux(&mockService{convertErr: c.err}), "/convert", `{"inputs":["/m/a.bin"]}`)
			if w.Code != c.want {
				t.Fatalf("status=%d want %d", w.Code, c.want)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content-type=%s", ct)
			}
		})
	}
}

func TestConvertBadJSON(t *testing.T) {
	w := postJSON(NewMux(&mockService{}), "/convert", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestConvertUnsupportedMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewBufferString(`{"inputs":["/m/a.bin"]}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewBufferString(`{"inputs":["/m/a.bin"]}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	big := make([]byte, (1<<20)+10)
	for i := range big {
		big[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/formats", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatal("expected Access-Control-Allow-Origin")
	}
}

func TestSwaggerDocServed(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/convert") {
		t.Fatalf("doc.json missing /convert: %.200s", w.Body.String())
	}
}
