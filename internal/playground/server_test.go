package playground

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return NewServer(logger), &buf
}

func get(h http.Handler, path string, query url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *Error {
	t.Helper()
	var e Error
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return &e
}

func TestParse_Get(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		typ      string
		wantType string
		wantKind string
		wantGo   string
	}{
		{"CInt", "CInt", "Scalar", "C.int"},
		{"Ptr CChar", "Ptr (CChar)", "Ptr", "*C.char"},
		{"()", "()", "Unit", "struct{}"},
		{"IO (Ptr CDouble)", "IO (Ptr (CDouble))", "IO", "*C.double"},
		{"FunPtr (CInt -> CInt -> CDouble)", "FunPtr(CInt -> CInt -> CDouble)", "FunPtr", "cabi.FunPtr[func(C.int, C.int) C.double]"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			w := get(h, "/parse", url.Values{"type": {tt.typ}})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var res struct {
				Type  string          `json:"type"`
				Kind  string          `json:"kind"`
				Model json.RawMessage `json:"model"`
				Go    string          `json:"go"`
			}
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Type != tt.wantType {
				t.Errorf("type = %q, want %q", res.Type, tt.wantType)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", res.Kind, tt.wantKind)
			}
			if res.Go != tt.wantGo {
				t.Errorf("go = %q, want %q", res.Go, tt.wantGo)
			}
			if len(res.Model) == 0 || !bytes.Contains(res.Model, []byte(`"kind"`)) {
				t.Errorf("model = %s", res.Model)
			}
		})
	}
}

func TestParse_Post(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"type":"Ptr CInt"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	want := `{"type":"Ptr (CInt)","kind":"Ptr","model":{"kind":"ptr","elem":{"kind":"scalar","name":"CInt"}},"go":"*C.int"}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name       string
		query      url.Values
		wantReason string
		wantDetail string
	}{
		{"missing type", url.Values{}, "", "type"},
		{"too long", url.Values{"type": {strings.Repeat("x", 4097)}}, "", "type"},
		{"unsupported", url.Values{"type": {"Foo"}}, "unsupported_hs_type", "reason"},
		{"unmatched", url.Values{"type": {"(CInt"}}, "unmatched_parenthesis", "reason"},
		{"empty funptr", url.Values{"type": {"FunPtr ()"}}, "funptr_without_type_argument", "reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, "/parse", tt.query)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body)
			}
			e := decodeError(t, w)
			if e.Code != CodeInvalidArgument {
				t.Errorf("code = %q, want %q", e.Code, CodeInvalidArgument)
			}
			if _, ok := e.Details[tt.wantDetail]; !ok {
				t.Errorf("details = %v, want key %q", e.Details, tt.wantDetail)
			}
			if tt.wantReason != "" && e.Details["reason"] != tt.wantReason {
				t.Errorf("reason = %v, want %q", e.Details["reason"], tt.wantReason)
			}
		})
	}
}

func TestParse_BadBody(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"type":`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decodeError(t, w); !strings.Contains(e.Message, "failed to decode body") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestProject(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"defaults", url.Values{"type": {"FunPtr (CString -> IO ())"}}, "cabi.FunPtr[func(*C.char)]"},
		{"qualifiers", url.Values{"type": {"FunPtr (CLong -> CLong)"}, "c": {"clib"}, "abi": {"abi"}}, "abi.FunPtr[func(clib.long) clib.long]"},
		{"bool", url.Values{"type": {"CBool"}}, "bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, "/project", tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body)
			}
			var res ProjectResponse
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Go != tt.want {
				t.Errorf("go = %q, want %q", res.Go, tt.want)
			}
		})
	}
}

func TestProject_BadQualifier(t *testing.T) {
	h, _ := newTestServer(t)
	w := get(h, "/project", url.Values{"type": {"CInt"}, "c": {"not an ident"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	e := decodeError(t, w)
	if e.Details["c"] != "must be a Go identifier" {
		t.Errorf("details = %v", e.Details)
	}
}

func TestRouting(t *testing.T) {
	h, _ := newTestServer(t)

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/project", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", w.Code)
		}
		if allow := w.Header().Get("Allow"); allow != "GET" {
			t.Errorf("Allow = %q, want GET", allow)
		}
		if e := decodeError(t, w); e.Code != CodeMethodNotAllowed {
			t.Errorf("code = %q", e.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := get(h, "/nope", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		if e := decodeError(t, w); e.Code != CodeNotFound {
			t.Errorf("code = %q", e.Code)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	h, buf := newTestServer(t)

	get(h, "/parse", url.Values{"type": {"CInt"}})
	get(h, "/parse", url.Values{"type": {"Foo"}})

	logOutput := buf.String()
	if !strings.Contains(logOutput, "request completed") {
		t.Error("expected 'request completed' in log output")
	}
	if !strings.Contains(logOutput, "request rejected") {
		t.Error("expected 'request rejected' in log output")
	}
	if !strings.Contains(logOutput, `"status":400`) {
		t.Errorf("expected status in log output, got %s", logOutput)
	}
}

func TestToError(t *testing.T) {
	e := toError(NewError(CodeNotFound, "gone"))
	if e.Code != CodeNotFound {
		t.Errorf("code = %q, want not_found", e.Code)
	}
	if got := toError(errString("boom")); got.Code != CodeInternal || got.Code.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("toError(plain) = %+v", got)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
