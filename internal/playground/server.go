// Package playground serves the type grammar over HTTP for interactive use:
// parse a type, see its canonical form and the Go fragment it projects to.
//
//	GET  /parse?type=FunPtr+(CInt+->+IO+())
//	POST /parse      {"type": "Ptr CChar"}
//	GET  /project?type=CInt&c=C&abi=cabi
package playground

import (
	"context"
	"encoding/json"
	"go/token"
	"log/slog"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/broady/hsbindgen/hstype"
	"github.com/broady/hsbindgen/hstype/layout"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	validate.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
}

// maxTypeLen bounds the accepted type text.
const maxTypeLen = 4096

// ParseRequest is the input of /parse.
type ParseRequest struct {
	Type string `json:"type" schema:"type" validate:"required,max=4096"`
}

// ParseResponse describes a parsed type.
type ParseResponse struct {
	Type  string      `json:"type"`  // canonical rendering
	Kind  string      `json:"kind"`  // top-level kind
	Model hstype.Type `json:"model"` // structured form
	Go    string      `json:"go"`    // projected fragment
}

// ProjectRequest is the input of /project.
type ProjectRequest struct {
	Type string `json:"type" schema:"type" validate:"required,max=4096"`
	C    string `json:"c,omitempty" schema:"c" validate:"omitempty,goident"`
	ABI  string `json:"abi,omitempty" schema:"abi" validate:"omitempty,goident"`
}

// ProjectResponse holds a projected fragment.
type ProjectResponse struct {
	Go string `json:"go"`
}

// NewServer returns the playground handler. A nil logger means
// slog.Default().
func NewServer(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/parse", endpoint(logger, parseType, http.MethodGet, http.MethodPost))
	mux.Handle("/project", endpoint(logger, projectType, http.MethodGet))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, Errorf(CodeNotFound, "no such endpoint %s", r.URL.Path), logger)
	})
	return LoggingMiddleware(logger)(mux)
}

func parseType(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	t, err := hstype.Parse(req.Type)
	if err != nil {
		return nil, err
	}
	return &ParseResponse{
		Type:  t.String(),
		Kind:  t.Kind().String(),
		Model: t,
		Go:    layout.Format(layout.Project(t)),
	}, nil
}

func projectType(ctx context.Context, req *ProjectRequest) (*ProjectResponse, error) {
	t, err := hstype.Parse(req.Type)
	if err != nil {
		return nil, err
	}
	p := &layout.Projector{CPackage: req.C, ABIPackage: req.ABI}
	return &ProjectResponse{Go: layout.Format(p.Project(t))}, nil
}

// endpoint adapts fn to HTTP: GET requests decode the query string, other
// methods decode a JSON body. The request is validated before fn runs.
func endpoint[Req, Res any](logger *slog.Logger, fn func(context.Context, *Req) (*Res, error), methods ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(methods, r.Method) {
			w.Header().Set("Allow", strings.Join(methods, ", "))
			writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method), logger)
			return
		}

		req := new(Req)
		if r.Method == http.MethodGet {
			if err := schemaDecoder.Decode(req, r.URL.Query()); err != nil {
				writeError(w, Errorf(CodeInvalidArgument, "failed to decode query: %v", err), logger)
				return
			}
		} else {
			body := http.MaxBytesReader(w, r.Body, 2*maxTypeLen)
			if err := json.NewDecoder(body).Decode(req); err != nil {
				writeError(w, Errorf(CodeInvalidArgument, "failed to decode body: %v", err), logger)
				return
			}
		}

		if err := validate.Struct(req); err != nil {
			writeError(w, toError(err), logger)
			return
		}

		res, err := fn(r.Context(), req)
		if err != nil {
			writeError(w, toError(err), logger)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			logger.ErrorContext(r.Context(), "failed to encode response", slog.Any("error", err))
		}
	})
}
