package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/flowshim/procrun/internal/httpapi/poolsem"
	"github.com/flowshim/procrun/internal/httpapi/schema"
	"github.com/flowshim/procrun/internal/runner"
)

// runRequest is the JSON shape of a POST /run body, validated against
// schema.RequestSchema before it is ever unmarshaled into this struct.
type runRequest struct {
	File       string   `json:"file"`
	Args       []string `json:"args"`
	Cwd        string   `json:"cwd"`
	Env        []string `json:"env"`
	TimeoutMs  int64    `json:"timeoutMs"`
	MaxBuffer  int64    `json:"maxBuffer"`
	KillSignal int      `json:"killSignal"`
	Detached   bool     `json:"detached"`
	Stdin      string   `json:"stdin"`
}

// runResponse is the JSON shape of a /run result.
type runResponse struct {
	Status *int     `json:"status"`
	Signal *string  `json:"signal"`
	Error  string   `json:"error,omitempty"`
	Stdout string   `json:"stdout"`
	Stderr string   `json:"stderr"`
	Output []string `json:"output,omitempty"`
}

// RunHandler serves POST /run: it decodes and schema-validates a
// run-request body, maps it onto runner.Options, and runs the child
// synchronously inside the request goroutine, bounded by sem.
type RunHandler struct {
	schema *schema.RequestSchema
	sem    *poolsem.Pool
	cfg    Config
	log    *zap.Logger
}

// RunHandlerParams is the fx-injected constructor input for
// RunHandler.
type RunHandlerParams struct {
	fx.In

	Schema *schema.RequestSchema
	Sem    *poolsem.Pool
	Config Config
	Log    *zap.Logger
}

// NewRunHandler builds a RunHandler ready to be mounted at /run.
func NewRunHandler(p RunHandlerParams) *RunHandler {
	return &RunHandler{
		schema: p.Schema,
		sem:    p.Sem,
		cfg:    p.Config,
		log:    p.Log.Named("httpapi"),
	}
}

func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.schema.Validate(raw)
	if err != nil {
		h.log.Error("schema validation failed to run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "validation error")
		return
	}
	if !result.Valid() {
		writeError(w, http.StatusBadRequest, formatSchemaErrors(result))
		return
	}

	body, err := json.Marshal(raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var req runRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request shape")
		return
	}

	release, err := h.sem.Acquire(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "too many concurrent runs")
		return
	}
	defer release()

	opts := h.buildOptions(req)

	run := runner.New(opts, h.log)
	res, err := run.Run(r.Context())
	if err != nil {
		h.log.Error("runner returned a programmer error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

func (h *RunHandler) buildOptions(req runRequest) runner.Options {
	timeout := h.cfg.DefaultTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	args := req.Args
	if len(args) == 0 {
		args = []string{req.File}
	}

	return runner.Options{
		File:       req.File,
		Args:       args,
		Cwd:        req.Cwd,
		Env:        req.Env,
		Detached:   req.Detached,
		Timeout:    timeout,
		MaxBuffer:  req.MaxBuffer,
		KillSignal: runner.Signal(req.KillSignal),
		Stdio: []runner.StdioSlot{
			{Type: runner.StdioPipe, Readable: true, Input: []byte(req.Stdin)},
			{Type: runner.StdioPipe, Writable: true},
			{Type: runner.StdioPipe, Writable: true},
		},
	}
}

func toResponse(res *runner.Result) runResponse {
	resp := runResponse{Status: res.Status, Signal: res.Signal}
	if res.Error != nil {
		resp.Error = res.Error.Error()
	}
	if len(res.Output) > 1 && res.Output[1] != nil {
		resp.Stdout = string(res.Output[1])
	}
	if len(res.Output) > 2 && res.Output[2] != nil {
		resp.Stderr = string(res.Output[2])
	}
	return resp
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
