package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
	"github.com/Gaurav-Gosain/tessera/internal/scenario"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// DispatchRequest carries one or more scenario commands.
type DispatchRequest struct {
	Command string `json:"command"`
}

// DispatchResponse reports the state after a dispatch.
type DispatchResponse struct {
	Output  string `json:"output,omitempty"`
	Focused string `json:"focused,omitempty"`
}

// LayoutMsgRequest targets a workspace; zero means the active one.
type LayoutMsgRequest struct {
	Workspace int    `json:"workspace,omitempty"`
	Message   string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  tserrors.Code `json:"code"`
	Error string        `json:"error"`
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, r *http.Request) {
	var snap app.Snapshot
	err := s.Do(r.Context(), func(d *app.Desktop) error {
		snap = d.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	var found *app.WindowSnapshot
	err := s.Do(r.Context(), func(d *app.Desktop) error {
		win, err := d.Window(ref)
		if err != nil {
			return err
		}
		for _, ws := range d.Snapshot().Workspaces {
			for _, ww := range ws.Windows {
				if ww.ID == win.ID() {
					found = &ww
					return nil
				}
			}
		}
		return tserrors.New(tserrors.ErrCodeNoTarget, "window %q is not placed", ref)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cmds, err := scenario.Parse(req.Command)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(cmds) == 0 {
		writeError(w, r, tserrors.New(tserrors.ErrCodeInvalidCommand, "empty command"))
		return
	}

	var resp DispatchResponse
	err = s.Do(r.Context(), func(d *app.Desktop) error {
		var out bytes.Buffer
		p := scenario.NewPlayer(cmds)
		p.Output = &out
		runErr := p.Run(r.Context(), d)
		resp.Output = out.String()
		resp.Focused = d.FocusedWindow()
		return runErr
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayoutMsg(w http.ResponseWriter, r *http.Request) {
	var req LayoutMsgRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Message == "" {
		writeError(w, r, tserrors.New(tserrors.ErrCodeInvalidCommand, "empty layout message"))
		return
	}

	err := s.Do(r.Context(), func(d *app.Desktop) error {
		if req.Workspace == 0 {
			return d.LayoutMsg(req.Message)
		}
		return d.WorkspaceLayoutMsg(req.Workspace, req.Message)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "decode request body")
	}
	return nil
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code tserrors.Code) int {
	switch code {
	case tserrors.ErrCodeInvalidCommand, tserrors.ErrCodeInvalidArgument,
		tserrors.ErrCodeUnknownStrategy, tserrors.ErrCodeConfig:
		return http.StatusBadRequest
	case tserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case tserrors.ErrCodeNoTarget, tserrors.ErrCodeAssertion:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := tserrors.GetCode(err)
	if code == "" {
		code = tserrors.ErrCodeInternal
	}
	status := StatusFor(code)
	if errors.Is(err, ErrClosed) {
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: message(err)})
}

// message joins the messages of a coded error chain without the codes.
func message(err error) string {
	var e *tserrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + message(e.Cause)
	}
	return tserrors.UserMessage(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
