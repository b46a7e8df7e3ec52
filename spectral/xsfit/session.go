package xsfit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

// Errors returned by the external-tool back-end.
var (
	ErrBackendUnavailable = errors.New("xsfit: fitting tool unavailable")
	ErrNotPrepared        = errors.New("xsfit: model not prepared")
	ErrNoModelName        = errors.New("xsfit: model name required")
)

// Backend is the surface of the fitting tool the model variants drive.
type Backend interface {
	// SetChatter sets the tool's console verbosity.
	SetChatter(ctx context.Context, level int) error

	// SetEnergies sets the tool's global energy grid.
	SetEnergies(ctx context.Context, emin, emax float64, nchan int, scale string) error

	// DefineModel instantiates a model expression, e.g. "apec" or
	// "tbabs*powerlaw", replacing any previous model.
	DefineModel(ctx context.Context, expr string) error

	// SetParam sets a named parameter of a model component.
	SetParam(ctx context.Context, component, name string, value float64) error

	// SetModelString sets an arbitrary string option of the tool.
	SetModelString(ctx context.Context, key, value string) error

	// Values returns the per-channel values of the active model.
	Values(ctx context.Context) ([]float64, error)
}

// SessionConfig holds the subprocess settings for a [Session].
type SessionConfig struct {
	// Command is the helper executable exposing the fitting tool over
	// JSON-RPC on stdio.
	Command string

	// Args are passed to the helper verbatim.
	Args []string

	// RequestTimeout bounds each RPC round trip. Zero means no timeout.
	RequestTimeout time.Duration
}

// DefaultSessionConfig returns the settings used when only the helper
// command is known.
func DefaultSessionConfig(command string) SessionConfig {
	return SessionConfig{
		Command:        command,
		RequestTimeout: 30 * time.Second,
	}
}

// Session is a running fitting-tool subprocess. It implements [Backend].
type Session struct {
	cfg  SessionConfig
	cmd  *exec.Cmd
	conn *jsonrpc2.Conn
}

type stdioPipe struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioPipe) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioPipe) Write(p []byte) (int, error) { return s.writer.Write(p) }

func (s *stdioPipe) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

// StartSession spawns the helper subprocess and connects to it. A helper
// that cannot be started is reported as [ErrBackendUnavailable].
func StartSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.Command == "" {
		return nil, ErrBackendUnavailable
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("xsfit: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("xsfit: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("xsfit: start %s: %v: %w", cfg.Command, err, ErrBackendUnavailable)
	}

	stream := jsonrpc2.NewBufferedStream(&stdioPipe{reader: stdout, writer: stdin}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, noopHandler{})

	return &Session{cfg: cfg, cmd: cmd, conn: conn}, nil
}

// Close disconnects and waits for the helper to exit.
func (s *Session) Close() error {
	err := s.conn.Close()
	werr := s.cmd.Wait()
	if err != nil {
		return fmt.Errorf("xsfit: close session: %w", err)
	}
	if werr != nil {
		return fmt.Errorf("xsfit: helper exit: %w", werr)
	}
	return nil
}

func (s *Session) call(ctx context.Context, method string, params, result any) error {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	if err := s.conn.Call(ctx, method, params, result); err != nil {
		return fmt.Errorf("xsfit: %s: %w", method, err)
	}
	return nil
}

// SetChatter implements [Backend].
func (s *Session) SetChatter(ctx context.Context, level int) error {
	return s.call(ctx, "xset.chatter", struct {
		Level int `json:"level"`
	}{level}, nil)
}

// SetEnergies implements [Backend].
func (s *Session) SetEnergies(ctx context.Context, emin, emax float64, nchan int, scale string) error {
	return s.call(ctx, "energies.set", struct {
		EMin  float64 `json:"emin"`
		EMax  float64 `json:"emax"`
		NChan int     `json:"nchan"`
		Scale string  `json:"scale"`
	}{emin, emax, nchan, scale}, nil)
}

// DefineModel implements [Backend].
func (s *Session) DefineModel(ctx context.Context, expr string) error {
	return s.call(ctx, "model.define", struct {
		Expr string `json:"expr"`
	}{expr}, nil)
}

// SetParam implements [Backend].
func (s *Session) SetParam(ctx context.Context, component, name string, value float64) error {
	return s.call(ctx, "model.param.set", struct {
		Component string  `json:"component"`
		Name      string  `json:"name"`
		Value     float64 `json:"value"`
	}{component, name, value}, nil)
}

// SetModelString implements [Backend].
func (s *Session) SetModelString(ctx context.Context, key, value string) error {
	return s.call(ctx, "xset.modelString", struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{key, value}, nil)
}

// Values implements [Backend].
func (s *Session) Values(ctx context.Context) ([]float64, error) {
	var out []float64
	if err := s.call(ctx, "model.values", struct {
		Index int `json:"index"`
	}{0}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
