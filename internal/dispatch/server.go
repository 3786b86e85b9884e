package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
)

// Default server identity reported during the initialize handshake.
const (
	DefaultName    = "odmcp"
	DefaultVersion = "dev"
)

// MCP method names routed by the server.
const (
	methodInitialize             = "initialize"
	methodPing                   = "ping"
	methodListTools              = "tools/list"
	methodCallTool               = "tools/call"
	methodListResources          = "resources/list"
	methodReadResource           = "resources/read"
	methodListResourceTemplates  = "resources/templates/list"
	notificationMethodNamePrefix = "notifications/"
)

// Options configures a Server.
type Options struct {
	// Name is the server name reported to clients.
	Name string
	// Version is the server version reported to clients.
	Version string
	// Instructions are optional usage hints returned by initialize.
	Instructions string
	// Logger receives server logs. Nil discards them.
	Logger *slog.Logger
	// KeepAlive, if positive, pings the client at this interval and closes
	// the session when a ping fails.
	KeepAlive time.Duration
}

// Server answers MCP requests from a frozen tool registry.
type Server struct {
	log  *slog.Logger
	reg  *registry.Registry
	impl *mcp.Implementation
	caps *mcp.ServerCapabilities
	mcp  *mcp.Server

	state atomic.Int32

	mu       sync.Mutex
	session  *mcp.ServerSession
	done     chan struct{}
	doneOnce sync.Once
	waitErr  error

	inflight  sync.WaitGroup
	inflightN atomic.Int64
}

// NewServer creates a server exposing the tools and resources of regs.
//
// Registries are merged in argument order and frozen. A tool name or
// resource URI present in more than one registry fails construction.
func NewServer(opts Options, regs ...*registry.Registry) (*Server, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}

	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log = log.With("component", "dispatch", "server", opts.Name)

	reg, err := merge(regs)
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:  log,
		reg:  reg,
		impl: &mcp.Implementation{Name: opts.Name, Version: opts.Version},
		done: make(chan struct{}),
	}

	s.caps = &mcp.ServerCapabilities{Tools: &mcp.ToolCapabilities{}}
	if reg.HasResources() {
		s.caps.Resources = &mcp.ResourceCapabilities{}
	}

	s.mcp = mcp.NewServer(s.impl, &mcp.ServerOptions{
		Instructions:       opts.Instructions,
		Logger:             log,
		KeepAlive:          opts.KeepAlive,
		Capabilities:       s.caps,
		InitializedHandler: s.onInitialized,
		GetSessionID:       uuid.NewString,
	})
	s.mcp.AddReceivingMiddleware(s.route)

	log.Debug("Server created",
		"tools", reg.Len(),
		"resources", len(reg.ListResources()),
	)

	return s, nil
}

func merge(regs []*registry.Registry) (*registry.Registry, error) {
	if len(regs) == 1 && regs[0] != nil {
		regs[0].Freeze()

		return regs[0], nil
	}

	out := registry.New()

	for _, r := range regs {
		if r == nil {
			continue
		}

		for _, tool := range r.List() {
			handler, err := r.Resolve(tool.Name)
			if err != nil {
				return nil, err
			}

			if err := out.Register(tool, handler); err != nil {
				return nil, err
			}
		}

		for _, res := range r.ListResources() {
			handler, err := r.ResolveResource(res.URI)
			if err != nil {
				return nil, err
			}

			if err := out.RegisterResource(res, handler); err != nil {
				return nil, err
			}
		}
	}

	// Inputs stay open when the merge fails.
	for _, r := range regs {
		if r != nil {
			r.Freeze()
		}
	}

	out.Freeze()

	return out, nil
}

// Registry returns the merged, frozen registry served by s.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}

// ServerInfo returns the implementation reported during initialize.
func (s *Server) ServerInfo() *mcp.Implementation {
	return s.impl
}

// Capabilities returns the capabilities advertised during initialize.
// Resources are only advertised when at least one resource is registered.
func (s *Server) Capabilities() *mcp.ServerCapabilities {
	return s.caps
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// InFlight returns the number of tool calls currently executing.
func (s *Server) InFlight() int {
	return int(s.inflightN.Load())
}

// Connect binds the server to a transport and starts handling requests in
// the background. A Server accepts exactly one transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) error {
	if !s.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitialized)) {
		return errors.ErrAlreadyConnected
	}

	ss, err := s.mcp.Connect(ctx, t, nil)
	if err != nil {
		s.state.Store(int32(StateClosed))
		s.finish()

		return fmt.Errorf("connect transport: %w", err)
	}

	s.mu.Lock()
	if s.State() == StateClosed {
		s.mu.Unlock()

		// Close won the race while the transport was connecting.
		if err := ss.Close(); err != nil {
			s.log.Warn("Failed to close session after Close", "error", err)
		}

		return errors.ErrServerClosed
	}

	s.session = ss
	s.mu.Unlock()

	s.log.Info("Transport connected", "session_id", ss.ID())

	go func() {
		err := ss.Wait()

		s.mu.Lock()
		s.waitErr = err
		s.mu.Unlock()

		s.state.Store(int32(StateClosed))
		s.finish()

		s.log.Info("Transport closed", "error", err)
	}()

	return nil
}

// Serve connects to t and blocks until the client disconnects or ctx is
// cancelled. In-flight calls are drained before Serve returns.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	if err := s.Connect(ctx, t); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		_ = s.Close()
		_ = s.Wait()

		return ctx.Err()
	case <-s.done:
		return s.Wait()
	}
}

// Handler returns an HTTP handler serving the registry over the streamable
// HTTP transport. Each HTTP client gets its own session identified by a
// UUID. The server moves to StateClosed on Close.
func (s *Server) Handler() (http.Handler, error) {
	if !s.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitialized)) {
		return nil, errors.ErrAlreadyConnected
	}

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		if s.State() == StateClosed {
			return nil
		}

		return s.mcp
	}, &mcp.StreamableHTTPOptions{Logger: s.log}), nil
}

// Close stops accepting requests and terminates the transport session once
// calls already executing have returned.
//
// Closing a server whose Connect is still in progress makes that Connect
// fail with ErrServerClosed.
func (s *Server) Close() error {
	s.mu.Lock()
	ss := s.session

	if ss == nil {
		s.state.Store(int32(StateClosed))
		s.mu.Unlock()
		s.finish()

		return nil
	}

	s.mu.Unlock()

	return ss.Close()
}

func (s *Server) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Wait blocks until the transport has closed and all in-flight calls have
// returned. It returns the error that ended the session, if any.
func (s *Server) Wait() error {
	<-s.done
	s.inflight.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.waitErr
}

func (s *Server) onInitialized(_ context.Context, req *mcp.InitializedRequest) {
	if s.state.CompareAndSwap(int32(StateInitialized), int32(StateServing)) {
		s.log.Info("Client initialized", "session_id", req.Session.ID())
	}
}

// route answers tool and resource requests from the registry. Lifecycle
// methods and notifications fall through to the go-sdk; anything else is
// reported as an unknown method.
func (s *Server) route(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case methodListTools:
			return &mcp.ListToolsResult{Tools: s.reg.List()}, nil

		case methodCallTool:
			r, ok := req.(*mcp.CallToolRequest)
			if !ok || r.Params == nil {
				return nil, toWireError(&errors.ValidationError{Reason: "missing call parameters"}, "", "")
			}

			res, err := s.CallTool(ctx, r.Params.Name, r.Params.Arguments)
			if err != nil {
				return nil, toWireError(err, r.Params.Name, "")
			}

			return res, nil

		case methodListResources:
			if !s.reg.HasResources() {
				return nil, methodNotFound(method)
			}

			return &mcp.ListResourcesResult{Resources: s.reg.ListResources()}, nil

		case methodListResourceTemplates:
			if !s.reg.HasResources() {
				return nil, methodNotFound(method)
			}

			return &mcp.ListResourceTemplatesResult{ResourceTemplates: []*mcp.ResourceTemplate{}}, nil

		case methodReadResource:
			if !s.reg.HasResources() {
				return nil, methodNotFound(method)
			}

			r, ok := req.(*mcp.ReadResourceRequest)
			if !ok || r.Params == nil {
				return nil, toWireError(&errors.ValidationError{Reason: "missing read parameters"}, "", "")
			}

			res, err := s.ReadResource(ctx, r.Params.URI)
			if err != nil {
				return nil, toWireError(err, "", r.Params.URI)
			}

			return res, nil

		case methodInitialize, methodPing:
			return next(ctx, method, req)
		}

		if strings.HasPrefix(method, notificationMethodNamePrefix) {
			return next(ctx, method, req)
		}

		return nil, methodNotFound(method)
	}
}

func methodNotFound(method string) *jsonrpc.Error {
	return &jsonrpc.Error{
		Code:    jsonrpc.CodeMethodNotFound,
		Message: fmt.Sprintf("method %q not found", method),
	}
}

// CallTool resolves name, invokes its handler with the decoded arguments and
// returns the handler's content verbatim.
//
// Errors are one of *errors.ToolNotFoundError, *errors.ValidationError or
// *errors.UpstreamError. Handler failures of any other type, including
// panics, are wrapped as *errors.UpstreamError.
func (s *Server) CallTool(ctx context.Context, name string, raw json.RawMessage) (*mcp.CallToolResult, error) {
	s.inflight.Add(1)
	s.inflightN.Add(1)

	defer func() {
		s.inflightN.Add(-1)
		s.inflight.Done()
	}()

	log := s.log.With("tool", name, "call_id", ulid.Make().String())

	handler, err := s.reg.Resolve(name)
	if err != nil {
		log.Warn("Unknown tool requested")

		return nil, err
	}

	args, err := decodeArguments(raw)
	if err != nil {
		log.Warn("Rejected tool arguments", "error", err)

		return nil, err
	}

	log.Debug("Calling tool")

	start := time.Now()

	content, err := invoke(ctx, log, handler, args)
	if err != nil {
		err = classify(err)

		log.Error("Tool call failed", "error", err, "duration", time.Since(start))

		return nil, err
	}

	if s.State() == StateClosed {
		log.Debug("Transport closed, discarding tool result")
	}

	log.Debug("Tool call completed",
		"content_blocks", len(content),
		"duration", time.Since(start),
	)

	if content == nil {
		content = []mcp.Content{}
	}

	return &mcp.CallToolResult{Content: content}, nil
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, &errors.ValidationError{Reason: "arguments must be a JSON object", Err: err}
	}

	if args == nil {
		args = map[string]any{}
	}

	return args, nil
}

func invoke(
	ctx context.Context,
	log *slog.Logger,
	h registry.ToolHandler,
	args map[string]any,
) (content []mcp.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Tool handler panicked", "panic", r, "stack", string(debug.Stack()))

			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return h(ctx, args)
}

// ReadResource returns the payload registered for uri. Textual MIME types
// are returned as text, everything else as a base64 blob.
func (s *Server) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	log := s.log.With("uri", uri, "call_id", ulid.Make().String())

	handler, err := s.reg.ResolveResource(uri)
	if err != nil {
		log.Warn("Unknown resource requested")

		return nil, err
	}

	data, err := readResource(ctx, handler, uri)
	if err != nil {
		err = classify(err)

		log.Error("Resource read failed", "error", err)

		return nil, err
	}

	mimeType := ""
	if res := s.reg.Resource(uri); res != nil {
		mimeType = res.MIMEType
	}

	contents := &mcp.ResourceContents{URI: uri, MIMEType: mimeType}
	if isText(mimeType) {
		contents.Text = string(data)
	} else {
		if data == nil {
			data = []byte{}
		}

		contents.Blob = data
	}

	log.Debug("Resource read", "bytes", len(data))

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{contents}}, nil
}

func readResource(ctx context.Context, h registry.ResourceHandler, uri string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resource handler panic: %v", r)
		}
	}()

	return h(ctx, uri)
}

func isText(mimeType string) bool {
	if mimeType == "" {
		return true
	}

	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}

	return strings.HasPrefix(mt, "text/") || mt == "application/json" || strings.HasSuffix(mt, "+json")
}
