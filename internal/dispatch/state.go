package dispatch

// State is the lifecycle position of a Server.
type State int32

const (
	// StateUninitialized means the server is constructed but not bound to a transport.
	StateUninitialized State = iota
	// StateInitialized means a transport is bound and the handshake is pending.
	StateInitialized
	// StateServing means the client completed the initialize handshake.
	StateServing
	// StateClosed means the transport terminated. No further requests are accepted.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateServing:
		return "serving"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
