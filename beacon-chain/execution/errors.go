package execution

import "github.com/pkg/errors"

var (
	// ErrParse corresponds to JSON-RPC code -32700.
	ErrParse = errors.New("invalid JSON was received by the server")
	// ErrInvalidRequest corresponds to JSON-RPC code -32600.
	ErrInvalidRequest = errors.New("JSON sent is not valid request object")
	// ErrMethodNotFound corresponds to JSON-RPC code -32601.
	ErrMethodNotFound = errors.New("method not found")
	// ErrInvalidParams corresponds to JSON-RPC code -32602.
	ErrInvalidParams = errors.New("invalid method parameter(s)")
	// ErrInternal corresponds to JSON-RPC code -32603.
	ErrInternal = errors.New("internal JSON-RPC error")
	// ErrServer for unexpected execution client errors, code -32000.
	ErrServer = errors.New("client error while processing request")
	// ErrUnknownPayload corresponds to JSON-RPC code -38001.
	ErrUnknownPayload = errors.New("payload does not exist or is not available")
	// ErrInvalidForkchoiceState corresponds to JSON-RPC code -38002.
	ErrInvalidForkchoiceState = errors.New("invalid forkchoice state")
	// ErrInvalidPayloadAttributes corresponds to JSON-RPC code -38003.
	ErrInvalidPayloadAttributes = errors.New("payload attributes are invalid / inconsistent")
	// ErrUnknownPayloadStatus when the payload status is unknown.
	ErrUnknownPayloadStatus = errors.New("unknown payload status")
	// ErrNilResponse when the response from the execution client is nil.
	ErrNilResponse = errors.New("nil response from execution client")
	// ErrHTTPTimeout when the request to the execution client timed out.
	ErrHTTPTimeout = errors.New("timeout from http.Client")
	// ErrUnsupportedPayloadVersion when a payload is requested for a fork the engine client does not serve.
	ErrUnsupportedPayloadVersion = errors.New("unsupported execution payload version")
	// ErrNoPayloadID when forkchoiceUpdated did not start a payload build.
	ErrNoPayloadID = errors.New("no payload id returned by execution client")
	// ErrPayloadMismatch when the built payload does not extend the requested parent.
	ErrPayloadMismatch = errors.New("execution payload does not match the requested attributes")
	// ErrNoExecutionClient when the service has no rpc connection.
	ErrNoExecutionClient = errors.New("no execution client connection")
	// ErrInvalidTerminalTotalDifficulty when the configured terminal total difficulty cannot be parsed.
	ErrInvalidTerminalTotalDifficulty = errors.New("invalid terminal total difficulty")
)
