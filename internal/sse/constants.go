package sse

import "time"

// Buffer sizes
const (
	// SendBufferSize is the buffer size for the hub's send channel
	SendBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"

	// EventTypeConnected is the initial handshake event type
	EventTypeConnected = "connected"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgSendBufferFull     = "SSE send buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
)
