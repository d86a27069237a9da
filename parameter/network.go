package parameter

import "time"

// Pose Feed
const (
	// FeedDefaultAddress is the listen address for the websocket pose feed
	FeedDefaultAddress = "127.0.0.1:8765"

	// FeedPath is the websocket endpoint
	FeedPath = "/feed"

	// FeedSendQueue is the per-client outbound buffer; frames are dropped when full
	FeedSendQueue = 16

	// FeedWriteTimeout bounds a single websocket write
	FeedWriteTimeout = 2 * time.Second

	// FeedPingInterval keeps idle connections alive
	FeedPingInterval = 20 * time.Second

	// FeedShutdownTimeout bounds the HTTP server shutdown
	FeedShutdownTimeout = 3 * time.Second
)
