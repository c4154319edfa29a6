package signal

// Endpoint is one live transport connection from a client. The core routes
// exclusively through this interface so that tests and future transports can
// substitute the websocket-backed Session.
type Endpoint interface {
	// ID returns the connection-unique, ephemeral endpoint identifier.
	ID() string

	// Send queues an event for delivery to the client. Fire-and-forget: a
	// full queue or closed connection drops the event silently.
	Send(ev Event)
}

// BoundEndpoint is an Endpoint whose transport connection was authenticated
// with a connection token. The bound identity overrides client-supplied
// identities in register_user when token enforcement is enabled.
type BoundEndpoint interface {
	Endpoint

	// BoundUserID returns the token subject, or "" for unbound connections.
	BoundUserID() string
}
