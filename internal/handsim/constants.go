package handsim

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Ack statuses returned by the landmarks endpoint.
const (
	AckAccepted  = "accepted"
	AckDuplicate = "duplicate"
)

// Replay defaults.
const (
	DefaultFPS = 30
)
