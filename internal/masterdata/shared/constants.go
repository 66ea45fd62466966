package shared

const (
	// DefaultLimit caps list responses when no limit is requested.
	DefaultLimit = 500
	// MaxLimit is the largest page size a client may ask for.
	MaxLimit = 500
)
