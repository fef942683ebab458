package harness

import "github.com/google/uuid"

// HostID is the demo harness's realization of the scheduler's opaque
// host handle: a UUID-backed value type, comparable and cheap to use
// as a map key, standing in for whatever real identity an embedding
// network simulator's Host objects would carry.
type HostID struct {
	uuid uuid.UUID
	name string
}

// NewHostID mints a fresh, uniquely-identified host with a
// human-readable name for logging.
func NewHostID(name string) HostID {
	return HostID{uuid: uuid.New(), name: name}
}

func (h HostID) String() string {
	if h.name != "" {
		return h.name
	}
	return h.uuid.String()
}
