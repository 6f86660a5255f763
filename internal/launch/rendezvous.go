package launch

import (
	"net"
	"strconv"

	"github.com/google/uuid"
)

// DefaultRendezvousBackend is the coordination backend workers hand to the
// communication layer when nothing else is configured.
const DefaultRendezvousBackend = "c10d"

// Rendezvous identifies one distributed training session: every worker in
// the job presents the same ID to the same endpoint to find its peers.
type Rendezvous struct {
	ID       string
	Backend  string
	Endpoint string // coordinator host:port
}

// NewRendezvous derives rendezvous coordinates from an allocation. The
// scheduler's job ID keys the session when present; interactive runs
// outside a job get a random UUID so two users sharing a login node cannot
// collide on the same session.
func NewRendezvous(alloc Allocation) Rendezvous {
	id := alloc.JobID
	if id == "" {
		id = uuid.NewString()
	}

	host := alloc.MasterAddr
	if host == "" && len(alloc.Nodes) > 0 {
		host = alloc.Nodes[0]
	}
	if host == "" {
		host = "localhost"
	}

	port := alloc.MasterPort
	if port == 0 {
		port = DefaultMasterPort
	}

	return Rendezvous{
		ID:       id,
		Backend:  DefaultRendezvousBackend,
		Endpoint: net.JoinHostPort(host, strconv.Itoa(port)),
	}
}
