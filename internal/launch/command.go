package launch

import (
	"errors"
	"fmt"
	"strconv"
)

// Spec describes one distributed launch: the process topology, the
// rendezvous coordinates, and the entry point every worker runs.
type Spec struct {
	NProcPerNode int // worker processes per node, one per device
	NNodes       int // total node count across the job
	NodeRank     int // this node's index, in [0, NNodes)

	Rendezvous Rendezvous

	Entry string   // worker binary or script
	Args  []string // arguments passed through to the entry point
}

// SpecFromAllocation fills a launch spec from the workload-manager
// allocation, with the per-node worker count overridable (0 keeps the
// allocation's figure).
func SpecFromAllocation(alloc Allocation, procsPerNode int, entry string, args []string) Spec {
	if procsPerNode < 1 {
		procsPerNode = alloc.WorkersPerNode()
	}
	return Spec{
		NProcPerNode: procsPerNode,
		NNodes:       alloc.NumNodes(),
		NodeRank:     alloc.NodeRank,
		Rendezvous:   NewRendezvous(alloc),
		Entry:        entry,
		Args:         args,
	}
}

// Validate checks that the topology is self-consistent before anything is
// spawned.
func (s Spec) Validate() error {
	if s.NProcPerNode < 1 {
		return fmt.Errorf("launch: procs per node must be at least 1, got %d", s.NProcPerNode)
	}
	if s.NNodes < 1 {
		return fmt.Errorf("launch: node count must be at least 1, got %d", s.NNodes)
	}
	if s.NodeRank < 0 || s.NodeRank >= s.NNodes {
		return fmt.Errorf("launch: node rank %d outside [0, %d)", s.NodeRank, s.NNodes)
	}
	if s.Entry == "" {
		return errors.New("launch: entry point is empty")
	}
	return nil
}

// WorldSize is the total worker count the spec describes.
func (s Spec) WorldSize() int {
	return s.NProcPerNode * s.NNodes
}

// BuildArgs renders the launcher-style argument vector for s, suitable for
// pasting into a job script:
//
//	--nproc-per-node N --nnodes N --node-rank R \
//	--rdzv-id ID --rdzv-backend B --rdzv-endpoint HOST:PORT ENTRY [ARGS...]
func BuildArgs(s Spec) []string {
	args := []string{
		"--nproc-per-node", strconv.Itoa(s.NProcPerNode),
		"--nnodes", strconv.Itoa(s.NNodes),
		"--node-rank", strconv.Itoa(s.NodeRank),
		"--rdzv-id", s.Rendezvous.ID,
		"--rdzv-backend", s.Rendezvous.Backend,
		"--rdzv-endpoint", s.Rendezvous.Endpoint,
	}
	args = append(args, s.Entry)
	return append(args, s.Args...)
}
