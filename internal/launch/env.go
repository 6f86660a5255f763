// Package launch glues a training binary to the cluster's workload manager:
// it reads the scheduler-provided environment, derives the rendezvous
// coordinates every worker needs to find its peers, and fans out one worker
// process per local device.
//
// Gradient synchronization between workers is the communication backend's
// job, not this package's. Launch only arranges for each worker to start
// with the right rank and rendezvous parameters.
package launch

import (
	"fmt"
	"strconv"
)

// Environment variables published by the workload manager for each job
// step. MASTER_ADDR and MASTER_PORT follow the launcher convention and are
// normally exported by the job script itself.
const (
	EnvJobID      = "SLURM_JOB_ID"
	EnvNodeList   = "SLURM_JOB_NODELIST"
	EnvGPUsOnNode = "SLURM_GPUS_ON_NODE"
	EnvNodeID     = "SLURM_NODEID"
	EnvMasterAddr = "MASTER_ADDR"
	EnvMasterPort = "MASTER_PORT"
)

// DefaultMasterPort is used when the job script does not export
// MASTER_PORT.
const DefaultMasterPort = 29500

// Allocation is what the workload manager granted this job: which nodes,
// how many accelerators per node, and where the coordinator lives. Outside
// a job all fields take their zero values and the derived counts fall back
// to a single local worker.
type Allocation struct {
	JobID       string   // scheduler job identifier; empty outside a job
	Nodes       []string // hostnames in the allocation, head node first
	GPUsPerNode int      // accelerators granted per node; 0 when unset
	NodeRank    int      // this node's index within the allocation
	MasterAddr  string   // coordinator host; defaults to the head node
	MasterPort  int      // coordinator port; defaults to DefaultMasterPort
}

// AllocationFromEnv reads the workload-manager environment through getenv.
// Injecting the lookup keeps the parser testable without mutating the
// process environment; production callers pass os.Getenv.
func AllocationFromEnv(getenv func(string) string) (Allocation, error) {
	alloc := Allocation{
		JobID:      getenv(EnvJobID),
		MasterAddr: getenv(EnvMasterAddr),
		MasterPort: DefaultMasterPort,
	}

	if raw := getenv(EnvNodeList); raw != "" {
		nodes, err := ExpandNodeList(raw)
		if err != nil {
			return Allocation{}, fmt.Errorf("launch: parsing %s: %w", EnvNodeList, err)
		}
		alloc.Nodes = nodes
	}

	if raw := getenv(EnvGPUsOnNode); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Allocation{}, fmt.Errorf("launch: %s must be a non-negative integer, got %q", EnvGPUsOnNode, raw)
		}
		alloc.GPUsPerNode = n
	}

	if raw := getenv(EnvNodeID); raw != "" {
		rank, err := strconv.Atoi(raw)
		if err != nil || rank < 0 {
			return Allocation{}, fmt.Errorf("launch: %s must be a non-negative integer, got %q", EnvNodeID, raw)
		}
		alloc.NodeRank = rank
	}

	if alloc.MasterAddr == "" && len(alloc.Nodes) > 0 {
		alloc.MasterAddr = alloc.Nodes[0]
	}

	if raw := getenv(EnvMasterPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return Allocation{}, fmt.Errorf("launch: %s must be a valid port, got %q", EnvMasterPort, raw)
		}
		alloc.MasterPort = port
	}

	return alloc, nil
}

// NumNodes returns the node count, treating a missing node list as a
// single-node run.
func (a Allocation) NumNodes() int {
	if len(a.Nodes) == 0 {
		return 1
	}
	return len(a.Nodes)
}

// WorkersPerNode returns the per-node worker count: one per granted
// accelerator, falling back to a single CPU worker.
func (a Allocation) WorkersPerNode() int {
	if a.GPUsPerNode < 1 {
		return 1
	}
	return a.GPUsPerNode
}

// WorldSize is the total worker count across the allocation.
func (a Allocation) WorldSize() int {
	return a.NumNodes() * a.WorkersPerNode()
}
