// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package launch spawns one training process per device across the nodes of
// a cluster job.
//
// The launcher reads its node allocation from the workload manager's
// environment, expands the compact hostlist notation, derives a rendezvous
// so every worker finds the same coordinator, and execs the workers with
// RANK / LOCAL_RANK / WORLD_SIZE set. It does no gradient synchronization
// itself; that is the workers' business.
//
// Example:
//
//	alloc, err := launch.AllocationFromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	spec := launch.SpecFromAllocation(alloc, 0, "affine", []string{"train"})
//	launcher := launch.Launcher{Spec: spec}
//	if err := launcher.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package launch

import (
	"github.com/affine-ml/affine/internal/launch"
)

// Allocation describes the slice of the cluster a job received: its nodes,
// devices per node, and this node's rank.
type Allocation = launch.Allocation

// AllocationFromEnv reads the allocation from workload-manager environment
// variables via getenv (usually os.Getenv). Outside a managed job it returns
// a single-node allocation.
func AllocationFromEnv(getenv func(string) string) (Allocation, error) {
	return launch.AllocationFromEnv(getenv)
}

// ExpandNodeList expands compact hostlist notation such as
// "gpu[01-03,07]" into individual hostnames.
func ExpandNodeList(list string) ([]string, error) {
	return launch.ExpandNodeList(list)
}

// Rendezvous identifies the coordination point workers meet at.
type Rendezvous = launch.Rendezvous

// NewRendezvous derives a rendezvous from an allocation: the job ID becomes
// the rendezvous ID and the head node the endpoint.
func NewRendezvous(alloc Allocation) Rendezvous {
	return launch.NewRendezvous(alloc)
}

// Spec fully describes a launch: process counts, this node's rank, the
// rendezvous, and the worker command line.
type Spec = launch.Spec

// SpecFromAllocation builds a Spec for the current node. procsPerNode <= 0
// means one process per allocated device. The result is validated by
// Launcher.Run; call Spec.Validate to check it earlier.
func SpecFromAllocation(alloc Allocation, procsPerNode int, entry string, args []string) Spec {
	return launch.SpecFromAllocation(alloc, procsPerNode, entry, args)
}

// BuildArgs renders a Spec as torchrun-style command-line arguments,
// for inspection or for handing to a different process runner.
func BuildArgs(s Spec) []string {
	return launch.BuildArgs(s)
}

// Launcher spawns the local workers of a Spec and waits for them. The first
// worker failure cancels the rest.
type Launcher = launch.Launcher

// Environment variables exported to every worker.
const (
	EnvRank      = launch.EnvRank
	EnvLocalRank = launch.EnvLocalRank
	EnvWorldSize = launch.EnvWorldSize
)

// DefaultMasterPort is the rendezvous port used when the environment does
// not specify one.
const DefaultMasterPort = launch.DefaultMasterPort
