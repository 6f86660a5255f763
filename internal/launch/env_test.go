package launch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affine-ml/affine/internal/launch"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestAllocationFromEnv_FullJob(t *testing.T) {
	alloc, err := launch.AllocationFromEnv(getenvFrom(map[string]string{
		"SLURM_JOB_ID":       "123456",
		"SLURM_JOB_NODELIST": "gpu[001-002]",
		"SLURM_GPUS_ON_NODE": "4",
		"SLURM_NODEID":       "1",
		"MASTER_ADDR":        "gpu001",
		"MASTER_PORT":        "29501",
	}))
	require.NoError(t, err)

	assert.Equal(t, "123456", alloc.JobID)
	assert.Equal(t, []string{"gpu001", "gpu002"}, alloc.Nodes)
	assert.Equal(t, 4, alloc.GPUsPerNode)
	assert.Equal(t, 1, alloc.NodeRank)
	assert.Equal(t, "gpu001", alloc.MasterAddr)
	assert.Equal(t, 29501, alloc.MasterPort)

	assert.Equal(t, 2, alloc.NumNodes())
	assert.Equal(t, 4, alloc.WorkersPerNode())
	assert.Equal(t, 8, alloc.WorldSize())
}

func TestAllocationFromEnv_OutsideJob(t *testing.T) {
	alloc, err := launch.AllocationFromEnv(getenvFrom(nil))
	require.NoError(t, err)

	assert.Empty(t, alloc.JobID)
	assert.Empty(t, alloc.Nodes)
	assert.Equal(t, launch.DefaultMasterPort, alloc.MasterPort)

	// An interactive run degrades to one local worker.
	assert.Equal(t, 1, alloc.NumNodes())
	assert.Equal(t, 1, alloc.WorkersPerNode())
	assert.Equal(t, 1, alloc.WorldSize())
}

func TestAllocationFromEnv_MasterDefaultsToHeadNode(t *testing.T) {
	alloc, err := launch.AllocationFromEnv(getenvFrom(map[string]string{
		"SLURM_JOB_NODELIST": "node[3-4]",
	}))
	require.NoError(t, err)

	assert.Equal(t, "node3", alloc.MasterAddr)
	assert.Equal(t, launch.DefaultMasterPort, alloc.MasterPort)
}

func TestAllocationFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad gpu count":     {"SLURM_GPUS_ON_NODE": "four"},
		"negative gpus":     {"SLURM_GPUS_ON_NODE": "-1"},
		"bad node id":       {"SLURM_NODEID": "x"},
		"bad port":          {"MASTER_PORT": "999999"},
		"bad node list":     {"SLURM_JOB_NODELIST": "gpu[3-1]"},
		"non-numeric range": {"SLURM_JOB_NODELIST": "gpu[a-b]"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := launch.AllocationFromEnv(getenvFrom(env))
			assert.Error(t, err)
		})
	}
}
