package launch_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affine-ml/affine/internal/launch"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no POSIX shell on this host")
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLauncher_WorkerEnvironment(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	l := &launch.Launcher{
		Spec: launch.Spec{
			NProcPerNode: 1,
			NNodes:       3,
			NodeRank:     2,
			Rendezvous: launch.Rendezvous{
				ID:       "42",
				Backend:  "c10d",
				Endpoint: "head:29500",
			},
			Entry: "sh",
			Args:  []string{"-c", `echo "$RANK $LOCAL_RANK $WORLD_SIZE $MASTER_ADDR $MASTER_PORT $RDZV_ID"`},
		},
		Logger: quietLogger(),
		Stdout: &out,
		Stderr: io.Discard,
	}

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, "2 0 3 head 29500 42\n", out.String())
}

func TestLauncher_FirstFailureWins(t *testing.T) {
	requireShell(t)

	l := &launch.Launcher{
		Spec: launch.Spec{
			NProcPerNode: 2,
			NNodes:       1,
			NodeRank:     0,
			Rendezvous: launch.Rendezvous{
				ID:       "1",
				Backend:  "c10d",
				Endpoint: "localhost:29500",
			},
			Entry: "sh",
			Args:  []string{"-c", `exit "$LOCAL_RANK"`},
		},
		Logger: quietLogger(),
		Stdout: io.Discard,
		Stderr: io.Discard,
	}

	err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank 1")
}

func TestLauncher_ContextCancelsWorkers(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	l := &launch.Launcher{
		Spec: launch.Spec{
			NProcPerNode: 1,
			NNodes:       1,
			NodeRank:     0,
			Rendezvous: launch.Rendezvous{
				ID:       "1",
				Backend:  "c10d",
				Endpoint: "localhost:29500",
			},
			Entry: "sh",
			Args:  []string{"-c", "sleep 30"},
		},
		Logger: quietLogger(),
		Stdout: io.Discard,
		Stderr: io.Discard,
	}

	start := time.Now()
	err := l.Run(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second, "cancellation should kill the worker promptly")
}

func TestLauncher_RejectsInvalidSpec(t *testing.T) {
	l := &launch.Launcher{Spec: launch.Spec{}, Logger: quietLogger()}
	assert.Error(t, l.Run(context.Background()))
}

func TestLauncher_RejectsBadEndpoint(t *testing.T) {
	l := &launch.Launcher{
		Spec: launch.Spec{
			NProcPerNode: 1,
			NNodes:       1,
			Rendezvous:   launch.Rendezvous{ID: "1", Backend: "c10d", Endpoint: "no-port"},
			Entry:        "sh",
		},
		Logger: quietLogger(),
	}
	assert.Error(t, l.Run(context.Background()))
}
