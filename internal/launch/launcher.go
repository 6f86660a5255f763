package launch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Worker environment variables, following the launcher convention. Each
// worker reads these on startup to learn its place in the job.
const (
	EnvRank      = "RANK"
	EnvLocalRank = "LOCAL_RANK"
	EnvWorldSize = "WORLD_SIZE"
)

// Launcher fans out one worker process per local device and waits for all
// of them. It does not synchronize gradients or proxy traffic between
// workers; it only starts each one with a consistent environment.
type Launcher struct {
	Spec   Spec
	Logger *slog.Logger // defaults to slog.Default()
	Stdout io.Writer    // worker stdout; defaults to os.Stdout
	Stderr io.Writer    // worker stderr; defaults to os.Stderr
}

// Run starts Spec.NProcPerNode workers and blocks until they all exit. The
// first failure cancels the context the remaining workers run under, which
// kills them, and that first error is returned.
func (l *Launcher) Run(ctx context.Context) error {
	if err := l.Spec.Validate(); err != nil {
		return err
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stdout := l.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := l.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	host, port, err := net.SplitHostPort(l.Spec.Rendezvous.Endpoint)
	if err != nil {
		return fmt.Errorf("launch: bad rendezvous endpoint %q: %w", l.Spec.Rendezvous.Endpoint, err)
	}

	logger.Info("starting workers",
		slog.Int("nproc_per_node", l.Spec.NProcPerNode),
		slog.Int("nnodes", l.Spec.NNodes),
		slog.Int("node_rank", l.Spec.NodeRank),
		slog.Int("world_size", l.Spec.WorldSize()),
		slog.String("rdzv_id", l.Spec.Rendezvous.ID),
		slog.String("rdzv_endpoint", l.Spec.Rendezvous.Endpoint),
	)

	g, gctx := errgroup.WithContext(ctx)

	for localRank := 0; localRank < l.Spec.NProcPerNode; localRank++ {
		rank := l.Spec.NodeRank*l.Spec.NProcPerNode + localRank

		cmd := exec.CommandContext(gctx, l.Spec.Entry, l.Spec.Args...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		cmd.Env = append(os.Environ(), workerEnv(l.Spec, host, port, rank, localRank)...)

		logger.Debug("spawning worker",
			slog.Int("rank", rank),
			slog.Int("local_rank", localRank),
			slog.String("entry", l.Spec.Entry),
		)

		g.Go(func() error {
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("launch: worker rank %d: %w", rank, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// workerEnv builds the per-rank variables a worker consumes on startup.
func workerEnv(spec Spec, host, port string, rank, localRank int) []string {
	return []string{
		EnvRank + "=" + strconv.Itoa(rank),
		EnvLocalRank + "=" + strconv.Itoa(localRank),
		EnvWorldSize + "=" + strconv.Itoa(spec.WorldSize()),
		EnvMasterAddr + "=" + host,
		EnvMasterPort + "=" + port,
		"RDZV_ID=" + spec.Rendezvous.ID,
		"RDZV_BACKEND=" + spec.Rendezvous.Backend,
		"RDZV_ENDPOINT=" + spec.Rendezvous.Endpoint,
	}
}
