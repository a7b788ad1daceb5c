package worker

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/perfworkshop/workshop/lib"
)

// How long Stop waits for a worker to exit after its stdin is closed before
// killing it.
const stopTimeout = 5 * time.Second

// Process is a running worker implementation. It is driven sequentially: one
// request on stdin, one reply line on stdout.
type Process struct {
	Name string

	cmd        *exec.Cmd
	stdin      interface{ Close() error }
	conn       *conn
	stderrDone chan struct{}
	logger     logrus.FieldLogger
}

// Start launches the implementation's worker command in dir. The process is
// killed if ctx is cancelled.
func Start(
	ctx context.Context, impl lib.Implementation, dir string,
	env map[string]string, logger logrus.FieldLogger,
) (*Process, error) {
	cmd := exec.CommandContext(ctx, impl.Cmd[0], impl.Cmd[1:]...) //nolint:gosec
	cmd.Dir = dir
	cmd.Env = environ(env, impl.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start worker '%s': %w", impl.Name, err)
	}

	p := &Process{
		Name:       impl.Name,
		cmd:        cmd,
		stdin:      stdin,
		conn:       newConn(impl.Name, stdin, stdout),
		stderrDone: make(chan struct{}),
		logger:     logger.WithField("worker", impl.Name),
	}

	// Anything the worker writes to stderr is its own business; surface it
	// in debug output to help people developing one.
	go func() {
		defer close(p.stderrDone)
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			p.logger.Debug(sc.Text())
		}
	}()

	return p, nil
}

// Call sends one request to the worker and waits for the matching reply.
func (p *Process) Call(args ...interface{}) (interface{}, error) {
	return p.conn.roundTrip(args)
}

// Stop closes the worker's stdin, which well-behaved workers treat as the
// signal to exit, and waits for the process to finish. Workers that linger
// past the grace period are killed.
func (p *Process) Stop() error {
	_ = p.stdin.Close()

	timer := time.AfterFunc(stopTimeout, func() {
		p.logger.Warn("worker did not exit in time, killing it")
		_ = p.cmd.Process.Kill()
	})
	defer timer.Stop()

	<-p.stderrDone
	return p.cmd.Wait()
}
