package anvil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/token-farm/internal/domain"
)

const (
	readyTimeout       = 15 * time.Second
	pollInterval       = 250 * time.Millisecond
	stopTimeout        = 5 * time.Second
	readyCheckDeadline = 2 * time.Second
)

// Manager starts and stops local node processes (anvil, ganache-cli) for networks that
// configure a cmd
type Manager struct {
	log    *slog.Logger
	logDir string

	mu    sync.Mutex
	nodes map[string]*node
}

type node struct {
	cmd     *exec.Cmd
	logFile *os.File
	done    chan struct{}
	err     error
}

// NewManager creates a new local node manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		log:    log.With("component", "anvil"),
		logDir: os.TempDir(),
		nodes:  make(map[string]*node),
	}
}

// Start launches the node of a managed network and blocks until it answers eth_chainId.
// A node already listening on the network's RPC URL is reused.
func (m *Manager) Start(ctx context.Context, network *domain.Network) error {
	if !network.Managed() {
		return fmt.Errorf("network %s has no node command", network.Name)
	}

	m.mu.Lock()
	_, running := m.nodes[network.Name]
	m.mu.Unlock()
	if running {
		return nil
	}

	if chainID, err := m.Ping(ctx, network.RPCURL); err == nil {
		m.log.Debug("reusing running node", "network", network.Name, "rpc", network.RPCURL, "chainId", chainID)
		return nil
	}

	logPath := filepath.Join(m.logDir, fmt.Sprintf("farm-%s.log", network.Name))
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	args := buildArgs(network)
	cmd := exec.Command(network.Cmd, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to start %s: %w", network.Cmd, err)
	}

	n := &node{cmd: cmd, logFile: logFile, done: make(chan struct{})}
	go func() {
		n.err = cmd.Wait()
		logFile.Close()
		close(n.done)
	}()

	m.mu.Lock()
	m.nodes[network.Name] = n
	m.mu.Unlock()
	m.log.Info("started local node", "network", network.Name, "cmd", network.Cmd, "args", args, "pid", cmd.Process.Pid, "log", logPath)

	if err := m.waitReady(ctx, network, n); err != nil {
		_ = m.Stop(context.WithoutCancel(ctx), network.Name)
		return fmt.Errorf("%s did not become ready (see %s): %w", network.Cmd, logPath, err)
	}
	return nil
}

// Stop terminates the node started for a network. Unknown names are ignored.
func (m *Manager) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	n, ok := m.nodes[name]
	delete(m.nodes, name)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	select {
	case <-n.done:
		return nil
	default:
	}

	if err := n.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = n.cmd.Process.Kill()
	}

	timer := time.NewTimer(stopTimeout)
	defer timer.Stop()
	select {
	case <-n.done:
	case <-timer.C:
		m.log.Warn("node did not exit, killing it", "network", name)
		if err := n.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill node: %w", err)
		}
		<-n.done
	case <-ctx.Done():
		_ = n.cmd.Process.Kill()
		return ctx.Err()
	}

	m.log.Debug("stopped local node", "network", name)
	return nil
}

// StopAll terminates every node started by the manager
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	names := make([]string, 0, len(m.nodes))
	for name := range m.nodes {
		names = append(names, name)
	}
	m.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := m.Stop(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Ping returns the chain id reported by the node at rpcURL
func (m *Manager) Ping(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, readyCheckDeadline)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

func (m *Manager) waitReady(ctx context.Context, network *domain.Network, n *node) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if _, err := m.Ping(ctx, network.RPCURL); err == nil {
			return nil
		}
		select {
		case <-n.done:
			if n.err != nil {
				return fmt.Errorf("process exited: %w", n.err)
			}
			return errors.New("process exited")
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// buildArgs builds anvil-compatible command line arguments for a network
func buildArgs(network *domain.Network) []string {
	args := []string{"--port", strconv.Itoa(network.Port), "--host", "127.0.0.1"}
	if network.ChainID != 0 && network.ForkURL == "" {
		args = append(args, "--chain-id", strconv.FormatUint(network.ChainID, 10))
	}
	if network.ForkURL != "" {
		args = append(args, "--fork-url", network.ForkURL)
	}
	return args
}
