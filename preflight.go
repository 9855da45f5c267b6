package envboot

import (
	"context"
	"log/slog"
	"net"
	"time"

	xproxy "golang.org/x/net/proxy"
)

// preflightTimeout bounds the package-index reachability probe.
const preflightTimeout = 10 * time.Second

// indexAddr returns the package index endpoint for a Manager.
func indexAddr(m Manager) string {
	if m == ManagerConda {
		return "conda.anaconda.org:443"
	}
	return "pypi.org:443"
}

// CheckIndex probes TCP reachability of the package index used by m,
// honoring ALL_PROXY/NO_PROXY via golang.org/x/net/proxy. It returns an
// error when the index is unreachable.
func CheckIndex(ctx context.Context, m Manager) error {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	addr := indexAddr(m)
	dialer := xproxy.FromEnvironment()

	var conn net.Conn
	var err error
	if cd, ok := dialer.(xproxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	return conn.Close()
}

// preflightIndex runs CheckIndex before a bootstrap. Warn-only: CI agents
// frequently sit behind transparent proxies the probe cannot see, so an
// unreachable index must not fail the job before the package manager has
// had its say.
func preflightIndex(ctx context.Context, logger *slog.Logger, m Manager) {
	addr := indexAddr(m)
	if err := CheckIndex(ctx, m); err != nil {
		logger.Warn("package index preflight failed", "addr", addr, "error", err)
		return
	}
	logger.Debug("package index reachable", "addr", addr)
}
