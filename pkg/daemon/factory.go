package daemon

import (
	"net"
	"os"
	"time"
)

// New returns a RemoteClient if the daemon answers on socketPath, otherwise
// the client built by fallback.
//
// Callers don't need to know whether the daemon is running or not. The same
// API works in both modes.
func New(socketPath string, fallback func() Client) Client {
	if _, err := os.Stat(socketPath); err == nil {
		conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return NewRemoteClient(socketPath)
		}
	}
	return fallback()
}
