package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/store"
)

// RemoteClient implements Client by calling the daemon's HTTP API over a Unix socket.
type RemoteClient struct {
	httpClient *http.Client
	socketPath string
}

// NewRemoteClient creates a new RemoteClient connected to the daemon socket.
func NewRemoteClient(socketPath string) *RemoteClient {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &RemoteClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		socketPath: socketPath,
	}
}

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

func (c *RemoteClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("daemon returned status %d: %s", resp.StatusCode, msg)
}

// State returns the panel from the daemon.
func (c *RemoteClient) State(ctx context.Context) (store.State, error) {
	var st store.State
	err := c.getJSON(ctx, "/api/state", &st)
	return st, err
}

// Settings returns the daemon's effective settings.
func (c *RemoteClient) Settings(ctx context.Context) (map[string]string, error) {
	var values map[string]string
	err := c.getJSON(ctx, "/api/settings", &values)
	return values, err
}

// Submit posts an event and waits until the daemon dispatched it.
func (c *RemoteClient) Submit(ctx context.Context, ev event.Event) error {
	data, err := event.Encode(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/events", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return statusError(resp)
	}
	return nil
}

// Highlight asks the daemon whether itemID should be marked in kind.
func (c *RemoteClient) Highlight(ctx context.Context, kind catalogue.InterfaceKind, itemID int) (bool, error) {
	q := url.Values{}
	q.Set("kind", kind.String())
	q.Set("item", strconv.Itoa(itemID))

	var out struct {
		Highlight bool `json:"highlight"`
	}
	err := c.getJSON(ctx, "/api/highlight?"+q.Encode(), &out)
	return out.Highlight, err
}

// IsRunning returns true if the daemon is available and responding.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StreamState subscribes to panel updates via Server-Sent Events (SSE). The
// initial full state is delivered as an UpdateReset followed by one update
// per row.
func (c *RemoteClient) StreamState(ctx context.Context) (<-chan store.Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}

	// Use a separate client with no timeout for streaming
	streamTransport := &http.Transport{
		DialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
	}
	streamClient := &http.Client{Transport: streamTransport}

	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	ch := make(chan store.Update, 10)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		defer streamTransport.CloseIdleConnections()

		readStream(resp.Body, func(u store.Update) bool {
			select {
			case ch <- u:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return ch, nil
}

// readStream decodes SSE messages from r and hands each update to emit
// until emit returns false or the stream ends.
func readStream(r io.Reader, emit func(store.Update) bool) {
	scanner := bufio.NewScanner(r)
	// Full-state messages grow with the catalogue.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	kind := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			kind = ""
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event: "):
			kind = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := []byte(strings.TrimPrefix(line, "data: "))
			for _, u := range decodeMessage(kind, data) {
				if !emit(u) {
					return
				}
			}
		}
	}
}

func decodeMessage(kind string, data []byte) []store.Update {
	if kind == "state" {
		var st store.State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil
		}
		return StateUpdates(st)
	}
	var u store.Update
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	return []store.Update{u}
}

// StateUpdates expands a full panel into the updates that rebuild it from a
// reset.
func StateUpdates(st store.State) []store.Update {
	out := []store.Update{{Type: store.UpdateReset}}
	for i := range st.Items {
		row := st.Items[i]
		out = append(out, store.Update{Type: store.UpdateItem, Item: &row})
	}
	for i := range st.StashUnits {
		row := st.StashUnits[i]
		out = append(out, store.Update{Type: store.UpdateStash, Stash: &row})
	}
	out = append(out,
		store.Update{Type: store.UpdateDisclaimer, Grid: store.GridItems, Text: st.ItemDisclaimer},
		store.Update{Type: store.UpdateDisclaimer, Grid: store.GridStash, Text: st.StashDisclaimer},
		store.Update{Type: store.UpdateNavigation, Visible: st.NavigationVisible},
	)
	return out
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ Client = (*RemoteClient)(nil)
