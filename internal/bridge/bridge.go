// Package bridge turns the daemon's push-based two-socket transport into
// a blocking call/response for one-shot CLI use. The response listener is
// armed before the request is written, and the reply is accepted as one
// complete line frame from either channel: the daemon pushes to the
// response socket when a consumer is attached, and falls back to writing
// on the request connection when none is. On timeout the call degrades to
// fire-and-forget; the request was still delivered.
package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"quickfile/internal/protocol"
)

// ErrDaemonUnavailable means the daemon's request socket does not exist.
// No connection is attempted in that case.
var ErrDaemonUnavailable = errors.New("quickfile daemon is not running")

// DefaultTimeout bounds how long Call waits for a response frame.
const DefaultTimeout = 5 * time.Second

// Client performs one-shot calls against a daemon socket pair.
type Client struct {
	RequestPath  string
	ResponsePath string
	Timeout      time.Duration // zero means DefaultTimeout
}

// Call sends req and returns the first complete response frame, without
// its trailing newline. An empty string with a nil error means the call
// degraded to fire-and-forget: the request was written but no frame
// arrived in time. Callers cannot distinguish a daemon without response
// support from a slow one; that asymmetry is part of the contract.
func (c *Client) Call(req *protocol.Request) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if _, err := os.Stat(c.RequestPath); err != nil {
		return "", fmt.Errorf("%w (no socket at %s)", ErrDaemonUnavailable, c.RequestPath)
	}

	// Arm the response listener before anything is sent, or a fast
	// daemon could push the reply into the void.
	ln := c.listenResponse()
	if ln != nil {
		defer func() {
			ln.Close()
			os.Remove(c.ResponsePath)
		}()
	}

	conn, err := net.DialTimeout("unix", c.RequestPath, timeout)
	if err != nil {
		return "", fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	frames := make(chan string, 2)

	conn.SetReadDeadline(deadline)
	go readFrame(conn, frames)

	if ln != nil {
		ln.SetDeadline(deadline)
		go func() {
			rc, err := ln.Accept()
			if err != nil {
				return
			}
			defer rc.Close()
			rc.SetReadDeadline(deadline)
			readFrame(rc, frames)
		}()
	}

	if err := protocol.SendRequest(conn, req); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	select {
	case line := <-frames:
		return line, nil
	case <-time.After(time.Until(deadline)):
		return "", nil // fire-and-forget
	}
}

// listenResponse binds the response socket, removing a stale file first.
// A live consumer already holding the path (an interactive session) or
// any bind failure degrades the call to relying on the request-connection
// fallback, so errors are swallowed here.
func (c *Client) listenResponse() *net.UnixListener {
	path := c.ResponsePath
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		probe, err := net.DialTimeout("unix", path, 200*time.Millisecond)
		if err == nil {
			probe.Close()
			return nil
		}
		os.Remove(path)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil
	}
	return ln.(*net.UnixListener)
}

// readFrame delivers exactly one complete newline-terminated frame. A
// partial line cut off by EOF or deadline is discarded, never delivered.
func readFrame(conn net.Conn, frames chan<- string) {
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	frames <- strings.TrimSuffix(line, "\n")
}
