// Package transport owns the two socket roles of a client session: an
// outbound connection the daemon listens on for requests, and an inbound
// listener the daemon connects back to for pushed response frames. The
// two channels are physically distinct and carry no correlation ids; the
// inbound side must be armed before the first request goes out or the
// first response is lost.
package transport

import (
	"bufio"
	"net"
	"os"
	"sync"
	"time"

	"quickfile/internal/protocol"
)

// FrameHandler receives one decoded response frame. Handlers are invoked
// from a single reader goroutine, one frame at a time.
type FrameHandler func(*protocol.Response)

// Duplex bundles the outbound request connection and the inbound response
// listener for one session.
type Duplex struct {
	handler FrameHandler

	mu          sync.Mutex
	conn        net.Conn
	listener    net.Listener
	inboundPath string
	closed      bool
}

// New creates a Duplex delivering inbound frames to handler.
func New(handler FrameHandler) *Duplex {
	return &Duplex{handler: handler}
}

// Listen binds the inbound response socket and starts accepting. A stale
// socket file left by a dead session is removed first; a live listener on
// the same path is a deployment conflict and surfaces as a bind error.
// Connections are served sequentially: the daemon holds one response
// connection at a time, reconnecting as needed.
func (d *Duplex) Listen(path string) error {
	if d.isClosed() {
		return net.ErrClosed
	}
	if _, err := os.Stat(path); err == nil {
		conn, err := net.DialTimeout("unix", path, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return &net.OpError{Op: "listen", Net: "unix", Err: os.ErrExist}
		}
		os.Remove(path)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.listener = ln
	d.inboundPath = path
	d.mu.Unlock()

	go d.acceptLoop(ln)
	return nil
}

// Dial establishes the outbound request connection. On failure the duplex
// stays disconnected; reconnection policy belongs to the caller.
func (d *Duplex) Dial(path string) error {
	if d.isClosed() {
		return net.ErrClosed
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.conn = conn
	d.mu.Unlock()
	return nil
}

func (d *Duplex) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Connected reports whether the outbound channel is usable.
func (d *Duplex) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn != nil
}

// Send writes one request frame. When the outbound channel is not
// connected this is a no-op returning false; callers are expected to
// check Connected first. A write error drops the connection.
func (d *Duplex) Send(req *protocol.Request) bool {
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()
	if conn == nil {
		return false
	}
	if err := protocol.SendRequest(conn, req); err != nil {
		d.mu.Lock()
		if d.conn == conn {
			d.conn = nil
		}
		d.mu.Unlock()
		conn.Close()
		return false
	}
	return true
}

// Close tears down both channels synchronously and unlinks the inbound
// socket file. A closed duplex cannot be reused: later Listen and Dial
// calls return net.ErrClosed.
func (d *Duplex) Close() {
	d.mu.Lock()
	conn, ln, path := d.conn, d.listener, d.inboundPath
	d.conn, d.listener = nil, nil
	d.closed = true
	d.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if ln != nil {
		ln.Close()
	}
	if path != "" {
		os.Remove(path)
	}
}

func (d *Duplex) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return // listener closed
		}
		d.serveConn(conn)
	}
}

// serveConn splits one inbound connection into line frames. Frames that
// fail to parse are dropped silently.
func (d *Duplex) serveConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp, err := protocol.ParseResponse(line)
		if err != nil {
			continue
		}
		d.handler(resp)
	}
}
