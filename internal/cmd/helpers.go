package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"quickfile/internal/activitylog"
	"quickfile/internal/bridge"
	"quickfile/internal/config"
	"quickfile/internal/protocol"
	"quickfile/internal/socketpath"
)

// bridgeClient builds the one-shot client from config, falling back to
// the fixed /tmp socket pair the daemon binds by default.
func bridgeClient(cfg *config.Config) *bridge.Client {
	c := &bridge.Client{
		RequestPath:  socketpath.BridgeRequestPath,
		ResponsePath: socketpath.BridgeResponsePath,
		Timeout:      time.Duration(cfg.BridgeTimeoutMs) * time.Millisecond,
	}
	if cfg.BridgeRequestSocket != "" {
		c.RequestPath = cfg.BridgeRequestSocket
	}
	if cfg.BridgeResponseSocket != "" {
		c.ResponsePath = cfg.BridgeResponseSocket
	}
	return c
}

// sessionLogger opens the activity log with a fresh session id.
func sessionLogger(cfg *config.Config) *activitylog.Logger {
	return activitylog.New(cfg.ActivityLog, uuid.New().String())
}

// sessionSocketPaths resolves the interactive socket pair, honoring a
// runtime_dir override from config.
func sessionSocketPaths(cfg *config.Config) (reqPath, respPath string, err error) {
	if cfg.RuntimeDir != "" {
		return filepath.Join(cfg.RuntimeDir, socketpath.RequestSocketName),
			filepath.Join(cfg.RuntimeDir, socketpath.ResponseSocketName), nil
	}
	reqPath, err = socketpath.RequestPath()
	if err != nil {
		return "", "", err
	}
	respPath, err = socketpath.ResponsePath()
	if err != nil {
		return "", "", err
	}
	return reqPath, respPath, nil
}

// callDaemon performs one bridge call and logs its outcome. A missing
// daemon is reported as a JSON error object on errw before the error is
// returned. An empty line with a nil error is the fire-and-forget case.
func callDaemon(log *activitylog.Logger, client *bridge.Client, req *protocol.Request, errw io.Writer) (string, error) {
	line, err := client.Call(req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, bridge.ErrDaemonUnavailable) {
			outcome = "unavailable"
		}
		log.BridgeCall(req.Type, outcome)
		printErrorObject(errw, err)
		return "", err
	}
	if line == "" {
		log.BridgeCall(req.Type, "fire-and-forget")
		return "", nil
	}
	log.BridgeCall(req.Type, "response")
	return line, nil
}

// printErrorObject writes a protocol-shaped Error frame so scripted
// callers can parse stderr the same way they parse responses.
func printErrorObject(w io.Writer, err error) {
	obj := struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{Type: protocol.ResponseError, Message: err.Error()}
	data, merr := json.Marshal(obj)
	if merr != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func debounceDuration(cfg *config.Config) time.Duration {
	return time.Duration(cfg.DebounceMs) * time.Millisecond
}
