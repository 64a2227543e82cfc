// Package socketpath resolves the Unix domain socket locations used to
// talk to the quickfile daemon. Interactive sessions use per-user sockets
// under the user's runtime directory; the one-shot CLI bridge uses fixed
// paths under /tmp shared with the daemon's defaults.
package socketpath

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Socket file names, shared between the interactive and bridge paths.
const (
	RequestSocketName  = "quickfile-daemon.sock"
	ResponseSocketName = "quickfile-response.sock"
)

// Fixed bridge paths. The daemon binds the request socket here and
// connects back to the response socket when a consumer is listening.
const (
	BridgeRequestPath  = "/tmp/" + RequestSocketName
	BridgeResponsePath = "/tmp/" + ResponseSocketName
)

// lookupUID runs the external id lookup. Swapped out in tests.
var lookupUID = func() (string, error) {
	out, err := exec.Command("id", "-u").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

var (
	cachedUID  int
	cachedErr  error
	lookupOnce sync.Once
)

// UserID returns the invoking user's numeric id, obtained once from the
// external `id -u` command and cached for the process lifetime. All
// per-user socket activity is gated on this lookup succeeding.
func UserID() (int, error) {
	lookupOnce.Do(func() {
		out, err := lookupUID()
		if err != nil {
			cachedErr = fmt.Errorf("look up user id: %w", err)
			return
		}
		uid, err := strconv.Atoi(out)
		if err != nil {
			cachedErr = fmt.Errorf("parse user id %q: %w", out, err)
			return
		}
		cachedUID = uid
	})
	return cachedUID, cachedErr
}

// ResetCache resets the cached UserID result. For testing only.
func ResetCache() {
	lookupOnce = sync.Once{}
	cachedUID = 0
	cachedErr = nil
}

// RuntimeDir returns the per-user runtime directory for session sockets:
// $XDG_RUNTIME_DIR when set, otherwise /run/user/<uid>.
func RuntimeDir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid, err := UserID()
	if err != nil {
		return "", err
	}
	return ResolveRuntimeDir(uid), nil
}

// ResolveRuntimeDir maps a numeric user id to its runtime directory.
func ResolveRuntimeDir(uid int) string {
	return filepath.Join("/run/user", strconv.Itoa(uid))
}

// RequestPath returns the per-user request socket path.
func RequestPath() (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, RequestSocketName), nil
}

// ResponsePath returns the per-user response socket path.
func ResponsePath() (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ResponseSocketName), nil
}
