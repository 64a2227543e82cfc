package e2etests

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// sockPaths returns a fresh request/response socket pair in a temp dir.
// The paths are kept short because Unix socket paths have a tight limit.
func sockPaths(t *testing.T) (reqPath, respPath string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "req.sock"), filepath.Join(dir, "resp.sock")
}

func bridgeConfig(t *testing.T, reqPath, respPath string, extra string) string {
	t.Helper()
	return writeConfig(t, fmt.Sprintf(
		"bridge_request_socket: %s\nbridge_response_socket: %s\n%s", reqPath, respPath, extra))
}

func TestVersionPrintsSemver(t *testing.T) {
	cfg := writeConfig(t, "")
	result := runQuickfile(t, cfg, "version")
	if result.ExitCode != 0 {
		t.Fatalf("version: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	out := strings.TrimSpace(result.Stdout)
	if len(strings.Split(out, ".")) != 3 {
		t.Errorf("version output %q is not MAJOR.MINOR.PATCH", out)
	}
}

func TestSearchPrintsRawResponseWhenPiped(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	canned := `{"type":"SearchResults","results":[{"path":"/home/u/proj/main.txt","display_path":"~/proj/main.txt","matches":[{"char_index":7}],"score":52}],"results_count":1,"total_files":9}`
	daemon := startFakeDaemon(t, reqPath, respPath, func(string) string { return canned })

	cfg := bridgeConfig(t, reqPath, respPath, "")
	result := runQuickfile(t, cfg, "search", "main")
	if result.ExitCode != 0 {
		t.Fatalf("search: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != canned {
		t.Errorf("stdout = %q, want the daemon's raw response line", got)
	}

	req := daemon.waitForRequest(t, `"type":"Search"`)
	if !strings.Contains(req, `"query":"main"`) || !strings.Contains(req, `"limit":100`) {
		t.Errorf("request line = %q", req)
	}
}

func TestSearchLimitFlagPropagates(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	daemon := startFakeDaemon(t, reqPath, respPath, func(string) string {
		return `{"type":"SearchResults","results":[],"results_count":0,"total_files":0}`
	})

	cfg := bridgeConfig(t, reqPath, respPath, "")
	result := runQuickfile(t, cfg, "search", "--limit", "7", "kernel")
	if result.ExitCode != 0 {
		t.Fatalf("search: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	req := daemon.waitForRequest(t, `"type":"Search"`)
	if !strings.Contains(req, `"limit":7`) {
		t.Errorf("request line = %q, want limit 7", req)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	canned := `{"type":"Status","files_count":1234,"last_updated":1756100000}`
	daemon := startFakeDaemon(t, reqPath, respPath, func(string) string { return canned })

	cfg := bridgeConfig(t, reqPath, respPath, "")
	result := runQuickfile(t, cfg, "status")
	if result.ExitCode != 0 {
		t.Fatalf("status: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != canned {
		t.Errorf("stdout = %q, want %q", got, canned)
	}

	req := daemon.waitForRequest(t, `"type":"Status"`)
	if strings.Contains(req, "query") || strings.Contains(req, "limit") {
		t.Errorf("Status request carries search fields: %q", req)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	canned := `{"type":"RefreshComplete","files_count":9000}`
	startFakeDaemon(t, reqPath, respPath, func(string) string { return canned })

	cfg := bridgeConfig(t, reqPath, respPath, "")
	result := runQuickfile(t, cfg, "refresh")
	if result.ExitCode != 0 {
		t.Fatalf("refresh: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != canned {
		t.Errorf("stdout = %q, want %q", got, canned)
	}
}

func TestMissingDaemonFailsWithJSONError(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	cfg := bridgeConfig(t, reqPath, respPath, "")

	for _, sub := range []string{"search", "status", "refresh"} {
		t.Run(sub, func(t *testing.T) {
			result := runQuickfile(t, cfg, sub)
			if result.ExitCode == 0 {
				t.Fatalf("%s succeeded with no daemon", sub)
			}
			var obj struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			}
			line := strings.SplitN(strings.TrimSpace(result.Stderr), "\n", 2)[0]
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				t.Fatalf("stderr first line is not JSON: %q", result.Stderr)
			}
			if obj.Type != "Error" || !strings.Contains(obj.Message, "not running") {
				t.Errorf("error object = %+v", obj)
			}
		})
	}
}

func TestSilentDaemonDegradesToFireAndForget(t *testing.T) {
	reqPath, respPath := sockPaths(t)
	daemon := startFakeDaemon(t, reqPath, respPath, func(string) string { return "" })

	cfg := bridgeConfig(t, reqPath, respPath, "bridge_timeout_ms: 300\n")
	result := runQuickfile(t, cfg, "refresh")
	if result.ExitCode != 0 {
		t.Fatalf("fire-and-forget refresh: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	if result.Stdout != "" {
		t.Errorf("stdout = %q, want empty", result.Stdout)
	}
	daemon.waitForRequest(t, `"type":"Refresh"`)
}

func TestReplyOnRequestConnectionFallback(t *testing.T) {
	reqPath, _ := sockPaths(t)
	// A response path inside a directory that does not exist: the client
	// cannot bind it and the daemon cannot dial it, so the reply travels
	// back on the request connection.
	respPath := filepath.Join(t.TempDir(), "missing", "resp.sock")

	canned := `{"type":"Status","files_count":5,"last_updated":0}`
	startFakeDaemon(t, reqPath, respPath, func(string) string { return canned })

	cfg := bridgeConfig(t, reqPath, respPath, "")
	result := runQuickfile(t, cfg, "status")
	if result.ExitCode != 0 {
		t.Fatalf("status: exit=%d stderr=%s", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != canned {
		t.Errorf("stdout = %q, want %q", got, canned)
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	cfg := writeConfig(t, "")
	result := runQuickfile(t, cfg, "frobnicate")
	if result.ExitCode == 0 {
		t.Fatal("unknown subcommand exited 0")
	}
}
