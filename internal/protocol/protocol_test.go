package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{"search", NewSearch("main", 100), `{"type":"Search","query":"main","limit":100}`},
		{"empty query search", NewSearch("", 100), `{"type":"Search","query":"","limit":100}`},
		{"status", NewStatus(), `{"type":"Status"}`},
		{"refresh", NewRefresh(), `{"type":"Refresh"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeRequest(tt.req)
			if err != nil {
				t.Fatal(err)
			}
			got := strings.TrimSuffix(string(data), "\n")
			if got != tt.want {
				t.Errorf("EncodeRequest = %s, want %s", got, tt.want)
			}
			if !strings.HasSuffix(string(data), "\n") {
				t.Error("encoded request is missing the line terminator")
			}
		})
	}
}

func TestParseResponse_SearchResults(t *testing.T) {
	line := `{"type":"SearchResults","results":[{"path":"/home/u/proj/main.txt","display_path":"~/proj/main.txt","matches":[{"char_index":7},{"char_index":8}],"score":42}],"results_count":1,"total_files":1234}`

	resp, err := ParseResponse([]byte(line))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Type != ResponseSearchResults {
		t.Errorf("Type = %q, want %q", resp.Type, ResponseSearchResults)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Path != "/home/u/proj/main.txt" {
		t.Errorf("Path = %q", r.Path)
	}
	if r.DisplayPath != "~/proj/main.txt" {
		t.Errorf("DisplayPath = %q", r.DisplayPath)
	}
	if len(r.Matches) != 2 || r.Matches[0].CharIndex != 7 || r.Matches[1].CharIndex != 8 {
		t.Errorf("Matches = %+v", r.Matches)
	}
	if r.Score != 42 {
		t.Errorf("Score = %d", r.Score)
	}
	if resp.TotalFiles != 1234 {
		t.Errorf("TotalFiles = %d", resp.TotalFiles)
	}
}

func TestParseResponse_Variants(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType string
	}{
		{"error", `{"type":"Error","message":"index unavailable"}`, ResponseError},
		{"refresh complete", `{"type":"RefreshComplete","files_count":99}`, ResponseRefreshComplete},
		{"status", `{"type":"Status","files_count":99,"last_updated":1700000000}`, ResponseStatus},
		{"unknown tag", `{"type":"SomethingNew","whatever":true}`, "SomethingNew"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.line))
			if err != nil {
				t.Fatal(err)
			}
			if resp.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", resp.Type, tt.wantType)
			}
		})
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	for _, line := range []string{"", "{", "not json at all", `{"type":`} {
		if _, err := ParseResponse([]byte(line)); err == nil {
			t.Errorf("ParseResponse(%q) succeeded, want error", line)
		}
	}
}

func TestStatusRequestOmitsSearchFields(t *testing.T) {
	data, err := json.Marshal(NewStatus())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "query") || strings.Contains(string(data), "limit") {
		t.Errorf("Status request carries search fields: %s", data)
	}
}
