// Package protocol defines the newline-delimited JSON frames exchanged
// with the quickfile daemon. Requests travel on the daemon's request
// socket; responses are pushed back on a separate response socket, one
// JSON document per line, with no identifier correlating a response to
// the request that caused it.
package protocol

import (
	"encoding/json"
	"net"
)

// Request kinds.
const (
	RequestSearch  = "Search"
	RequestStatus  = "Status"
	RequestRefresh = "Refresh"
)

// Response kinds. Anything else is treated as unknown and ignored.
const (
	ResponseSearchResults   = "SearchResults"
	ResponseRefreshComplete = "RefreshComplete"
	ResponseStatus          = "Status"
	ResponseError           = "Error"
)

// DefaultSearchLimit is the result cap sent with every Search request.
const DefaultSearchLimit = 100

// Request is a JSON request line sent to the daemon. Query and Limit are
// pointers so that a Search with an empty query still serializes
// "query":"" while Status and Refresh omit both fields entirely.
type Request struct {
	Type  string  `json:"type"`
	Query *string `json:"query,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}

// NewSearch builds a Search request. An empty query is valid and asks the
// daemon for its unfiltered file list.
func NewSearch(query string, limit int) *Request {
	return &Request{Type: RequestSearch, Query: &query, Limit: &limit}
}

// NewStatus builds a Status request.
func NewStatus() *Request {
	return &Request{Type: RequestStatus}
}

// NewRefresh builds a Refresh request.
func NewRefresh() *Request {
	return &Request{Type: RequestRefresh}
}

// Match is a single matched character position. Offsets are computed by
// the daemon against the filename portion of the display path.
type Match struct {
	CharIndex int `json:"char_index"`
}

// SearchResult is one scored file hit.
type SearchResult struct {
	Path        string  `json:"path"`
	DisplayPath string  `json:"display_path"`
	Matches     []Match `json:"matches"`
	Score       int     `json:"score"`
}

// Response is a decoded response frame. The Type tag selects which fields
// are meaningful; consumers switch on Type with a no-op default arm, so an
// unrecognized tag is never an error.
type Response struct {
	Type string `json:"type"`

	// SearchResults fields
	Results      []SearchResult `json:"results,omitempty"`
	ResultsCount int            `json:"results_count,omitempty"`
	TotalFiles   int            `json:"total_files,omitempty"`

	// RefreshComplete and Status fields
	FilesCount  int   `json:"files_count,omitempty"`
	LastUpdated int64 `json:"last_updated,omitempty"`

	// Error fields
	Message string `json:"message,omitempty"`
}

// ParseResponse decodes a single response line. The caller is expected to
// drop frames that fail to parse.
func ParseResponse(line []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendRequest writes one request frame to the connection. json.Encoder
// appends the line feed that terminates the frame.
func SendRequest(conn net.Conn, req *Request) error {
	return json.NewEncoder(conn).Encode(req)
}

// EncodeRequest renders a request as a single line including the trailing
// line feed.
func EncodeRequest(req *Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
