package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quickfile/internal/config"
	"quickfile/internal/highlight"
	"quickfile/internal/protocol"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var rawJSON bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the file index once",
		Long: `Search the daemon's file index once and print the results.

On a terminal the results are rendered with matched characters
highlighted; when piped (or with --json) the daemon's raw JSON response
line is printed instead. An empty query lists the index unfiltered.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := sessionLogger(cfg)
			defer log.Close()

			query := strings.Join(args, " ")
			req := protocol.NewSearch(query, limit)
			line, err := callDaemon(log, bridgeClient(cfg), req, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if line == "" {
				// Fire-and-forget: the request was delivered but no
				// response arrived in time. Nothing to print.
				return nil
			}

			if rawJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			}

			resp, perr := protocol.ParseResponse([]byte(line))
			if perr != nil {
				// An unparseable reply passes through untouched.
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			}
			if resp.Type == protocol.ResponseError {
				return fmt.Errorf("daemon error: %s", resp.Message)
			}

			out := termenv.NewOutput(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), renderSearchResults(out, resp))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", protocol.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "Print the raw JSON response even on a terminal")

	return cmd
}

// renderSearchResults renders a SearchResults frame for humans: one row
// per hit with the matched characters highlighted, then a summary line.
func renderSearchResults(out *termenv.Output, resp *protocol.Response) string {
	var b strings.Builder
	for _, r := range resp.Results {
		offsets := make([]int, len(r.Matches))
		for i, m := range r.Matches {
			offsets[i] = m.CharIndex
		}
		for _, seg := range highlight.Segments(r.DisplayPath, offsets) {
			switch {
			case seg.Highlighted:
				b.WriteString(out.String(seg.Text).Bold().Foreground(termenv.ANSIYellow).String())
			case seg.Part == highlight.PartDirectory:
				b.WriteString(out.String(seg.Text).Faint().String())
			default:
				b.WriteString(seg.Text)
			}
		}
		b.WriteByte('\n')
	}
	summary := fmt.Sprintf("%d results / %d files", len(resp.Results), resp.TotalFiles)
	b.WriteString(out.String(summary).Faint().String())
	b.WriteByte('\n')
	return b.String()
}
