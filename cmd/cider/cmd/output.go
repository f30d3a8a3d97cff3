package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/cider/internal/catalog"
	"github.com/donaldgifford/cider/pkg/logger"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// resource is the subset of a catalog resource shown in tables.
type resource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name       string `json:"name"`
		ArtistName string `json:"artistName"`
	} `json:"attributes"`
}

type searchResults struct {
	Results map[string]struct {
		Data []resource `json:"data"`
	} `json:"results"`
}

type fetchResult struct {
	Data []resource `json:"data"`
}

func printSearchTable(w io.Writer, body json.RawMessage) error {
	var res searchResults
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("decoding search results: %w", err)
	}

	types := make([]string, 0, len(res.Results))
	for t := range res.Results {
		types = append(types, t)
	}
	slices.Sort(types)

	var rows []resource
	for _, t := range types {
		rows = append(rows, res.Results[t].Data...)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	return printResourceTable(w, rows)
}

func printFetchTable(w io.Writer, body json.RawMessage) error {
	var res fetchResult
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("decoding resource: %w", err)
	}
	if len(res.Data) == 0 {
		_, err := fmt.Fprintln(w, "No resource found.")
		return err
	}
	return printResourceTable(w, res.Data)
}

func printResourceTable(w io.Writer, rows []resource) error {
	tw := newTabWriter(w)
	tw.writef("TYPE\tID\tNAME\tARTIST\n")
	for i := range rows {
		artist := rows[i].Attributes.ArtistName
		if artist == "" {
			artist = "-"
		}
		tw.writef("%s\t%s\t%s\t%s\n",
			rows[i].Type,
			rows[i].ID,
			truncate(rows[i].Attributes.Name, 48),
			truncate(artist, 32),
		)
	}
	return tw.finish()
}

// render writes body as indented JSON or through printTable, per --output.
func render(cmd *cobra.Command, body json.RawMessage, printTable func(io.Writer, json.RawMessage) error) error {
	if jsonOutput() {
		return outputJSON(cmd.OutOrStdout(), body)
	}
	return printTable(cmd.OutOrStdout(), body)
}

func outputJSON(w io.Writer, body json.RawMessage) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}
	pretty.WriteByte('\n')
	_, err := pretty.WriteTo(w)
	return err
}

// printRequest writes req as it would go on the wire with credentials
// redacted.
func printRequest(w io.Writer, req *catalog.Request) error {
	tw := newTabWriter(w)
	tw.writef("%s %s\n", req.Method, req.URL.String())

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		for _, v := range req.Header.Values(name) {
			tw.writef("%s:\t%s\n", name, redactHeader(name, v))
		}
	}
	tw.writef("Cache-Policy:\t%s\n", req.CachePolicy)
	tw.writef("Timeout:\t%s\n", req.Timeout)
	return tw.finish()
}

func redactHeader(name, value string) string {
	switch name {
	case catalog.HeaderAuthorization:
		if token, ok := strings.CutPrefix(value, "Bearer "); ok {
			return "Bearer " + logger.Redact(token)
		}
		return logger.Redact(value)
	case catalog.HeaderUserToken:
		return logger.Redact(value)
	default:
		return value
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
