package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cider/internal/api/client"
	"github.com/donaldgifford/cider/internal/catalog"
)

func fetchCmd() *cobra.Command {
	var include []string

	valid := make([]string, 0, len(catalog.MediaTypes()))
	for _, mt := range catalog.MediaTypes() {
		valid = append(valid, string(mt))
	}

	cmd := &cobra.Command{
		Use:   "fetch <type> <id>",
		Short: "Fetch a single catalog resource",
		Long: "Fetches one artist, album, song, playlist, or music video by its\n" +
			"catalog identifier. Valid types: " + strings.Join(valid, ", ") + ".",
		Example: `  cider fetch albums 617154241 --include artists,tracks
  cider fetch music-videos 639032181 --output json`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := catalog.ParseMediaType(args[0])
			if err != nil {
				return err
			}

			q := catalog.FetchQuery{Type: mt, ID: args[1]}
			for _, inc := range include {
				q.Include = append(q.Include, catalog.Include(inc))
			}
			return runFetch(cmd, q)
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "relationships to include (e.g. artists,tracks)")

	return cmd
}

func runFetch(cmd *cobra.Command, q catalog.FetchQuery) error {
	if srv := serverURL(); srv != "" && !dryRun() {
		body, err := apiclient.New(srv).Fetch(cmd.Context(), q)
		if err != nil {
			return err
		}
		return render(cmd, body, printFetchTable)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log, personalize())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // read-mostly cache; close error is not actionable

	out := cmd.OutOrStdout()

	if dryRun() {
		req, err := a.builder.BuildFetchRequest(q.Type, q.ID, q.Include...)
		if err != nil {
			return err
		}
		if personalize() {
			if req, err = a.builder.AttachUserToken(req); err != nil {
				return err
			}
		}
		return printRequest(out, req)
	}

	body, err := a.client.Fetch(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("fetching %s %s: %w", q.Type, q.ID, err)
	}

	return render(cmd, body, printFetchTable)
}
