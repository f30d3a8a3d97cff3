package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cider/internal/api/client"
	"github.com/donaldgifford/cider/internal/catalog"
)

func searchCmd() *cobra.Command {
	var (
		limit int
		types []string
	)

	cmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search the catalog",
		Long: "Searches the storefront's catalog for a term. Multiple arguments are\n" +
			"joined with spaces.",
		Example: `  cider search daft punk
  cider search "get lucky" --types songs,music-videos --limit 5
  cider search hello --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaTypes, err := parseMediaTypes(types)
			if err != nil {
				return err
			}
			return runSearch(cmd, catalog.SearchQuery{
				Term:  strings.Join(args, " "),
				Limit: limit,
				Types: mediaTypes,
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per type (0 uses the API default)")
	cmd.Flags().StringSliceVar(&types, "types", nil, "media types to search (artists, albums, songs, playlists, music-videos)")

	return cmd
}

func runSearch(cmd *cobra.Command, q catalog.SearchQuery) error {
	if srv := serverURL(); srv != "" && !dryRun() {
		body, err := apiclient.New(srv).Search(cmd.Context(), q)
		if err != nil {
			return err
		}
		return render(cmd, body, printSearchTable)
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
		req := a.builder.BuildSearchRequest(q.Term, catalog.WithLimit(q.Limit), catalog.WithTypes(q.Types...))
		if personalize() {
			if req, err = a.builder.AttachUserToken(req); err != nil {
				return err
			}
		}
		return printRequest(out, req)
	}

	body, err := a.client.Search(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("searching catalog: %w", err)
	}

	return render(cmd, body, printSearchTable)
}

func parseMediaTypes(raw []string) ([]catalog.MediaType, error) {
	out := make([]catalog.MediaType, 0, len(raw))
	for _, s := range raw {
		mt, err := catalog.ParseMediaType(s)
		if err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, nil
}
