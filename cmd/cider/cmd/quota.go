package cmd

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/cider/internal/api/client"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show a running server's catalog quota",
		Long:  "Reports calls used and remaining in the rate limit window of the server given by --server.",
		Example: `  cider quota --server http://localhost:8080
  CIDER_SERVER=http://localhost:8080 cider quota --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := serverURL()
			if srv == "" {
				return errors.New("quota requires --server")
			}

			q, err := apiclient.New(srv).Quota(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				data, err := json.Marshal(q)
				if err != nil {
					return err
				}
				return outputJSON(cmd.OutOrStdout(), data)
			}
			return printQuota(cmd, q)
		},
	}
}

func printQuota(cmd *cobra.Command, q *apiclient.Quota) error {
	tw := newTabWriter(cmd.OutOrStdout())
	if q.Remaining < 0 {
		tw.writef("Limit:\tunlimited\n")
		tw.writef("Used:\t%d\n", q.Used)
		return tw.finish()
	}
	tw.writef("Limit:\t%d\n", q.Limit)
	tw.writef("Used:\t%d\n", q.Used)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	tw.writef("Resets:\t%s\n", q.ResetAt.Local().Format(time.RFC3339))
	return tw.finish()
}
