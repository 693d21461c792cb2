package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/me/wfstage/pkg/model"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var limit, offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered stage definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/stages?limit=%d&offset=%d", limit, offset)
			resp, err := client.Get(path)
			if err != nil {
				return err
			}

			var recs []*model.StageRecord
			if err := json.Unmarshal(resp.Data, &recs); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if asJSON {
				return printJSON(recs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWORKFLOW\tTYPE\tSIZE\tCREATED")
			for _, rec := range recs {
				wfType := rec.WorkflowType
				if wfType == "" {
					wfType = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.ID, rec.Name, rec.WorkflowID, wfType,
					humanize.Bytes(uint64(len(rec.Raw))),
					humanize.Time(rec.CreatedAt),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Printf("(%d of %d, use --offset to page)\n", len(recs), resp.Pagination.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "List offset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}
