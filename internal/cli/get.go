package cli

import (
	"encoding/json"
	"fmt"

	"github.com/me/wfstage/pkg/model"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a registered stage definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/stages/" + args[0])
			if err != nil {
				return err
			}

			var rec model.StageRecord
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if raw {
				fmt.Print(rec.Raw)
				return nil
			}

			// Pretty-print the normalized document.
			var doc map[string]any
			if err := json.Unmarshal([]byte(rec.Normalized), &doc); err != nil {
				return fmt.Errorf("parse normalized document: %w", err)
			}
			return printJSON(doc)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the document as originally submitted")

	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a registered stage definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete("/api/v1/stages/" + args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
