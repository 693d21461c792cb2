package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/me/wfstage/pkg/model"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Validate and register a stage definition on the server",
		Long: `Submits a stage-definition file to the server. The server validates
and normalizes it; valid definitions are registered under a fresh
instance id, invalid ones are rejected with the full diagnostic list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			resp, err := client.Post("/api/v1/stages?name="+url.QueryEscape(name), data)
			if err != nil {
				if resp != nil && resp.Error != nil && len(resp.Error.Details) > 0 {
					for _, d := range resp.Error.Details {
						fmt.Fprintln(os.Stderr, d.String())
					}
				}
				return err
			}

			var rec model.StageRecord
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("registered %s as %s\n", name, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stage name (default: file name without extension)")

	return cmd
}
