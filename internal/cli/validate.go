package cli

import (
	"fmt"
	"os"

	"github.com/me/wfstage/internal/parser"
	"github.com/me/wfstage/internal/validator"
	"github.com/me/wfstage/pkg/stage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCmd() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a stage definition locally",
		Long: `Validates a stage-definition file (YAML or JSON) against the stage
grammar. Every violation found in one pass is printed, path-qualified.
Exits non-zero when the document is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, diags, err := validateFile(args[0], maxDepth)
			if err != nil {
				return err
			}
			if diags != nil {
				for _, d := range diags {
					fmt.Fprintln(os.Stderr, d.String())
				}
				return fmt.Errorf("%s: %d violation(s)", args[0], len(diags))
			}
			fmt.Printf("%s: valid\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", validator.DefaultMaxDepth, "Maximum parameter nesting depth")

	return cmd
}

func newNormalizeCmd() *cobra.Command {
	var maxDepth int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Validate a stage definition and print the normalized document",
		Long: `Validates a stage-definition file and, when valid, prints the
default-filled normalized document to stdout (YAML by default).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, diags, err := validateFile(args[0], maxDepth)
			if err != nil {
				return err
			}
			if diags != nil {
				for _, d := range diags {
					fmt.Fprintln(os.Stderr, d.String())
				}
				return fmt.Errorf("%s: %d violation(s)", args[0], len(diags))
			}

			doc := def.Document()
			if asJSON {
				return printJSON(doc)
			}
			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encode normalized document: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", validator.DefaultMaxDepth, "Maximum parameter nesting depth")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML")

	return cmd
}

// validateFile loads and validates a document from disk.
func validateFile(path string, maxDepth int) (*stage.StageDefinition, stage.Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	root, err := parser.Load(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	v := validator.New(logger, validator.WithMaxDepth(maxDepth))
	def, diags := v.Validate(root)
	return def, diags, nil
}
