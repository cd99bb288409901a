package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mockingj/mockingj/pkg/parser"
	"github.com/mockingj/mockingj/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec>",
	Short: "Validate a specification without starting the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	doc, err := parser.ParseFile(args[0])
	if err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			fmt.Printf("%s: %d schema error(s)\n", args[0], len(ve.Errors))
			for _, fe := range ve.Errors {
				fmt.Printf("  %s: %s\n", fe.Path, fe.Message)
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("%s is valid\n", args[0])
	fmt.Printf("  title:       %s\n", doc.Title)
	fmt.Printf("  version:     %s\n", doc.Version)
	fmt.Printf("  endpoints:   %d\n", len(doc.Endpoints))
	fmt.Printf("  definitions: %d\n", len(doc.Definitions))
	for _, ep := range doc.Endpoints {
		fmt.Printf("  %-7s %s\n", ep.Method, ep.Path)
	}
	return nil
}
