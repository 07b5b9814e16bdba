package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compoundintel/evidence-service/internal/domain"
	"github.com/compoundintel/evidence-service/internal/synonym"
)

var expandCmd = &cobra.Command{
	Use:   "expand <compound>",
	Short: "Print the search-term variants for a compound",
	Long: `Expand prints the search terms the pipeline would query for a compound:
the name itself, known aliases, and spelling/format variants, one per
line. These are the exact terms the search command sends to each source.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().Bool("json", false, "output the term list as JSON")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	expander := synonym.New(synonym.DefaultAliases())

	terms := expander.Expand(args[0])
	if len(terms) == 0 {
		return domain.ErrEmptyQuery
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(terms)
	}

	for _, term := range terms {
		fmt.Println(term)
	}
	return nil
}
