package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ksenkov/verdikt/internal/store"
)

var resultsLimit int

// resultsCmd represents the results command
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect the verification audit trail",
	Long:  `Inspect previously persisted verification results.`,
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent verifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		results, err := st.ListResults(context.Background(), resultsLimit)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No verifications recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCONFIDENCE\tLABEL\tSENTENCES\tRETRIES\tCREATED")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%.2f\t%s\t%d\t%d\t%s\n",
				r.VerificationID, r.OverallConfidence, r.TrustLabel,
				len(r.Sentences), r.RetryCount, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <verification-id>",
	Short: "Show one verification as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		result, err := st.GetResult(context.Background(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no verification with id %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("load result: %w", err)
		}

		return writeResultJSON(result, "")
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)

	resultsListCmd.Flags().IntVar(&resultsLimit, "limit", 20, "maximum number of results to list")
}
