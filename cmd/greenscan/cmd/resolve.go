package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/scoring"
)

// resolveOutput mirrors the HTTP product response
type resolveOutput struct {
	Product *domain.EnrichedProduct `json:"product"`
	Score   domain.ScoreResult      `json:"score"`
}

func newResolveCommand(e *env) *cobra.Command {
	var raw bool

	c := &cobra.Command{
		Use:   "resolve <barcode>",
		Short: "Resolve a barcode and print the scored product as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			product, err := app.Resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, args[0])
			}
			if !raw {
				product.Raw = nil
			}

			score := scoring.ApplyQualityBonus(scoring.Score(product.CanonicalProduct), product.DataQualityBonus)
			return writeJSON(cmd.OutOrStdout(), resolveOutput{Product: product, Score: score})
		},
	}
	c.Flags().BoolVar(&raw, "raw", false, "include the raw source payloads")
	return c
}
