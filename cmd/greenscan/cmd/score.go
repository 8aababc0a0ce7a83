package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/scoring"
)

func newScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score [file]",
		Short: "Score a product JSON document read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			product, err := decodeProduct(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), scoring.Score(product))
		},
	}
}

// decodeProduct reads one CanonicalProduct and applies the defaults.
// The barcode is required, as on the HTTP endpoint.
func decodeProduct(r io.Reader) (domain.CanonicalProduct, error) {
	var product domain.CanonicalProduct
	if err := json.NewDecoder(r).Decode(&product); err != nil {
		return product, fmt.Errorf("%w: decode product: %v", domain.ErrInvalidRequest, err)
	}
	if strings.TrimSpace(product.Barcode) == "" {
		return product, fmt.Errorf("%w: barcode is required", domain.ErrInvalidRequest)
	}
	product.ApplyDefaults()
	return product, nil
}
