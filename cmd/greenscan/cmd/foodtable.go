package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenscan/backend/internal/infrastructure/foodtable"
)

func newFoodTableCommand(e *env) *cobra.Command {
	c := &cobra.Command{
		Use:   "foodtable",
		Short: "Maintain the local food composition table",
	}
	c.AddCommand(newFoodTableImportCommand(e))
	c.AddCommand(newFoodTableLookupCommand(e))
	return c
}

func openConfiguredTable(e *env) (*foodtable.Store, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	if e.cfg.FoodTable.Path == "" {
		return nil, fmt.Errorf("foodtable.path is not set (GREENSCAN_FOODTABLE_PATH); an in-memory table would be discarded")
	}
	return foodtable.Open(e.cfg.FoodTable.Path, e.logger.Named("foodtable"))
}

func newFoodTableImportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Upsert foods from a JSON array into the configured table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredTable(e)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d foods (%d in table)\n", n, total)
			return err
		},
	}
}

func newFoodTableLookupCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Show the table entry that a product name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredTable(e)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.SeedDefaults(cmd.Context()); err != nil {
				return err
			}
			ref, err := store.FindByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ref)
		},
	}
}
