package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/rentflow/internal/cli"
	"github.com/Veraticus/rentflow/internal/common"
	"github.com/Veraticus/rentflow/internal/storage"
	"github.com/spf13/cobra"
)

func directoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage the unit directory",
		Long:  `Import and inspect the properties, units and tenants the USSD menu resolves.`,
	}

	cmd.AddCommand(directoryImportCmd())
	cmd.AddCommand(directoryListCmd())

	return cmd
}

func directoryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import properties, units and tenants from YAML",
		Long: `Load a YAML seed document into the unit directory. Existing records
with the same identifiers are updated. The import is all-or-nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("cannot open %s", args[0]), err)
			}
			defer func() { _ = f.Close() }()

			seed, err := storage.LoadSeed(f)
			if err != nil {
				return common.NewUserError("seed file is not valid", err)
			}

			total := seed.Records()
			if total == 0 {
				fmt.Println(cli.FormatWarning("Seed file contains no properties"))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := cli.NewProgressBar(os.Stderr, total, "Importing directory...")
			if err := store.ImportSeed(ctx, seed, func() { cli.Step(bar) }); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d records from %s", total, args[0])))
			return nil
		},
	}
}

func directoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units",
		Long:  `List units with their rent and current tenant.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			propertyID, _ := cmd.Flags().GetString("property")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			units, err := store.ListUnits(ctx, propertyID)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Println(cli.FormatWarning("No units found"))
				return nil
			}

			rows := make([]cli.UnitRow, 0, len(units))
			for _, u := range units {
				row := cli.UnitRow{Unit: u}
				tenant, err := store.GetTenantByUnit(ctx, u.ID)
				switch {
				case err == nil:
					row.Tenant = tenant.FirstName + " " + tenant.LastName
				case !errors.Is(err, common.ErrNotFound):
					return err
				}
				rows = append(rows, row)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%d units", len(units))))
			fmt.Println(cli.RenderUnitTable(rows))
			return nil
		},
	}

	cmd.Flags().String("property", "", "only list units of this property")

	return cmd
}
