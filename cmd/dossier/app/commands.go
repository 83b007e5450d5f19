package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/recordflow/dossier/internal/render"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

// NewReconcileCommand creates the reconcile command.
func (a *App) NewReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <business-key>",
		Short: "Reconcile a record's version history with its artifacts",
		Long: `Reconcile resolves the business key to a tracked record, fetches the
record's version history and the files in the key's artifact folder, and
prints the ordered timeline pairing each version with its artifact link.

A key that resolves to zero records prints a record-not-found result and
exits cleanly; transport failures and invalid input exit non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.Dossier()
			if err != nil {
				return err
			}

			format, err := render.ParseFormat(a.config.Output)
			if err != nil {
				return err
			}
			format = render.DetectFormat(string(format))

			result := d.Reconcile(cmd.Context(), types.BusinessKey(args[0]))

			if err := render.Render(os.Stdout, result, format); err != nil {
				return err
			}

			switch result.Kind {
			case reconcile.KindSuccess, reconcile.KindRecordNotFound:
				// Not-found is a valid business outcome, not a CLI failure.
				return nil
			default:
				return result.Err
			}
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the dossier CLI.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("dossier version %s\n", a.version)
			fmt.Printf("commit: %s\n", a.commit)
			fmt.Printf("built: %s\n", a.date)
			fmt.Printf("built by: %s\n", a.builtBy)
			fmt.Printf("go version: %s\n", runtime.Version())
			fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
