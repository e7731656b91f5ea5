package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockbridge/pkg/convert"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

// errLockfilesDisagree is returned by check when the lockfiles differ.
var errLockfilesDisagree = errors.New("yarn.lock and package-lock.json disagree")

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <project-dir>",
		Short: "Compare a project's yarn.lock and package-lock.json",
		Long: `Check loads both lockfiles of a project and compares the packages they lock,
by name, version and source kind. It exits with status 1 when they differ.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0])
		},
	}
}

func (c *CLI) runCheck(cmd *cobra.Command, dir string) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	report, err := convert.Check(ctx, dir, convert.Options{
		Codec: lockfile.NewCodec(c.config.Sources.TarballHost),
	})
	if err != nil {
		return err
	}
	prog.done("Compared lockfiles")

	printKeyValue(convert.YarnLock, report.YarnFingerprint)
	printKeyValue(convert.PackageLock, report.NpmFingerprint)
	if report.Agree() {
		printSuccess("Lockfiles agree")
		return nil
	}

	if len(report.OnlyInYarn) > 0 {
		printWarning("Only in %s", convert.YarnLock)
		for _, s := range report.OnlyInYarn {
			printDetail("%s", s)
		}
	}
	if len(report.OnlyInNpm) > 0 {
		printWarning("Only in %s", convert.PackageLock)
		for _, s := range report.OnlyInNpm {
			printDetail("%s", s)
		}
	}
	return errLockfilesDisagree
}
