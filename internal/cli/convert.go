package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockbridge/pkg/convert"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	force  bool // overwrite existing destination lockfiles
	jobs   int  // projects converted in parallel
	dryRun bool // convert without writing
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <source-file>...",
		Short: "Convert yarn.lock to package-lock.json or back",
		Long: `Convert reads each source lockfile together with the node_modules tree
installed next to it, and writes the other lockfile format into the same
directory.

  yarn.lock          -> package-lock.json (lockfileVersion 1)
  package-lock.json  -> yarn.lock (yarn lockfile v1)

Installed packages the source lockfile does not list (bundled dependencies)
are left out and reported.`,
		Example: `  lockbridge convert ./yarn.lock
  lockbridge convert --force app/package-lock.json web/package-lock.json`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing destination lockfile")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "projects to convert in parallel (0 = all)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "convert but do not write anything")

	return cmd
}

// options merges config file defaults with the flags the user set.
func (c *CLI) options(cmd *cobra.Command, flags convertOpts) convert.Options {
	opts := convert.Options{
		Force:  c.config.Convert.Force,
		Jobs:   c.config.Convert.Jobs,
		DryRun: flags.dryRun,
		Codec:  lockfile.NewCodec(c.config.Sources.TarballHost),
	}
	if cmd.Flags().Changed("force") {
		opts.Force = flags.force
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = flags.jobs
	}
	return opts
}

func (c *CLI) runConvert(cmd *cobra.Command, sources []string, flags convertOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts := c.options(cmd, flags)

	jobs := make([]convert.Job, len(sources))
	for i, src := range sources {
		jobs[i] = convert.Job{Source: src}
	}

	prog := newProgress(logger)
	results, err := convert.RunAll(ctx, jobs, opts)

	converted := 0
	for i, res := range results {
		if res == nil {
			printError("%s", sources[i])
			continue
		}
		converted++
		printResult(res)
	}
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Converted %s", plural(converted, "project")))
	return nil
}

func printResult(res *convert.Result) {
	printSuccess("%s", res.Direction)
	printFile(res.Destination)
	printDetail("%s", plural(res.Entries, "record"))
	if !res.Written {
		printInfo("Dry run: %s not written", res.Destination)
	}
	if len(res.Bundled) > 0 {
		printWarning("Skipped %s not in %s", plural(len(res.Bundled), "bundled package"), res.Direction.Source())
		for _, id := range res.Bundled {
			printDetail("%s", id)
		}
	}
}

