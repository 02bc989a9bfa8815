package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/komodelgen/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "manage versioned declaration snapshots",
	}
	snapshotCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "typings/manifest.yaml", "snapshot manifest")

	var name, ver string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "generate declarations and record them as a snapshot",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindGeneratorFlags(c)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			file, err := snapshot.Generate(opts, manifestPath, name, ver)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), file)
			return err
		},
	}
	addGeneratorFlags(createCmd.Flags())
	createCmd.Flags().StringVar(&name, "name", "models", "snapshot name")
	createCmd.Flags().StringVar(&ver, "version", "", "snapshot version (semver)")
	_ = createCmd.MarkFlagRequired("version")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, s := range m.Sorted() {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				if _, err = fmt.Fprintf(out, "%s %s\t%s\t%s\n", marker, s.Version, s.Name, s.File); err != nil {
					return err
				}
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			d, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if d == "" {
				d = "no changes\n"
			}
			_, err = fmt.Fprint(c.OutOrStdout(), d)
			return err
		},
	}

	snapshotCmd.AddCommand(createCmd, listCmd, diffCmd)
	return snapshotCmd
}
