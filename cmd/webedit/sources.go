package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/webedit/requests"
	"github.com/brettbedarf/webedit/sources"
)

func newOpenCommand(a *app) *cobra.Command {
	var into string
	cmd := &cobra.Command{
		Use:   "open SOURCE",
		Short: "Add a local file or an http(s) URL to the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := a.shell.ResolveFolder(into)
			if err != nil {
				return err
			}
			src, err := sources.Resolve(a.shell.Sources(), args[0])
			if err != nil {
				return err
			}
			f, err := a.shell.OpenExternal(cmd.Context(), src, parent)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&into, "into", "", "Folder to add the file to (default the root)")
	return cmd
}

func newApplyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply MANIFEST",
		Short: "Create the files and folders listed in a JSON or YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			reqs, err := requests.ParseManifestFile(args[0], data, a.shell.Sources())
			if err != nil {
				return err
			}
			res, err := a.shell.Apply(cmd.Context(), reqs)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d folders and %d files (%d failed)\n", res.Folders, res.Files, res.Failed)
			return err
		},
	}
}
