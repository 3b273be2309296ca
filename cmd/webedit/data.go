package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/webedit/workspace"
)

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find files by name or content and folders by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, f := range a.store().SearchFolders(args[0]) {
				fmt.Fprintln(w, f.Path()+"/")
			}
			for _, f := range a.store().SearchFiles(args[0]) {
				fmt.Fprintln(w, f.Path())
			}
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.store().Stats()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			return writeStats(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func writeStats(w io.Writer, st workspace.Stats) error {
	types := make([]string, 0, len(st.FileTypes))
	for t, n := range st.FileTypes {
		types = append(types, fmt.Sprintf("%s=%d", t, n))
	}
	slices.Sort(types)
	_, err := fmt.Fprintf(w, "Files:    %d\nFolders:  %d\nModified: %d\nSize:     %d bytes\nTypes:    %s\n",
		st.TotalFiles, st.TotalFolders, st.ModifiedFiles, st.TotalSize, strings.Join(types, " "))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newExportCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workspace snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.store().ExportData()
			if out == "" {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := writeJSON(f, snap); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the workspace with a snapshot (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			snap, err := workspace.ParseSnapshot(data)
			if err != nil {
				return err
			}
			if err := a.store().ImportData(snap); err != nil {
				return err
			}
			files, folders := a.store().Len()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d files and %d folders\n", files, folders)
			return nil
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every file and folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store().Clear()
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "schema",
		Short:             "Print the JSON Schema of exported snapshots",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), workspace.SnapshotSchema())
		},
	}
}
