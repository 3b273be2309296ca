package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/webedit/view"
	"github.com/brettbedarf/webedit/workspace"
)

// splitParent separates the folder part of p from its last segment.
func splitParent(p string) (dir, name string) {
	p = strings.Trim(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}

func newTouchCommand(a *app) *cobra.Command {
	var (
		content string
		unique  bool
		parents bool
	)
	cmd := &cobra.Command{
		Use:   "touch PATH",
		Short: "Create a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := splitParent(args[0])
			parent, err := a.folder(dir, parents)
			if err != nil {
				return err
			}
			if unique {
				name = a.store().GenerateUniqueFileName(name, parent)
			}
			f, err := a.shell.NewFile(name, parent)
			if err != nil {
				return err
			}
			if content != "" {
				a.store().UpdateFileContent(f, content)
				a.store().MarkFileAsSaved(f)
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "Initial content")
	cmd.Flags().BoolVarP(&unique, "unique", "u", false, "Pick a free name instead of failing")
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "Create missing folders")
	return cmd
}

func newMkdirCommand(a *app) *cobra.Command {
	var parents bool
	cmd := &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f *workspace.Folder
			if parents {
				var err error
				if f, _, err = a.shell.EnsureFolderPath(args[0]); err != nil {
					return err
				}
			} else {
				dir, name := splitParent(args[0])
				parent, err := a.shell.ResolveFolder(dir)
				if err != nil {
					return err
				}
				if f, err = a.shell.NewFolder(name, parent); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Path()+"/")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "Create missing folders and accept existing ones")
	return cmd
}

// folder resolves dir, creating it first when create is set.
func (a *app) folder(dir string, create bool) (*workspace.Folder, error) {
	if create && dir != "" {
		f, _, err := a.shell.EnsureFolderPath(dir)
		return f, err
	}
	return a.shell.ResolveFolder(dir)
}

func newLsCommand(a *app) *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "ls [FOLDER]",
		Short: "List a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			parent, err := a.shell.ResolveFolder(dir)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), a.store().Children(parent), long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show kind, size and modification time")
	return cmd
}

func writeListing(w io.Writer, entries []workspace.Entity, long bool) error {
	if !long {
		for _, e := range entries {
			fmt.Fprintln(w, displayName(e))
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		switch v := e.(type) {
		case *workspace.File:
			fmt.Fprintf(tw, "file\t%d\t%s\t%s\n", v.Size(), v.ModifiedAt().UTC().Format(time.RFC3339), displayName(v))
		case *workspace.Folder:
			fmt.Fprintf(tw, "folder\t%d\t%s\t%s\n", len(v.Children()), v.CreatedAt().UTC().Format(time.RFC3339), displayName(v))
		}
	}
	return tw.Flush()
}

func displayName(e workspace.Entity) string {
	switch v := e.(type) {
	case *workspace.Folder:
		return v.Name() + "/"
	case *workspace.File:
		if v.IsModified() {
			return v.Name() + view.ModifiedMark
		}
	}
	return e.Name()
}

func newTreeCommand(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the workspace as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := a.shell.Tree()
			tree.ExpandAll()
			tree.SetFilter(filter)
			return tree.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show entries whose name contains this text")
	return cmd
}

func newCatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Print a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.shell.ResolveFile(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), f.Content())
			return err
		},
	}
}

func newWriteCommand(a *app) *cobra.Command {
	var (
		from string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "write PATH [TEXT]",
		Short: "Replace a file's content",
		Long: `Replace a file's content with TEXT, the contents of --from, or stdin.
The file is left modified until saved unless --save is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.shell.ResolveFile(args[0])
			if err != nil {
				return err
			}
			var content string
			switch {
			case len(args) == 2:
				content = args[1]
			case from != "":
				data, err := os.ReadFile(from)
				if err != nil {
					return err
				}
				content = string(data)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = string(data)
			}

			a.store().UpdateFileContent(f, content)
			if save {
				a.store().MarkFileAsSaved(f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Read the new content from this local file")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Mark the file saved after writing")
	return cmd
}

func newSaveCommand(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "save [PATH]",
		Short: "Mark a modified file as saved",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				for _, f := range a.store().Files() {
					if f.IsModified() {
						a.store().MarkFileAsSaved(f)
						fmt.Fprintln(cmd.OutOrStdout(), f.Path())
					}
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a path or --all is required")
			}
			f, err := a.shell.ResolveFile(args[0])
			if err != nil {
				return err
			}
			a.store().MarkFileAsSaved(f)
			fmt.Fprintln(cmd.OutOrStdout(), f.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Save every modified file")
	return cmd
}

func newMvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv PATH FOLDER",
		Short: "Move a file or folder into FOLDER (\"/\" for the root)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.shell.Resolve(args[0])
			if err != nil {
				return err
			}
			target, err := a.shell.ResolveFolder(args[1])
			if err != nil {
				return err
			}
			switch v := e.(type) {
			case *workspace.File:
				err = a.shell.MoveFile(v, target)
			case *workspace.Folder:
				err = a.shell.MoveFolder(v, target)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Path())
			return nil
		},
	}
}

func newRenameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PATH NAME",
		Short: "Rename a file or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.shell.Resolve(args[0])
			if err != nil {
				return err
			}
			switch v := e.(type) {
			case *workspace.File:
				err = a.shell.RenameFile(v, args[1])
			case *workspace.Folder:
				err = a.shell.RenameFolder(v, args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Path())
			return nil
		},
	}
}

func newRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PATH...",
		Short: "Remove files, or folders with everything in them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				e, err := a.shell.Resolve(p)
				if err != nil {
					return err
				}
				a.shell.Remove(e)
			}
			return nil
		},
	}
}
