package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

const (
	stdioPath       = "-"
	exportFileMode  = 0o600
	msgResetHint    = "This deletes all books. Run again with --yes to confirm."
	msgExportedFile = "Written to %s\n"
)

func newAddCmd(app *application) *cobra.Command {
	var (
		title  string
		author string
		year   string
		read   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the unread or the read shelf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.coordinator.AddBook(cmd.Context(), recordstore.BookInput{
				Title:      title,
				Author:     author,
				Year:       recordstore.CoerceYear(year),
				IsComplete: read,
			})

			return err
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title of the book")
	cmd.Flags().StringVarP(&author, "author", "a", "", "author of the book")
	cmd.Flags().StringVarP(&year, "year", "y", "", "publication year")
	cmd.Flags().BoolVarP(&read, "read", "r", false, "put the book on the read shelf")

	return cmd
}

func newListCmd(app *application) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show both shelves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app.coordinator.Start(ctx)
			app.renderer.PrintView(app.coordinator.SetSearchTerm(ctx, search))

			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only show books matching the keyword")

	return cmd
}

func newSearchCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Show the books whose title, author or year contain the keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.renderer.PrintView(app.coordinator.SetSearchTerm(cmd.Context(), args[0]))
			return nil
		},
	}
}

func newMoveCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id>",
		Short: "Move a book to the other shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.coordinator.MoveBook(cmd.Context(), args[0])
			return err
		},
	}
}

func newDeleteCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.coordinator.DeleteBook(cmd.Context(), args[0])
		},
	}
}

func newStatsCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the books on both shelves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), app.renderer.FormatStats(app.coordinator.Stats(cmd.Context())))
			return err
		},
	}
}

func newExportCmd(app *application) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all books to a JSON backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			export, err := app.coordinator.ExportBooks(cmd.Context())
			if err != nil {
				return err
			}

			if out == stdioPath {
				_, err = io.WriteString(cmd.OutOrStdout(), export.Data+"\n")
				return err
			}

			path := out
			if path == "" {
				path = export.Filename
			} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				path = filepath.Join(path, export.Filename)
			}

			if err = os.WriteFile(path, []byte(export.Data), exportFileMode); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), msgExportedFile, path)

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `file or directory to write to, "-" for stdout`)

	return cmd
}

func newImportCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: `Replace all books with the ones in a JSON backup file ("-" reads stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)

			if args[0] == stdioPath {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}

			if err != nil {
				return err
			}

			return app.coordinator.ImportBooks(cmd.Context(), string(data))
		},
	}
}

func newResetCmd(app *application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := app.coordinator.ResetAll(cmd.Context(), yes)
			if errors.Is(err, shelf.ErrResetNotConfirmed) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), msgResetHint)
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all books")

	return cmd
}
