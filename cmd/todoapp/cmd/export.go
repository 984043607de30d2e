package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"todoapp/internal/export"
	"todoapp/internal/utils"
)

// resolveFormat picks the format from the flag, then the file extension,
// then fallback.
func resolveFormat(flag, path string, fallback export.Format) (export.Format, error) {
	if flag != "" {
		format, ok := export.ParseFormat(flag)
		if !ok {
			return "", utils.ErrUnknownExportFormat(flag, export.Formats())
		}
		return format, nil
	}
	if format, ok := export.FormatFromPath(path); ok {
		return format, nil
	}
	return fallback, nil
}

func newExportCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as JSON, Markdown, CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			format, err := resolveFormat(formatFlag, output, export.FormatJSON)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			tasks := a.store.Tasks()
			if output == "" {
				return export.Write(stdout, format, tasks)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := export.Write(f, format, tasks); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write export: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			utils.Debugf("exported %d tasks to %s", len(tasks), output)
			_, _ = fmt.Fprintf(stdout, "Exported %d tasks to %s\n", len(tasks), output)
			return nil
		},
	}
	cmd.Flags().String("format", "", "Export format: json, md, csv or pdf (default from --output extension, else json)")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append tasks from a JSON or Markdown checklist file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			format, err := resolveFormat(formatFlag, args[0], export.FormatMarkdown)
			if err != nil {
				return err
			}
			if format != export.FormatJSON && format != export.FormatMarkdown {
				return utils.ErrUnknownExportFormat(string(format), []string{string(export.FormatJSON), string(export.FormatMarkdown)})
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			items, err := export.Read(f, format)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			imported := 0
			for _, item := range items {
				task, added, err := a.store.Add(cmd.Context(), item.Text)
				if err != nil {
					return fmt.Errorf("failed to save task: %w", err)
				}
				if !added {
					continue
				}
				if item.Completed {
					if _, err := a.store.Toggle(cmd.Context(), task.ID); err != nil {
						return fmt.Errorf("failed to save task: %w", err)
					}
				}
				imported++
			}

			if imported == 0 {
				return a.infoOnly(stdout, "No tasks to import")
			}
			_, _ = fmt.Fprintf(stdout, "Imported %d tasks\n", imported)
			if a.noPrompt {
				_, _ = fmt.Fprintln(stdout, ResultActionCompleted)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "", "Input format: json or md (default from file extension, else md)")
	return cmd
}
