package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"todoapp/internal/utils"
	"todoapp/internal/views"
)

// parseTaskID parses a task id argument
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, utils.ErrInvalidTaskID(arg)
	}
	return id, nil
}

func newAddCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Long:  "Add a task with the given text. Text that is empty after trimming is ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			task, added, err := a.store.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to save task: %w", err)
			}
			if !added {
				return a.infoOnly(stdout, "Nothing to add: task text is empty")
			}
			return a.actionDone(stdout, "add", task, fmt.Sprintf("Created task: %s (ID: %d)", task.Text, task.ID))
		},
	}
}

func newListCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			filter := a.settings.GetDefaultFilter()
			if cmd.Flags().Changed("filter") {
				name, _ := cmd.Flags().GetString("filter")
				filter = views.ParseFilter(name)
			}
			return a.list(stdout, filter, a.json)
		},
	}
	cmd.Flags().StringP("filter", "f", "", "Filter mode: all, active or completed")
	return cmd
}

// list prints the tasks visible under filter
func (a *app) list(stdout io.Writer, filter views.Filter, jsonOutput bool) error {
	page := views.Build(a.store.Tasks(), filter, nil)
	return a.printPage(stdout, page, jsonOutput)
}

func newToggleCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			toggled, err := a.store.Toggle(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to save task: %w", err)
			}
			if !toggled {
				return a.infoOnly(stdout, fmt.Sprintf("No task with ID %d", id))
			}

			task, _ := a.store.Get(id)
			verb := "Reopened"
			if task.Completed {
				verb = "Completed"
			}
			return a.actionDone(stdout, "toggle", task, fmt.Sprintf("%s task: %s", verb, task.Text))
		},
	}
}

func newDeleteCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			task, found := a.store.Get(id)
			if !found {
				return a.infoOnly(stdout, fmt.Sprintf("No task with ID %d", id))
			}
			if !a.confirm(stdout, fmt.Sprintf("Delete task %q?", task.Text)) {
				return a.infoOnly(stdout, "Cancelled")
			}
			if _, err := a.store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to save task list: %w", err)
			}
			return a.actionDone(stdout, "delete", task, fmt.Sprintf("Deleted task: %s", task.Text))
		},
	}
}

func newEditCmd(stdout io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a task",
		Long:  "Replace the text of a task. The new text is saved as given, even when empty.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			text := strings.Join(args[1:], " ")
			a.store.BeginEdit(id, text)
			edited, err := a.store.CommitEdit(cmd.Context(), id, text)
			if err != nil {
				return fmt.Errorf("failed to save task: %w", err)
			}
			if !edited {
				return a.infoOnly(stdout, fmt.Sprintf("No task with ID %d", id))
			}

			task, _ := a.store.Get(id)
			return a.actionDone(stdout, "edit", task, fmt.Sprintf("Updated task: %s", task.Text))
		},
	}
}
