package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
	"github.com/nibzard/taskman/internal/utils"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := todo.NewTaskWithText(utils.JoinArgs(args))
			if task.Text == "" {
				return fmt.Errorf("task text is empty")
			}
			out := cmd.OutOrStdout()
			return a.mutate(cmd.Context(), logging.EventAdd, func(m *todo.Manager) (logging.Event, bool, error) {
				r, err := m.Add(task)
				if err != nil {
					return logging.Event{}, false, err
				}
				ev := logging.Event{Status: string(r.Status), Text: task.Text, TaskID: task.ID}
				if r.Status == todo.StatusDuplicate {
					fmt.Fprintf(out, "%q already exists.\n", task.Text)
					return ev, false, nil
				}
				fmt.Fprintf(out, "Added %q.\n", task.Text)
				return ev, true, nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name...>",
		Aliases: []string{"delete"},
		Short:   "Delete the task whose text matches name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := utils.JoinArgs(args)
			return a.mutate(cmd.Context(), logging.EventDelete, lookupMutation(name, (*todo.Manager).Delete, func(t *todo.Task) {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", t.Text)
			}))
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <name...>",
		Short: "Mark the task whose text matches name as done",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := utils.JoinArgs(args)
			return a.mutate(cmd.Context(), logging.EventDone, lookupMutation(name, (*todo.Manager).MarkDone, func(t *todo.Task) {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as done.\n", t.Text)
			}))
		},
	}
}

// lookupMutation adapts a name lookup (Delete, MarkDone) to mutate.
func lookupMutation(name string, op func(*todo.Manager, string) todo.Result, report func(*todo.Task)) func(*todo.Manager) (logging.Event, bool, error) {
	return func(m *todo.Manager) (logging.Event, bool, error) {
		r := op(m, name)
		ev := logging.Event{Status: string(r.Status), Text: name}
		if r.Status != todo.StatusFound {
			return ev, false, missError(name, r)
		}
		ev.Text = r.Task.Text
		ev.TaskID = r.Task.ID
		report(r.Task)
		return ev, true, nil
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <name...>",
		Short: "Find the task whose text matches name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := utils.JoinArgs(args)
			return a.read(cmd.Context(), func(m *todo.Manager) error {
				r := m.Search(name)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), r)
				}
				if r.Status != todo.StatusFound {
					return missError(name, r)
				}
				return writeTasks(cmd.OutOrStdout(), []*todo.Task{r.Task}, true)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the lookup result as JSON")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd.Context(), func(m *todo.Manager) error {
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), m.List())
				}
				if m.Len() == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
					return nil
				}
				return writeTasks(cmd.OutOrStdout(), m.Tasks(), false)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tasks as a JSON list of {text, date, done}")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("clear deletes every task, pass --yes to confirm")
			}
			return a.mutate(cmd.Context(), logging.EventClear, func(m *todo.Manager) (logging.Event, bool, error) {
				n := m.Len()
				m.Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tasks.\n", n)
				return logging.Event{Status: "cleared", Count: n}, true, nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting all tasks")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the full task list as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (expected json or yaml)", format)
			}
			return a.read(cmd.Context(), func(m *todo.Manager) error {
				tasks := m.Tasks()
				if format == "yaml" {
					return writeYAML(cmd.OutOrStdout(), tasks)
				}
				return writeJSON(cmd.OutOrStdout(), tasks)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	return cmd
}

func writeTasks(w io.Writer, tasks []*todo.Task, withID bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range tasks {
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		cols := []string{box, t.Text, t.Date}
		if withID {
			cols = append(cols, t.ID)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
