package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/pkg/board"
	"taskboard/pkg/task"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sync.Reload(cmd.Context()); err != nil {
				return errReported
			}
			app.printTable()
			return nil
		},
	}
}

// addForm is the add form filled from flags.
type addForm struct {
	name, due, cost string
}

func (f *addForm) Values() (string, string, string) { return f.name, f.due, f.cost }

func (f *addForm) Reset() { *f = addForm{} }

func newAddCmd(app *App) *cobra.Command {
	var f addForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Example: `  tasks add --name "Write report" --due 2024-11-10 --cost 250
  tasks add --name "Buy server" --due 2024-12-01 --cost 1500,50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.finish(app.dispatch.Submit(cmd.Context(), &f))
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "task name")
	cmd.Flags().StringVar(&f.due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.cost, "cost", "", "cost; a decimal comma is accepted")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var name, due, cost string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task",
		Long:  "Change a task. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sync.Reload(cmd.Context()); err != nil {
				return errReported
			}
			row, ok := app.sync.Snapshot().Find(task.ID(args[0]))
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}

			edit := row.BeginEdit()
			flags := cmd.Flags()
			if flags.Changed("name") {
				edit.Name = name
			}
			if flags.Changed("due") {
				edit.Due = due
			}
			if flags.Changed("cost") {
				edit.Cost = cost
			}
			return app.finish(app.dispatch.Save(cmd.Context(), edit))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new task name")
	cmd.Flags().StringVar(&due, "due", "", "new due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&cost, "cost", "", "new cost")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c board.Confirmer = board.ConfirmFunc(app.ask)
			if yes {
				c = board.Answer(true)
			}
			out := app.dispatch.Remove(cmd.Context(), task.ID(args[0]), c)
			if out.Skipped {
				return nil
			}
			return app.finish(out)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// finish prints the table the dispatcher reloaded and turns a failed outcome
// into the command's error.
func (app *App) finish(out board.Outcome) error {
	if app.sync.Snapshot().Loaded() {
		app.printTable()
	}
	if !out.OK {
		return errReported
	}
	return nil
}

// ask prompts on the command's input. Anything but an explicit yes declines.
func (app *App) ask(_ context.Context, p board.Prompt) bool {
	fmt.Fprintf(app.Out, "%s %s [y/N]: ", p.Title, p.Text)
	line, err := bufio.NewReader(app.In).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(app.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}
