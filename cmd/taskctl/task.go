package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/task"
)

var (
	taskPriority    string
	taskAssigned    string
	taskDueDate     string
	taskTags        []string
	taskDescription string
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	for _, c := range []*cobra.Command{taskAddCmd, taskUpdateCmd} {
		c.Flags().StringVar(&taskPriority, "priority", "", "Priority: HIGH, MEDIUM, or LOW")
		c.Flags().StringVar(&taskAssigned, "assigned", "", "Assignee name")
		c.Flags().StringVar(&taskDueDate, "due", "", "Due date (YYYY-MM-DD)")
		c.Flags().StringSliceVar(&taskTags, "tags", nil, "Comma-separated tags")
		c.Flags().StringVar(&taskDescription, "desc", "", "Free-text description")
	}
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks within a project",
	Long: `Manage tasks within a project.

Task ids are positional: they are assigned by parse order and change when
earlier tasks are inserted or deleted, so always take the id from a fresh
"taskctl project show".

Examples:
  # Add a task
  taskctl task add site-redesign "Draft wireframes" --priority HIGH --assigned ALICE

  # Add with due date and tags
  taskctl task add site-redesign "Ship v2" --due 2025-03-01 --tags release,ops

  # Complete task 1
  taskctl task complete site-redesign 1

  # Update task 2
  taskctl task update site-redesign 2 --priority LOW --assigned BOB

  # Delete task 3
  taskctl task delete site-redesign 3`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <slug> <text>",
	Short: "Add a task to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskAdd,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <slug> <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskComplete,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <slug> <id>",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskUpdate,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <slug> <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("task id must be an integer: %q", args[1])
		}
		if err := d.store.DeleteTask(args[0], id); err != nil {
			return err
		}
		fmt.Printf("Deleted task %d from %s\n", id, args[0])
		return nil
	},
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	t, err := d.store.AddTask(args[0], task.Task{
		Text:        args[1],
		Priority:    task.Priority(taskPriority),
		Assigned:    taskAssigned,
		DueDate:     taskDueDate,
		Tags:        taskTags,
		Description: taskDescription,
	})
	if err != nil {
		return err
	}

	if p, perr := d.store.GetProject(args[0]); perr == nil {
		d.activity.Append(activity.Event{
			Type:        activity.TypeTaskCreated,
			ProjectSlug: args[0],
			ProjectName: p.Name,
			TaskID:      t.ID,
			TaskText:    t.Text,
		})
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(t)
	}
	fmt.Printf("Added task %d: %s\n", t.ID, t.Text)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("task id must be an integer: %q", args[1])
	}

	var name, text string
	if p, perr := d.store.GetProject(args[0]); perr == nil {
		name = p.Name
		if t := p.Task(id); t != nil {
			text = t.Text
		}
	}

	if err := d.store.CompleteTask(args[0], id); err != nil {
		return err
	}

	d.activity.Append(activity.Event{
		Type:        activity.TypeTaskCompleted,
		ProjectSlug: args[0],
		ProjectName: name,
		TaskID:      id,
		TaskText:    text,
	})

	fmt.Printf("Completed task %d in %s\n", id, args[0])
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("task id must be an integer: %q", args[1])
	}

	var update store.TaskUpdate
	if cmd.Flags().Changed("priority") {
		prio, err := task.ParsePriority(taskPriority)
		if err != nil {
			return err
		}
		update.Priority = &prio
	}
	if cmd.Flags().Changed("assigned") {
		update.Assigned = &taskAssigned
	}
	if cmd.Flags().Changed("due") {
		update.DueDate = &taskDueDate
	}
	if cmd.Flags().Changed("tags") {
		update.Tags = &taskTags
	}
	if cmd.Flags().Changed("desc") {
		update.Description = &taskDescription
	}

	t, err := d.store.UpdateTask(args[0], id, update)
	if err != nil {
		return err
	}

	if p, perr := d.store.GetProject(args[0]); perr == nil {
		d.activity.Append(activity.Event{
			Type:        activity.TypeTaskUpdated,
			ProjectSlug: args[0],
			ProjectName: p.Name,
			TaskID:      t.ID,
			TaskText:    t.Text,
		})
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(t)
	}
	fmt.Printf("Updated task %d in %s\n", t.ID, args[0])
	return nil
}
