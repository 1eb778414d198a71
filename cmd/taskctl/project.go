package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/project"
)

var (
	projDescription string
	projTemplate    string
)

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectReopenCmd)

	projectCreateCmd.Flags().StringVar(&projDescription, "description", "", "Project description")
	projectCreateCmd.Flags().StringVar(&projTemplate, "template", "", "Seed tasks from a template id")
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long: `Manage markdown-backed projects.

Examples:
  # List all projects
  taskctl project list

  # Create a project
  taskctl project create "Site Redesign" --description "Refresh the marketing site"

  # Create from a template
  taskctl project create "v2 Launch" --template software-release

  # Show one project with its tasks
  taskctl project show site-redesign

  # Archive a finished project
  taskctl project archive site-redesign`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <slug>",
	Short: "Mark a project completed and move it to the completed directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		if err := d.store.ArchiveProject(args[0]); err != nil {
			return err
		}
		fmt.Printf("Archived %s\n", args[0])
		return nil
	},
}

var projectReopenCmd = &cobra.Command{
	Use:   "reopen <slug>",
	Short: "Move a completed project back to active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		if err := d.store.ReopenProject(args[0]); err != nil {
			return err
		}
		fmt.Printf("Reopened %s\n", args[0])
		return nil
	},
}

func runProjectList(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	projects, err := d.store.ListProjects()
	if err != nil {
		return err
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(projects)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tSTATUS\tPENDING\tCOMPLETED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", p.Slug, p.Name, p.Status, p.Pending(), p.Completed())
	}
	return w.Flush()
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	var p *project.Project
	if projTemplate != "" {
		tpl, err := d.catalog.Get(projTemplate)
		if err != nil {
			return err
		}
		p, err = d.store.CreateProjectWithTasks(args[0], projDescription, tpl.Instantiate(time.Now()))
		if err != nil {
			return err
		}
	} else {
		p, err = d.store.CreateProject(args[0], projDescription)
		if err != nil {
			return err
		}
	}

	d.activity.Append(activity.Event{
		Type:        activity.TypeProjectCreated,
		ProjectSlug: p.Slug,
		ProjectName: p.Name,
	})

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(p)
	}
	fmt.Printf("Created project %s (slug: %s, %d tasks)\n", p.Name, p.Slug, len(p.Tasks))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	p, err := d.store.GetProject(args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return json.NewEncoder(os.Stdout).Encode(p)
	}

	fmt.Printf("%s (%s)\n", p.Name, p.Status)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tPRIORITY\tTASK\tASSIGNED\tDUE\tTAGS")
	for _, t := range p.Tasks {
		state := "open"
		if t.Completed {
			state = "done"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, state, t.Priority, t.Text, t.Assigned, t.DueDate, strings.Join(t.Tags, ","))
	}
	return w.Flush()
}
