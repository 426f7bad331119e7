package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"duetrack/internal/api"
	"duetrack/internal/models"
	"duetrack/internal/store"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List your deadlines.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Value: "all", Usage: "Filter: all, pending or completed."},
			&cli.BoolFlag{Name: "no-sort", Usage: "Keep server order instead of sorting by due date."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			// Login already triggered a fetch through the auth subscription.
			if msg := svc.store.Err(); msg != "" {
				fmt.Printf("Could not load deadlines: %s\n", msg)
				fmt.Println("Retrying...")
				if err := svc.store.Fetch(c.Context); err != nil {
					return err
				}
			}

			filter, err := parseStatus(c.String("status"))
			if err != nil {
				return err
			}

			deadlines := store.Filter(svc.store.Deadlines(), filter)
			if !c.Bool("no-sort") {
				deadlines = store.SortByDate(deadlines)
			}
			renderDeadlines(deadlines)
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a deadline.",
		ArgsUsage: "TITLE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "due", Required: true, Usage: "Due date (YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC3339)."},
			&cli.StringFlag{Name: "priority", Value: models.PriorityMedium, Usage: "low, medium or high."},
			&cli.StringFlag{Name: "course", Usage: "Course or project the deadline belongs to."},
			&cli.StringFlag{Name: "description", Usage: "Free-form details."},
			&cli.Float64Flag{Name: "hours", Usage: "Estimated hours of work."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("a title is required")
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			due, err := parseDue(c.String("due"))
			if err != nil {
				return err
			}

			deadline, err := svc.store.Create(c.Context, api.CreateDeadlineRequest{
				Title:          strings.Join(c.Args().Slice(), " "),
				Description:    c.String("description"),
				Course:         c.String("course"),
				Date:           due,
				Priority:       strings.ToLower(c.String("priority")),
				EstimatedHours: c.Float64("hours"),
			})
			if err != nil {
				svc.toasts.Error("Create failed", err.Error())
				return err
			}
			svc.toasts.Info("Deadline created", fmt.Sprintf("#%d %s, due %s.", deadline.ID, deadline.Title, deadline.Date.Local().Format("2006-01-02 15:04")))
			return nil
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Update fields of a deadline.",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title"},
			&cli.StringFlag{Name: "due", Usage: "New due date."},
			&cli.StringFlag{Name: "priority", Usage: "low, medium or high."},
			&cli.StringFlag{Name: "course"},
			&cli.StringFlag{Name: "description"},
			&cli.Float64Flag{Name: "hours", Usage: "Estimated hours of work."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one deadline id is required")
			}
			id, err := parseID(c.Args().First(), "deadline")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			var req api.UpdateDeadlineRequest
			if c.IsSet("title") {
				title := c.String("title")
				req.Title = &title
			}
			if c.IsSet("due") {
				due, err := parseDue(c.String("due"))
				if err != nil {
					return err
				}
				req.Date = &due
			}
			if c.IsSet("priority") {
				priority := strings.ToLower(c.String("priority"))
				req.Priority = &priority
			}
			if c.IsSet("course") {
				course := c.String("course")
				req.Course = &course
			}
			if c.IsSet("description") {
				description := c.String("description")
				req.Description = &description
			}
			if c.IsSet("hours") {
				hours := c.Float64("hours")
				req.EstimatedHours = &hours
			}

			deadline, err := svc.store.Update(c.Context, id, req)
			if err != nil {
				svc.toasts.Error("Update failed", err.Error())
				return err
			}
			svc.toasts.Info("Deadline updated", fmt.Sprintf("#%d %s.", deadline.ID, deadline.Title))
			return nil
		},
	}
}

func doneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Toggle a deadline's completion.",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one deadline id is required")
			}
			id, err := parseID(c.Args().First(), "deadline")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			deadline, err := svc.store.ToggleComplete(c.Context, id)
			if err != nil {
				svc.toasts.Error("Toggle failed", err.Error())
				return err
			}
			if deadline.Completed {
				svc.toasts.Info("Completed", fmt.Sprintf("#%d %s.", deadline.ID, deadline.Title))
			} else {
				svc.toasts.Info("Reopened", fmt.Sprintf("#%d %s.", deadline.ID, deadline.Title))
			}
			return nil
		},
	}
}

func rmCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a deadline.",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one deadline id is required")
			}
			id, err := parseID(c.Args().First(), "deadline")
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			if err := svc.store.Delete(c.Context, id); err != nil {
				svc.toasts.Error("Delete failed", err.Error())
				return err
			}
			svc.toasts.Info("Deadline deleted", fmt.Sprintf("#%d removed.", id))
			return nil
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Upload a document, review the extracted deadlines and save the ones you keep.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Save every extracted deadline without prompting."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("exactly one file is required")
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			candidates, err := svc.store.ScanDocument(c.Context, c.Args().First())
			if err != nil {
				svc.toasts.Error("Scan failed", err.Error())
				return err
			}
			if len(candidates) == 0 {
				fmt.Println("No deadlines found in document.")
				return nil
			}

			fmt.Printf("Extracted %d deadline(s):\n", len(candidates))
			saved := 0
			for _, candidate := range candidates {
				fmt.Printf("  %s  [%s]  %s\n",
					candidate.Date.Local().Format("2006-01-02 15:04"), candidate.Priority, candidate.Title)
				if !c.Bool("yes") {
					answer := strings.ToLower(prompt("  Save this deadline? [y/N]: "))
					if answer != "y" && answer != "yes" {
						continue
					}
				}
				if _, err := svc.store.Create(c.Context, api.CreateDeadlineRequest{
					Title:          candidate.Title,
					Description:    candidate.Description,
					Course:         candidate.Course,
					Date:           candidate.Date,
					Priority:       candidate.Priority,
					EstimatedHours: candidate.EstimatedHours,
				}); err != nil {
					svc.toasts.Error("Save failed", err.Error())
					continue
				}
				saved++
			}
			svc.toasts.Info("Scan complete", fmt.Sprintf("Saved %d of %d extracted deadline(s).", saved, len(candidates)))
			return nil
		},
	}
}
