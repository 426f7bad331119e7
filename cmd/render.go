package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"duetrack/internal/models"
	"duetrack/internal/notify"
	"duetrack/internal/store"
)

// renderToasts prints every newly enqueued toast to stderr. The center
// delivers full snapshots, so already-seen ids are skipped.
func renderToasts(center *notify.Center) {
	seen := make(map[string]bool)
	center.Subscribe(func(toasts []notify.Toast) {
		for _, t := range toasts {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			prefix := "--"
			if t.Variant == notify.VariantDestructive {
				prefix = "!!"
			}
			if t.Description != "" {
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", prefix, t.Title, t.Description)
			} else {
				fmt.Fprintf(os.Stderr, "%s %s\n", prefix, t.Title)
			}
		}
	})
}

func renderDeadlines(deadlines []models.Deadline) {
	if len(deadlines) == 0 {
		fmt.Println("No deadlines.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDUE\tPRI\tSTATUS\tCOURSE\tTITLE")
	for _, d := range deadlines {
		status := "pending"
		if d.Completed {
			status = "done"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Date.Local().Format("2006-01-02 15:04"), d.Priority, status, d.Course, d.Title)
	}
	w.Flush()
}

func renderTeams(teams []models.Team) {
	if len(teams) == 0 {
		fmt.Println("No teams.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, t := range teams {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Description)
	}
	w.Flush()
}

func renderMembers(members []models.TeamMember) {
	if len(members) == 0 {
		fmt.Println("No members.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%s\t%s\t[%s]\n", m.ID, m.Username, m.Email, m.Role)
	}
	w.Flush()
}

// parseDue accepts the due-date formats users actually type. Date-only
// input lands at end of day local time.
func parseDue(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("could not parse due date %q (use YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC3339)", raw)
}

// parseStatus resolves a --status flag value.
func parseStatus(raw string) (store.StatusFilter, error) {
	filter := store.StatusFilter(strings.ToLower(raw))
	switch filter {
	case store.FilterAll, store.FilterPending, store.FilterCompleted:
		return filter, nil
	}
	return "", fmt.Errorf("unknown status filter %q (use all, pending or completed)", raw)
}

// parseID converts a positional argument into a numeric id.
func parseID(raw, what string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}
