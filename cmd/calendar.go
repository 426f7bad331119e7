package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"duetrack/internal/api"
	"duetrack/internal/caldav"
	"duetrack/internal/ics"
	"duetrack/internal/store"
)

func calendarCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Manage calendar connection, sync and local exports.",
		Subcommands: []*cli.Command{
			calendarStatusCommand(),
			calendarConnectCommand(),
			calendarDisconnectCommand(),
			calendarEnableCommand(),
			calendarDisableCommand(),
			calendarSyncAllCommand(),
			calendarImportCommand(),
			calendarExportCommand(),
			calendarPublishCommand(),
		},
	}
}

func calendarStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show calendar connection and sync state.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			status, err := svc.client.CalendarStatus(c.Context)
			if err != nil {
				return err
			}
			connected := "not connected"
			if status.Connected {
				connected = "connected"
			}
			sync := "disabled"
			if status.SyncEnabled {
				sync = "enabled"
			}
			fmt.Printf("Calendar: %s, sync %s (calendar id %s)\n", connected, sync, status.CalendarID)
			return nil
		},
	}
}

func calendarConnectCommand() *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Authorize calendar access in a browser, then wait for the service to confirm.",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "wait", Value: 2 * time.Minute, Usage: "How long to wait for the authorization to complete."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			status, err := svc.client.CalendarStatus(c.Context)
			if err != nil {
				return err
			}
			if status.Connected {
				fmt.Println("Calendar is already connected.")
				return nil
			}

			authURL, err := svc.client.CalendarConnectURL(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("Go to the following link in your browser to authorize calendar access:\n%s\n\n", authURL)
			fmt.Println("Waiting for authorization...")

			// Completion is confirmed by polling the service, never assumed
			// from the browser being closed.
			deadline := time.Now().Add(c.Duration("wait"))
			ticker := time.NewTicker(3 * time.Second)
			defer ticker.Stop()
			for time.Now().Before(deadline) {
				select {
				case <-c.Context.Done():
					return c.Context.Err()
				case <-ticker.C:
				}
				status, err := svc.client.CalendarStatus(c.Context)
				if err != nil {
					svc.logger.Warn("Status poll failed", "error", err)
					continue
				}
				if status.Connected {
					svc.toasts.Info("Calendar connected", "Authorization completed.")
					return nil
				}
			}
			return fmt.Errorf("authorization was not completed within %s", c.Duration("wait"))
		},
	}
}

func calendarDisconnectCommand() *cli.Command {
	return &cli.Command{
		Name:  "disconnect",
		Usage: "Remove the stored calendar authorization and disable sync.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			msg, err := svc.client.DisconnectCalendar(c.Context)
			if err != nil {
				svc.toasts.Error("Disconnect failed", err.Error())
				return err
			}
			svc.toasts.Info("Calendar disconnected", msg.Message)
			return nil
		},
	}
}

func calendarEnableCommand() *cli.Command {
	return &cli.Command{
		Name:  "enable",
		Usage: "Turn on automatic calendar sync for new deadlines.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}

			// Sync requires an existing authorization.
			status, err := svc.client.CalendarStatus(c.Context)
			if err != nil {
				return err
			}
			if !status.Connected {
				return fmt.Errorf("calendar is not connected. Run 'duetrack calendar connect' first")
			}

			enabled := true
			if _, err := svc.client.UpdateCalendarPreferences(c.Context, api.UpdateCalendarPreferencesRequest{
				CalendarSyncEnabled: &enabled,
			}); err != nil {
				svc.toasts.Error("Enable failed", err.Error())
				return err
			}
			svc.toasts.Info("Calendar sync enabled", "New deadlines will create calendar events.")
			return nil
		},
	}
}

func calendarDisableCommand() *cli.Command {
	return &cli.Command{
		Name:  "disable",
		Usage: "Turn off automatic calendar sync. Existing events remain.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			enabled := false
			if _, err := svc.client.UpdateCalendarPreferences(c.Context, api.UpdateCalendarPreferencesRequest{
				CalendarSyncEnabled: &enabled,
			}); err != nil {
				svc.toasts.Error("Disable failed", err.Error())
				return err
			}
			svc.toasts.Info("Calendar sync disabled", "Existing events remain in your calendar.")
			return nil
		},
	}
}

func calendarSyncAllCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync-all",
		Usage: "Push every unsynced deadline to the connected calendar.",
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			result, err := svc.client.SyncAllDeadlines(c.Context)
			if err != nil {
				svc.toasts.Error("Sync failed", err.Error())
				return err
			}
			svc.toasts.Info("Sync finished", result.Message)
			for _, item := range result.Errors {
				svc.logger.Error("Deadline not synced", "id", item.DeadlineID, "title", item.Title, "error", item.Error)
			}
			return nil
		},
	}
}

func calendarImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Create deadlines from upcoming calendar events.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 30, Usage: "How many days ahead to import."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			days := c.Int("days")
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			result, err := svc.client.ImportFromCalendar(c.Context, days)
			if err != nil {
				svc.toasts.Error("Import failed", err.Error())
				return err
			}
			svc.toasts.Info("Import finished", result.Message)
			if result.SkippedCount > 0 {
				svc.logger.Info("Skipped previously imported events", "count", result.SkippedCount)
			}
			// The new deadlines live on the service now; refresh the cache
			// so a following list shows them.
			if err := svc.store.Fetch(c.Context); err != nil {
				return err
			}
			return nil
		},
	}
}

func calendarExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write your deadlines to an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "deadlines.ics", Usage: "Output file. '-' writes to stdout."},
			&cli.StringFlag{Name: "status", Value: "pending", Usage: "Which deadlines to export: all, pending or completed."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			if err := svc.store.Fetch(c.Context); err != nil {
				return err
			}

			filter, err := parseStatus(c.String("status"))
			if err != nil {
				return err
			}
			deadlines := store.SortByDate(store.Filter(svc.store.Deadlines(), filter))

			out := os.Stdout
			if name := c.String("out"); name != "-" {
				f, err := os.Create(name)
				if err != nil {
					return fmt.Errorf("could not create %s: %w", name, err)
				}
				defer f.Close()
				out = f
			}
			if err := ics.Export(out, deadlines); err != nil {
				return err
			}
			svc.toasts.Info("Export complete", fmt.Sprintf("%d deadline(s) written.", len(deadlines)))
			return nil
		},
	}
}

func calendarPublishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish your deadlines to a CalDAV calendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Value: "pending", Usage: "Which deadlines to publish: all, pending or completed."},
		},
		Action: func(c *cli.Context) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			if err := svc.cfg.RequireCalDAV(); err != nil {
				return err
			}
			if err := svc.requireAuth(c); err != nil {
				return err
			}
			if err := svc.store.Fetch(c.Context); err != nil {
				return err
			}

			filter, err := parseStatus(c.String("status"))
			if err != nil {
				return err
			}
			deadlines := store.Filter(svc.store.Deadlines(), filter)

			client, err := caldav.NewClient(c.Context, svc.logger, svc.cfg.CalDAV)
			if err != nil {
				return fmt.Errorf("failed to create caldav client: %w", err)
			}
			published, err := client.Publish(c.Context, deadlines)
			if err != nil {
				svc.toasts.Error("Publish failed", err.Error())
				return err
			}
			svc.toasts.Info("Publish complete", fmt.Sprintf("%d deadline(s) published.", published))
			return nil
		},
	}
}
