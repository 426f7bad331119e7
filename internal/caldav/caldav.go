// Package caldav publishes deadlines to a CalDAV calendar collection.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"duetrack/internal/config"
	"duetrack/internal/ics"
	"duetrack/internal/models"
)

// basicAuthTransport adds Basic Auth and a client identifier to requests.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "duetrack/1.0")
	return t.Transport.RoundTrip(req)
}

// Client publishes deadline events to a single CalDAV collection.
type Client struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	endpoint     string
	calendarURL  string
}

// NewClient connects to the configured CalDAV server and locates the target
// calendar by name.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.CalDAVConfig) (*Client, error) {
	transport := &basicAuthTransport{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	webdavClient, err := webdav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/") + "/",
	}

	logger.Info("Locating CalDAV calendar", "calendarName", cfg.Calendar)
	calendarURL, err := c.findCalendar(ctx, cfg.Calendar)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", cfg.Calendar, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Found CalDAV calendar", "url", calendarURL)

	return c, nil
}

// Publish writes one .ics resource per deadline into the calendar
// collection. Failures on individual deadlines are reported but do not stop
// the rest; the number of published events is returned.
func (c *Client) Publish(ctx context.Context, deadlines []models.Deadline) (int, error) {
	published := 0
	var firstErr error
	for i := range deadlines {
		d := &deadlines[i]
		if err := c.publishOne(ctx, d); err != nil {
			c.logger.Error("Failed to publish deadline", "title", d.Title, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		published++
	}
	if published == 0 && firstErr != nil {
		return 0, firstErr
	}
	return published, nil
}

func (c *Client) publishOne(ctx context.Context, d *models.Deadline) error {
	c.logger.Debug("Publishing deadline", "title", d.Title, "due", d.Date)

	// The resource path must be relative to the endpoint for the webdav client.
	eventPath := path.Join(
		strings.TrimPrefix(c.calendarURL, c.endpoint),
		fmt.Sprintf("%s.ics", ics.EventUID(d)),
	)

	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	defer writer.Close()

	if err := ics.Export(writer, []models.Deadline{*d}); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

// findCalendar discovers the account's calendars and returns the URL of the
// one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return strings.TrimSuffix(c.endpoint, "/") + cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
