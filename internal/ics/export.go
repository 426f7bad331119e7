// Package ics renders deadlines as an iCalendar document, so they can be
// imported into calendars the service's own sync does not reach.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"duetrack/internal/models"
)

const productID = "-//duetrack//EN"

// defaultBlock is the event length used when a deadline carries no
// estimated hours.
const defaultBlock = time.Hour

// Export encodes the deadlines as a single VCALENDAR with one VEVENT each.
func Export(w io.Writer, deadlines []models.Deadline) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for i := range deadlines {
		cal.Children = append(cal.Children, toEvent(&deadlines[i]))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// EventUID returns the stable iCalendar UID for a deadline, so repeated
// exports update rather than duplicate events.
func EventUID(d *models.Deadline) string {
	if d.ID > 0 {
		return fmt.Sprintf("duetrack-%d@duetrack", d.ID)
	}
	return uuid.New().String()
}

// toEvent converts a deadline to a VEVENT. The due date is the event start;
// the estimated hours set its length.
func toEvent(d *models.Deadline) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(d))
	ve.Props.SetText(ical.PropSummary, d.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, d.Date)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, d.Date.Add(blockLength(d)))

	if desc := eventDescription(d); desc != "" {
		ve.Props.SetText(ical.PropDescription, desc)
	}
	ve.Props.SetText(ical.PropPriority, fmt.Sprintf("%d", icalPriority(d.Priority)))
	if d.Completed {
		ve.Props.SetText(ical.PropStatus, "COMPLETED")
	}
	return ve
}

func blockLength(d *models.Deadline) time.Duration {
	if d.EstimatedHours > 0 {
		return time.Duration(d.EstimatedHours * float64(time.Hour))
	}
	return defaultBlock
}

func eventDescription(d *models.Deadline) string {
	switch {
	case d.Course != "" && d.Description != "":
		return fmt.Sprintf("%s: %s", d.Course, d.Description)
	case d.Course != "":
		return d.Course
	default:
		return d.Description
	}
}

// icalPriority maps the service's priority levels onto the 1..9 iCalendar
// scale, where 1 is highest.
func icalPriority(priority string) int {
	switch priority {
	case models.PriorityHigh:
		return 1
	case models.PriorityLow:
		return 9
	default:
		return 5
	}
}
