package course

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-coursesync/internal/syncengine"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// schedule is the calendar declaration file. Single events carry a date;
// recurring series declare weekdays between a start and end date and are
// expanded into individual events.
type schedule struct {
	Events []scheduleEvent `yaml:"events"`
}

type scheduleEvent struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time"`
	Location    string   `yaml:"location"`
	Description string   `yaml:"description"`
	Days        []string `yaml:"days"`
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
}

var weekdays = map[string]time.Weekday{
	"Mon": time.Monday, "Tue": time.Tuesday, "Wed": time.Wednesday,
	"Thu": time.Thursday, "Fri": time.Friday, "Sat": time.Saturday,
	"Sun": time.Sunday,
}

// syncCalendar reconciles the declared schedule against remote calendar
// events. Events are tracked in the sync map by title and date so re-runs
// update in place.
func (r *Runner) syncCalendar(ctx context.Context, path string) (Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ActionFailed, fmt.Errorf("read schedule %s: %w", path, err)
	}

	var sched schedule
	if err := yaml.Unmarshal(data, &sched); err != nil {
		return ActionFailed, fmt.Errorf("parse schedule %s: %w", path, err)
	}

	fingerprint := syncengine.Fingerprint(path)
	key, err := r.store.Rel(path)
	if err != nil {
		return ActionFailed, err
	}

	record, ok := r.store.Get(key)
	if ok && record.MTime == fingerprint {
		return ActionSkipped, nil
	}
	tracked := record.Items

	next := map[string]string{}
	for _, event := range sched.Events {
		occurrences, err := expandEvent(event)
		if err != nil {
			return ActionFailed, err
		}
		for _, occ := range occurrences {
			if err := r.upsertEvent(ctx, occ, tracked, next); err != nil {
				return ActionFailed, err
			}
		}
	}

	// Occurrences dropped from the schedule still hold remote events; delete
	// them the way stale quiz items are deleted.
	for eventKey, eventID := range tracked {
		if _, kept := next[eventKey]; kept {
			continue
		}
		if err := r.client.DeleteObject(ctx, interfaces.ObjectEvent, eventID); err != nil {
			r.logger.Warn("stale event delete failed", "event", eventKey, "error", err)
		}
	}

	if err := r.engine.Commit(key, record.ID, record.URL, fingerprint, next); err != nil {
		return ActionFailed, err
	}
	if !ok {
		return ActionCreated, nil
	}
	return ActionUpdated, nil
}

// occurrence is one concrete calendar entry after series expansion.
type occurrence struct {
	title       string
	startAt     string
	endAt       string
	location    string
	description string
	key         string
}

func expandEvent(event scheduleEvent) ([]occurrence, error) {
	if len(event.Days) == 0 {
		occ, err := buildOccurrence(event, event.Date)
		if err != nil {
			return nil, err
		}
		return []occurrence{occ}, nil
	}

	start, err := time.Parse("2006-01-02", event.StartDate)
	if err != nil {
		return nil, fmt.Errorf("series %q start_date: %w", event.Title, err)
	}
	end, err := time.Parse("2006-01-02", event.EndDate)
	if err != nil {
		return nil, fmt.Errorf("series %q end_date: %w", event.Title, err)
	}

	target := map[time.Weekday]bool{}
	for _, day := range event.Days {
		if wd, ok := weekdays[day]; ok {
			target[wd] = true
		}
	}

	var out []occurrence
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !target[day.Weekday()] {
			continue
		}
		occ, err := buildOccurrence(event, day.Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}

func buildOccurrence(event scheduleEvent, date string) (occurrence, error) {
	title := event.Title
	if title == "" {
		title = "Untitled Event"
	}
	if date == "" {
		return occurrence{}, fmt.Errorf("event %q has no date", title)
	}

	window := event.Time
	if window == "" {
		window = "12:00-13:00"
	}
	parts := strings.SplitN(window, "-", 2)
	if len(parts) != 2 {
		return occurrence{}, fmt.Errorf("event %q has malformed time %q", title, window)
	}

	return occurrence{
		title:       title,
		startAt:     fmt.Sprintf("%sT%s:00", date, strings.TrimSpace(parts[0])),
		endAt:       fmt.Sprintf("%sT%s:00", date, strings.TrimSpace(parts[1])),
		location:    event.Location,
		description: event.Description,
		key:         title + "@" + date,
	}, nil
}

func (r *Runner) upsertEvent(ctx context.Context, occ occurrence, tracked, next map[string]string) error {
	fields := interfaces.ObjectFields{
		"title":         occ.title,
		"start_at":      occ.startAt,
		"end_at":        occ.endAt,
		"location_name": occ.location,
		"description":   occ.description,
	}

	if eventID, ok := tracked[occ.key]; ok {
		if _, err := r.client.EditObject(ctx, interfaces.ObjectEvent, eventID, fields); err == nil {
			next[occ.key] = eventID
			return nil
		}
		r.logger.Warn("event update failed, re-creating", "event", occ.key)
	}

	created, err := r.client.CreateObject(ctx, interfaces.ObjectEvent, fields)
	if err != nil {
		return fmt.Errorf("create event %q: %w", occ.key, err)
	}
	next[occ.key] = created.ID
	return nil
}
