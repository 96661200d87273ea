// Package gtasks implements the source provider and completion sink for
// a Google Tasks list.
package gtasks

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/tasks/v1"

	"tasktriage/pkg/auth"
	"tasktriage/pkg/source"
)

// SourceName identifies this system in provenance maps.
const SourceName = "gtasks"

// Client wraps the Tasks API for one task list.
type Client struct {
	srv    *tasks.Service
	listID string
}

// NewClient authenticates and resolves the named task list.
func NewClient(ctx context.Context, listName string) (*Client, error) {
	srv, err := auth.GetTasksService(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := srv.Tasklists.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve task lists: %w", err)
	}

	var listID string
	for _, item := range lists.Items {
		if item.Title == listName {
			listID = item.Id
			break
		}
	}
	if listID == "" {
		return nil, fmt.Errorf("task list %q not found", listName)
	}

	return &Client{srv: srv, listID: listID}, nil
}

func (c *Client) Name() string { return SourceName }

// FetchAll lists every task on the list, completed ones included - the
// engine needs completed flags to reconcile, not just open work.
func (c *Client) FetchAll(ctx context.Context) ([]source.RawRecord, error) {
	var records []source.RawRecord
	pageToken := ""
	for {
		call := c.srv.Tasks.List(c.listID).
			ShowCompleted(true).
			ShowHidden(true).
			MaxResults(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: gtasks list failed: %v", source.ErrSourceUnavailable, err)
		}
		for _, item := range page.Items {
			records = append(records, toRawRecord(item))
		}
		if page.NextPageToken == "" {
			return records, nil
		}
		pageToken = page.NextPageToken
	}
}

// MarkComplete flips the native task to completed. A task that is
// already completed reports already_complete; a vanished id reports
// not_found.
func (c *Client) MarkComplete(ctx context.Context, nativeID string) (source.CompletionStatus, error) {
	task, err := c.srv.Tasks.Get(c.listID, nativeID).Context(ctx).Do()
	if err != nil {
		if gErr, ok := err.(*googleapi.Error); ok && gErr.Code == 404 {
			return source.StatusNotFound, nil
		}
		return "", fmt.Errorf("gtasks get %s failed: %w", nativeID, err)
	}
	if task.Status == "completed" {
		return source.StatusAlreadyComplete, nil
	}

	task.Status = "completed"
	if _, err := c.srv.Tasks.Update(c.listID, nativeID, task).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("gtasks update %s failed: %w", nativeID, err)
	}
	return source.StatusSuccess, nil
}

func toRawRecord(t *tasks.Task) source.RawRecord {
	record := source.RawRecord{
		NativeID:  t.Id,
		Title:     t.Title,
		Completed: t.Status == "completed",
	}

	if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			record.Due = &source.Timestamp{Time: due}
		}
	}
	if t.Updated != "" {
		if updated, err := time.Parse(time.RFC3339, t.Updated); err == nil {
			record.Modified = source.Timestamp{Time: updated}
		}
	}

	// Google Tasks has no native priority or label fields; both ride in
	// the notes body.
	record.Priority, record.Labels = ParseNotes(t.Notes)
	return record
}
