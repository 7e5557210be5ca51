package bootstrap

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Observer receives progress during bootstrap and destroy runs.
type Observer interface {
	// Printf logs a free-form progress message.
	Printf(format string, v ...any)

	// Event emits a structured step event.
	Event(event Event)
}

// Event represents one structured step event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name, the resource kind (e.g. "environment")
	Resource  string            // Remote resource id if known
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of step event.
type EventType string

const (
	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created and recorded.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a recorded resource is unchanged and the
	// step was skipped.
	EventResourceExists EventType = "resource.exists"
	// EventResourceUpdated indicates a recorded resource was updated in place.
	EventResourceUpdated EventType = "resource.updated"
	// EventResourceFailed indicates a step failed.
	EventResourceFailed EventType = "resource.failed"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted and its record
	// removed.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceSkipped indicates a delete was skipped by request.
	EventResourceSkipped EventType = "resource.skipped"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(formatEvent(event))
}

// formatEvent formats an event for console output.
func formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Step))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("id=%s", event.Resource))
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}
