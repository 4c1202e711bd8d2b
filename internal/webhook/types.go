package webhook

import (
	"fmt"

	"secboard/internal/checklist"
)

// Endpoints holds the path (or absolute URL) of every webhook the dashboard
// talks to. Paths are joined to the client's base URL.
type Endpoints struct {
	Tasks            string `toml:"tasks"`
	Progress         string `toml:"progress"`
	UpdateTask       string `toml:"update_task"`
	Export           string `toml:"export"`
	MarkAll          string `toml:"mark_all"`
	ResetWeek        string `toml:"reset_week"`
	AutomationStatus string `toml:"automation_status"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Tasks:            "/security-tasks",
		Progress:         "/progress",
		UpdateTask:       "/update-task",
		Export:           "/export",
		MarkAll:          "/mark-all",
		ResetWeek:        "/reset-week",
		AutomationStatus: "/automation-status",
	}
}

// withDefaults fills empty entries from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&e.Tasks, d.Tasks)
	fill(&e.Progress, d.Progress)
	fill(&e.UpdateTask, d.UpdateTask)
	fill(&e.Export, d.Export)
	fill(&e.MarkAll, d.MarkAll)
	fill(&e.ResetWeek, d.ResetWeek)
	fill(&e.AutomationStatus, d.AutomationStatus)
	return e
}

// UpdateTaskRequest is the body of the update-task webhook. Completed and
// Notes are sent only when set.
type UpdateTaskRequest struct {
	TaskID      checklist.TaskID `json:"taskId"`
	Completed   *bool            `json:"completed,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	CompletedBy string           `json:"completedBy"`
}

// ToggleRequest builds an update that only changes completion.
func ToggleRequest(id checklist.TaskID, completed bool, by string) UpdateTaskRequest {
	return UpdateTaskRequest{TaskID: id, Completed: &completed, CompletedBy: by}
}

// NotesRequest builds an update that only changes notes.
func NotesRequest(id checklist.TaskID, notes string, by string) UpdateTaskRequest {
	return UpdateTaskRequest{TaskID: id, Notes: &notes, CompletedBy: by}
}

type markAllRequest struct {
	CompletedBy string `json:"completedBy"`
}

type ExportResult struct {
	CSVData  string `json:"csv_data"`
	Filename string `json:"filename"`
}

type AutomationItem struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Icon    string `json:"icon,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatusError is returned when a webhook answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
