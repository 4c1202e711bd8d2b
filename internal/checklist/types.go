package checklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const All = "all"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// TaskID is the workflow engine's task identifier. It may arrive as a JSON
// number or a JSON string and is written back in the same form.
type TaskID struct {
	raw     string
	numeric bool
}

func NumericID(n int) TaskID {
	return TaskID{raw: strconv.Itoa(n), numeric: true}
}

func StringID(s string) TaskID {
	return TaskID{raw: s}
}

func (id TaskID) String() string {
	return id.raw
}

func (id TaskID) IsZero() bool {
	return id.raw == ""
}

func (id TaskID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = TaskID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID{raw: n.String(), numeric: true}
	return nil
}

type Task struct {
	ID               TaskID   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Priority         Priority `json:"priority"`
	Completed        bool     `json:"completed"`
	Notes            string   `json:"notes,omitempty"`
	AutomationMethod string   `json:"automation_method,omitempty"`
}

// Category counters are supplied by the server and shown verbatim.
// Progress is a percentage and may be fractional.
type Category struct {
	Name           string  `json:"name"`
	Color          string  `json:"color,omitempty"`
	Tasks          []Task  `json:"tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	TotalTasks     int     `json:"total_tasks"`
	Progress       float64 `json:"progress"`
}

type Snapshot struct {
	Categories      []Category `json:"categories"`
	OverallProgress float64    `json:"overall_progress"`
	CompletedTasks  int        `json:"completed_tasks"`
	TotalTasks      int        `json:"total_tasks"`
}

type Progress struct {
	OverallProgress float64 `json:"overall_progress"`
	CompletedTasks  int     `json:"completed_tasks"`
	TotalTasks      int     `json:"total_tasks"`
}

func (s Snapshot) Progress() Progress {
	return Progress{
		OverallProgress: s.OverallProgress,
		CompletedTasks:  s.CompletedTasks,
		TotalTasks:      s.TotalTasks,
	}
}

// Clone returns a deep copy so callers can edit tasks without touching s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Categories = make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		c.Tasks = append([]Task(nil), c.Tasks...)
		out.Categories[i] = c
	}
	return out
}
