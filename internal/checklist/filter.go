package checklist

import (
	"fmt"
	"strings"
)

// Criteria is the active combination of filters. Empty fields behave like
// "all".
type Criteria struct {
	Category   string
	Priority   string
	Status     Status
	SearchText string
}

func DefaultCriteria() Criteria {
	return Criteria{Category: All, Priority: All, Status: StatusAll}
}

// Clear resets priority, status and search. The selected category stays.
func (c Criteria) Clear() Criteria {
	c.Priority = All
	c.Status = StatusAll
	c.SearchText = ""
	return c
}

func (c Criteria) IsDefault() bool {
	return isAll(c.Category) && isAll(c.Priority) && isAll(string(c.Status)) && len(Tokenize(c.SearchText)) == 0
}

type Group struct {
	Category Category
	Tasks    []Task
}

type Result struct {
	Groups     []Group
	AnyVisible bool
}

// Count returns the number of visible tasks.
func (r Result) Count() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Tasks)
	}
	return n
}

// Tokenize lowercases text and splits it on whitespace runs.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(text)))
}

// Filter selects the visible tasks of snap. Category and task order is kept
// as delivered, and categories left without tasks are omitted entirely.
func Filter(c Criteria, snap Snapshot) Result {
	tokens := Tokenize(c.SearchText)
	var groups []Group
	for _, cat := range snap.Categories {
		if !isAll(c.Category) && c.Category != cat.Name {
			continue
		}
		var visible []Task
		for _, t := range cat.Tasks {
			if matches(c, tokens, t) {
				visible = append(visible, t)
			}
		}
		if len(visible) == 0 {
			continue
		}
		groups = append(groups, Group{Category: cat, Tasks: visible})
	}
	return Result{Groups: groups, AnyVisible: len(groups) > 0}
}

// Matches reports whether t passes the priority, status and search
// predicates of c. The category predicate applies per group and is not
// checked here.
func Matches(c Criteria, t Task) bool {
	return matches(c, Tokenize(c.SearchText), t)
}

func matches(c Criteria, tokens []string, t Task) bool {
	if !isAll(c.Priority) && string(t.Priority) != c.Priority {
		return false
	}
	switch c.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusPending:
		if t.Completed {
			return false
		}
	}
	if len(tokens) == 0 {
		return true
	}
	hay := searchText(t)
	for _, tok := range tokens {
		if !strings.Contains(hay, tok) {
			return false
		}
	}
	return true
}

func searchText(t Task) string {
	return strings.ToLower(strings.Join([]string{t.Name, t.Description, t.AutomationMethod, t.Notes}, " "))
}

func isAll(v string) bool {
	return v == "" || v == All
}

var (
	priorityCycle = []string{All, string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}
	statusCycle   = []Status{StatusAll, StatusPending, StatusCompleted}
)

func NextPriority(current string) string {
	for i, p := range priorityCycle {
		if p == current {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return priorityCycle[0]
}

func NextStatus(current Status) Status {
	for i, s := range statusCycle {
		if s == current {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return statusCycle[0]
}

// CategoryOption is one entry of the category selector.
type CategoryOption struct {
	Key   string
	Label string
}

// CategoryOptions lists "all" followed by every category of snap, labelled
// with the server's completed/total counters.
func CategoryOptions(snap Snapshot) []CategoryOption {
	opts := make([]CategoryOption, 0, len(snap.Categories)+1)
	opts = append(opts, CategoryOption{Key: All, Label: "All Categories"})
	for _, c := range snap.Categories {
		opts = append(opts, CategoryOption{
			Key:   c.Name,
			Label: fmt.Sprintf("%s (%d/%d)", c.Name, c.CompletedTasks, c.TotalTasks),
		})
	}
	return opts
}

// NextCategory returns the key after current in the selector order, or the
// one before it when step is negative. Unknown keys restart at "all".
func NextCategory(snap Snapshot, current string, step int) string {
	opts := CategoryOptions(snap)
	idx := -1
	for i, o := range opts {
		if o.Key == current || (isAll(current) && o.Key == All) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return All
	}
	n := len(opts)
	return opts[((idx+step)%n+n)%n].Key
}
