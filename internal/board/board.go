// Package board produces the mocked Active Directory / Freshservice
// automation dashboard. Values are simulated; nothing is read from AD.
package board

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	ResultSuccess = "SUCCESS"
	ResultError   = "ERROR"

	StateReady    = "Ready"
	StateRunning  = "Running"
	StateDisabled = "Disabled"
)

type ServerInfo struct {
	ServerName string
	DomainName string
	Uptime     string
}

type ADStats struct {
	UsersCreatedToday   int
	PasswordsResetToday int
	UsersDisabledToday  int
	DomainUnlocksToday  int
	TotalUsers          int
	EnabledUsers        int
	DisabledUsers       int
	LockedUsers         int
}

type TaskInfo struct {
	State          string
	LastRunTime    time.Time
	NextRunTime    time.Time
	LastTaskResult string
}

type LogEntry struct {
	Time   time.Time
	Action string
	Status string
}

type Data struct {
	Server      ServerInfo
	AD          ADStats
	Task        TaskInfo
	Logs        []LogEntry
	GeneratedAt time.Time
}

// Healthy reports whether the last automation cycle succeeded.
func (d Data) Healthy() bool {
	return d.Task.LastTaskResult == ResultSuccess
}

// Bar is one labelled value of a chart.
type Bar struct {
	Label string
	Value int
}

// ActivityChart is today's activity breakdown.
func (d Data) ActivityChart() []Bar {
	return []Bar{
		{"Users Created", d.AD.UsersCreatedToday},
		{"Passwords Reset", d.AD.PasswordsResetToday},
		{"Users Disabled", d.AD.UsersDisabledToday},
		{"Domain Unlocks", d.AD.DomainUnlocksToday},
	}
}

// AccountsChart is the AD user account breakdown.
func (d Data) AccountsChart() []Bar {
	return []Bar{
		{"Total", d.AD.TotalUsers},
		{"Enabled", d.AD.EnabledUsers},
		{"Disabled", d.AD.DisabledUsers},
		{"Locked", d.AD.LockedUsers},
	}
}

type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

func (g *Generator) Next() Data {
	now := g.now()
	states := []string{StateReady, StateRunning, StateDisabled}
	result := ResultSuccess
	if g.rng.Float64() > 0.9 {
		result = ResultError
	}
	return Data{
		Server: ServerInfo{
			ServerName: "DC-ADSERVER-PROD",
			DomainName: "desicrew.in",
			Uptime:     fmt.Sprintf("%dd %dh %dm", g.rng.IntN(45)+5, g.rng.IntN(24), g.rng.IntN(60)),
		},
		AD: ADStats{
			UsersCreatedToday:   g.rng.IntN(8),
			PasswordsResetToday: g.rng.IntN(25),
			UsersDisabledToday:  g.rng.IntN(4),
			DomainUnlocksToday:  g.rng.IntN(18),
			TotalUsers:          2354,
			EnabledUsers:        1736,
			DisabledUsers:       618,
			LockedUsers:         g.rng.IntN(10),
		},
		Task: TaskInfo{
			State:          states[g.rng.IntN(len(states))],
			LastRunTime:    now.Add(-time.Duration(g.rng.Int64N(int64(time.Hour)))),
			NextRunTime:    now.Add(time.Hour),
			LastTaskResult: result,
		},
		Logs: []LogEntry{
			{now.Add(-1 * time.Minute), "Automation Cycle Completed", ResultSuccess},
			{now.Add(-2 * time.Minute), "AD User 'J.Doe' created", ResultSuccess},
			{now.Add(-3 * time.Minute), "Freshservice API Check", ResultSuccess},
			{now.Add(-4 * time.Minute), "Password reset for 'S.Smith'", ResultSuccess},
			{now.Add(-5 * time.Minute), "Backup system check failed", ResultError},
		},
		GeneratedAt: now,
	}
}
