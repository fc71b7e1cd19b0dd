package usage

import "time"

const (
	// PlanStarter is the plan every candidate starts on.
	PlanStarter = "Starter"
	// DefaultLimit is the number of on-demand recommendation runs per window.
	DefaultLimit = 10
	// Window is the length of an allowance period.
	Window = 7 * 24 * time.Hour
)

func defaultUsage(limit int, now time.Time) Usage {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Usage{
		Plan:     PlanStarter,
		Limit:    limit,
		Used:     0,
		ResetsAt: now.Add(Window),
	}
}

func expired(u Usage, now time.Time) bool {
	return !now.Before(u.ResetsAt)
}
