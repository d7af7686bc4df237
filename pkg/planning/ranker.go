package planning

import (
	"sort"
	"time"
)

// RankingWeights controls how tasks are scored for placement order.
// Deadline weights dominate so a closer deadline always outranks a
// farther one regardless of priority and category.
type RankingWeights struct {
	DeadlineUnder24h  int
	DeadlineUnder48h  int
	DeadlineUnderWeek int
	DeadlineLater     int

	PriorityHigh   int
	PriorityMedium int
	PriorityLow    int

	CategoryWork    int
	CategoryStudy   int
	CategoryLeisure int

	// Long tasks get nudged down so smaller tasks can fill the day first
	OversizePenaltyOver2h int
	OversizePenaltyOver3h int
}

// DefaultRankingWeights returns the scoring defaults
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		DeadlineUnder24h:  100,
		DeadlineUnder48h:  70,
		DeadlineUnderWeek: 40,
		DeadlineLater:     10,

		PriorityHigh:   30,
		PriorityMedium: 20,
		PriorityLow:    10,

		CategoryWork:    15,
		CategoryStudy:   10,
		CategoryLeisure: 5,

		OversizePenaltyOver2h: 10,
		OversizePenaltyOver3h: 20,
	}
}

// Score computes the placement score of a task relative to now
func (w RankingWeights) Score(task Task, now time.Time) int {
	score := 0

	untilDeadline := task.Deadline.Sub(now)
	switch {
	case untilDeadline < time.Hour*24:
		score += w.DeadlineUnder24h
	case untilDeadline < time.Hour*48:
		score += w.DeadlineUnder48h
	case untilDeadline < time.Hour*24*7:
		score += w.DeadlineUnderWeek
	default:
		score += w.DeadlineLater
	}

	switch task.Priority {
	case PriorityHigh:
		score += w.PriorityHigh
	case PriorityMedium:
		score += w.PriorityMedium
	case PriorityLow:
		score += w.PriorityLow
	}

	switch task.Category {
	case CategoryWork:
		score += w.CategoryWork
	case CategoryStudy:
		score += w.CategoryStudy
	case CategoryLeisure:
		score += w.CategoryLeisure
	}

	if task.Duration > time.Hour*3 {
		score -= w.OversizePenaltyOver3h
	} else if task.Duration > time.Hour*2 {
		score -= w.OversizePenaltyOver2h
	}

	return score
}

// RankTasks orders tasks for placement, highest score first. Ties keep
// the input order.
func (w RankingWeights) RankTasks(tasks []Task, now time.Time) []Task {
	ranked := make([]Task, len(tasks))
	copy(ranked, tasks)

	sort.SliceStable(ranked, func(i, j int) bool {
		return w.Score(ranked[i], now) > w.Score(ranked[j], now)
	})

	return ranked
}
