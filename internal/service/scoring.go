package service

import (
	"slices"

	"github.com/samber/lo"

	"vocab-learning/internal/domain"
)

// Score is the outcome of grading one submission.
type Score struct {
	Correct int
	Total   int
	Percent float64
}

// ScoreAnswers grades answers against the full test set of a topic. Total is
// the number of tests in the topic, so unanswered tests count as wrong.
// Submitted ids that are not part of the set are returned sorted; the score is
// meaningless when any are present.
func ScoreAnswers(tests []*domain.Test, answers map[int64]string) (Score, []int64) {
	byID := lo.KeyBy(tests, func(t *domain.Test) int64 { return t.ID })

	var invalid []int64
	correct := 0
	for id, answer := range answers {
		test, ok := byID[id]
		if !ok {
			invalid = append(invalid, id)
			continue
		}
		if test.CheckAnswer(answer) {
			correct++
		}
	}
	slices.Sort(invalid)

	s := Score{Correct: correct, Total: len(tests)}
	if s.Total > 0 {
		s.Percent = float64(correct) / float64(s.Total) * 100
	}
	return s, invalid
}

// AssignCompetitionRanks sets Rank on entries already sorted by average score
// descending. Equal averages share a rank; the next distinct average is ranked
// by its position, so ties skip ranks (90, 90, 80 -> 1, 1, 3).
func AssignCompetitionRanks(entries []*domain.Leaderboard) {
	for i, e := range entries {
		if i > 0 && e.AverageScore == entries[i-1].AverageScore {
			e.Rank = entries[i-1].Rank
			continue
		}
		e.Rank = i + 1
	}
}

// ScoreDistribution buckets average scores. Each band includes its lower edge.
type ScoreDistribution struct {
	Excellent    int `json:"excellent"`
	Good         int `json:"good"`
	Average      int `json:"average"`
	BelowAverage int `json:"below_average"`
}

func Distribute(averages []float64) ScoreDistribution {
	var d ScoreDistribution
	for _, avg := range averages {
		switch {
		case avg >= 90:
			d.Excellent++
		case avg >= 70:
			d.Good++
		case avg >= 50:
			d.Average++
		default:
			d.BelowAverage++
		}
	}
	return d
}
