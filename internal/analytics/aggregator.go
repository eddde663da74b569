// Package analytics aggregates completed responses into dashboard figures. All functions
// are pure; callers supply the clock and the response set.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

const (
	DefaultTimelineDays = 30
	DefaultScoreBuckets = 5

	// Larger requests are clamped to these bounds.
	MaxTimelineDays = 366
	MaxScoreBuckets = 50

	// Completion times below MinCompletionSeconds are excluded from CompletionTimes.
	MinCompletionSeconds = 5.0
)

// OptionCount is how often one answer value was given.
type OptionCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// QuestionDistribution is the answer breakdown for one question node.
type QuestionDistribution struct {
	NodeID       string        `json:"nodeId"`
	QuestionText string        `json:"questionText"`
	Responses    int           `json:"responses"`
	Counts       []OptionCount `json:"counts"`
}

// TimelinePoint counts submissions on one UTC day.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CompletionStats describes how long respondents took, in seconds.
type CompletionStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ScoreBucket is one histogram bar. Ranges are [Min, Max) except the last, which is
// closed.
type ScoreBucket struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// ScoreDistribution is the histogram of scored responses.
type ScoreDistribution struct {
	Scored   int           `json:"scored"`
	MaxScore float64       `json:"maxScore"`
	Average  float64       `json:"average"`
	Buckets  []ScoreBucket `json:"buckets"`
}

// Summary bundles every figure shown on the analytics page.
type Summary struct {
	TotalResponses  int                    `json:"totalResponses"`
	Questions       []QuestionDistribution `json:"questions"`
	Timeline        []TimelinePoint        `json:"timeline"`
	CompletionTimes CompletionStats        `json:"completionTimes"`
	Scores          ScoreDistribution      `json:"scores"`
	GeneratedAt     time.Time              `json:"generatedAt"`
}

// Options tunes Summarize. Zero values fall back to the defaults.
type Options struct {
	Days    int
	Buckets int
	Now     time.Time
}

// AnswerDistribution counts answer values per node. List answers count each selected
// element once; empty answers are skipped. Counts are ordered by frequency, then value.
// The question text is taken from the most recent response that carries it.
func AnswerDistribution(responses []models.CompletedResponse) []QuestionDistribution {
	type acc struct {
		text      string
		responses int
		counts    map[string]int
	}
	byNode := make(map[string]*acc)
	var order []string

	for _, r := range responses {
		for _, a := range r.Answers {
			if a.Value.IsEmpty() {
				continue
			}
			entry, ok := byNode[a.NodeID]
			if !ok {
				entry = &acc{counts: make(map[string]int)}
				byNode[a.NodeID] = entry
				order = append(order, a.NodeID)
			}
			if a.QuestionText != "" {
				entry.text = a.QuestionText
			}
			entry.responses++
			for _, s := range a.Value.Strings() {
				entry.counts[s]++
			}
		}
	}

	out := make([]QuestionDistribution, 0, len(order))
	for _, id := range order {
		entry := byNode[id]
		counts := make([]OptionCount, 0, len(entry.counts))
		for v, c := range entry.counts {
			counts = append(counts, OptionCount{Value: v, Count: c})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].Count != counts[j].Count {
				return counts[i].Count > counts[j].Count
			}
			return counts[i].Value < counts[j].Value
		})
		out = append(out, QuestionDistribution{
			NodeID:       id,
			QuestionText: entry.text,
			Responses:    entry.responses,
			Counts:       counts,
		})
	}
	return out
}

// Timeline counts submissions per UTC day over the last days days, oldest first. Days
// without submissions are omitted.
func Timeline(responses []models.CompletedResponse, days int, now time.Time) []TimelinePoint {
	if days <= 0 {
		days = DefaultTimelineDays
	}
	if days > MaxTimelineDays {
		days = MaxTimelineDays
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	counts := make(map[string]int)
	for _, r := range responses {
		if r.SubmittedAt.Before(cutoff) || r.SubmittedAt.After(now) {
			continue
		}
		counts[r.SubmittedAt.UTC().Format("2006-01-02")]++
	}

	out := make([]TimelinePoint, 0, len(counts))
	for date, c := range counts {
		out = append(out, TimelinePoint{Date: date, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CompletionTimes summarizes elapsed time between start and submission. Responses under
// MinCompletionSeconds are ignored.
func CompletionTimes(responses []models.CompletedResponse) CompletionStats {
	secs := make([]float64, 0, len(responses))
	for _, r := range responses {
		if r.StartedAt.IsZero() {
			continue
		}
		d := r.Elapsed().Seconds()
		if d < MinCompletionSeconds {
			continue
		}
		secs = append(secs, d)
	}
	if len(secs) == 0 {
		return CompletionStats{}
	}
	sort.Float64s(secs)

	var sum float64
	for _, s := range secs {
		sum += s
	}
	return CompletionStats{
		Count:   len(secs),
		Average: sum / float64(len(secs)),
		Median:  Percentile(secs, 50),
		P90:     Percentile(secs, 90),
		Min:     secs[0],
		Max:     secs[len(secs)-1],
	}
}

// Percentile interpolates linearly between closest ranks. sorted must be ascending.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// ScoreDistributionOf buckets scored responses into bucketCount equal-width ranges over
// [0, max], where max is the largest MaxScore seen. A score equal to max lands in the
// last bucket.
func ScoreDistributionOf(responses []models.CompletedResponse, bucketCount int) ScoreDistribution {
	if bucketCount <= 0 {
		bucketCount = DefaultScoreBuckets
	}
	if bucketCount > MaxScoreBuckets {
		bucketCount = MaxScoreBuckets
	}

	var dist ScoreDistribution
	var sum float64
	for _, r := range responses {
		if r.Score == nil {
			continue
		}
		dist.Scored++
		sum += *r.Score
		if r.MaxScore != nil && *r.MaxScore > dist.MaxScore {
			dist.MaxScore = *r.MaxScore
		}
	}
	if dist.Scored == 0 || dist.MaxScore <= 0 {
		dist.Buckets = []ScoreBucket{}
		if dist.Scored > 0 {
			dist.Average = sum / float64(dist.Scored)
		}
		return dist
	}
	dist.Average = sum / float64(dist.Scored)

	width := dist.MaxScore / float64(bucketCount)
	dist.Buckets = make([]ScoreBucket, bucketCount)
	for i := range dist.Buckets {
		dist.Buckets[i].Min = width * float64(i)
		dist.Buckets[i].Max = width * float64(i+1)
	}
	dist.Buckets[bucketCount-1].Max = dist.MaxScore

	for _, r := range responses {
		if r.Score == nil {
			continue
		}
		idx := int(math.Floor(*r.Score / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		dist.Buckets[idx].Count++
	}
	return dist
}

// Summarize computes every figure for one assessment's responses.
func Summarize(responses []models.CompletedResponse, opts Options) Summary {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return Summary{
		TotalResponses:  len(responses),
		Questions:       AnswerDistribution(responses),
		Timeline:        Timeline(responses, opts.Days, now),
		CompletionTimes: CompletionTimes(responses),
		Scores:          ScoreDistributionOf(responses, opts.Buckets),
		GeneratedAt:     now.UTC(),
	}
}
