package service

import (
	"math"
	"strings"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// Per-group point caps. They sum to 100, so a maximally suspicious profile
// hits every tier boundary without clamping doing the work.
const (
	activityPatternCap   = 25.0
	contentPatternCap    = 20.0
	timingPatternCap     = 20.0
	engagementPatternCap = 15.0
	deviceIdentityCap    = 10.0
	socialGraphCap       = 10.0
)

// activityPatternDetector flags raw action volume: too many actions per day,
// short-interval bursts, and unnaturally even day-to-day cadence.
type activityPatternDetector struct{}

func (d *activityPatternDetector) Name() string { return "activity_pattern" }

func (d *activityPatternDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	maxDaily := 0
	for _, n := range p.DailyActionCounts {
		if n > maxDaily {
			maxDaily = n
		}
	}
	if maxDaily > 100 {
		sig.add(10, "excessive daily action count")
	} else if mean(intsToFloats(p.DailyActionCounts)) > 50 {
		sig.add(5, "sustained high daily action count")
	}

	if len(p.ActionIntervals) >= 10 {
		short := 0
		for _, gap := range p.ActionIntervals {
			if gap < 5 {
				short++
			}
		}
		if float64(short)/float64(len(p.ActionIntervals)) > 0.3 {
			sig.add(10, "repeated short-interval action bursts")
		}
	}

	if len(p.DailyActionCounts) >= 7 {
		if cv := coefficientOfVariation(intsToFloats(p.DailyActionCounts)); cv >= 0 && cv < 0.15 {
			sig.add(10, "unnaturally uniform daily cadence")
		}
	}

	return sig.capped(activityPatternCap)
}

// contentPatternDetector flags near-duplicate or templated output and
// suspiciously uniform content lengths.
type contentPatternDetector struct{}

func (d *contentPatternDetector) Name() string { return "content_pattern" }

func (d *contentPatternDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	if dupRatio(p.RecentTitles) > 0.3 {
		sig.add(10, "near-duplicate titles across recent confessions")
	}
	if dupRatio(p.RecentBodies) > 0.3 {
		sig.add(5, "near-duplicate bodies across recent confessions")
	}

	if len(p.ContentLengths) >= 5 {
		if cv := coefficientOfVariation(intsToFloats(p.ContentLengths)); cv >= 0 && cv < 0.1 {
			sig.add(5, "anomalously uniform content length")
		}
	}

	return sig.capped(contentPatternCap)
}

// timingPatternDetector flags clockwork posting rhythms: near-constant
// gaps, no rest period, and an hour-of-day spread flat enough to be
// inconsistent with any single timezone.
type timingPatternDetector struct{}

func (d *timingPatternDetector) Name() string { return "timing_pattern" }

func (d *timingPatternDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	if len(p.ActionIntervals) >= 10 {
		if cv := coefficientOfVariation(p.ActionIntervals); cv >= 0 && cv < 0.1 {
			sig.add(8, "near-constant inter-action intervals")
		}
	}

	activeHours := 0
	total := 0
	for _, n := range p.HourHistogram {
		if n > 0 {
			activeHours++
		}
		total += n
	}
	if activeHours >= 20 && total >= 48 {
		sig.add(8, "always-on activity with no rest period")
	}

	if total >= 48 {
		hours := make([]float64, 24)
		for i, n := range p.HourHistogram {
			hours[i] = float64(n)
		}
		if cv := coefficientOfVariation(hours); cv >= 0 && cv < 0.25 {
			sig.add(4, "hour-of-day spread inconsistent with a single timezone")
		}
	}

	return sig.capped(timingPatternCap)
}

// engagementPatternDetector flags high output that nobody engages with,
// and interaction that only ever flows one way.
type engagementPatternDetector struct{}

func (d *engagementPatternDetector) Name() string { return "engagement_pattern" }

func (d *engagementPatternDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	if p.ContentCount >= 10 && p.VotesReceived+p.CommentsReceived == 0 {
		sig.add(10, "high output with no received engagement")
	}
	if p.RepliesGiven >= 20 && p.RepliesReceived == 0 {
		sig.add(5, "one-directional interaction, never reciprocated")
	}

	return sig.capped(engagementPatternCap)
}

// deviceIdentityDetector flags clusters of accounts behind one device
// fingerprint.
type deviceIdentityDetector struct{}

func (d *deviceIdentityDetector) Name() string { return "device_identity" }

func (d *deviceIdentityDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	switch {
	case p.SharedDeviceUsers >= 3:
		sig.add(10, "multiple accounts traceable to one device")
	case p.SharedDeviceUsers >= 1:
		sig.add(5, "account shares a device with another account")
	}

	return sig.capped(deviceIdentityCap)
}

// socialGraphDetector flags isolation from the interaction graph and
// mechanically narrow interaction shapes.
type socialGraphDetector struct{}

func (d *socialGraphDetector) Name() string { return "social_graph" }

func (d *socialGraphDetector) Detect(p *model.ActivityProfile) Signal {
	var sig Signal

	if p.AccountAgeDays > 30 && p.ContentCount > 5 && p.DistinctUsersMet == 0 {
		sig.add(6, "isolated from the interaction graph")
	}
	if p.RepliesGiven > 0 && p.DistinctUsersMet == 1 {
		sig.add(4, "interactions confined to a single counterpart")
	}

	return sig.capped(socialGraphCap)
}

// --- Signal helpers ---

func (s *Signal) add(points float64, indicator string) {
	s.Points += points
	s.Indicators = append(s.Indicators, indicator)
}

func (s Signal) capped(limit float64) Signal {
	if s.Points > limit {
		s.Points = limit
	}
	return s
}

// --- small stats helpers ---

func intsToFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// coefficientOfVariation returns stddev/mean, or -1 when undefined
// (empty input or zero mean).
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 || len(xs) == 0 {
		return -1
	}
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss/float64(len(xs))) / m
}

// dupRatio is the share of entries that repeat an earlier entry after
// whitespace and case normalization.
func dupRatio(items []string) float64 {
	if len(items) < 3 {
		return 0
	}
	seen := make(map[string]bool, len(items))
	dups := 0
	for _, item := range items {
		key := strings.Join(strings.Fields(strings.ToLower(item)), " ")
		if key == "" {
			continue
		}
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return float64(dups) / float64(len(items))
}
