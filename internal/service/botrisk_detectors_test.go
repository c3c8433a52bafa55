package service

import (
	"testing"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

func repeatInts(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeatFloats(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestActivityPatternDetector(t *testing.T) {
	d := &activityPatternDetector{}

	t.Run("quiet profile scores zero", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			DailyActionCounts: []int{2, 5, 1, 0, 3, 8, 4},
		})
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0 (%v)", sig.Points, sig.Indicators)
		}
	})

	t.Run("excessive daily volume", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			DailyActionCounts: []int{150, 3, 2},
		})
		if sig.Points != 10 {
			t.Errorf("Points = %.1f, want 10", sig.Points)
		}
	})

	t.Run("burst intervals plus uniform cadence caps at 25", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			DailyActionCounts: repeatInts(120, 7),
			ActionIntervals:   repeatFloats(2, 20),
		})
		if sig.Points != activityPatternCap {
			t.Errorf("Points = %.1f, want cap %.1f", sig.Points, activityPatternCap)
		}
	})
}

func TestContentPatternDetector(t *testing.T) {
	d := &contentPatternDetector{}

	t.Run("varied content scores zero", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			RecentTitles:   []string{"exam stress", "roommate drama", "cafeteria food"},
			ContentLengths: []int{120, 480, 77, 260, 915},
		})
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0 (%v)", sig.Points, sig.Indicators)
		}
	})

	t.Run("duplicate titles ignore case and spacing", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			RecentTitles: []string{"Check  This Out", "check this out", "CHECK THIS OUT", "unique"},
		})
		if sig.Points != 10 {
			t.Errorf("Points = %.1f, want 10", sig.Points)
		}
	})

	t.Run("fewer than three items never trips the duplicate check", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			RecentTitles: []string{"same", "same"},
		})
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0", sig.Points)
		}
	})
}

func TestTimingPatternDetector(t *testing.T) {
	d := &timingPatternDetector{}

	t.Run("clockwork intervals", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			ActionIntervals: repeatFloats(60, 15),
		})
		if sig.Points != 8 {
			t.Errorf("Points = %.1f, want 8", sig.Points)
		}
	})

	t.Run("always-on flat hour spread caps at 20", func(t *testing.T) {
		p := &model.ActivityProfile{ActionIntervals: repeatFloats(60, 15)}
		for i := range p.HourHistogram {
			p.HourHistogram[i] = 4
		}
		sig := d.Detect(p)
		if sig.Points != timingPatternCap {
			t.Errorf("Points = %.1f, want cap %.1f", sig.Points, timingPatternCap)
		}
	})

	t.Run("single-timezone sleeper is clean", func(t *testing.T) {
		p := &model.ActivityProfile{}
		// active 9am-11pm, asleep otherwise
		for h := 9; h < 23; h++ {
			p.HourHistogram[h] = 5
		}
		sig := d.Detect(p)
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0 (%v)", sig.Points, sig.Indicators)
		}
	})
}

func TestEngagementPatternDetector(t *testing.T) {
	d := &engagementPatternDetector{}

	t.Run("prolific but ignored", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{ContentCount: 15})
		if sig.Points != 10 {
			t.Errorf("Points = %.1f, want 10", sig.Points)
		}
	})

	t.Run("any received engagement clears the signal", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{ContentCount: 15, VotesReceived: 1})
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0", sig.Points)
		}
	})

	t.Run("unreciprocated replies", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{RepliesGiven: 25})
		if sig.Points != 5 {
			t.Errorf("Points = %.1f, want 5", sig.Points)
		}
	})
}

func TestDeviceIdentityDetector(t *testing.T) {
	d := &deviceIdentityDetector{}

	tests := []struct {
		shared int
		want   float64
	}{
		{0, 0},
		{1, 5},
		{2, 5},
		{3, 10},
		{8, 10},
	}
	for _, tt := range tests {
		sig := d.Detect(&model.ActivityProfile{SharedDeviceUsers: tt.shared})
		if sig.Points != tt.want {
			t.Errorf("SharedDeviceUsers=%d: Points = %.1f, want %.1f", tt.shared, sig.Points, tt.want)
		}
	}
}

func TestSocialGraphDetector(t *testing.T) {
	d := &socialGraphDetector{}

	t.Run("isolated established account", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			AccountAgeDays: 60,
			ContentCount:   10,
		})
		if sig.Points != 6 {
			t.Errorf("Points = %.1f, want 6", sig.Points)
		}
	})

	t.Run("new account gets the benefit of the doubt", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			AccountAgeDays: 5,
			ContentCount:   10,
		})
		if sig.Points != 0 {
			t.Errorf("Points = %.1f, want 0", sig.Points)
		}
	})

	t.Run("single-counterpart interactions", func(t *testing.T) {
		sig := d.Detect(&model.ActivityProfile{
			RepliesGiven:     12,
			DistinctUsersMet: 1,
		})
		if sig.Points != 4 {
			t.Errorf("Points = %.1f, want 4", sig.Points)
		}
	})
}

func TestGroupCapsSumToHundred(t *testing.T) {
	total := activityPatternCap + contentPatternCap + timingPatternCap +
		engagementPatternCap + deviceIdentityCap + socialGraphCap
	if total != 100 {
		t.Errorf("group caps sum to %.1f, want 100", total)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if cv := coefficientOfVariation(nil); cv != -1 {
		t.Errorf("cv of empty input = %.2f, want -1", cv)
	}
	if cv := coefficientOfVariation([]float64{0, 0, 0}); cv != -1 {
		t.Errorf("cv of zero-mean input = %.2f, want -1", cv)
	}
	if cv := coefficientOfVariation(repeatFloats(5, 10)); !almostEqual(cv, 0, 0.0001) {
		t.Errorf("cv of constant input = %.4f, want 0", cv)
	}
}
