package resolve

import "testing"

func TestEfficiency(t *testing.T) {
	cases := []struct {
		count, required, want int
	}{
		{10, 10, 100},
		{20, 10, 100}, // overmanned caps at 100
		{5, 10, 50},
		{1, 3, 33},
		{0, 10, 0},
		{0, 0, 100}, // no crew requirement
	}
	for _, c := range cases {
		if got := Efficiency(c.count, c.required); got != c.want {
			t.Fatalf("Efficiency(%d,%d) = %d, want %d", c.count, c.required, got, c.want)
		}
	}
}

func TestEffectiveCost(t *testing.T) {
	if got := EffectiveCost(20, 100); got != 20 {
		t.Fatalf("full efficiency changed cost: %d", got)
	}
	// ceil(10 * 1.5) = 15
	if got := EffectiveCost(10, 50); got != 15 {
		t.Fatalf("EffectiveCost(10,50) = %d, want 15", got)
	}
	// ceil(3 * 1.67) = 6
	if got := EffectiveCost(3, 33); got != 6 {
		t.Fatalf("EffectiveCost(3,33) = %d, want 6", got)
	}
	// ceil(2 * 2.0) = 4 at zero efficiency
	if got := EffectiveCost(2, 0); got != 4 {
		t.Fatalf("EffectiveCost(2,0) = %d, want 4", got)
	}
}

func TestEffectiveCost_Monotonic(t *testing.T) {
	for _, nominal := range []int{1, 2, 7, 20, 60} {
		prev := -1
		for e := 100; e >= 0; e -= 5 {
			got := EffectiveCost(nominal, e)
			if got < nominal {
				t.Fatalf("cost %d below nominal %d at e=%d", got, nominal, e)
			}
			if prev >= 0 && got < prev {
				t.Fatalf("cost decreased from %d to %d as efficiency fell to %d", prev, got, e)
			}
			prev = got
		}
	}
}
