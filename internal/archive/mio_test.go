package archive

import (
	"math/rand"
	"testing"
)

func TestMIOArchive_RecordOrdersByHThenLength(t *testing.T) {
	a := NewMIOArchive()
	tc1 := shortCase(5)
	tc2 := shortCase(2)
	a.Record("g1", tc1, 0.3)
	a.Record("g1", tc2, 0.3)

	pop := a.Population("g1")
	if len(pop) != 2 {
		t.Fatalf("want 2 individuals, got %d", len(pop))
	}
	if pop[0].Case != tc2 {
		t.Error("equal h-values should tie-break by ascending length")
	}
}

func TestMIOArchive_AdvanceParamsInterpolates(t *testing.T) {
	a := NewMIOArchive()
	a.AdvanceParams(0.5)
	if a.Params().Pr != explorationParams.Pr {
		t.Errorf("below focus threshold should stay in exploration, got %+v", a.Params())
	}
	a.AdvanceParams(1.0)
	if a.Params().Pr != exploitationParams.Pr {
		t.Errorf("progress 1.0 should reach full exploitation, got %+v", a.Params())
	}
	if a.Params().N != 1 {
		t.Errorf("exploitation should shrink N to 1, got %d", a.Params().N)
	}
}

func TestMIOArchive_SampleRespectsExplorationProbability(t *testing.T) {
	a := NewMIOArchive()
	a.params = MIOParams{Pr: 1, N: 5, M: 1}
	a.Record("g1", shortCase(1), 0.5)
	rng := rand.New(rand.NewSource(1))
	_, ok := a.Sample("g1", rng)
	if ok {
		t.Error("Pr=1 should always request a fresh random individual")
	}
}

func TestMIOArchive_SamplePrefersLowSampleCount(t *testing.T) {
	a := NewMIOArchive()
	a.params = MIOParams{Pr: 0, N: 5, M: 1}
	tc1 := shortCase(1)
	tc2 := shortCase(1)
	a.Record("g1", tc1, 0.5)
	a.Record("g1", tc2, 0.5)
	pop, _ := a.populations.Get("g1")
	pop[0].Samples = 10
	a.populations.Set("g1", pop)

	rng := rand.New(rand.NewSource(1))
	ind, ok := a.Sample("g1", rng)
	if !ok {
		t.Fatal("want a sampled individual")
	}
	if ind.Case != tc2 {
		t.Error("sample should prefer the entry with the lower sample count")
	}
}

func TestMIOArchive_GoalsAndTotalReflectRecordedGoals(t *testing.T) {
	a := NewMIOArchive()
	a.Record("g1", shortCase(1), 0.5)
	a.Record("g2", shortCase(1), 1.0)

	if got := a.Total(); got != 2 {
		t.Errorf("want 2 total goals, got %d", got)
	}
	goals := a.Goals()
	if len(goals) != 2 || goals[0] != "g1" || goals[1] != "g2" {
		t.Errorf("want goals in insertion order [g1 g2], got %v", goals)
	}
	if got := a.Covered(); got != 1 {
		t.Errorf("want 1 covered goal (h>=1), got %d", got)
	}
}
