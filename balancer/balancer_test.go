package balancer

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/partition"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

func items(sizes ...any) []types.Item {
	out := make([]types.Item, 0, len(sizes)/2)
	for i := 0; i+1 < len(sizes); i += 2 {
		out = append(out, types.Item{ID: sizes[i].(string), RawSize: sizes[i+1]})
	}

	return out
}

func newBalancer(t *testing.T, w types.PartitionWriter, opts ...Option) *NodeBalancer {
	t.Helper()

	b, err := New(w, opts...)
	require.NoError(t, err)

	return b
}

func TestNew(t *testing.T) {
	t.Run("requires writer", func(t *testing.T) {
		b, err := New(nil)
		require.ErrorIs(t, err, types.ErrWriterRequired)
		require.Nil(t, b)
	})

	t.Run("defaults", func(t *testing.T) {
		b := newBalancer(t, partition.NewMemory())
		require.InDelta(t, float64(size.DiskMultiplier), b.diskMultiplier, 0)
		require.InDelta(t, DefaultIncrement, b.increment, 0)
		require.NotNil(t, b.logger)
		require.NotNil(t, b.metrics)
	})

	t.Run("invalid overrides fall back to defaults", func(t *testing.T) {
		b := newBalancer(t, partition.NewMemory(), WithDiskMultiplier(-1), WithIncrement(0), nil)
		require.InDelta(t, float64(size.DiskMultiplier), b.diskMultiplier, 0)
		require.InDelta(t, DefaultIncrement, b.increment, 0)
	})
}

func TestBalance_TwoNodes(t *testing.T) {
	w := partition.NewMemory()
	b := newBalancer(t, w, WithDiskMultiplier(1), WithLogger(logger.NewTest(t)))

	plan, groups, err := b.Balance(items("A", 50, "B", 40, "C", 30, "D", 10), 4, 2)
	require.NoError(t, err)

	require.Equal(t, 2, plan.NodeCount)
	require.InDelta(t, 65, plan.DiskPerNode, 1e-9)
	require.Equal(t, 2, plan.CPUPerNode)
	require.Zero(t, plan.Adjustments)
	require.NotZero(t, plan.Fingerprint)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"A", "D"}, groups[0].Members)
	assert.InDelta(t, 60, groups[0].AccumulatedWeight, 1e-9)
	assert.Equal(t, []string{"B", "C"}, groups[1].Members)
	assert.InDelta(t, 70, groups[1].AccumulatedWeight, 1e-9)

	members, ok := w.Group(1)
	require.True(t, ok)
	require.Equal(t, []string{"A", "D"}, members)
	members, ok = w.Group(2)
	require.True(t, ok)
	require.Equal(t, []string{"B", "C"}, members)
	require.Equal(t, []string{"group-1", "group-2"}, w.Index())
	require.Equal(t, "group-1", groups[0].Ref)
	require.Equal(t, 1, w.Resets())
}

func TestBalance_DefaultMultiplier(t *testing.T) {
	w := partition.NewMemory()
	b := newBalancer(t, w)

	plan, groups, err := b.Balance(items("SRR1", "1GB", "SRR2", "512MB", "SRR3", "524288KB"), 4, 4)
	require.NoError(t, err)

	// 1 GiB + 0.5 GiB + 0.5 GiB, each expanded 20x, on a single node
	require.Equal(t, 1, plan.NodeCount)
	require.InDelta(t, 2*size.GB*size.DiskMultiplier, plan.DiskPerNode, 1e-6)
	require.Len(t, groups, 1)
	require.Equal(t, []string{"SRR1", "SRR3", "SRR2"}, groups[0].Members)
	require.Equal(t, 4, plan.CPUPerNode, "one node per group keeps the base request")
}

func TestBalance_OverflowAdjustment(t *testing.T) {
	w := partition.NewMemory()
	b := newBalancer(t, w, WithDiskMultiplier(1), WithIncrement(10))

	plan, groups, err := b.Balance(items("X", 100, "Y", 1, "Z", 1), 8, 2)
	require.NoError(t, err)

	require.Equal(t, 4, plan.NodeCount)
	require.Equal(t, 8, plan.Adjustments)
	require.InDelta(t, 105.5, plan.DiskPerNode, 1e-9)
	require.Len(t, groups, 1)
	require.Equal(t, []string{"X", "Z", "Y"}, groups[0].Members)
	require.Equal(t, 4, plan.CPUPerNode)
}

func TestBalance_OverflowAdjustmentDefaultIncrement(t *testing.T) {
	b := newBalancer(t, partition.NewMemory(), WithDiskMultiplier(1))

	plan, _, err := b.Balance(items("BIG", 5000, "S1", 10, "S2", 10), 8, 2)
	require.NoError(t, err)

	// 5020 / 4 = 1255 -> +1024 x4 = 5351
	require.Equal(t, 4, plan.Adjustments)
	require.InDelta(t, 1255+4*size.GB, plan.DiskPerNode, 1e-9)
}

func TestBalance_CPUReallocation(t *testing.T) {
	b := newBalancer(t, partition.NewMemory(), WithDiskMultiplier(1), WithIncrement(1))

	// 10 nodes, few heavy items: far fewer groups than nodes
	plan, groups, err := b.Balance(items("A", 100, "B", 100, "C", 100), 40, 4)
	require.NoError(t, err)
	require.Equal(t, 10, plan.NodeCount)
	require.Equal(t, 70, plan.Adjustments)
	require.Len(t, groups, 2)
	require.Equal(t, []string{"A"}, groups[0].Members)
	require.Equal(t, []string{"B", "C"}, groups[1].Members)
	require.Equal(t, 8, plan.CPUPerNode)
}

func TestBalance_InvalidBudget(t *testing.T) {
	tests := []struct {
		name   string
		maxCPU int
		base   int
	}{
		{"base larger than budget", 3, 4},
		{"zero base", 8, 0},
		{"negative base", 8, -2},
		{"zero budget", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := partition.NewMemory()
			b := newBalancer(t, w)

			_, groups, err := b.Balance(items("A", 1), tt.maxCPU, tt.base)
			require.ErrorIs(t, err, types.ErrInvalidNodeBudget)
			require.Nil(t, groups)
			require.Zero(t, w.Resets(), "no output touched before budget check")
		})
	}
}

func TestBalance_EmptyInput(t *testing.T) {
	w := partition.NewMemory()
	b := newBalancer(t, w)

	plan, groups, err := b.Balance(nil, 8, 2)
	require.NoError(t, err)

	require.Empty(t, groups)
	require.Equal(t, 4, plan.NodeCount)
	require.Zero(t, plan.DiskPerNode)
	require.Equal(t, 2, plan.CPUPerNode)
	require.Zero(t, plan.Fingerprint)
	require.Equal(t, 1, w.Resets())
	require.Empty(t, w.Index())
	require.Zero(t, w.Len())
}

func TestBalance_SingleItem(t *testing.T) {
	w := partition.NewMemory()
	b := newBalancer(t, w, WithDiskMultiplier(1))

	plan, groups, err := b.Balance(items("ONLY", "3GB"), 2, 2)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	require.Equal(t, []string{"ONLY"}, groups[0].Members)
	require.InDelta(t, 3*size.GB, plan.DiskPerNode, 1e-9)
	require.Zero(t, plan.Adjustments)
}

func TestBalance_MissingAndMalformedSizes(t *testing.T) {
	log := logger.NewTest(t)
	spy := &spyMetrics{}
	b := newBalancer(t, partition.NewMemory(), WithLogger(log), WithMetrics(spy))

	plan, groups, err := b.Balance(items("A", nil, "B", "", "C", "junk", "D", []int{1}), 4, 2)
	require.NoError(t, err)

	require.Zero(t, plan.DiskPerNode)
	require.Zero(t, plan.Adjustments)
	require.Len(t, groups, 1, "weightless items share one group")
	require.Equal(t, []string{"A", "B", "C", "D"}, groups[0].Members)
	require.Zero(t, groups[0].AccumulatedWeight)
	require.Equal(t, 2, spy.malformed)
	require.Equal(t, 2, log.Count("WARN"))
}

func TestBalance_ZeroWeightItems(t *testing.T) {
	tests := []struct {
		name    string
		input   []types.Item
		want    [][]string
		maxCPU  int
		baseCPU int
	}{
		{
			name:    "all sizes unusable",
			input:   items("A", nil, "B", "", "C", "junk", "D", "x", "E", nil),
			want:    [][]string{{"A", "B", "C", "D", "E"}},
			maxCPU:  4,
			baseCPU: 2,
		},
		{
			name:    "all sizes zero",
			input:   items("A", 0, "B", "0MB", "C", 0.0),
			want:    [][]string{{"A", "B", "C"}},
			maxCPU:  8,
			baseCPU: 2,
		},
		// disk 2600/2 = 1300; weightless items are taken from the back first
		{
			name:    "zero sizes trail weighted groups",
			input:   items("A", 50, "B", nil, "C", 40, "D", "", "E", 30, "F", 10),
			want:    [][]string{{"A", "D", "B", "F"}, {"C", "E"}},
			maxCPU:  4,
			baseCPU: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := partition.NewMemory()
			b := newBalancer(t, w)

			plan, groups, err := b.Balance(tt.input, tt.maxCPU, tt.baseCPU)
			require.NoError(t, err)

			got := make([][]string, len(groups))
			for i, g := range groups {
				got[i] = g.Members
			}
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, len(groups), plan.NodeCount)
			require.Len(t, w.Index(), len(groups))
		})
	}
}

func TestBalance_IdenticalSizes(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		maxCPU   int
		baseCPU  int
		wantSize []int
	}{
		// 20 GB each, 60 GB per node: two fit strictly below the threshold
		{name: "twelve over four nodes", count: 12, maxCPU: 8, baseCPU: 2, wantSize: []int{2, 2, 2, 2, 2, 2}},
		{name: "nine over three nodes", count: 9, maxCPU: 6, baseCPU: 2, wantSize: []int{2, 2, 2, 2, 1}},
		// 20 GB each, 80 GB per node
		{name: "eight over two nodes", count: 8, maxCPU: 4, baseCPU: 2, wantSize: []int{3, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := make([]types.Item, tt.count)
			for i := range input {
				input[i] = types.Item{ID: "SRR" + strconv.Itoa(i+1), RawSize: "1GB"}
			}

			b := newBalancer(t, partition.NewMemory())
			plan, groups, err := b.Balance(input, tt.maxCPU, tt.baseCPU)
			require.NoError(t, err)
			require.Zero(t, plan.Adjustments)

			sizes := make([]int, len(groups))
			for i, g := range groups {
				sizes[i] = g.Len()
				require.Less(t, g.AccumulatedWeight, plan.DiskPerNode, "group %d", g.Index)
				require.InDelta(t, float64(g.Len())*20*size.GB, g.AccumulatedWeight, 1e-6)
			}
			require.Equal(t, tt.wantSize, sizes)
			require.LessOrEqual(t, slices.Max(sizes)-slices.Min(sizes), 1, "near-equal member counts")
			require.Len(t, memberIDs(groups), tt.count)
		})
	}
}

func TestBalance_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec // deterministic fixture

	for run := range 25 {
		t.Run(strconv.Itoa(run), func(t *testing.T) {
			n := rng.IntN(60)
			input := make([]types.Item, n)
			for i := range input {
				input[i] = types.Item{ID: "SRR" + strconv.Itoa(i), RawSize: rng.Float64() * 4096}
			}
			maxCPU := 2 + rng.IntN(64)
			base := 1 + rng.IntN(maxCPU)

			w := partition.NewMemory()
			b := newBalancer(t, w)
			plan, groups, err := b.Balance(input, maxCPU, base)
			require.NoError(t, err)

			// every item lands in exactly one group
			seen := make(map[string]int, n)
			for _, id := range memberIDs(groups) {
				seen[id]++
			}
			require.Len(t, seen, n)
			for id, c := range seen {
				require.Equal(t, 1, c, id)
			}

			// no item exceeds the adjusted threshold
			for _, it := range input {
				mb, err := size.Parse(it.RawSize)
				require.NoError(t, err)
				require.LessOrEqual(t, mb*size.DiskMultiplier, plan.DiskPerNode+1e-6)
			}

			// only the final group may reach the threshold through an addition
			for i, g := range groups {
				require.Equal(t, i+1, g.Index)
				require.NotEmpty(t, g.Members)
				if i < len(groups)-1 && g.Len() > 1 {
					require.Less(t, g.AccumulatedWeight, plan.DiskPerNode)
				}
				stored, ok := w.Group(g.Index)
				require.True(t, ok)
				require.Equal(t, g.Members, stored)
			}

			require.Len(t, w.Index(), len(groups))
			require.Equal(t, PlanCPU(plan.NodeCount, len(groups), base), plan.CPUPerNode)
		})
	}
}

func TestBalance_LoggerDoesNotChangeOutcome(t *testing.T) {
	input := items("A", "2GB", "B", 700, "C", "1.5GB", "D", 12, "E", "300MB", "F", 900)

	quiet := newBalancer(t, partition.NewMemory())
	planQ, groupsQ, err := quiet.Balance(input, 16, 4)
	require.NoError(t, err)

	loud := newBalancer(t, partition.NewMemory(), WithLogger(logger.NewTest(t)))
	planL, groupsL, err := loud.Balance(input, 16, 4)
	require.NoError(t, err)

	require.Equal(t, planQ, planL)
	require.Equal(t, groupsQ, groupsL)
}

func TestBalance_DoesNotMutateInput(t *testing.T) {
	input := items("A", 10, "B", 30, "C", 20)
	before := append([]types.Item(nil), input...)

	_, _, err := newBalancer(t, partition.NewMemory()).Balance(input, 4, 2)
	require.NoError(t, err)
	require.Equal(t, before, input)
}

func TestBalance_WriterFailures(t *testing.T) {
	boom := errors.New("disk full")

	t.Run("reset", func(t *testing.T) {
		b := newBalancer(t, &failingWriter{resetErr: boom})
		_, _, err := b.Balance(items("A", 1), 2, 1)
		require.ErrorIs(t, err, types.ErrPartitionWrite)
		require.ErrorIs(t, err, boom)
	})

	t.Run("group", func(t *testing.T) {
		b := newBalancer(t, &failingWriter{failGroup: 2, err: boom}, WithDiskMultiplier(1))
		_, groups, err := b.Balance(items("A", 50, "B", 40, "C", 30, "D", 10), 4, 2)
		require.ErrorIs(t, err, types.ErrPartitionWrite)
		require.ErrorIs(t, err, boom)
		require.Nil(t, groups)
	})

	t.Run("index", func(t *testing.T) {
		b := newBalancer(t, &failingWriter{indexErr: boom})
		_, _, err := b.Balance(items("A", 1), 2, 1)
		require.ErrorIs(t, err, types.ErrPartitionWrite)
		require.ErrorIs(t, err, boom)
	})
}

func TestBalance_Metrics(t *testing.T) {
	spy := &spyMetrics{}
	b := newBalancer(t, partition.NewMemory(), WithDiskMultiplier(1), WithIncrement(10), WithMetrics(spy))

	plan, _, err := b.Balance(items("X", 100, "Y", 1, "Z", 1), 8, 2)
	require.NoError(t, err)

	require.Equal(t, 3, spy.items)
	require.Equal(t, 8, spy.adjustments)
	require.Equal(t, 1, spy.groups)
	require.Equal(t, plan, spy.plan)
	require.Equal(t, 1, spy.durations)
}

func TestNodeCount(t *testing.T) {
	n, err := NodeCount(10, 4)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = NodeCount(64, 4)
	require.NoError(t, err)
	require.Equal(t, 16, n)

	_, err = NodeCount(3, 4)
	require.ErrorIs(t, err, types.ErrInvalidNodeBudget)

	_, err = NodeCount(8, 0)
	require.ErrorIs(t, err, types.ErrInvalidNodeBudget)
}

func TestPlanCPU(t *testing.T) {
	tests := []struct {
		nodes, groups, base, want int
	}{
		{4, 2, 4, 8},
		{4, 3, 4, 4},
		{4, 4, 4, 4},
		{10, 4, 4, 8},
		{10, 6, 4, 4},
		{2, 1, 3, 6},
		{1, 1, 2, 2},
		{4, 0, 4, 4},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, PlanCPU(tt.nodes, tt.groups, tt.base), "%+v", tt)
	}
}

func TestSortDescending_Stable(t *testing.T) {
	in := []types.Item{
		{ID: "a", DiskRequirement: 1},
		{ID: "b", DiskRequirement: 3},
		{ID: "c", DiskRequirement: 1},
		{ID: "d", DiskRequirement: 3},
	}

	got := sortDescending(in)
	require.Equal(t, []string{"b", "d", "a", "c"}, []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
	require.Equal(t, "a", in[0].ID, "input untouched")
}

func memberIDs(groups []types.Group) []string {
	var ids []string
	for _, g := range groups {
		ids = append(ids, g.Members...)
	}

	return ids
}

type failingWriter struct {
	resetErr  error
	indexErr  error
	err       error
	failGroup int
}

func (w *failingWriter) Reset() error { return w.resetErr }

func (w *failingWriter) WriteGroup(index int, _ []string) (string, error) {
	if index == w.failGroup {
		return "", w.err
	}

	return "ref-" + strconv.Itoa(index), nil
}

func (w *failingWriter) WriteIndex(_ []string) error { return w.indexErr }

type spyMetrics struct {
	items       int
	malformed   int
	adjustments int
	groups      int
	plan        types.ResourcePlan
	durations   int
}

func (s *spyMetrics) RecordItemCount(count int) { s.items = count }
func (s *spyMetrics) RecordMalformedSize() { s.malformed++ }
func (s *spyMetrics) RecordThresholdAdjustment() { s.adjustments++ }
func (s *spyMetrics) RecordGroupClosed(_ float64, _ int) { s.groups++ }
func (s *spyMetrics) RecordPlan(plan types.ResourcePlan) { s.plan = plan }
func (s *spyMetrics) RecordBalanceDuration(_ float64) { s.durations++ }
