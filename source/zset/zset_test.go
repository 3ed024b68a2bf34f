package zset

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndScore(t *testing.T) {
	z := New()

	inserted := z.Add("a", 1.0)
	assert.True(t, inserted, "first insert of a fresh member should report true")

	score, ok := z.Score("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)

	inserted = z.Add("a", 2.0)
	assert.False(t, inserted, "re-adding an existing member should report false")

	score, ok = z.Score("a")
	require.True(t, ok)
	assert.Equal(t, 2.0, score)
	assert.Equal(t, 1, z.Len(), "updating a member's score must not duplicate it")
}

func TestAddSameScoreIsNoop(t *testing.T) {
	z := New()
	z.Add("a", 1.0)
	inserted := z.Add("a", 1.0)
	assert.False(t, inserted)
	assert.Equal(t, 1, z.Len())
}

func TestRemove(t *testing.T) {
	z := New()
	z.Add("a", 1.0)

	assert.True(t, z.Remove("a"))
	assert.False(t, z.Remove("a"), "removing twice should report false the second time")

	_, ok := z.Score("a")
	assert.False(t, ok)
	assert.Equal(t, 0, z.Len())
}

func TestScoreMissing(t *testing.T) {
	z := New()
	_, ok := z.Score("ghost")
	assert.False(t, ok)
}

func TestQueryScenario(t *testing.T) {
	// spec.md §8 scenario 3.
	z := New()
	z.Add("a", 1.0)
	z.Add("b", 1.0)
	z.Add("c", 2.0)
	z.Add("d", 3.0)

	got := z.Query(1.0, "b", 0, 3)
	want := []Pair{{"b", 1.0}, {"c", 2.0}, {"d", 3.0}}
	assert.Equal(t, want, got)
}

func TestQueryEmptySet(t *testing.T) {
	z := New()
	assert.Empty(t, z.Query(math.Inf(-1), "", 0, 10))
}

func TestQueryZeroLimit(t *testing.T) {
	z := New()
	z.Add("a", 1.0)
	assert.Empty(t, z.Query(math.Inf(-1), "", 0, 0))
}

func TestQueryOffsetSkipsQualifyingPairs(t *testing.T) {
	z := New()
	for i, m := range []string{"a", "b", "c", "d", "e"} {
		z.Add(m, float64(i))
	}

	got := z.Query(math.Inf(-1), "", 2, 2)
	want := []Pair{{"c", 2}, {"d", 3}}
	assert.Equal(t, want, got)
}

func TestQueryFullScanYieldsEveryMemberOnce(t *testing.T) {
	z := New()
	members := []string{"z", "y", "x", "w", "v", "a", "m"}
	for i, m := range members {
		z.Add(m, float64(len(members)-i))
	}

	got := z.Query(math.Inf(-1), "", 0, len(members)+10)
	assert.Len(t, got, len(members))

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		less := prev.Score < cur.Score || (prev.Score == cur.Score && prev.Member < cur.Member)
		assert.True(t, less, "result must be strictly ascending by (score, member): %+v then %+v", prev, cur)
	}
}

func TestQueryMatchesFilterSortSemantics(t *testing.T) {
	z := New()
	type entry struct {
		member string
		score  float64
	}
	entries := []entry{
		{"bob", 5}, {"alice", 5}, {"carol", 1}, {"dave", 5}, {"erin", 3}, {"frank", 5},
	}
	for _, e := range entries {
		z.Add(e.member, e.score)
	}

	sorted := make([]Pair, len(entries))
	for i, e := range entries {
		sorted[i] = Pair{e.member, e.score}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Member < sorted[j].Member
	})

	minScore, minMember := 5.0, "bob"
	var filtered []Pair
	for _, p := range sorted {
		if p.Score > minScore || (p.Score == minScore && p.Member >= minMember) {
			filtered = append(filtered, p)
		}
	}

	off, lim := 1, 1
	want := filtered[off : off+lim]
	got := z.Query(minScore, minMember, off, lim)
	assert.Equal(t, want, got)
}

func TestByScoreAndByMemberIndicesStayConsistent(t *testing.T) {
	z := New()
	members := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"}
	for i, m := range members {
		z.Add(m, float64(i%3))
	}
	z.Remove("k3")
	z.Add("k1", 9.0)

	viaQuery := z.Query(math.Inf(-1), "", 0, len(members))
	fromMember := make(map[string]float64, len(viaQuery))
	for _, m := range members {
		if m == "k3" {
			continue
		}
		score, ok := z.Score(m)
		require.True(t, ok, "member %q should be present", m)
		fromMember[m] = score
	}

	assert.Len(t, viaQuery, len(fromMember))
	for _, p := range viaQuery {
		score, ok := fromMember[p.Member]
		require.True(t, ok, "by-score index contains %q missing from by-member index", p.Member)
		assert.Equal(t, score, p.Score)
	}
}

func TestNegativeAndPositiveZeroScoresCompareEqual(t *testing.T) {
	z := New()
	z.Add("a", math.Copysign(0, -1))
	score, ok := z.Score("a")
	require.True(t, ok)
	assert.Equal(t, 0.0, score)

	got := z.Query(0.0, "", 0, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Member)
}
