package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("word-%03d", i)
	}
	return pool
}

func TestSampleTargetWords_PoolWithinLimit(t *testing.T) {
	pool := makePool(30)
	got := sampleTargetWords(pool, "a-1", 7, 50)
	assert.Equal(t, pool, got, "小词池应原样返回")
}

func TestSampleTargetWords_Deterministic(t *testing.T) {
	pool := makePool(80)

	first := sampleTargetWords(pool, "a-1", 7, 50)
	second := sampleTargetWords(pool, "a-1", 7, 50)

	require.Len(t, first, 50)
	assert.Equal(t, first, second, "同一 (作业, 学生) 必须得到同一子集")
}

func TestSampleTargetWords_OrderIndependent(t *testing.T) {
	pool := makePool(80)
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	fromSorted := sampleTargetWords(pool, "a-1", 7, 50)
	fromShuffled := sampleTargetWords(shuffled, "a-1", 7, 50)

	assert.Equal(t, fromSorted, fromShuffled, "采样结果不能依赖输入顺序")
}

func TestSampleTargetWords_SubsetOfPool(t *testing.T) {
	pool := makePool(80)
	poolSet := make(map[string]bool, len(pool))
	for _, id := range pool {
		poolSet[id] = true
	}

	got := sampleTargetWords(pool, "a-2", 9, 50)

	require.Len(t, got, 50)
	seen := make(map[string]bool, len(got))
	for _, id := range got {
		assert.True(t, poolSet[id], "采样结果必须来自原词池")
		assert.False(t, seen[id], "采样结果不应有重复")
		seen[id] = true
	}
}

func TestSampleTargetWords_DoesNotMutateInput(t *testing.T) {
	pool := makePool(80)
	original := make([]string, len(pool))
	copy(original, pool)

	sampleTargetWords(pool, "a-1", 7, 50)

	assert.Equal(t, original, pool)
}
