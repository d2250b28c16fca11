package service

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
)

// sampleTargetWords 对超过 maxSize 的目标词池做确定性采样
// 同一 (assignmentID, studentID) 在任何时刻、任何实例上得到同一子集，
// 与输入顺序无关
func sampleTargetWords(vocabularyIDs []string, assignmentID string, studentID uint, maxSize int) []string {
	if len(vocabularyIDs) <= maxSize {
		return vocabularyIDs
	}

	sorted := make([]string, len(vocabularyIDs))
	copy(sorted, vocabularyIDs)
	sort.Strings(sorted)

	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", assignmentID, studentID)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	rng.Shuffle(len(sorted), func(i, j int) {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	})

	return sorted[:maxSize]
}
