package runner

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/gopeg"
)

// resyncRepair implements the recovering runner's first repair: skip
// input forward from failIdx until a character in
// follow is reached, accepting everything in between as consumed. Returns
// ok=false if there is nothing to skip (follow already holds cur[failIdx],
// so resync would be a no-op and the next strategy should be tried
// instead).
func resyncRepair(cur []rune, origIdx []int, failIdx int, follow *treeset.Set) (newCur []rune, newOrigIdx []int, ok bool) {
	j := failIdx
	for j < len(cur) && !follow.Contains(cur[j]) {
		j++
	}
	if j == failIdx {
		return nil, nil, false
	}
	newCur = append(append([]rune(nil), cur[:failIdx]...), cur[j:]...)
	newOrigIdx = append(append([]int(nil), origIdx[:failIdx]...), origIdx[j:]...)
	return newCur, newOrigIdx, true
}

// deleteRepair implements the recovering runner's second repair: drop the
// single character at failIdx.
func deleteRepair(cur []rune, origIdx []int, failIdx int) (newCur []rune, newOrigIdx []int, ok bool) {
	if failIdx >= len(cur) {
		return nil, nil, false
	}
	newCur = append(append([]rune(nil), cur[:failIdx]...), cur[failIdx+1:]...)
	newOrigIdx = append(append([]int(nil), origIdx[:failIdx]...), origIdx[failIdx+1:]...)
	return newCur, newOrigIdx, true
}

// insertRepair implements the recovering runner's third repair: virtually
// insert ch at failIdx without consuming any real
// input. The inserted position has no original-buffer counterpart, marked
// with -1 in newOrigIdx (see origProgress).
func insertRepair(cur []rune, origIdx []int, failIdx int, ch gopeg.Character) (newCur []rune, newOrigIdx []int) {
	newCur = make([]rune, 0, len(cur)+1)
	newCur = append(newCur, cur[:failIdx]...)
	newCur = append(newCur, ch)
	newCur = append(newCur, cur[failIdx:]...)

	newOrigIdx = make([]int, 0, len(origIdx)+1)
	newOrigIdx = append(newOrigIdx, origIdx[:failIdx]...)
	newOrigIdx = append(newOrigIdx, -1)
	newOrigIdx = append(newOrigIdx, origIdx[failIdx:]...)
	return newCur, newOrigIdx
}

// origProgress maps a position in the (possibly repaired) working buffer
// back to an original-buffer progress measure: the number of original
// characters that position accounts for having consumed. Positions past
// the last tracked index (including virtually inserted characters at the
// tail) count as full original-buffer progress (origLen), since nothing
// further from the original input remains to be consumed. Used to judge
// whether a candidate repair allows the outer parse to consume strictly
// more input than the failing baseline.
func origProgress(origIdx []int, virtualIdx, origLen int) int {
	if virtualIdx <= 0 {
		return 0
	}
	if virtualIdx-1 >= len(origIdx) {
		return origLen
	}
	for k := virtualIdx - 1; k >= 0; k-- {
		if origIdx[k] >= 0 {
			return origIdx[k] + 1
		}
	}
	return 0
}
