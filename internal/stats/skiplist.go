package stats

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

// skipList is a concurrent skip list with augmented span counts for
// O(log n) rank queries — the structure Redis ZSETs use for leaderboards.
// Origin: Pugh (1990), "Skip Lists: A Probabilistic Alternative to
// Balanced Trees".
const (
	maxLevel         = 32
	levelProbability = 0.25
)

type skipEntry struct {
	Key   string
	Score float64
}

type skipNode struct {
	entry skipEntry
	next  []*skipNode
	span  []int
}

type skipList struct {
	head   *skipNode
	level  int32
	length int32
	mu     sync.RWMutex
	rng    *rand.Rand
}

func newSkipList(seed int64) *skipList {
	head := &skipNode{
		next: make([]*skipNode, maxLevel),
		span: make([]int, maxLevel),
	}
	return &skipList{
		head:  head,
		level: 1,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (sl *skipList) randomLevel() int {
	level := 1
	for level < maxLevel && sl.rng.Float64() < levelProbability {
		level++
	}
	return level
}

// Insert adds or updates an entry, ordered by descending score then
// ascending key. An existing entry for key is found by an O(n) scan of the
// bottom level and unlinked first; the insert itself is O(log n) average.
func (sl *skipList) Insert(key string, score float64) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	for n := sl.head.next[0]; n != nil; n = n.next[0] {
		if n.entry.Key == key {
			update, x := make([]*skipNode, maxLevel), sl.head
			for i := int(sl.level) - 1; i >= 0; i-- {
				for x.next[i] != nil && (x.next[i].entry.Score > n.entry.Score ||
					(x.next[i].entry.Score == n.entry.Score && x.next[i].entry.Key < key)) {
					x = x.next[i]
				}
				update[i] = x
			}
			sl.removeNode(n, update)
			break
		}
	}
	sl.insertLocked(key, score)
}

func (sl *skipList) insertLocked(key string, score float64) {
	update := make([]*skipNode, maxLevel)
	rank := make([]int, maxLevel)

	x := sl.head
	for i := int(atomic.LoadInt32(&sl.level)) - 1; i >= 0; i-- {
		if i == int(sl.level)-1 {
			rank[i] = 0
		} else {
			rank[i] = rank[i+1]
		}

		for x.next[i] != nil && (x.next[i].entry.Score > score ||
			(x.next[i].entry.Score == score && x.next[i].entry.Key < key)) {
			rank[i] += x.span[i]
			x = x.next[i]
		}
		update[i] = x
	}

	if x.next[0] != nil && x.next[0].entry.Key == key {
		sl.removeNode(x.next[0], update)
		sl.insertLocked(key, score)
		return
	}

	newLevel := sl.randomLevel()
	currentLevel := int(sl.level)

	if newLevel > currentLevel {
		for i := currentLevel; i < newLevel; i++ {
			rank[i] = 0
			update[i] = sl.head
			update[i].span[i] = int(sl.length)
		}
		atomic.StoreInt32(&sl.level, int32(newLevel))
	}

	node := &skipNode{
		entry: skipEntry{Key: key, Score: score},
		next:  make([]*skipNode, newLevel),
		span:  make([]int, newLevel),
	}

	for i := 0; i < newLevel; i++ {
		node.next[i] = update[i].next[i]
		update[i].next[i] = node

		node.span[i] = update[i].span[i] - (rank[0] - rank[i])
		update[i].span[i] = (rank[0] - rank[i]) + 1
	}

	for i := newLevel; i < int(sl.level); i++ {
		update[i].span[i]++
	}

	atomic.AddInt32(&sl.length, 1)
}

func (sl *skipList) removeNode(node *skipNode, update []*skipNode) {
	for i := 0; i < int(sl.level); i++ {
		if update[i].next[i] == node {
			update[i].span[i] += node.span[i] - 1
			update[i].next[i] = node.next[i]
		} else {
			update[i].span[i]--
		}
	}

	for sl.level > 1 && sl.head.next[sl.level-1] == nil {
		atomic.AddInt32(&sl.level, -1)
	}

	atomic.AddInt32(&sl.length, -1)
}

// GetRange returns entries in rank range [start, end] (1-indexed,
// inclusive, highest score first).
func (sl *skipList) GetRange(start, end int) []skipEntry {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	if start <= 0 {
		start = 1
	}
	if end > int(sl.length) {
		end = int(sl.length)
	}
	if start > end {
		return nil
	}

	result := make([]skipEntry, 0, end-start+1)

	traversed := 0
	x := sl.head
	for i := int(sl.level) - 1; i >= 0; i-- {
		for x.next[i] != nil && traversed+x.span[i] < start {
			traversed += x.span[i]
			x = x.next[i]
		}
	}

	x = x.next[0]
	for x != nil && traversed < end {
		traversed++
		if traversed >= start {
			result = append(result, x.entry)
		}
		x = x.next[0]
	}

	return result
}

// Length returns the number of entries.
func (sl *skipList) Length() int { return int(atomic.LoadInt32(&sl.length)) }
