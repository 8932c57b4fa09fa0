package spread

import "sync"

// locks is fixed table of per page mutexes. Ranges are always taken in
// ascending index order.
type locks []sync.Mutex

func newLocks(n int) locks {
	return make(locks, n)
}

// span returns neighbourhood of index clipped to the table.
func (l locks) span(index int) (lo, hi int) {
	return max(index-1, 0), min(index+1, len(l)-1)
}

func (l locks) lock(lo, hi int) {
	for i := lo; i <= hi; i++ {
		l[i].Lock()
	}
}

func (l locks) unlock(lo, hi int) {
	for i := hi; i >= lo; i-- {
		l[i].Unlock()
	}
}
