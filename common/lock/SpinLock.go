package lock

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// SpinLock is a sync.Locker that yields with exponential backoff instead of
// parking. Suited to critical sections of a few instructions.
type SpinLock uint32

var _ sync.Locker = (*SpinLock)(nil)

const maxBackOff = 32

func (sl *SpinLock) Lock() {
	backoff := 1
	for !atomic.CompareAndSwapUint32((*uint32)(sl), 0, 1) {
		for i := 0; i < backoff; i++ {
			runtime.Gosched()
		}
		if backoff < maxBackOff {
			backoff <<= 1
		}
	}
}

func (sl *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32((*uint32)(sl), 0, 1)
}

func (sl *SpinLock) Unlock() {
	if !atomic.CompareAndSwapUint32((*uint32)(sl), 1, 0) {
		panic("lock: unlock of unlocked SpinLock")
	}
}
