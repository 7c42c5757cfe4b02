package queue

import (
	"bedlevel/common/lock"
	"container/list"
	"sync"
)

// Queue is a FIFO guarded by a spin lock; callers hold it only for a
// list push or pop.
type Queue[T any] struct {
	rows *list.List
	lock sync.Locker
}

func NewQueue[T any]() *Queue[T] {
	self := Queue[T]{}
	self.rows = list.New()
	self.lock = new(lock.SpinLock)
	return &self
}

func (self *Queue[T]) Put_nowait(data T) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.rows.PushBack(data)
}

// Get_nowait pops the oldest row; ok is false on an empty queue.
func (self *Queue[T]) Get_nowait() (T, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	front := self.rows.Front()
	if front == nil {
		var zero T
		return zero, false
	}
	self.rows.Remove(front)
	return front.Value.(T), true
}

func (self *Queue[T]) Is_empty() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return !(self.rows.Len() > 0)
}

func (self *Queue[T]) Len() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.rows.Len()
}
