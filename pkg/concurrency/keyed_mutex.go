// Package concurrency 동시성 제어 유틸리티를 제공합니다.
package concurrency

import (
	"sync"
)

// KeyedMutex 키 단위로 독립적인 잠금을 제공합니다.
// 사용 중인 키만 맵에 유지하며, 참조가 사라지면 엔트리를 풀로 반환합니다.
type KeyedMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
	pool  sync.Pool
}

type entry struct {
	mu       sync.Mutex
	refCount int
}

func NewKeyedMutex[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{
		locks: make(map[K]*entry),
		pool: sync.Pool{
			New: func() any {
				return &entry{}
			},
		},
	}
}

// Len 현재 잠금을 보유하거나 대기 중인 키의 개수를 반환합니다.
func (km *KeyedMutex[K]) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return len(km.locks)
}

func (km *KeyedMutex[K]) acquire(key K) *entry {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.locks[key]
	if !ok {
		e = km.pool.Get().(*entry)
		km.locks[key] = e
	}
	e.refCount++

	return e
}

func (km *KeyedMutex[K]) Lock(key K) {
	km.acquire(key).mu.Lock()
}

// TryLock 대기하지 않고 잠금을 시도합니다.
func (km *KeyedMutex[K]) TryLock(key K) bool {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.locks[key]
	if !ok {
		e = km.pool.Get().(*entry)
		e.mu.Lock()
		e.refCount = 1
		km.locks[key] = e
		return true
	}

	if e.mu.TryLock() {
		e.refCount++
		return true
	}

	return false
}

func (km *KeyedMutex[K]) Unlock(key K) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.locks[key]
	if !ok {
		panic("잠기지 않은 KeyedMutex의 잠금 해제 시도")
	}

	e.mu.Unlock()

	e.refCount--
	if e.refCount <= 0 {
		delete(km.locks, key)
		e.refCount = 0
		km.pool.Put(e)
	}
}

// WithLock 키 잠금을 획득한 상태에서 fn 을 실행합니다.
func (km *KeyedMutex[K]) WithLock(key K, fn func() error) error {
	km.Lock(key)
	defer km.Unlock(key)

	return fn()
}
