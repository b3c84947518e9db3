package fsstore

import (
	"hash/fnv"
	"sync"
)

// keyedMutex is a striped lock table. Locking a key serializes callers that
// hash to the same stripe; unrelated keys usually proceed in parallel. It
// guards read-modify-write cycles on whole-file records, where concurrent
// writers would otherwise lose updates.
type keyedMutex struct {
	stripes [64]sync.Mutex
}

// lock acquires the stripe for key and returns it for deferred unlocking:
//
//	defer m.lock(key).Unlock()
func (m *keyedMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%uint32(len(m.stripes))]
	mu.Lock()
	return mu
}
