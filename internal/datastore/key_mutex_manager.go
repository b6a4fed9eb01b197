package datastore

import (
	"sync"

	"github.com/rs/zerolog"
)

type refMutex struct {
	mu   sync.Mutex
	refs int
}

// KeyMutexManager hands out one mutex per key so concurrent work on the same
// document is serialized. Mutexes are dropped once nobody holds or waits on them.
type KeyMutexManager struct {
	mutexes map[string]*refMutex
	mapLock sync.Mutex
	logger  zerolog.Logger
}

// NewKeyMutexManager creates a new key mutex manager
func NewKeyMutexManager(logger zerolog.Logger) *KeyMutexManager {
	return &KeyMutexManager{
		mutexes: make(map[string]*refMutex),
		logger:  logger.With().Str("component", "KeyMutexManager").Logger(),
	}
}

// Lock acquires the mutex for key and returns the function that releases it.
func (m *KeyMutexManager) Lock(key string) func() {
	m.mapLock.Lock()
	rm, exists := m.mutexes[key]
	if !exists {
		rm = &refMutex{}
		m.mutexes[key] = rm
	} else {
		m.logger.Debug().Str("key", key).Int("waiters", rm.refs).Msg("Waiting for in-flight work on key")
	}
	rm.refs++
	m.mapLock.Unlock()

	rm.mu.Lock()

	return func() {
		rm.mu.Unlock()

		m.mapLock.Lock()
		rm.refs--
		if rm.refs == 0 {
			delete(m.mutexes, key)
		}
		m.mapLock.Unlock()
	}
}

// Size returns the number of keys currently held or awaited.
func (m *KeyMutexManager) Size() int {
	m.mapLock.Lock()
	defer m.mapLock.Unlock()
	return len(m.mutexes)
}
