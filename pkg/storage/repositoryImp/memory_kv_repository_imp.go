package repositoryImp

import (
	"sort"
	"sync"

	"micampo/pkg/storage/repository"
)

// memKV keeps entries in a map. Used for --memory runs and tests.
type memKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() repository.KVRepository { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memKV) Set(key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *memKV) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memKV) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
