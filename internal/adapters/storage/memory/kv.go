package memory

import (
	"context"
	"sync"

	"pet-party/internal/ports/storage"
)

// KV guarda valores en memoria por namespace. Quota limita la suma de
// len(key)+len(value) de cada namespace (0 = sin límite), como localStorage.
type KV struct {
	mu    sync.RWMutex
	quota int64
	items map[string]map[string]string
}

func NewKV(quota int64) *KV {
	return &KV{
		quota: quota,
		items: make(map[string]map[string]string),
	}
}

var _ storage.KeyValue = (*KV)(nil)

func (s *KV) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[namespace][key]
	return v, ok, nil
}

func (s *KV) SetItem(ctx context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.items[namespace]
	if !ok {
		ns = make(map[string]string)
		s.items[namespace] = ns
	}

	if s.quota > 0 {
		used := usage(ns)
		if old, exists := ns[key]; exists {
			used -= int64(len(key) + len(old))
		}
		if used+int64(len(key)+len(value)) > s.quota {
			return storage.ErrQuotaExceeded
		}
	}

	ns[key] = value
	return nil
}

func (s *KV) RemoveItem(ctx context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.items[namespace]; ok {
		delete(ns, key)
		if len(ns) == 0 {
			delete(s.items, namespace)
		}
	}
	return nil
}

func usage(ns map[string]string) int64 {
	var n int64
	for k, v := range ns {
		n += int64(len(k) + len(v))
	}
	return n
}
