package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"pet-party/internal/ports/storage"
)

// KV guarda cada (namespace, key) en un archivo propio bajo Dir.
// Las escrituras son atómicas (tmp + fsync + rename).
type KV struct {
	dir   string
	quota int64

	mu  sync.Mutex
	enc *zstd.Encoder
	dec *zstd.Decoder
}

type Options struct {
	Dir string
	// Quota máxima por valor en bytes (sin comprimir). 0 = sin límite.
	Quota int64
	// Compress guarda los valores con zstd.
	Compress bool
}

func NewKV(opts Options) (*KV, error) {
	if opts.Dir == "" {
		return nil, errors.New("file kv: dir required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("file kv: create dir: %w", err)
	}

	kv := &KV{dir: opts.Dir, quota: opts.Quota}
	if opts.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		kv.enc, kv.dec = enc, dec
	}
	return kv, nil
}

var _ storage.KeyValue = (*KV)(nil)

func (s *KV) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(namespace, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("file kv: read: %w", err)
	}

	if s.dec != nil {
		data, err = s.dec.DecodeAll(data, nil)
		if err != nil {
			return "", false, fmt.Errorf("file kv: decompress: %w", err)
		}
	}
	return string(data), true, nil
}

func (s *KV) SetItem(ctx context.Context, namespace, key, value string) error {
	if s.quota > 0 && int64(len(value)) > s.quota {
		return storage.ErrQuotaExceeded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := []byte(value)
	if s.enc != nil {
		data = s.enc.EncodeAll(data, make([]byte, 0, len(data)/2))
	}

	fileName := s.path(namespace, key)
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return fmt.Errorf("file kv: create namespace dir: %w", err)
	}

	tmpFile := fileName + ".tmp"
	f, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("file kv: create: %w", err)
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("file kv: write: %w", err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("file kv: sync: %w", err)
	}
	if err = f.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("file kv: close: %w", err)
	}

	return os.Rename(tmpFile, fileName)
}

func (s *KV) RemoveItem(ctx context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(namespace, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file kv: remove: %w", err)
	}
	return nil
}

func (s *KV) Close() {
	if s.enc != nil {
		_ = s.enc.Close()
	}
	if s.dec != nil {
		s.dec.Close()
	}
}

// Namespace y key vienen del usuario: se codifican para que no escapen de dir.
func (s *KV) path(namespace, key string) string {
	ext := ".json"
	if s.enc != nil {
		ext = ".json.zst"
	}
	return filepath.Join(
		s.dir,
		base64.RawURLEncoding.EncodeToString([]byte(namespace)),
		base64.RawURLEncoding.EncodeToString([]byte(key))+ext,
	)
}
