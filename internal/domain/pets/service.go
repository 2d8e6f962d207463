package pets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-party/internal/platform/logger"
	"pet-party/internal/platform/metrics"
	"pet-party/internal/ports/storage"
)

const (
	// LocalNamespace es el namespace de quien llega sin identidad.
	LocalNamespace = "local"

	DeleteConfirmTTL = 5 * time.Minute
)

// DeleteRequest es el primer paso del borrado: el usuario debe devolver Token
// antes de ExpiresAt para confirmarlo.
type DeleteRequest struct {
	PetID     string
	Token     string
	ExpiresAt time.Time
}

// Service compone un Store por namespace sobre un mismo backend y guarda la
// solicitud de borrado pendiente de cada namespace (como máximo una).
type Service struct {
	kv      storage.KeyValue
	log     logger.Logger
	metrics metrics.Recorder
	now     func() time.Time

	mu      sync.Mutex
	stores  map[string]*Store
	pending map[string]DeleteRequest
}

func NewService(kv storage.KeyValue, log logger.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Service{
		kv:      kv,
		log:     log,
		metrics: rec,
		now:     time.Now,
		stores:  make(map[string]*Store),
		pending: make(map[string]DeleteRequest),
	}
}

// Store devuelve (y carga la primera vez) el store del namespace. La lectura
// del backend se hace sin el lock del registro; si dos requests cargan el
// mismo namespace a la vez gana el primero en registrarse.
func (s *Service) Store(ctx context.Context, namespace string) *Store {
	namespace = normalizeNamespace(namespace)

	s.mu.Lock()
	st, ok := s.stores[namespace]
	s.mu.Unlock()
	if ok {
		return st
	}

	st = NewStore(s.kv, namespace,
		WithClock(func() time.Time { return s.now() }),
		WithLogger(s.log),
		WithHooks(s.hooksFor(namespace)),
	)
	items := st.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.stores[namespace]; ok {
		return existing
	}
	s.metrics.SetRecords(namespace, len(items))
	s.stores[namespace] = st
	return st
}

func (s *Service) List(ctx context.Context, namespace string) []PetProfile {
	return s.Store(ctx, namespace).List(ctx)
}

func (s *Service) Get(ctx context.Context, namespace, id string) (PetProfile, error) {
	return s.Store(ctx, namespace).Get(ctx, id)
}

func (s *Service) Add(ctx context.Context, namespace string, d Draft) (PetProfile, error) {
	p, err := s.Store(ctx, namespace).Add(ctx, d)
	s.metrics.IncOperation("add", resultOf(err))
	if err == nil || isStorageError(err) {
		s.log.Info("pet added", map[string]any{"namespace": normalizeNamespace(namespace), "pet_id": p.ID})
	}
	return p, err
}

func (s *Service) Update(ctx context.Context, namespace, id string, d Draft) (PetProfile, error) {
	p, err := s.Store(ctx, namespace).Update(ctx, id, d)
	s.metrics.IncOperation("update", resultOf(err))
	return p, err
}

func (s *Service) Statistics(ctx context.Context, namespace string) Statistics {
	return s.Store(ctx, namespace).Statistics(ctx)
}

func (s *Service) Sync(ctx context.Context, namespace string) error {
	err := s.Store(ctx, namespace).Persist(ctx)
	s.metrics.IncOperation("sync", resultOf(err))
	return err
}

// RequestDelete registra la intención de borrar id y devuelve el token de
// confirmación. Reemplaza cualquier solicitud previa del namespace.
func (s *Service) RequestDelete(ctx context.Context, namespace, id string) (DeleteRequest, error) {
	namespace = normalizeNamespace(namespace)
	if _, err := s.Store(ctx, namespace).Get(ctx, id); err != nil {
		return DeleteRequest{}, err
	}

	req := DeleteRequest{
		PetID:     id,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().UTC().Add(DeleteConfirmTTL),
	}

	s.mu.Lock()
	s.pending[namespace] = req
	s.mu.Unlock()

	return req, nil
}

// ConfirmDelete borra id si token coincide con la solicitud pendiente vigente.
// La solicitud se consume aunque Remove falle por persistencia.
func (s *Service) ConfirmDelete(ctx context.Context, namespace, id, token string) error {
	namespace = normalizeNamespace(namespace)

	now := s.now().UTC()

	s.mu.Lock()
	req, ok := s.pending[namespace]
	expired := ok && !now.Before(req.ExpiresAt)
	valid := ok && !expired && req.PetID == id && req.Token == strings.TrimSpace(token)
	if valid || expired {
		delete(s.pending, namespace)
	}
	s.mu.Unlock()

	if !valid {
		s.metrics.IncOperation("remove", "unconfirmed")
		return ErrConfirmationMismatch
	}

	err := s.Store(ctx, namespace).Remove(ctx, id)
	s.metrics.IncOperation("remove", resultOf(err))
	if err == nil || isStorageError(err) {
		s.log.Info("pet removed", map[string]any{"namespace": namespace, "pet_id": id})
	}
	return err
}

// CancelDelete descarta la solicitud pendiente del namespace, si la hay.
func (s *Service) CancelDelete(ctx context.Context, namespace string) {
	s.mu.Lock()
	delete(s.pending, normalizeNamespace(namespace))
	s.mu.Unlock()
}

func (s *Service) hooksFor(namespace string) Hooks {
	log := s.log.With(map[string]any{"namespace": namespace})
	return Hooks{
		CollectionChanged: func(items []PetProfile) {
			s.metrics.SetRecords(namespace, len(items))
		},
		ValidationFailed: func(field, message string) {
			log.Debug("pet draft rejected", map[string]any{"field": field, "message": message})
		},
		StorageFailed: func(message string) {
			s.metrics.IncStorageFailure(namespace)
		},
		DecodeFailed: func(err error) {
			s.metrics.IncDecodeFailure(namespace)
		},
	}
}

func normalizeNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return LocalNamespace
	}
	return ns
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isStorageError(err):
		return "storage_error"
	case isValidationError(err):
		return "validation_error"
	case isNotFound(err):
		return "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
