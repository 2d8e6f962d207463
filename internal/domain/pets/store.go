package pets

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-party/internal/platform/logger"
	"pet-party/internal/ports/storage"
)

// Hooks avisa a la capa de presentación. Todos son opcionales y se llaman
// con el lock del store tomado: no deben volver a llamar al store.
type Hooks struct {
	CollectionChanged func(items []PetProfile)
	ValidationFailed  func(field, message string)
	StorageFailed     func(message string)
	DecodeFailed      func(err error)
}

// Store es el dueño de la colección de mascotas de un namespace. La copia en
// memoria es la fuente de verdad de la sesión; cada mutación reescribe la
// colección completa en el backend (write-through, best effort).
type Store struct {
	mu sync.Mutex

	kv        storage.KeyValue
	namespace string
	items     []PetProfile
	loaded    bool
	dirty     bool

	now   func() time.Time
	newID func() string
	hooks Hooks
	log   logger.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(kv storage.KeyValue, namespace string, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		namespace: namespace,
		items:     []PetProfile{},
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(map[string]any{"namespace": namespace})
	return s
}

func (s *Store) Namespace() string { return s.namespace }

// Load reemplaza la colección en memoria con lo persistido. Sin datos o con
// payload corrupto => colección vacía (y se registra). Si el backend no
// responde, la colección queda sin cargar: las lecturas ven una colección
// vacía y las mutaciones fallan con ErrStoreUnavailable hasta que una lectura
// funcione.
func (s *Store) Load(ctx context.Context) []PetProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.load(ctx)
	return cloneAll(s.items)
}

// Loaded indica si la última lectura del backend funcionó.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) load(ctx context.Context) error {
	items, err := s.read(ctx)
	if err != nil {
		s.items = []PetProfile{}
		s.loaded = false
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	s.items = items
	s.loaded = true
	s.dirty = false
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

// read solo devuelve error si falla el backend. Un payload corrupto se
// reporta por DecodeFailed y vale como colección vacía.
func (s *Store) read(ctx context.Context) ([]PetProfile, error) {
	raw, ok, err := s.kv.GetItem(ctx, s.namespace, StorageKey)
	if err != nil {
		s.log.Warn("read persisted pets failed", map[string]any{"err": err})
		return nil, err
	}
	if !ok {
		return []PetProfile{}, nil
	}

	items, err := DecodeCollection([]byte(raw))
	if err != nil {
		s.log.Warn("corrupt persisted pets, starting empty", map[string]any{"err": err})
		if s.hooks.DecodeFailed != nil {
			s.hooks.DecodeFailed(err)
		}
		return []PetProfile{}, nil
	}
	return s.repair(items), nil
}

// repair asegura ids únicos y no vacíos en datos heredados.
func (s *Store) repair(items []PetProfile) []PetProfile {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, p := range items {
		if p.ID == "" {
			p.ID = s.newID()
			s.log.Warn("persisted pet without id, assigned new one", map[string]any{"pet_id": p.ID})
		}
		if _, dup := seen[p.ID]; dup {
			s.log.Warn("duplicate persisted pet id dropped", map[string]any{"pet_id": p.ID})
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// List devuelve una copia en orden de inserción.
func (s *Store) List(ctx context.Context) []PetProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(ctx)
	return cloneAll(s.items)
}

func (s *Store) Get(ctx context.Context, id string) (PetProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return PetProfile{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return PetProfile{}, &NotFoundError{ID: id}
	}
	return s.items[i].clone(), nil
}

// Add valida, asigna id y timestamps, agrega al final y persiste.
// Si solo falla la persistencia devuelve el registro creado junto a un
// *StorageError: el alta quedó hecha en memoria.
func (s *Store) Add(ctx context.Context, d Draft) (PetProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d = normalizeDraft(d)
	if verr := s.validate(d); verr != nil {
		return PetProfile{}, verr
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return PetProfile{}, err
	}

	now := s.timestamp()
	p := fromDraft(d)
	p.ID = s.uniqueID()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.items = append(s.items, p)
	return p.clone(), s.commit(ctx)
}

// Update reemplaza todos los campos editables del registro id. Conserva id y
// createdAt; updatedAt nunca retrocede. Mismo contrato de StorageError que Add.
func (s *Store) Update(ctx context.Context, id string, d Draft) (PetProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d = normalizeDraft(d)
	if verr := s.validate(d); verr != nil {
		return PetProfile{}, verr
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return PetProfile{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return PetProfile{}, &NotFoundError{ID: id}
	}

	prev := s.items[i]
	p := fromDraft(d)
	p.ID = prev.ID
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = s.timestamp()
	if p.UpdatedAt.Before(prev.UpdatedAt) {
		p.UpdatedAt = prev.UpdatedAt
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}

	s.items[i] = p
	return p.clone(), s.commit(ctx)
}

// Remove borra el registro id. La confirmación del usuario es responsabilidad
// del llamador (ver Service.RequestDelete).
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}

	s.items = slices.Delete(s.items, i, i+1)
	return s.commit(ctx)
}

// Persist reintenta la escritura completa de la colección. Nunca se llama solo.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Dirty indica que el último intento de persistir falló.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) Statistics(ctx context.Context) Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLoaded(ctx)
	return ComputeStatistics(s.items)
}

func (s *Store) validate(d Draft) *ValidationError {
	verr := ValidateDraft(d)
	if verr != nil && s.hooks.ValidationFailed != nil {
		s.hooks.ValidationFailed(verr.Field, verr.Message)
	}
	return verr
}

// commit persiste y notifica. El cambio en memoria ya está hecho.
func (s *Store) commit(ctx context.Context) error {
	err := s.persist(ctx)
	if s.hooks.CollectionChanged != nil {
		s.hooks.CollectionChanged(cloneAll(s.items))
	}
	return err
}

// persist reescribe la colección completa. Sin mascotas se borra la clave.
func (s *Store) persist(ctx context.Context) error {
	err := s.write(ctx)
	if err != nil {
		s.dirty = true
		serr := &StorageError{Message: "changes may not be saved", Err: err}
		s.log.Error("persist pets failed", map[string]any{"err": err, "count": len(s.items)})
		if s.hooks.StorageFailed != nil {
			s.hooks.StorageFailed(serr.Error())
		}
		return serr
	}
	s.dirty = false
	return nil
}

func (s *Store) write(ctx context.Context) error {
	if len(s.items) == 0 {
		return s.kv.RemoveItem(ctx, s.namespace, StorageKey)
	}
	data, err := EncodeCollection(s.items)
	if err != nil {
		return err
	}
	return s.kv.SetItem(ctx, s.namespace, StorageKey, string(data))
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(p PetProfile) bool { return p.ID == id })
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

// Timestamps en UTC y sin lectura monotónica: sobreviven el round-trip JSON.
func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func fromDraft(d Draft) PetProfile {
	p := PetProfile{
		Name:              d.Name,
		Type:              d.Type,
		Breed:             d.Breed,
		Gender:            d.Gender,
		VaccinationStatus: d.VaccinationStatus,
		VaccinationNotes:  d.VaccinationNotes,
		SpecialNeeds:      d.SpecialNeeds,
	}
	if d.Age != nil {
		a := *d.Age
		p.Age = &a
	}
	if d.Weight != nil {
		w := *d.Weight
		p.Weight = &w
	}
	if d.Photo != nil {
		p.Photo = d.Photo.DataURI
	}
	return p
}
