package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mem "pet-party/internal/adapters/storage/memory"
	"pet-party/internal/ports/storage"
)

// -------------------------
// Test helpers
// -------------------------

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	cur := c.t
	c.t = c.t.Add(c.step)
	return cur
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC), step: time.Second}
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("pet-%d", n)
	}
}

// failingKV falla las escrituras mientras fail sea true y las próximas
// failReads lecturas.
type failingKV struct {
	mu        sync.Mutex
	fail      bool
	failReads int
	writes    int
	removes   int
	data      map[string]string
}

func newFailingKV() *failingKV {
	return &failingKV{data: map[string]string{}}
}

func (f *failingKV) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads > 0 {
		f.failReads--
		return "", false, errors.New("connection reset")
	}
	v, ok := f.data[namespace+"/"+key]
	return v, ok, nil
}

func (f *failingKV) SetItem(ctx context.Context, namespace, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return storage.ErrQuotaExceeded
	}
	f.writes++
	f.data[namespace+"/"+key] = value
	return nil
}

func (f *failingKV) RemoveItem(ctx context.Context, namespace, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return storage.ErrQuotaExceeded
	}
	f.removes++
	delete(f.data, namespace+"/"+key)
	return nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func rex(age int) Draft {
	return Draft{Name: "Rex", Type: TypeDog, Age: intPtr(age)}
}

func newTestStore(kv storage.KeyValue) (*Store, *stepClock) {
	clock := newClock()
	return NewStore(kv, "local", WithClock(clock.now), WithIDGenerator(seqIDs())), clock
}

// -------------------------
// Tests
// -------------------------

func TestStore_Scenario_AddUpdateRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(mem.NewKV(0))

	p, err := s.Add(ctx, rex(3))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := s.List(ctx); len(got) != 1 {
		t.Fatalf("expected 1 pet, got %d", len(got))
	}
	if st := s.Statistics(ctx); st.CountByType[TypeDog] != 1 {
		t.Fatalf("expected 1 dog, got %#v", st.CountByType)
	}

	updated, err := s.Update(ctx, p.ID, rex(4))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if *updated.Age != 4 {
		t.Fatalf("expected age 4, got %d", *updated.Age)
	}
	if st := s.Statistics(ctx); st.CountByType[TypeDog] != 1 {
		t.Fatalf("expected dog count unchanged at 1, got %d", st.CountByType[TypeDog])
	}

	if err := s.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if got := s.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
	if st := s.Statistics(ctx); st.Total != 0 {
		t.Fatalf("expected total 0, got %d", st.Total)
	}
}

func TestStore_Add_ThenLoad_OneMoreRecord(t *testing.T) {
	ctx := context.Background()
	kv := mem.NewKV(0)
	s, _ := newTestStore(kv)

	_, _ = s.Add(ctx, Draft{Name: "Milo", Type: TypeCat})
	before := len(s.Load(ctx))

	p, err := s.Add(ctx, Draft{
		Name:              "  Kiwi ",
		Type:              TypeBird,
		Breed:             " parrot ",
		Gender:            GenderFemale,
		Weight:            floatPtr(0.4),
		VaccinationStatus: VaccinationPartial,
		VaccinationNotes:  "second dose pending",
		SpecialNeeds:      "no loud music",
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt on add")
	}
	if p.Name != "Kiwi" || p.Breed != "parrot" {
		t.Fatalf("expected trimmed fields, got name=%q breed=%q", p.Name, p.Breed)
	}

	fresh, _ := newTestStore(kv)
	after := fresh.Load(ctx)
	if len(after) != before+1 {
		t.Fatalf("expected %d pets after reload, got %d", before+1, len(after))
	}
	if diff := cmp.Diff(p, after[len(after)-1]); diff != "" {
		t.Fatalf("reloaded pet differs (-want +got):\n%s", diff)
	}
}

func TestStore_Update_PreservesIdentityAndAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(mem.NewKV(0))

	p, _ := s.Add(ctx, rex(3))
	u, err := s.Update(ctx, p.ID, Draft{Name: "Rexy", Type: TypeDog})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if u.ID != p.ID || !u.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("expected id/createdAt preserved")
	}
	if !u.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance: %v -> %v", p.UpdatedAt, u.UpdatedAt)
	}
	if u.Age != nil {
		t.Fatalf("full replace must clear age, got %v", *u.Age)
	}

	// Reloj hacia atrás: updatedAt no retrocede.
	clock.t = clock.t.Add(-time.Hour)
	u2, err := s.Update(ctx, p.ID, rex(5))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if u2.UpdatedAt.Before(u.UpdatedAt) {
		t.Fatalf("updatedAt decreased: %v -> %v", u.UpdatedAt, u2.UpdatedAt)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	s, _ := newTestStore(mem.NewKV(0))

	_, err := s.Update(context.Background(), "missing", rex(1))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is ErrNotFound")
	}
}

func TestStore_Update_ValidatesBeforeLookup(t *testing.T) {
	s, _ := newTestStore(mem.NewKV(0))

	_, err := s.Update(context.Background(), "missing", Draft{Type: TypeDog})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name ValidationError, got %v", err)
	}
}

func TestStore_Remove_ThenGet_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(mem.NewKV(0))

	a, _ := s.Add(ctx, rex(1))
	_, _ = s.Add(ctx, Draft{Name: "Milo", Type: TypeCat})

	if err := s.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := s.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
	if n := len(s.List(ctx)); n != 1 {
		t.Fatalf("expected 1 pet left, got %d", n)
	}
	if err := s.Remove(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFoundError on second remove, got %v", err)
	}
}

func TestStore_Add_InvalidDraft_NoWrite(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	var failedField string
	s := NewStore(kv, "local", WithHooks(Hooks{
		ValidationFailed: func(field, message string) { failedField = field },
	}))

	bigPhoto := &Photo{DataURI: "data:image/png;base64,AAAA", Size: MaxPhotoBytes + 1}
	_, err := s.Add(ctx, Draft{Name: "Rex", Type: TypeDog, Photo: bigPhoto})

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "photo" {
		t.Fatalf("expected photo ValidationError, got %v", err)
	}
	if failedField != "photo" {
		t.Fatalf("expected ValidationFailed hook for photo, got %q", failedField)
	}
	if kv.writes != 0 || len(s.List(ctx)) != 0 {
		t.Fatalf("expected no mutation, writes=%d", kv.writes)
	}
}

func TestStore_StorageFailure_KeepsInMemoryChange(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	kv.fail = true

	var storageMsgs []string
	var changed int
	s := NewStore(kv, "local", WithHooks(Hooks{
		StorageFailed:     func(msg string) { storageMsgs = append(storageMsgs, msg) },
		CollectionChanged: func(items []PetProfile) { changed = len(items) },
	}))

	p, err := s.Add(ctx, rex(2))
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("expected wrapped quota error, got %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected the created record alongside the storage error")
	}
	if _, err := s.Get(ctx, p.ID); err != nil {
		t.Fatalf("expected pet kept in memory, got %v", err)
	}
	if !s.Dirty() || len(storageMsgs) != 1 || changed != 1 {
		t.Fatalf("expected dirty store, one storage hook and a change notification")
	}

	kv.fail = false
	if err := s.Persist(ctx); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("expected clean store after Persist")
	}
	if raw, ok, _ := kv.GetItem(ctx, "local", StorageKey); !ok || !strings.Contains(raw, p.ID) {
		t.Fatalf("expected collection persisted, got %q", raw)
	}
}

func TestStore_Load_CorruptPayload_Empty(t *testing.T) {
	ctx := context.Background()
	kv := mem.NewKV(0)
	_ = kv.SetItem(ctx, "local", StorageKey, "{not json")

	var decodeErr error
	s := NewStore(kv, "local", WithHooks(Hooks{DecodeFailed: func(err error) { decodeErr = err }}))

	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
	var de *DecodeError
	if !errors.As(decodeErr, &de) {
		t.Fatalf("expected DecodeError in hook, got %v", decodeErr)
	}
}

func TestStore_Load_Missing_Empty(t *testing.T) {
	s, _ := newTestStore(mem.NewKV(0))
	if got := s.Load(context.Background()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", got)
	}
}

func TestStore_Load_RepairsIDs(t *testing.T) {
	ctx := context.Background()
	kv := mem.NewKV(0)
	_ = kv.SetItem(ctx, "local", StorageKey,
		`[{"id":"a","name":"A","type":"dog"},{"id":"a","name":"B","type":"cat"},{"name":"C","type":"fish"}]`)

	s, _ := newTestStore(kv)
	got := s.Load(ctx)
	if len(got) != 2 {
		t.Fatalf("expected duplicate dropped, got %d", len(got))
	}
	if got[0].Name != "A" || got[1].ID != "pet-1" {
		t.Fatalf("unexpected repaired collection: %#v", got)
	}
}

func TestStore_RoundTrip_AfterOperations(t *testing.T) {
	ctx := context.Background()
	kv := mem.NewKV(0)
	s, _ := newTestStore(kv)

	a, _ := s.Add(ctx, rex(3))
	b, _ := s.Add(ctx, Draft{Name: "Milo", Type: TypeCat, Weight: floatPtr(4.25), Gender: GenderMale})
	_, _ = s.Add(ctx, Draft{Name: "Nemo", Type: TypeFish})
	_, _ = s.Update(ctx, b.ID, Draft{Name: "Milo", Type: TypeCat, Age: intPtr(0), VaccinationStatus: VaccinationOverdue})
	_ = s.Remove(ctx, a.ID)

	want := s.List(ctx)
	fresh, _ := newTestStore(kv)
	got := fresh.Load(ctx)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(mem.NewKV(0))

	p, _ := s.Add(ctx, rex(3))
	*p.Age = 29

	got, _ := s.Get(ctx, p.ID)
	if *got.Age != 3 {
		t.Fatalf("caller mutated store state: age=%d", *got.Age)
	}
}

func TestStore_ReadFailure_RefusesWritesUntilLoaded(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	seed, _ := newTestStore(kv)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := seed.Add(ctx, Draft{Name: name, Type: TypeCat}); err != nil {
			t.Fatalf("seed Add returned error: %v", err)
		}
	}
	writes := kv.writes

	kv.failReads = 2
	s, _ := newTestStore(kv)
	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty view while backend is down, got %d", len(got))
	}
	if s.Loaded() {
		t.Fatalf("expected store not loaded after read failure")
	}

	_, err := s.Add(ctx, Draft{Name: "D", Type: TypeDog})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if kv.writes != writes {
		t.Fatalf("expected no write while unloaded, writes %d -> %d", writes, kv.writes)
	}

	// El backend volvió: la siguiente mutación carga primero.
	if _, err := s.Add(ctx, Draft{Name: "D", Type: TypeDog}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	fresh, _ := newTestStore(kv)
	if n := len(fresh.Load(ctx)); n != 4 {
		t.Fatalf("expected 4 persisted pets, got %d", n)
	}
}

func TestStore_RemoveLast_ClearsKey(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	s, _ := newTestStore(kv)

	p, _ := s.Add(ctx, rex(1))
	if err := s.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if kv.removes != 1 {
		t.Fatalf("expected key removed, removes=%d", kv.removes)
	}
	if _, ok, _ := kv.GetItem(ctx, "local", StorageKey); ok {
		t.Fatalf("expected no persisted collection")
	}
	if got := s.Load(ctx); len(got) != 0 || !s.Loaded() {
		t.Fatalf("expected loaded empty collection, got %d", len(got))
	}
}
