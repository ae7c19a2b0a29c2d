package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

// memStore is a shared in-memory backing store for the fake repositories.
// Values are stored by value so fetched rows never alias stored ones.
type memStore struct {
	routines map[uuid.UUID]domain.WeeklyRoutine
	days     map[uuid.UUID]domain.Day
	dayOrder []uuid.UUID
	exs      map[uuid.UUID]domain.ScheduledExercise
	sets     map[uuid.UUID]domain.Set
	photos   map[uuid.UUID]domain.ProgressPhoto
}

func newMemStore() *memStore {
	return &memStore{
		routines: map[uuid.UUID]domain.WeeklyRoutine{},
		days:     map[uuid.UUID]domain.Day{},
		exs:      map[uuid.UUID]domain.ScheduledExercise{},
		sets:     map[uuid.UUID]domain.Set{},
		photos:   map[uuid.UUID]domain.ProgressPhoto{},
	}
}

// --- RoutineRepository fake ---

type fakeRoutineRepo struct {
	store *memStore
}

func (r *fakeRoutineRepo) Create(_ context.Context, routine *domain.WeeklyRoutine) (uuid.UUID, error) {
	routine.ID = uuid.New()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	r.store.routines[routine.ID] = *routine
	return routine.ID, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WeeklyRoutine, error) {
	routine, ok := r.store.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &routine, nil
}

func (r *fakeRoutineRepo) GetByOwnerID(_ context.Context, ownerID uuid.UUID) ([]domain.WeeklyRoutine, error) {
	routines := []domain.WeeklyRoutine{}
	for _, routine := range r.store.routines {
		if routine.OwnerID == ownerID {
			routines = append(routines, routine)
		}
	}
	return routines, nil
}

func (r *fakeRoutineRepo) Update(_ context.Context, routine *domain.WeeklyRoutine) error {
	if _, ok := r.store.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	routine.UpdatedAt = time.Now().UTC()
	r.store.routines[routine.ID] = *routine
	return nil
}

func (r *fakeRoutineRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	routine, ok := r.store.routines[id]
	if !ok || routine.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.store.routines, id)
	for dayID, day := range r.store.days {
		if day.RoutineID == id {
			r.store.cascadeDeleteDay(dayID)
		}
	}
	return nil
}

func (r *fakeRoutineRepo) SetActive(_ context.Context, ownerID, routineID uuid.UUID) error {
	target, ok := r.store.routines[routineID]
	if !ok || target.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	for id, routine := range r.store.routines {
		if routine.OwnerID == ownerID && routine.IsActive {
			routine.IsActive = false
			r.store.routines[id] = routine
		}
	}
	target.IsActive = true
	r.store.routines[routineID] = target
	return nil
}

// --- DayRepository fake ---

type fakeDayRepo struct {
	store         *memStore
	failDayCreate func(*domain.Day) error
}

func (r *fakeDayRepo) Create(_ context.Context, day *domain.Day) (uuid.UUID, error) {
	if r.failDayCreate != nil {
		if err := r.failDayCreate(day); err != nil {
			return uuid.Nil, err
		}
	}
	day.ID = uuid.New()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now
	r.store.days[day.ID] = *day
	r.store.dayOrder = append(r.store.dayOrder, day.ID)
	return day.ID, nil
}

func (r *fakeDayRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Day, error) {
	day, ok := r.store.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &day, nil
}

func (r *fakeDayRepo) GetTemplateDays(_ context.Context, routineID uuid.UUID) ([]domain.Day, error) {
	days := []domain.Day{}
	for _, id := range r.store.dayOrder {
		day, ok := r.store.days[id]
		if ok && day.RoutineID == routineID && day.Date == nil {
			days = append(days, day)
		}
	}
	return days, nil
}

func (r *fakeDayRepo) GetDatedInstances(_ context.Context, routineID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
	days := []domain.Day{}
	for _, id := range r.store.dayOrder {
		day, ok := r.store.days[id]
		if !ok || day.RoutineID != routineID || day.Date == nil {
			continue
		}
		date := domain.DateOnly(*day.Date)
		if date.Before(domain.DateOnly(from)) || date.After(domain.DateOnly(to)) {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.After(*days[j].Date) })
	return days, nil
}

func (r *fakeDayRepo) Update(_ context.Context, day *domain.Day) error {
	if _, ok := r.store.days[day.ID]; !ok {
		return repository.ErrNotFound
	}
	day.UpdatedAt = time.Now().UTC()
	r.store.days[day.ID] = *day
	return nil
}

func (r *fakeDayRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.days[id]; !ok {
		return repository.ErrNotFound
	}
	r.store.cascadeDeleteDay(id)
	return nil
}

func (s *memStore) cascadeDeleteDay(dayID uuid.UUID) {
	delete(s.days, dayID)
	for exID, ex := range s.exs {
		if ex.DayID == dayID {
			s.cascadeDeleteExercise(exID)
		}
	}
}

func (s *memStore) cascadeDeleteExercise(exID uuid.UUID) {
	delete(s.exs, exID)
	for setID, set := range s.sets {
		if set.ScheduledExerciseID == exID {
			delete(s.sets, setID)
		}
	}
}

// --- ScheduleRepository fake ---

type fakeScheduleRepo struct {
	store              *memStore
	failExerciseCreate func(*domain.ScheduledExercise) error
	failSetCreate      func(*domain.Set) error
}

func (r *fakeScheduleRepo) CreateScheduledExercise(_ context.Context, ex *domain.ScheduledExercise) (uuid.UUID, error) {
	if r.failExerciseCreate != nil {
		if err := r.failExerciseCreate(ex); err != nil {
			return uuid.Nil, err
		}
	}
	ex.ID = uuid.New()
	ex.CreatedAt = time.Now().UTC()
	r.store.exs[ex.ID] = *ex
	return ex.ID, nil
}

func (r *fakeScheduleRepo) GetScheduledExerciseByID(_ context.Context, id uuid.UUID) (*domain.ScheduledExercise, error) {
	ex, ok := r.store.exs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func (r *fakeScheduleRepo) GetScheduledExercisesByDayID(_ context.Context, dayID uuid.UUID) ([]domain.ScheduledExercise, error) {
	exercises := []domain.ScheduledExercise{}
	for _, ex := range r.store.exs {
		if ex.DayID == dayID {
			exercises = append(exercises, ex)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].OrderIndex < exercises[j].OrderIndex })
	return exercises, nil
}

func (r *fakeScheduleRepo) DeleteScheduledExercise(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.exs[id]; !ok {
		return repository.ErrNotFound
	}
	r.store.cascadeDeleteExercise(id)
	return nil
}

func (r *fakeScheduleRepo) CreateSet(_ context.Context, set *domain.Set) (uuid.UUID, error) {
	if r.failSetCreate != nil {
		if err := r.failSetCreate(set); err != nil {
			return uuid.Nil, err
		}
	}
	set.ID = uuid.New()
	set.CreatedAt = time.Now().UTC()
	r.store.sets[set.ID] = *set
	return set.ID, nil
}

func (r *fakeScheduleRepo) GetSetByID(_ context.Context, id uuid.UUID) (*domain.Set, error) {
	set, ok := r.store.sets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &set, nil
}

func (r *fakeScheduleRepo) GetSetsByScheduledExerciseID(_ context.Context, exID uuid.UUID) ([]domain.Set, error) {
	sets := []domain.Set{}
	for _, set := range r.store.sets {
		if set.ScheduledExerciseID == exID {
			sets = append(sets, set)
		}
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })
	return sets, nil
}

func (r *fakeScheduleRepo) UpdateSet(_ context.Context, set *domain.Set) error {
	if _, ok := r.store.sets[set.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.sets[set.ID] = *set
	return nil
}

func (r *fakeScheduleRepo) DeleteSet(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.sets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.sets, id)
	return nil
}

// --- ProgressPhotoRepository fake ---

type fakePhotoRepo struct {
	store *memStore
}

func (r *fakePhotoRepo) Create(_ context.Context, photo *domain.ProgressPhoto) (uuid.UUID, error) {
	photo.ID = uuid.New()
	photo.UploadedAt = time.Now().UTC()
	r.store.photos[photo.ID] = *photo
	return photo.ID, nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ProgressPhoto, error) {
	photo, ok := r.store.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &photo, nil
}

func (r *fakePhotoRepo) GetByOwnerID(_ context.Context, ownerID uuid.UUID) ([]domain.ProgressPhoto, error) {
	photos := []domain.ProgressPhoto{}
	for _, photo := range r.store.photos {
		if photo.OwnerID == ownerID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (r *fakePhotoRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	photo, ok := r.store.photos[id]
	if !ok || photo.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.store.photos, id)
	return nil
}

// --- FileStorage fake ---

type fakeFileStorage struct {
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- Test environment ---

type testEnv struct {
	store        *memStore
	routineRepo  *fakeRoutineRepo
	dayRepo      *fakeDayRepo
	scheduleRepo *fakeScheduleRepo
	photoRepo    *fakePhotoRepo
	storage      *fakeFileStorage

	routines RoutineService
	workouts WorkoutService
	progress ProgressService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:        store,
		routineRepo:  &fakeRoutineRepo{store: store},
		dayRepo:      &fakeDayRepo{store: store},
		scheduleRepo: &fakeScheduleRepo{store: store},
		photoRepo:    &fakePhotoRepo{store: store},
		storage:      &fakeFileStorage{},
	}
	env.routines = NewRoutineService(env.routineRepo, env.dayRepo, env.scheduleRepo)
	env.workouts = NewWorkoutService(env.routineRepo, env.dayRepo, env.scheduleRepo)
	env.progress = NewProgressService(env.routineRepo, env.dayRepo, env.scheduleRepo, env.photoRepo, env.storage)
	return env
}
