package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

// --- Error Definitions ---
var (
	ErrDayNotFound               = errors.New("day not found")
	ErrScheduledExerciseNotFound = errors.New("scheduled exercise not found")
	ErrSetNotFound               = errors.New("set not found")
	ErrWorkoutNotStarted         = errors.New("workout has not been started")
)

// autoCloseAfter is how long a session may stay in progress before it is
// considered forgotten and closed on next load.
const autoCloseAfter = 3 * time.Hour

// ExerciseEntry is one scheduled exercise with its sets.
type ExerciseEntry struct {
	Scheduled domain.ScheduledExercise `json:"scheduled"`
	Sets      []domain.Set             `json:"sets"`
}

// DayDetail is a day with its full exercise/set subtree.
type DayDetail struct {
	Day       domain.Day      `json:"day"`
	Exercises []ExerciseEntry `json:"exercises"`
}

// WorkoutService owns the day lifecycle: materializing dated instances from
// template days, recording sets and finishing sessions.
type WorkoutService interface {
	// StartDailyWorkout materializes a dated instance from the given source
	// day. Children that fail to copy are skipped and reported, never fatal.
	StartDailyWorkout(ctx context.Context, ownerID, templateDayID uuid.UUID, date, startTime time.Time) (*domain.Day, *CopyReport, error)
	FinishWorkout(ctx context.Context, ownerID, dayID uuid.UUID, endTime time.Time) (*domain.Day, error)
	GetDay(ctx context.Context, ownerID, dayID uuid.UUID) (*DayDetail, error)
	ListWorkoutHistory(ctx context.Context, ownerID, routineID uuid.UUID, from, to time.Time) ([]domain.Day, error)
	UpdateDayNote(ctx context.Context, ownerID, dayID uuid.UUID, note string) (*domain.Day, error)

	AddExerciseToDay(ctx context.Context, ownerID, dayID, exerciseID uuid.UUID, orderIndex int, note string) (*domain.ScheduledExercise, error)
	RemoveExerciseFromDay(ctx context.Context, ownerID, scheduledExerciseID uuid.UUID) error
	AddSet(ctx context.Context, ownerID, scheduledExerciseID uuid.UUID, reps *int, weight, rpe *float64, restSeconds *int) (*domain.Set, error)
	UpdateSet(ctx context.Context, ownerID, setID uuid.UUID, reps *int, weight, rpe *float64, restSeconds *int) (*domain.Set, error)
	DeleteSet(ctx context.Context, ownerID, setID uuid.UUID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	routineRepo  repository.RoutineRepository
	dayRepo      repository.DayRepository
	scheduleRepo repository.ScheduleRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	routineRepo repository.RoutineRepository,
	dayRepo repository.DayRepository,
	scheduleRepo repository.ScheduleRepository,
) WorkoutService {
	return &workoutService{
		routineRepo:  routineRepo,
		dayRepo:      dayRepo,
		scheduleRepo: scheduleRepo,
	}
}

// StartDailyWorkout deep-copies the source day's exercises and sets into a
// new dated instance. The source is read but never written; calling this
// twice creates two independent instances. Missing reps/weight in source
// sets are zero-filled so the instance logs real numbers directly.
func (s *workoutService) StartDailyWorkout(ctx context.Context, ownerID, templateDayID uuid.UUID, date, startTime time.Time) (*domain.Day, *CopyReport, error) {
	source, err := s.authorizeDay(ctx, ownerID, templateDayID)
	if err != nil {
		return nil, nil, err
	}

	// Full subtree read up front; a failing read aborts before any write.
	exercises, err := s.scheduleRepo.GetScheduledExercisesByDayID(ctx, source.ID)
	if err != nil {
		return nil, nil, err
	}
	setsByExercise := make(map[uuid.UUID][]domain.Set, len(exercises))
	for _, ex := range exercises {
		sets, err := s.scheduleRepo.GetSetsByScheduledExerciseID(ctx, ex.ID)
		if err != nil {
			return nil, nil, err
		}
		setsByExercise[ex.ID] = sets
	}

	workoutDate := domain.DateOnly(date)
	day := &domain.Day{
		RoutineID: source.RoutineID,
		DayName:   source.DayName,
		Date:      &workoutDate,
		StartTime: &startTime,
	}
	if _, err := s.dayRepo.Create(ctx, day); err != nil {
		return nil, nil, err
	}

	report := &CopyReport{}
	for i := range exercises {
		src := &exercises[i]
		copied := &domain.ScheduledExercise{
			DayID:      day.ID,
			ExerciseID: src.ExerciseID,
			OrderIndex: src.OrderIndex,
			Note:       src.Note,
		}
		if _, err := s.scheduleRepo.CreateScheduledExercise(ctx, copied); err != nil {
			report.addFailure("exercise", src.ID, err)
			continue
		}
		report.ExercisesCopied++

		for j := range setsByExercise[src.ID] {
			srcSet := &setsByExercise[src.ID][j]
			set := &domain.Set{
				ScheduledExerciseID: copied.ID,
				SetNumber:           srcSet.SetNumber,
				Reps:                zeroIfNilInt(srcSet.Reps),
				Weight:              zeroIfNilFloat(srcSet.Weight),
				RPE:                 cloneFloat(srcSet.RPE),
				RestSeconds:         cloneInt(srcSet.RestSeconds),
			}
			if _, err := s.scheduleRepo.CreateSet(ctx, set); err != nil {
				report.addFailure("set", srcSet.ID, err)
				continue
			}
			report.SetsCopied++
		}
	}

	if report.FailureCount() > 0 {
		log.WithFields(log.Fields{
			"dayId":    day.ID,
			"sourceId": source.ID,
			"failures": report.FailureCount(),
		}).Warn("workout started with skipped children")
	}
	return day, report, nil
}

// FinishWorkout stamps the end timestamp and the completion flag.
func (s *workoutService) FinishWorkout(ctx context.Context, ownerID, dayID uuid.UUID, endTime time.Time) (*domain.Day, error) {
	day, err := s.authorizeDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	if day.StartTime == nil {
		return nil, ErrWorkoutNotStarted
	}
	day.EndTime = &endTime
	day.IsCompleted = true
	if err := s.dayRepo.Update(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

// GetDay returns the day with its full subtree, auto-closing a forgotten
// session first.
func (s *workoutService) GetDay(ctx context.Context, ownerID, dayID uuid.UUID) (*DayDetail, error) {
	day, err := s.authorizeDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	s.maybeAutoClose(ctx, day)

	exercises, err := s.scheduleRepo.GetScheduledExercisesByDayID(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	detail := &DayDetail{Day: *day, Exercises: make([]ExerciseEntry, 0, len(exercises))}
	for _, ex := range exercises {
		sets, err := s.scheduleRepo.GetSetsByScheduledExerciseID(ctx, ex.ID)
		if err != nil {
			return nil, err
		}
		detail.Exercises = append(detail.Exercises, ExerciseEntry{Scheduled: ex, Sets: sets})
	}
	return detail, nil
}

// ListWorkoutHistory returns the routine's dated instances in [from, to],
// newest first, auto-closing any forgotten sessions among them.
func (s *workoutService) ListWorkoutHistory(ctx context.Context, ownerID, routineID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
	if _, err := s.authorizeRoutine(ctx, ownerID, routineID); err != nil {
		return nil, err
	}
	days, err := s.dayRepo.GetDatedInstances(ctx, routineID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range days {
		s.maybeAutoClose(ctx, &days[i])
	}
	return days, nil
}

func (s *workoutService) UpdateDayNote(ctx context.Context, ownerID, dayID uuid.UUID, note string) (*domain.Day, error) {
	day, err := s.authorizeDay(ctx, ownerID, dayID)
	if err != nil {
		return nil, err
	}
	day.Note = note
	if err := s.dayRepo.Update(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *workoutService) AddExerciseToDay(ctx context.Context, ownerID, dayID, exerciseID uuid.UUID, orderIndex int, note string) (*domain.ScheduledExercise, error) {
	if _, err := s.authorizeDay(ctx, ownerID, dayID); err != nil {
		return nil, err
	}
	scheduled := &domain.ScheduledExercise{
		DayID:      dayID,
		ExerciseID: exerciseID,
		OrderIndex: orderIndex,
		Note:       note,
	}
	if _, err := s.scheduleRepo.CreateScheduledExercise(ctx, scheduled); err != nil {
		return nil, err
	}
	return scheduled, nil
}

func (s *workoutService) RemoveExerciseFromDay(ctx context.Context, ownerID, scheduledExerciseID uuid.UUID) error {
	if _, err := s.authorizeScheduledExercise(ctx, ownerID, scheduledExerciseID); err != nil {
		return err
	}
	err := s.scheduleRepo.DeleteScheduledExercise(ctx, scheduledExerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrScheduledExerciseNotFound
	}
	return err
}

// AddSet appends a set after the current highest set number. Numbers stay
// unique and increasing but may become non-contiguous after deletions.
func (s *workoutService) AddSet(ctx context.Context, ownerID, scheduledExerciseID uuid.UUID, reps *int, weight, rpe *float64, restSeconds *int) (*domain.Set, error) {
	if _, err := s.authorizeScheduledExercise(ctx, ownerID, scheduledExerciseID); err != nil {
		return nil, err
	}
	existing, err := s.scheduleRepo.GetSetsByScheduledExerciseID(ctx, scheduledExerciseID)
	if err != nil {
		return nil, err
	}
	nextNumber := 1
	for _, set := range existing {
		if set.SetNumber >= nextNumber {
			nextNumber = set.SetNumber + 1
		}
	}
	set := &domain.Set{
		ScheduledExerciseID: scheduledExerciseID,
		SetNumber:           nextNumber,
		Reps:                reps,
		Weight:              weight,
		RPE:                 rpe,
		RestSeconds:         restSeconds,
	}
	if _, err := s.scheduleRepo.CreateSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *workoutService) UpdateSet(ctx context.Context, ownerID, setID uuid.UUID, reps *int, weight, rpe *float64, restSeconds *int) (*domain.Set, error) {
	set, err := s.authorizeSet(ctx, ownerID, setID)
	if err != nil {
		return nil, err
	}
	set.Reps = reps
	set.Weight = weight
	set.RPE = rpe
	set.RestSeconds = restSeconds
	if err := s.scheduleRepo.UpdateSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *workoutService) DeleteSet(ctx context.Context, ownerID, setID uuid.UUID) error {
	if _, err := s.authorizeSet(ctx, ownerID, setID); err != nil {
		return err
	}
	err := s.scheduleRepo.DeleteSet(ctx, setID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSetNotFound
	}
	return err
}

// maybeAutoClose stamps end time and completion on a session that has been
// in progress for over autoCloseAfter. Lazy correction only: it runs when
// the day is loaded, never from a background job. A failed stamp is logged
// and the in-memory day reverted, so the caller sees stored state.
func (s *workoutService) maybeAutoClose(ctx context.Context, day *domain.Day) {
	if day.State() != domain.StateInProgress {
		return
	}
	if time.Since(*day.StartTime) <= autoCloseAfter {
		return
	}
	now := time.Now().UTC()
	day.EndTime = &now
	day.IsCompleted = true
	if err := s.dayRepo.Update(ctx, day); err != nil {
		log.WithError(err).WithField("dayId", day.ID).Warn("failed to auto-close workout")
		day.EndTime = nil
		day.IsCompleted = false
	}
}

// authorizeDay resolves the day and checks the owning routine belongs to
// ownerID.
func (s *workoutService) authorizeDay(ctx context.Context, ownerID, dayID uuid.UUID) (*domain.Day, error) {
	if ownerID == uuid.Nil || dayID == uuid.Nil {
		return nil, errors.New("owner ID and day ID are required")
	}
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if _, err := s.authorizeRoutine(ctx, ownerID, day.RoutineID); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *workoutService) authorizeRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.WeeklyRoutine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if routine.OwnerID != ownerID {
		return nil, ErrRoutineAccessDenied
	}
	return routine, nil
}

func (s *workoutService) authorizeScheduledExercise(ctx context.Context, ownerID, scheduledExerciseID uuid.UUID) (*domain.ScheduledExercise, error) {
	scheduled, err := s.scheduleRepo.GetScheduledExerciseByID(ctx, scheduledExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduledExerciseNotFound
		}
		return nil, err
	}
	if _, err := s.authorizeDay(ctx, ownerID, scheduled.DayID); err != nil {
		return nil, err
	}
	return scheduled, nil
}

func (s *workoutService) authorizeSet(ctx context.Context, ownerID, setID uuid.UUID) (*domain.Set, error) {
	set, err := s.scheduleRepo.GetSetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	if _, err := s.authorizeScheduledExercise(ctx, ownerID, set.ScheduledExerciseID); err != nil {
		return nil, err
	}
	return set, nil
}

func zeroIfNilInt(v *int) *int {
	if v == nil {
		zero := 0
		return &zero
	}
	return cloneInt(v)
}

func zeroIfNilFloat(v *float64) *float64 {
	if v == nil {
		zero := 0.0
		return &zero
	}
	return cloneFloat(v)
}
