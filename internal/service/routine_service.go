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
	ErrRoutineNotFound     = errors.New("routine not found")
	ErrRoutineAccessDenied = errors.New("access denied to this routine")
)

// RoutineDetail bundles a routine with its seven template days.
type RoutineDetail struct {
	Routine      domain.WeeklyRoutine `json:"routine"`
	TemplateDays []domain.Day         `json:"templateDays"`
}

// RoutineService manages weekly routines: creation, duplication from a
// template and the single-active-routine rule.
type RoutineService interface {
	CreateRoutine(ctx context.Context, ownerID uuid.UUID, name, objective string) (*domain.WeeklyRoutine, error)
	GetRoutines(ctx context.Context, ownerID uuid.UUID) ([]domain.WeeklyRoutine, error)
	GetRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*RoutineDetail, error)
	UpdateRoutine(ctx context.Context, ownerID, routineID uuid.UUID, name, objective string) (*domain.WeeklyRoutine, error)
	DeleteRoutine(ctx context.Context, ownerID, routineID uuid.UUID) error
	CreateRoutineFromTemplate(ctx context.Context, ownerID, templateRoutineID uuid.UUID, newName, objective string) (*domain.WeeklyRoutine, *CopyReport, error)
	SetActiveRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.WeeklyRoutine, error)
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo  repository.RoutineRepository
	dayRepo      repository.DayRepository
	scheduleRepo repository.ScheduleRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(
	routineRepo repository.RoutineRepository,
	dayRepo repository.DayRepository,
	scheduleRepo repository.ScheduleRepository,
) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		dayRepo:      dayRepo,
		scheduleRepo: scheduleRepo,
	}
}

// CreateRoutine creates a named routine and seeds its seven template days.
func (s *routineService) CreateRoutine(ctx context.Context, ownerID uuid.UUID, name, objective string) (*domain.WeeklyRoutine, error) {
	if ownerID == uuid.Nil || name == "" {
		return nil, errors.New("owner ID and routine name are required")
	}

	routine := &domain.WeeklyRoutine{
		OwnerID:    ownerID,
		Name:       name,
		Objective:  objective,
		IsTemplate: true,
		IsActive:   false,
	}
	if _, err := s.routineRepo.Create(ctx, routine); err != nil {
		return nil, err
	}

	for _, dayName := range domain.WeekdayNames {
		day := &domain.Day{RoutineID: routine.ID, DayName: dayName}
		if _, err := s.dayRepo.Create(ctx, day); err != nil {
			// A routine with a missing weekday is unusable; this is a
			// top-level write failure, not a skippable child.
			return nil, err
		}
	}

	return routine, nil
}

func (s *routineService) GetRoutines(ctx context.Context, ownerID uuid.UUID) ([]domain.WeeklyRoutine, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("owner ID is required")
	}
	return s.routineRepo.GetByOwnerID(ctx, ownerID)
}

func (s *routineService) GetRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*RoutineDetail, error) {
	routine, err := s.authorizeRoutine(ctx, ownerID, routineID)
	if err != nil {
		return nil, err
	}
	days, err := s.dayRepo.GetTemplateDays(ctx, routineID)
	if err != nil {
		return nil, err
	}
	return &RoutineDetail{Routine: *routine, TemplateDays: days}, nil
}

func (s *routineService) UpdateRoutine(ctx context.Context, ownerID, routineID uuid.UUID, name, objective string) (*domain.WeeklyRoutine, error) {
	routine, err := s.authorizeRoutine(ctx, ownerID, routineID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		routine.Name = name
	}
	routine.Objective = objective
	if err := s.routineRepo.Update(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *routineService) DeleteRoutine(ctx context.Context, ownerID, routineID uuid.UUID) error {
	if ownerID == uuid.Nil || routineID == uuid.Nil {
		return errors.New("owner ID and routine ID are required")
	}
	err := s.routineRepo.Delete(ctx, routineID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoutineNotFound
	}
	return err
}

// CreateRoutineFromTemplate founds a new routine for ownerID by deep-copying
// the template routine's days, scheduled exercises and sets. Copies are
// created as fresh template days (no dates). Individual children that fail
// to copy are skipped and collected in the returned CopyReport; only a
// failure to write the routine row itself aborts the operation.
func (s *routineService) CreateRoutineFromTemplate(ctx context.Context, ownerID, templateRoutineID uuid.UUID, newName, objective string) (*domain.WeeklyRoutine, *CopyReport, error) {
	if ownerID == uuid.Nil || newName == "" {
		return nil, nil, errors.New("owner ID and new routine name are required")
	}

	source, err := s.routineRepo.GetByID(ctx, templateRoutineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrRoutineNotFound
		}
		return nil, nil, err
	}

	sourceDays, err := s.dayRepo.GetTemplateDays(ctx, source.ID)
	if err != nil {
		return nil, nil, err
	}

	weekStart := domain.MondayOf(time.Now())
	routine := &domain.WeeklyRoutine{
		OwnerID:       ownerID,
		Name:          newName,
		Objective:     objective,
		IsTemplate:    true, // Copies stay duplicable themselves
		IsActive:      false,
		CopiedFromID:  &source.ID,
		WeekStartDate: &weekStart,
	}
	if _, err := s.routineRepo.Create(ctx, routine); err != nil {
		return nil, nil, err
	}

	report := &CopyReport{}
	for i := range sourceDays {
		s.copyDay(ctx, &sourceDays[i], routine.ID, report)
	}

	if report.FailureCount() > 0 {
		log.WithFields(log.Fields{
			"routineId": routine.ID,
			"sourceId":  source.ID,
			"failures":  report.FailureCount(),
		}).Warn("routine duplicated with skipped children")
	}
	return routine, report, nil
}

// copyDay copies one template day with its subtree into the new routine.
// Failures at any level skip the affected child and continue with siblings.
func (s *routineService) copyDay(ctx context.Context, src *domain.Day, routineID uuid.UUID, report *CopyReport) {
	day := &domain.Day{
		RoutineID: routineID,
		DayName:   src.DayName,
		Note:      src.Note,
	}
	if _, err := s.dayRepo.Create(ctx, day); err != nil {
		report.addFailure("day", src.ID, err)
		return
	}
	report.DaysCopied++

	exercises, err := s.scheduleRepo.GetScheduledExercisesByDayID(ctx, src.ID)
	if err != nil {
		report.addFailure("day", src.ID, err)
		return
	}

	for i := range exercises {
		s.copyTemplateExercise(ctx, &exercises[i], day.ID, report)
	}
}

func (s *routineService) copyTemplateExercise(ctx context.Context, src *domain.ScheduledExercise, dayID uuid.UUID, report *CopyReport) {
	copied := &domain.ScheduledExercise{
		DayID:      dayID,
		ExerciseID: src.ExerciseID,
		OrderIndex: src.OrderIndex,
		Note:       src.Note,
	}
	if _, err := s.scheduleRepo.CreateScheduledExercise(ctx, copied); err != nil {
		report.addFailure("exercise", src.ID, err)
		return
	}
	report.ExercisesCopied++

	sets, err := s.scheduleRepo.GetSetsByScheduledExerciseID(ctx, src.ID)
	if err != nil {
		report.addFailure("exercise", src.ID, err)
		return
	}

	if len(sets) == 0 {
		// A copied exercise with zero set rows would be uneditable in the
		// client, so give it three empty slots to fill in.
		for n := 1; n <= 3; n++ {
			set := &domain.Set{ScheduledExerciseID: copied.ID, SetNumber: n}
			if _, err := s.scheduleRepo.CreateSet(ctx, set); err != nil {
				report.addFailure("set", src.ID, err)
				continue
			}
			report.SetsCopied++
		}
		return
	}

	for i := range sets {
		src := &sets[i]
		// Template duplication preserves missing reps/weight as missing,
		// unlike materialization which zero-fills them.
		set := &domain.Set{
			ScheduledExerciseID: copied.ID,
			SetNumber:           src.SetNumber,
			Reps:                cloneInt(src.Reps),
			Weight:              cloneFloat(src.Weight),
			RPE:                 cloneFloat(src.RPE),
			RestSeconds:         cloneInt(src.RestSeconds),
		}
		if _, err := s.scheduleRepo.CreateSet(ctx, set); err != nil {
			report.addFailure("set", src.ID, err)
			continue
		}
		report.SetsCopied++
	}
}

// SetActiveRoutine makes routineID the single active routine of ownerID.
// After it returns successfully exactly one routine of the owner is active.
func (s *routineService) SetActiveRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.WeeklyRoutine, error) {
	if _, err := s.authorizeRoutine(ctx, ownerID, routineID); err != nil {
		return nil, err
	}
	if err := s.routineRepo.SetActive(ctx, ownerID, routineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

func (s *routineService) authorizeRoutine(ctx context.Context, ownerID, routineID uuid.UUID) (*domain.WeeklyRoutine, error) {
	if ownerID == uuid.Nil || routineID == uuid.Nil {
		return nil, errors.New("owner ID and routine ID are required")
	}
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

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
