package services

import (
	"fmt"

	"ossmanager_go/models"
)

// DefinePlan appends a new membership plan.
func (s *AcademyService) DefinePlan(name string, price int, actorID string) (models.Plan, error) {
	if name == "" {
		return models.Plan{}, models.NewValidation("plan name is required")
	}
	if price < 0 {
		return models.Plan{}, models.NewValidation("plan price cannot be negative, got %d", price)
	}

	plan := models.Plan{ID: models.NewID(), Name: name, Price: price}
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Plans = append(snap.Plans, plan)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("New plan created: %s", name), actorOrSystem(actorID)))
		return snap, nil
	})
	if err != nil {
		return models.Plan{}, err
	}
	return plan, nil
}

// RemovePlan deletes a plan. Removal does not cascade: students
// referencing it keep a now-dangling plan id, which resolves to
// "no plan" on lookup.
func (s *AcademyService) RemovePlan(planID, actorID string) error {
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.PlanIndex(planID)
		if i < 0 {
			return snap, models.NewNotFound("plan", planID)
		}
		name := snap.Plans[i].Name
		snap.Plans = append(snap.Plans[:i], snap.Plans[i+1:]...)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("Plan removed: %s", name), actorOrSystem(actorID)))
		return snap, nil
	})
	return err
}

// DefineSchedule appends a class slot to the weekly grid.
func (s *AcademyService) DefineSchedule(weekday, timeOfDay, classType, actorID string) (models.Schedule, error) {
	if weekday == "" || timeOfDay == "" {
		return models.Schedule{}, models.NewValidation("schedule weekday and time are required")
	}

	schedule := models.Schedule{
		ID:        models.NewID(),
		Weekday:   weekday,
		Time:      timeOfDay,
		ClassType: classType,
	}
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Schedules = append(snap.Schedules, schedule)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("New schedule slot: %s %s (%s)", weekday, timeOfDay, classType),
			actorOrSystem(actorID)))
		return snap, nil
	})
	if err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

// RemoveSchedule deletes a class slot. No referential consequences
// elsewhere.
func (s *AcademyService) RemoveSchedule(scheduleID, actorID string) error {
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.ScheduleIndex(scheduleID)
		if i < 0 {
			return snap, models.NewNotFound("schedule", scheduleID)
		}
		slot := snap.Schedules[i]
		snap.Schedules = append(snap.Schedules[:i], snap.Schedules[i+1:]...)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("Schedule slot removed: %s %s", slot.Weekday, slot.Time),
			actorOrSystem(actorID)))
		return snap, nil
	})
	return err
}
