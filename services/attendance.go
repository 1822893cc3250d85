package services

import (
	"fmt"

	"ossmanager_go/models"
	"ossmanager_go/store"
)

// CheckInEvent is broadcast over the websocket hub after every
// recorded check-in.
type CheckInEvent struct {
	Attendance  models.Attendance `json:"attendance"`
	StudentName string            `json:"student_name"`
}

// RecordCheckIn appends an attendance row stamped with the current
// date and time. No de-duplication: a student checking in twice on
// the same day produces two rows, both preserved. The operation never
// touches overdue or belt state.
func (s *AcademyService) RecordCheckIn(studentID, source, classType, actorID string) (models.Attendance, error) {
	if source != models.SourceKiosk && source != models.SourceStaff {
		return models.Attendance{}, models.NewValidation("unknown attendance source %q", source)
	}
	if classType == "" {
		classType = "Training"
	}

	now := store.Now()
	attendance := models.Attendance{
		ID:        models.NewID(),
		StudentID: studentID,
		Date:      now.Format(models.DateLayout),
		Time:      now.Format(models.TimeLayout),
		Source:    source,
		ClassType: classType,
	}

	var studentName string
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.StudentIndex(studentID)
		if i < 0 {
			return snap, models.NewNotFound("student", studentID)
		}
		studentName = snap.Students[i].Name
		snap.Attendances = append(snap.Attendances, attendance)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("Check-in (%s): %s", source, studentName), actorOrSystem(actorID)))
		return snap, nil
	})
	if err != nil {
		return models.Attendance{}, err
	}

	if s.hub != nil {
		s.hub.Broadcast("checkin", CheckInEvent{Attendance: attendance, StudentName: studentName})
	}
	return attendance, nil
}
