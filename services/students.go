package services

import (
	"fmt"

	"ossmanager_go/models"
	"ossmanager_go/store"
	"ossmanager_go/utils"
)

// EnrollStudentInput carries the profile fields for a new student.
// Belt defaults to white and stripes to 0 when left zero-valued.
type EnrollStudentInput struct {
	Name        string      `json:"name"`
	Photo       string      `json:"photo"`
	Phone       string      `json:"phone"`
	BirthDate   string      `json:"birth_date"`
	StartDate   string      `json:"start_date"`
	SocialMedia string      `json:"social_media"`
	Notes       string      `json:"notes"`
	Belt        models.Belt `json:"belt"`
	Stripes     int         `json:"stripes"`
	PlanID      string      `json:"plan_id"`
}

// EnrollStudent appends a new active student and logs the enrollment.
func (s *AcademyService) EnrollStudent(in EnrollStudentInput, actorID string) (models.Student, error) {
	in.Name = utils.SanitizeString(in.Name)
	if in.Name == "" {
		return models.Student{}, models.NewValidation("student name is required")
	}
	if in.Belt == "" {
		in.Belt = models.BeltWhite
	}
	if !models.IsValidBelt(in.Belt) {
		return models.Student{}, models.NewValidation("unknown belt %q", in.Belt)
	}
	if !models.ValidStripes(in.Stripes) {
		return models.Student{}, models.NewValidation("stripes must be between 0 and 4, got %d", in.Stripes)
	}

	student := models.Student{
		ID:             models.NewID(),
		Name:           in.Name,
		Photo:          in.Photo,
		Phone:          in.Phone,
		BirthDate:      in.BirthDate,
		StartDate:      in.StartDate,
		SocialMedia:    in.SocialMedia,
		Notes:          in.Notes,
		Status:         models.StatusActive,
		Belt:           in.Belt,
		Stripes:        in.Stripes,
		LastBeltUpdate: store.Now(),
		PlanID:         in.PlanID,
		Overdue:        false,
	}

	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		if in.PlanID != "" && snap.PlanIndex(in.PlanID) < 0 {
			return snap, models.NewNotFound("plan", in.PlanID)
		}
		snap.Students = append(snap.Students, student)
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("New student enrolled: %s", student.Name), actorOrSystem(actorID)))
		return snap, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// StudentProfileUpdate is a partial update; nil fields are left
// untouched.
type StudentProfileUpdate struct {
	Name        *string      `json:"name"`
	Photo       *string      `json:"photo"`
	Phone       *string      `json:"phone"`
	BirthDate   *string      `json:"birth_date"`
	StartDate   *string      `json:"start_date"`
	SocialMedia *string      `json:"social_media"`
	Notes       *string      `json:"notes"`
	Status      *string      `json:"status"`
	Belt        *models.Belt `json:"belt"`
	Stripes     *int         `json:"stripes"`
	PlanID      *string      `json:"plan_id"`
}

// UpdateStudentProfile merges changes into an existing student.
// LastBeltUpdate is reset if and only if the belt actually changes,
// and the single audit entry for the operation then records the belt
// change rather than a generic edit.
func (s *AcademyService) UpdateStudentProfile(studentID string, changes StudentProfileUpdate, actorID string) (models.Student, error) {
	if changes.Name != nil {
		name := utils.SanitizeString(*changes.Name)
		changes.Name = &name
	}
	if err := validateProfileUpdate(changes); err != nil {
		return models.Student{}, err
	}

	var updated models.Student
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.StudentIndex(studentID)
		if i < 0 {
			return snap, models.NewNotFound("student", studentID)
		}
		if changes.PlanID != nil && *changes.PlanID != "" && snap.PlanIndex(*changes.PlanID) < 0 {
			return snap, models.NewNotFound("plan", *changes.PlanID)
		}

		student := snap.Students[i]
		beltChanged := applyProfileUpdate(&student, changes)
		if beltChanged {
			student.LastBeltUpdate = store.Now()
		}

		snap.Students[i] = student
		action := fmt.Sprintf("Student profile updated: %s", student.Name)
		if beltChanged {
			action = fmt.Sprintf("Belt change: %s to %s", student.Name, student.Belt)
		}
		snap.Logs = append(snap.Logs, models.NewLogEntry(action, actorOrSystem(actorID)))

		updated = student
		return snap, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return updated, nil
}

func validateProfileUpdate(changes StudentProfileUpdate) error {
	if changes.Name != nil && *changes.Name == "" {
		return models.NewValidation("student name cannot be empty")
	}
	if changes.Belt != nil && !models.IsValidBelt(*changes.Belt) {
		return models.NewValidation("unknown belt %q", *changes.Belt)
	}
	if changes.Stripes != nil && !models.ValidStripes(*changes.Stripes) {
		return models.NewValidation("stripes must be between 0 and 4, got %d", *changes.Stripes)
	}
	if changes.Status != nil && *changes.Status != models.StatusActive && *changes.Status != models.StatusInactive {
		return models.NewValidation("unknown status %q", *changes.Status)
	}
	return nil
}

// applyProfileUpdate merges non-nil fields and reports whether the
// belt changed.
func applyProfileUpdate(student *models.Student, changes StudentProfileUpdate) bool {
	if changes.Name != nil {
		student.Name = *changes.Name
	}
	if changes.Photo != nil {
		student.Photo = *changes.Photo
	}
	if changes.Phone != nil {
		student.Phone = *changes.Phone
	}
	if changes.BirthDate != nil {
		student.BirthDate = *changes.BirthDate
	}
	if changes.StartDate != nil {
		student.StartDate = *changes.StartDate
	}
	if changes.SocialMedia != nil {
		student.SocialMedia = *changes.SocialMedia
	}
	if changes.Notes != nil {
		student.Notes = *changes.Notes
	}
	if changes.Status != nil {
		student.Status = *changes.Status
	}
	if changes.Stripes != nil {
		student.Stripes = *changes.Stripes
	}
	if changes.PlanID != nil {
		student.PlanID = *changes.PlanID
	}

	beltChanged := false
	if changes.Belt != nil && *changes.Belt != student.Belt {
		student.Belt = *changes.Belt
		beltChanged = true
	}
	return beltChanged
}
