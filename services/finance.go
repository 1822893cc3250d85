package services

import (
	"fmt"

	"ossmanager_go/models"
	"ossmanager_go/store"
)

// RecordPaymentInput carries one cashier entry.
type RecordPaymentInput struct {
	StudentID string               `json:"student_id"`
	Amount    int                  `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Date      string               `json:"date"`
	Notes     string               `json:"notes"`
}

// RecordPayment appends a payment and clears the student's overdue
// flag unconditionally. There is no partial-payment accounting: any
// amount clears the flag, regardless of the plan price.
func (s *AcademyService) RecordPayment(in RecordPaymentInput, actorID string) (models.Payment, error) {
	if in.Amount <= 0 {
		return models.Payment{}, models.NewValidation("payment amount must be positive, got %d", in.Amount)
	}
	if !models.IsValidPaymentMethod(in.Method) {
		return models.Payment{}, models.NewValidation("unknown payment method %q", in.Method)
	}
	if in.Date == "" {
		in.Date = store.Now().Format(models.DateLayout)
	}

	payment := models.Payment{
		ID:        models.NewID(),
		StudentID: in.StudentID,
		Date:      in.Date,
		Amount:    in.Amount,
		Method:    in.Method,
		Notes:     in.Notes,
	}

	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.StudentIndex(in.StudentID)
		if i < 0 {
			return snap, models.NewNotFound("student", in.StudentID)
		}
		snap.Payments = append(snap.Payments, payment)
		snap.Students[i].Overdue = false
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("Payment received: ¥%d (%s) from %s", in.Amount, in.Method, snap.Students[i].Name),
			actorOrSystem(actorID)))
		return snap, nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

// SetOverdue flags or clears a student's overdue state. Only active
// students can be flagged; clearing is always allowed since inactive
// students keep (but never count) their flag.
func (s *AcademyService) SetOverdue(studentID string, overdue bool, actorID string) (models.Student, error) {
	var updated models.Student
	_, err := s.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.StudentIndex(studentID)
		if i < 0 {
			return snap, models.NewNotFound("student", studentID)
		}
		if overdue && snap.Students[i].Status != models.StatusActive {
			return snap, models.NewValidation("cannot flag inactive student %s as overdue", snap.Students[i].Name)
		}

		snap.Students[i].Overdue = overdue
		action := fmt.Sprintf("Overdue flag cleared: %s", snap.Students[i].Name)
		if overdue {
			action = fmt.Sprintf("Overdue flag set: %s", snap.Students[i].Name)
		}
		snap.Logs = append(snap.Logs, models.NewLogEntry(action, actorOrSystem(actorID)))

		updated = snap.Students[i]
		return snap, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return updated, nil
}
