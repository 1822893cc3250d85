package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"ossmanager_go/models"
	"ossmanager_go/store"
)

// OverdueService flags active students whose last payment is older
// than the grace period. The original system only ever cleared the
// overdue flag (on payment); this sweeper is the producer side. Each
// flag is one write that re-evaluates staleness against the snapshot
// it mutates, so a payment recorded mid-sweep keeps its clear.
type OverdueService struct {
	academy   *AcademyService
	cron      *cron.Cron
	graceDays int
	spec      string
}

// NewOverdueService builds a sweeper running on the given cron spec.
func NewOverdueService(academy *AcademyService, graceDays int, spec string) *OverdueService {
	return &OverdueService{
		academy:   academy,
		cron:      cron.New(),
		graceDays: graceDays,
		spec:      spec,
	}
}

// Start schedules the sweep. An immediate sweep also runs so a
// restarted instance catches up without waiting for the next tick.
func (s *OverdueService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Sweep() }); err != nil {
		return err
	}
	s.cron.Start()
	go s.Sweep()
	logrus.WithFields(logrus.Fields{
		"spec":       s.spec,
		"grace_days": s.graceDays,
	}).Info("Overdue sweeper started")
	return nil
}

// Stop halts the scheduler.
func (s *OverdueService) Stop() {
	s.cron.Stop()
}

// Sweep flags every active, not-yet-flagged student whose most recent
// payment (or start date, when they never paid) is older than the
// grace period. The roster read here is only a candidate list; the
// deciding read happens inside each flag's own write. Returns the
// number of students flagged.
func (s *OverdueService) Sweep() int {
	snap := s.academy.Snapshot()

	flagged := 0
	for i := range snap.Students {
		student := snap.Students[i]
		if student.Status != models.StatusActive || student.Overdue {
			continue
		}
		ok, err := s.flagIfStale(student.ID)
		if err != nil {
			logrus.WithError(err).WithField("student_id", student.ID).Warn("Overdue sweep failed for student")
			continue
		}
		if ok {
			flagged++
		}
	}
	if flagged > 0 {
		logrus.WithField("flagged", flagged).Info("Overdue sweep completed")
	}
	return flagged
}

// flagIfStale flags one student, re-checking status and last activity
// against the snapshot the mutator receives. A payment or status
// change landing between the sweep's roster read and this write makes
// it a no-op rather than a lost update.
func (s *OverdueService) flagIfStale(studentID string) (bool, error) {
	cutoff := store.Now().AddDate(0, 0, -s.graceDays)

	flagged := false
	_, err := s.academy.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.StudentIndex(studentID)
		if i < 0 {
			return snap, models.NewNotFound("student", studentID)
		}
		student := snap.Students[i]
		if student.Status != models.StatusActive || student.Overdue {
			return snap, nil
		}
		last, ok := lastActivityDate(&snap, student)
		if !ok || !last.Before(cutoff) {
			return snap, nil
		}

		snap.Students[i].Overdue = true
		snap.Logs = append(snap.Logs, models.NewLogEntry(
			fmt.Sprintf("Overdue flag set: %s", student.Name), models.SystemUserID))
		flagged = true
		return snap, nil
	})
	return flagged, err
}

// lastActivityDate is the student's most recent payment date, falling
// back to their start date. ok is false when neither parses.
func lastActivityDate(snap *models.Snapshot, student models.Student) (time.Time, bool) {
	var last time.Time
	found := false
	for _, p := range snap.Payments {
		if p.StudentID != student.ID {
			continue
		}
		if d, err := time.Parse(models.DateLayout, p.Date); err == nil {
			if !found || d.After(last) {
				last = d
				found = true
			}
		}
	}
	if found {
		return last, true
	}
	if d, err := time.Parse(models.DateLayout, student.StartDate); err == nil {
		return d, true
	}
	return time.Time{}, false
}
