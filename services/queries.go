package services

import (
	"sort"
	"strings"

	"ossmanager_go/models"
	"ossmanager_go/store"
)

// deletedStudentName is rendered for payments and attendances whose
// student reference dangles.
const deletedStudentName = "Deleted student"

// Students returns students filtered by a case-insensitive name query
// and an optional status.
func (s *AcademyService) Students(query, status string) []models.Student {
	snap := s.store.View()
	query = strings.ToLower(query)

	out := make([]models.Student, 0, len(snap.Students))
	for _, student := range snap.Students {
		if status != "" && student.Status != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(student.Name), query) {
			continue
		}
		out = append(out, student)
	}
	return out
}

// StudentByID fetches one student.
func (s *AcademyService) StudentByID(id string) (models.Student, error) {
	snap := s.store.View()
	i := snap.StudentIndex(id)
	if i < 0 {
		return models.Student{}, models.NewNotFound("student", id)
	}
	return snap.Students[i], nil
}

// StudentDetail pairs a student with their resolved plan, tolerating
// dangling plan references.
type StudentDetail struct {
	models.Student
	Plan *models.Plan `json:"plan,omitempty"`
}

// StudentDetailByID fetches a student and resolves their plan; a
// dangling plan id yields no plan, not an error.
func (s *AcademyService) StudentDetailByID(id string) (StudentDetail, error) {
	snap := s.store.View()
	i := snap.StudentIndex(id)
	if i < 0 {
		return StudentDetail{}, models.NewNotFound("student", id)
	}
	detail := StudentDetail{Student: snap.Students[i]}
	if plan, ok := snap.PlanForStudent(&snap.Students[i]); ok {
		detail.Plan = &plan
	}
	return detail, nil
}

// PaymentWithStudent is a payment with the student name resolved for
// rendering.
type PaymentWithStudent struct {
	models.Payment
	StudentName string `json:"student_name"`
}

// Payments returns all payments, most recent entry first.
func (s *AcademyService) Payments() []PaymentWithStudent {
	snap := s.store.View()
	out := make([]PaymentWithStudent, 0, len(snap.Payments))
	for i := len(snap.Payments) - 1; i >= 0; i-- {
		p := snap.Payments[i]
		name := deletedStudentName
		if j := snap.StudentIndex(p.StudentID); j >= 0 {
			name = snap.Students[j].Name
		}
		out = append(out, PaymentWithStudent{Payment: p, StudentName: name})
	}
	return out
}

// FinanceSummary aggregates the cashier dashboard numbers.
type FinanceSummary struct {
	TotalReceived int                          `json:"total_received"`
	MethodTotals  map[models.PaymentMethod]int `json:"method_totals"`
	OverdueCount  int                          `json:"overdue_count"`
}

// Summary computes totals over all payments plus the count of active
// overdue students.
func (s *AcademyService) Summary() FinanceSummary {
	snap := s.store.View()
	summary := FinanceSummary{MethodTotals: make(map[models.PaymentMethod]int)}
	for _, p := range snap.Payments {
		summary.TotalReceived += p.Amount
		summary.MethodTotals[p.Method] += p.Amount
	}
	for i := range snap.Students {
		if snap.Students[i].OverdueEligible() {
			summary.OverdueCount++
		}
	}
	return summary
}

// AttendanceWithStudent is an attendance row with the student name
// resolved for rendering.
type AttendanceWithStudent struct {
	models.Attendance
	StudentName string `json:"student_name"`
}

// Attendances returns check-ins in reverse append order, capped at
// limit (0 means all).
func (s *AcademyService) Attendances(limit int) []AttendanceWithStudent {
	snap := s.store.View()
	out := make([]AttendanceWithStudent, 0, len(snap.Attendances))
	for i := len(snap.Attendances) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		a := snap.Attendances[i]
		name := deletedStudentName
		if j := snap.StudentIndex(a.StudentID); j >= 0 {
			name = snap.Students[j].Name
		}
		out = append(out, AttendanceWithStudent{Attendance: a, StudentName: name})
	}
	return out
}

// ActiveStudentsSorted returns active students ordered by name, the
// shape the kiosk roster wants.
func (s *AcademyService) ActiveStudentsSorted() []models.Student {
	students := s.Students("", models.StatusActive)
	sort.Slice(students, func(i, j int) bool {
		return students[i].Name < students[j].Name
	})
	return students
}

// Plans returns all membership plans.
func (s *AcademyService) Plans() []models.Plan {
	return s.store.View().Plans
}

// Schedules returns the weekly class grid.
func (s *AcademyService) Schedules() []models.Schedule {
	return s.store.View().Schedules
}

// Users returns all staff accounts.
func (s *AcademyService) Users() []models.User {
	return s.store.View().Users
}

// LogWithUser is a log entry with the acting user's name resolved,
// falling back to "System" for the sentinel or dangling ids.
type LogWithUser struct {
	models.LogEntry
	UserName string `json:"user_name"`
}

// RecentLogs returns the latest entries in reverse append order.
// Append order, not timestamp order, is authoritative: timestamps may
// collide at the same resolution.
func (s *AcademyService) RecentLogs(limit int) []LogWithUser {
	logs, _ := s.Logs(1, limit)
	return logs
}

// Logs returns one page of the audit trail in reverse append order,
// along with the total entry count.
func (s *AcademyService) Logs(page, limit int) ([]LogWithUser, int) {
	snap := s.store.View()
	total := len(snap.Logs)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	start := total - (page-1)*limit
	out := make([]LogWithUser, 0, limit)
	for i := start - 1; i >= 0 && len(out) < limit; i-- {
		entry := snap.Logs[i]
		name := "System"
		if user, ok := snap.UserByID(entry.UserID); ok {
			name = user.Name
		}
		out = append(out, LogWithUser{LogEntry: entry, UserName: name})
	}
	return out, total
}

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	ActiveStudents int           `json:"active_students"`
	OverdueCount   int           `json:"overdue_count"`
	TodayCheckIns  int           `json:"today_check_ins"`
	TotalReceived  int           `json:"total_received"`
	RecentActivity []LogWithUser `json:"recent_activity"`
}

// Dashboard aggregates the stats the original dashboard renders.
func (s *AcademyService) Dashboard() DashboardStats {
	snap := s.store.View()
	today := store.Now().Format(models.DateLayout)

	stats := DashboardStats{}
	for i := range snap.Students {
		if snap.Students[i].Status == models.StatusActive {
			stats.ActiveStudents++
		}
		if snap.Students[i].OverdueEligible() {
			stats.OverdueCount++
		}
	}
	for _, a := range snap.Attendances {
		if a.Date == today {
			stats.TodayCheckIns++
		}
	}
	for _, p := range snap.Payments {
		stats.TotalReceived += p.Amount
	}
	stats.RecentActivity = s.RecentLogs(10)
	return stats
}

// UserByEmail resolves a staff account for login.
func (s *AcademyService) UserByEmail(email string) (models.User, error) {
	snap := s.store.View()
	user, ok := snap.UserByEmail(email)
	if !ok {
		return models.User{}, models.NewNotFound("user", email)
	}
	return user, nil
}

// UserByID resolves a staff account by id.
func (s *AcademyService) UserByID(id string) (models.User, error) {
	snap := s.store.View()
	user, ok := snap.UserByID(id)
	if !ok {
		return models.User{}, models.NewNotFound("user", id)
	}
	return user, nil
}
