package models

// Snapshot is the full aggregate of every entity collection at one
// point in time. It is the only persisted document; no entity is
// stored independently.
type Snapshot struct {
	Students    []Student    `json:"students"`
	Payments    []Payment    `json:"payments"`
	Attendances []Attendance `json:"attendances"`
	Plans       []Plan       `json:"plans"`
	Logs        []LogEntry   `json:"logs"`
	Schedules   []Schedule   `json:"schedules"`
	Users       []User       `json:"users"`
}

// Clone returns a deep copy so callers can mutate freely without
// touching the store's committed snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Students:    make([]Student, len(s.Students)),
		Payments:    make([]Payment, len(s.Payments)),
		Attendances: make([]Attendance, len(s.Attendances)),
		Plans:       make([]Plan, len(s.Plans)),
		Logs:        make([]LogEntry, len(s.Logs)),
		Schedules:   make([]Schedule, len(s.Schedules)),
		Users:       make([]User, len(s.Users)),
	}
	copy(out.Students, s.Students)
	copy(out.Payments, s.Payments)
	copy(out.Attendances, s.Attendances)
	copy(out.Plans, s.Plans)
	copy(out.Logs, s.Logs)
	copy(out.Schedules, s.Schedules)
	copy(out.Users, s.Users)
	return out
}

// StudentIndex returns the position of the student with the given id,
// or -1 when absent.
func (s *Snapshot) StudentIndex(id string) int {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return i
		}
	}
	return -1
}

// PlanIndex returns the position of the plan with the given id, or -1.
func (s *Snapshot) PlanIndex(id string) int {
	for i := range s.Plans {
		if s.Plans[i].ID == id {
			return i
		}
	}
	return -1
}

// ScheduleIndex returns the position of the schedule with the given
// id, or -1.
func (s *Snapshot) ScheduleIndex(id string) int {
	for i := range s.Schedules {
		if s.Schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// UserByID resolves a user id, tolerating misses: dangling log
// references render as "system" at display time.
func (s *Snapshot) UserByID(id string) (User, bool) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return s.Users[i], true
		}
	}
	return User{}, false
}

// UserByEmail looks a user up by email for login.
func (s *Snapshot) UserByEmail(email string) (User, bool) {
	for i := range s.Users {
		if s.Users[i].Email == email {
			return s.Users[i], true
		}
	}
	return User{}, false
}

// PlanForStudent resolves the student's plan. A dangling or empty
// PlanID yields "no plan", never an error.
func (s *Snapshot) PlanForStudent(st *Student) (Plan, bool) {
	if st.PlanID == "" {
		return Plan{}, false
	}
	i := s.PlanIndex(st.PlanID)
	if i < 0 {
		return Plan{}, false
	}
	return s.Plans[i], true
}
