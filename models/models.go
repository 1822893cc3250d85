package models

import (
	"time"

	"github.com/google/uuid"
)

// Belt is the jiu-jitsu rank, ordered from white to black.
type Belt string

const (
	BeltWhite  Belt = "white"
	BeltGray   Belt = "gray"
	BeltYellow Belt = "yellow"
	BeltOrange Belt = "orange"
	BeltGreen  Belt = "green"
	BeltBlue   Belt = "blue"
	BeltPurple Belt = "purple"
	BeltBrown  Belt = "brown"
	BeltBlack  Belt = "black"
)

var beltOrder = []Belt{
	BeltWhite, BeltGray, BeltYellow, BeltOrange, BeltGreen,
	BeltBlue, BeltPurple, BeltBrown, BeltBlack,
}

// BeltRank returns the position of a belt in the progression order,
// or -1 for an unknown belt. Used for ordering only; the system does
// not enforce monotonic progression.
func BeltRank(b Belt) int {
	for i, belt := range beltOrder {
		if belt == b {
			return i
		}
	}
	return -1
}

// IsValidBelt reports whether b is one of the nine known belts.
func IsValidBelt(b Belt) bool {
	return BeltRank(b) >= 0
}

// ValidStripes reports whether n is a legal stripe count (0-4).
func ValidStripes(n int) bool {
	return n >= 0 && n <= 4
}

// PaymentMethod identifies how a payment was received.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCredit       PaymentMethod = "credit"
	MethodDebit        PaymentMethod = "debit"
	MethodOther        PaymentMethod = "other"
)

// PaymentMethods lists every accepted method, in display order.
var PaymentMethods = []PaymentMethod{
	MethodCash, MethodBankTransfer, MethodCredit, MethodDebit, MethodOther,
}

// IsValidPaymentMethod reports whether m is an accepted method.
func IsValidPaymentMethod(m PaymentMethod) bool {
	for _, method := range PaymentMethods {
		if method == m {
			return true
		}
	}
	return false
}

// Attendance sources: the kiosk terminal or a staff member at the desk.
const (
	SourceKiosk = "kiosk"
	SourceStaff = "staff"
)

// Student statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User roles.
const (
	RoleAdmin      = "admin"
	RoleReception  = "reception"
	RoleInstructor = "instructor"
)

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleReception || role == RoleInstructor
}

// SystemUserID is the sentinel actor for unattended actions such as
// kiosk check-ins.
const SystemUserID = "system"

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for time-of-day fields.
const TimeLayout = "15:04:05"

// Student is an academy member. PlanID may reference a removed plan;
// lookups must treat that as "no plan" rather than fail.
type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Photo          string    `json:"photo,omitempty"` // base64 data URL
	Phone          string    `json:"phone,omitempty"`
	BirthDate      string    `json:"birth_date,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	SocialMedia    string    `json:"social_media,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"` // active, inactive
	Belt           Belt      `json:"belt"`
	Stripes        int       `json:"stripes"` // 0-4
	LastBeltUpdate time.Time `json:"last_belt_update"`
	PlanID         string    `json:"plan_id,omitempty"`
	Overdue        bool      `json:"overdue"`
}

// OverdueEligible reports whether the student counts toward overdue
// totals. Inactive students keep their flag but are ignored.
func (s *Student) OverdueEligible() bool {
	return s.Status == StatusActive && s.Overdue
}

// Plan is a membership plan with a price in minor currency units.
type Plan struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Payment records money received from a student. StudentID may dangle
// if the student is later removed; readers tolerate the miss.
type Payment struct {
	ID        string        `json:"id"`
	StudentID string        `json:"student_id"`
	Date      string        `json:"date"` // YYYY-MM-DD
	Amount    int           `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Notes     string        `json:"notes,omitempty"`
}

// Attendance is one check-in. Append-only; duplicate same-day
// check-ins are valid entries and must be preserved.
type Attendance struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"`   // YYYY-MM-DD
	Time      string `json:"time"`   // HH:MM:SS
	Source    string `json:"source"` // kiosk, staff
	ClassType string `json:"class_type"`
}

// Schedule is a recurring class slot. No referential links elsewhere.
type Schedule struct {
	ID        string `json:"id"`
	Weekday   string `json:"weekday"`
	Time      string `json:"time"`
	ClassType string `json:"class_type"`
}

// User is a staff account allowed to operate the system. The struct is
// the persistence codec, so the hash carries a real JSON tag; API
// responses go through Public instead.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"` // admin, reception, instructor
	PasswordHash string `json:"password_hash"`
}

// PublicUser is the credential-free projection of a staff account used
// in API responses.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips the password hash for rendering.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// LogEntry is one immutable audit record. Entries are appended in
// completion order; readers wanting recent activity reverse the slice
// instead of re-sorting by timestamp.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
}

// NewID returns a fresh opaque entity identifier.
func NewID() string {
	return uuid.NewString()
}

// NewLogEntry builds an audit record stamped with the current time.
func NewLogEntry(action, userID string) LogEntry {
	return LogEntry{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Action:    action,
	}
}
