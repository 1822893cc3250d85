package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBeltRankOrdering(t *testing.T) {
	tests := []struct {
		lower  Belt
		higher Belt
	}{
		{BeltWhite, BeltGray},
		{BeltGray, BeltYellow},
		{BeltYellow, BeltOrange},
		{BeltOrange, BeltGreen},
		{BeltGreen, BeltBlue},
		{BeltBlue, BeltPurple},
		{BeltPurple, BeltBrown},
		{BeltBrown, BeltBlack},
	}

	for _, tt := range tests {
		if BeltRank(tt.lower) >= BeltRank(tt.higher) {
			t.Errorf("expected %s to rank below %s", tt.lower, tt.higher)
		}
	}

	if BeltRank("rainbow") != -1 {
		t.Errorf("expected unknown belt to rank -1, got %d", BeltRank("rainbow"))
	}
	if IsValidBelt("rainbow") {
		t.Error("expected rainbow to be invalid")
	}
	if !IsValidBelt(BeltBlack) {
		t.Error("expected black to be valid")
	}
}

func TestValidStripes(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-1, false},
		{0, true},
		{2, true},
		{4, true},
		{5, false},
	}

	for _, tt := range tests {
		if got := ValidStripes(tt.n); got != tt.want {
			t.Errorf("ValidStripes(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		if !IsValidPaymentMethod(m) {
			t.Errorf("expected %s to be valid", m)
		}
	}
	if IsValidPaymentMethod("barter") {
		t.Error("expected barter to be invalid")
	}
}

func TestOverdueEligible(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		overdue bool
		want    bool
	}{
		{"active and overdue", StatusActive, true, true},
		{"active not overdue", StatusActive, false, false},
		{"inactive keeps flag but does not count", StatusInactive, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Student{Status: tt.status, Overdue: tt.overdue}
			if got := s.OverdueEligible(); got != tt.want {
				t.Errorf("OverdueEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	snap := Snapshot{
		Students: []Student{{ID: "s1", Name: "Ana"}},
		Logs:     []LogEntry{{ID: "l1", Action: "first"}},
	}

	clone := snap.Clone()
	clone.Students[0].Name = "changed"
	clone.Logs = append(clone.Logs, LogEntry{ID: "l2", Action: "second"})

	if snap.Students[0].Name != "Ana" {
		t.Error("mutating a clone leaked into the original")
	}
	if len(snap.Logs) != 1 {
		t.Errorf("expected 1 log in original, got %d", len(snap.Logs))
	}
}

func TestPlanForStudentDanglingReference(t *testing.T) {
	snap := Snapshot{
		Students: []Student{
			{ID: "s1", PlanID: "p1"},
			{ID: "s2", PlanID: "gone"},
			{ID: "s3"},
		},
		Plans: []Plan{{ID: "p1", Name: "Monthly", Price: 10000}},
	}

	if plan, ok := snap.PlanForStudent(&snap.Students[0]); !ok || plan.Name != "Monthly" {
		t.Errorf("expected Monthly plan, got %v ok=%v", plan, ok)
	}
	if _, ok := snap.PlanForStudent(&snap.Students[1]); ok {
		t.Error("dangling plan id must resolve to no plan")
	}
	if _, ok := snap.PlanForStudent(&snap.Students[2]); ok {
		t.Error("empty plan id must resolve to no plan")
	}
}

func TestUserSerializationKeepsHashOutOfPublicShape(t *testing.T) {
	user := User{ID: "u1", Name: "Admin", Email: "a@b.c", Role: RoleAdmin, PasswordHash: "secret"}

	// The entity struct is the persistence codec: the hash must survive
	// a marshal round trip.
	stored, err := json.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stored), `"password_hash":"secret"`) {
		t.Errorf("persisted user must keep the hash, got %s", stored)
	}

	var loaded User
	if err := json.Unmarshal(stored, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.PasswordHash != "secret" {
		t.Errorf("expected hash to round-trip, got %q", loaded.PasswordHash)
	}

	// The API projection never carries it.
	rendered, err := json.Marshal(user.Public())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(rendered), "password_hash") || strings.Contains(string(rendered), "secret") {
		t.Errorf("public user must not expose the hash, got %s", rendered)
	}
}

func TestNewLogEntryStampsUTC(t *testing.T) {
	entry := NewLogEntry("test action", "u1")
	if entry.ID == "" {
		t.Error("expected an id")
	}
	if entry.Timestamp.Location() != time.UTC {
		t.Error("expected UTC timestamp")
	}
	if entry.Action != "test action" || entry.UserID != "u1" {
		t.Errorf("unexpected entry %+v", entry)
	}
}
