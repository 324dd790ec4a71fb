package scheduling

import (
	"testing"
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

func TestAvailabilityStoreIsAvailable(t *testing.T) {
	periods := []model.UnavailablePeriod{
		{MemberID: "C", StartDate: date(2025, 1, 6), EndDate: date(2025, 1, 12)},
	}
	store := NewAvailabilityStore(periods)

	if store.IsAvailable("C", date(2025, 1, 8)) {
		t.Error("C should be unavailable inside its period")
	}
	if !store.IsAvailable("C", date(2025, 1, 13)) {
		t.Error("C should be available the day after its period ends")
	}
	if !store.IsAvailable("A", date(2025, 1, 8)) {
		t.Error("member with no periods should always be available")
	}
}

func TestAvailabilityStoreIsAvailableAll(t *testing.T) {
	periods := []model.UnavailablePeriod{
		{MemberID: "C", StartDate: date(2025, 1, 9), EndDate: date(2025, 1, 9)},
	}
	store := NewAvailabilityStore(periods)

	if store.IsAvailableAll("C", date(2025, 1, 6), date(2025, 1, 11)) {
		t.Error("IsAvailableAll should be false if any day in range is unavailable")
	}
	if !store.IsAvailableAll("C", date(2025, 1, 13), date(2025, 1, 18)) {
		t.Error("IsAvailableAll should be true for a fully clear range")
	}
}

func TestRestCooldownMapRestFlag(t *testing.T) {
	rest := NewRestCooldownMap(nil)
	rest.MarkRest("A", date(2025, 1, 8))

	if !rest.IsResting("A", date(2025, 1, 8)) {
		t.Error("A should be resting on the marked date")
	}
	if rest.IsResting("A", date(2025, 1, 9)) {
		t.Error("rest flag should not bleed into adjacent dates")
	}
	if rest.IsResting("B", date(2025, 1, 8)) {
		t.Error("rest flag should not bleed into other members")
	}
}

func TestRestCooldownMapCooldown(t *testing.T) {
	rest := NewRestCooldownMap(nil)
	rest.RecordMidnight("A", date(2025, 1, 6))

	if rest.CooldownSatisfied("A", date(2025, 1, 7), 2) {
		t.Error("cooldown of 2 days should block the very next day")
	}
	if !rest.CooldownSatisfied("A", date(2025, 1, 8), 2) {
		t.Error("cooldown of 2 days should be satisfied exactly 2 days later")
	}
}

func TestRestCooldownMapSeededFromHistory(t *testing.T) {
	rest := NewRestCooldownMap(map[string]time.Time{"A": date(2025, 1, 6)})
	if rest.CooldownSatisfied("A", date(2025, 1, 7), 2) {
		t.Error("seeded last-midnight date should still gate the cooldown")
	}
}
