package vault

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/store"
)

func fullCounts() domain.Counts {
	counts := domain.Counts{}
	for c, n := range DefaultTargets() {
		counts[c] = n
	}
	return counts
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name     string
		counts   domain.Counts
		expected int
	}{
		{"empty", domain.Counts{}, 0},
		{"nil", nil, 0},
		{"one full category", domain.Counts{domain.CategoryFamilyKnows: 1}, 17},
		{"partial category", domain.Counts{domain.CategoryAccounts: 5}, 8},
		{"negative ignored", domain.Counts{domain.CategoryDevices: -4}, 0},
		{"all done", fullCounts(), 100},
	}

	for _, tt := range tests {
		if got := Completion(tt.counts, nil, nil); got != tt.expected {
			t.Errorf("%s: Completion = %d, want %d", tt.name, got, tt.expected)
		}
	}
}

func TestCompletionNeverExceeds100(t *testing.T) {
	counts := domain.Counts{}
	for _, c := range domain.Categories {
		counts[c] = 25
	}
	if got := Completion(counts, nil, nil); got != 100 {
		t.Errorf("Completion = %d, want 100", got)
	}

	heavy := Weights{domain.CategoryContacts: 500}
	if got := Completion(counts, heavy, nil); got != 100 {
		t.Errorf("overweighted Completion = %d, want 100", got)
	}
}

func TestCompletionCustomWeights(t *testing.T) {
	weights := Weights{
		domain.CategoryContacts:    50,
		domain.CategoryAccounts:    50,
		domain.CategoryDevices:     0,
		domain.CategoryEstates:     0,
		domain.CategoryDocuments:   0,
		domain.CategoryFamilyKnows: 0,
	}
	targets := Targets{domain.CategoryContacts: 2, domain.CategoryAccounts: 4}
	counts := domain.Counts{domain.CategoryContacts: 1, domain.CategoryAccounts: 4, domain.CategoryDevices: 9}

	if got := Completion(counts, weights, targets); got != 75 {
		t.Errorf("Completion = %d, want 75", got)
	}
}

func TestShowOnboarding(t *testing.T) {
	sparse := domain.Counts{domain.CategoryContacts: 1, domain.CategoryDevices: 2}
	if !ShowOnboarding(sparse) {
		t.Error("two filled categories should show onboarding")
	}
	three := domain.Counts{domain.CategoryContacts: 1, domain.CategoryDevices: 2, domain.CategoryEstates: 1}
	if ShowOnboarding(three) {
		t.Error("three filled categories should hide onboarding")
	}
	if FilledCount(three) != 3 {
		t.Errorf("FilledCount = %d, want 3", FilledCount(three))
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.Category
	}{
		{"contacts", domain.CategoryContacts},
		{"  Devices ", domain.CategoryDevices},
		{"family", domain.CategoryFamilyKnows},
		{"accts", domain.CategoryAccounts},
		{"docs", domain.CategoryDocuments},
		{"estate", domain.CategoryEstates},
	}

	for _, tt := range tests {
		got, err := ResolveCategory(tt.input)
		if err != nil {
			t.Errorf("ResolveCategory(%q): %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ResolveCategory(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestResolveCategoryUnknown(t *testing.T) {
	for _, input := range []string{"", "zzzz", "qwerty"} {
		if _, err := ResolveCategory(input); !errors.Is(err, domain.ErrUnknownCategory) {
			t.Errorf("ResolveCategory(%q) error = %v, want ErrUnknownCategory", input, err)
		}
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewVaultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewVaultStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, nil, nil, nil)
}

func TestServiceAdjust(t *testing.T) {
	svc := newTestService(t)

	if got := svc.Completion("alice"); got != 0 {
		t.Fatalf("empty profile completion = %d, want 0", got)
	}

	if _, err := svc.Adjust("alice", domain.CategoryFamilyKnows, 1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	counts, err := svc.Adjust("alice", domain.CategoryDevices, -3)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if counts[domain.CategoryDevices] != 0 {
		t.Errorf("devices = %d, want 0 (floored)", counts[domain.CategoryDevices])
	}
	if got := svc.Completion("alice"); got != 17 {
		t.Errorf("completion = %d, want 17", got)
	}

	if _, err := svc.Adjust("alice", domain.Category("pets"), 1); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("Adjust unknown category error = %v, want ErrUnknownCategory", err)
	}
}

func TestServiceConcurrentAdjust(t *testing.T) {
	svc := newTestService(t)

	const n = 300
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Adjust("alice", domain.CategoryAccounts, 1); err != nil {
				t.Errorf("Adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := svc.Counts("alice")[domain.CategoryAccounts]; got != n {
		t.Errorf("accounts = %d, want %d", got, n)
	}
	if got := svc.State("alice").Revision; got != n {
		t.Errorf("revision = %d, want %d", got, n)
	}
}

func TestServiceStateRevision(t *testing.T) {
	svc := newTestService(t)

	before := svc.State("alice")
	if before.Revision != 0 || before.Completion != 0 || len(before.Counts) != 0 {
		t.Fatalf("empty state = %+v", before)
	}

	svc.Set("alice", domain.CategoryContacts, 3)
	after := svc.State("alice")
	if after.Revision <= before.Revision {
		t.Errorf("revision did not advance: %d -> %d", before.Revision, after.Revision)
	}
	if after.Completion != 17 || after.Counts[domain.CategoryContacts] != 3 {
		t.Errorf("state = %+v", after)
	}

	// Failed writes leave the revision alone
	svc.Adjust("alice", domain.Category("pets"), 1)
	if got := svc.State("alice").Revision; got != after.Revision {
		t.Errorf("revision after failed write = %d, want %d", got, after.Revision)
	}
}

func TestServiceReset(t *testing.T) {
	svc := newTestService(t)

	svc.Set("alice", domain.CategoryDevices, 2)
	svc.Set("bob", domain.CategoryDevices, 1)
	if _, err := svc.Snapshot("alice"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	rev := svc.State("alice").Revision

	svc.Reset("alice")

	if got := svc.Counts("alice"); len(got) != 0 {
		t.Errorf("alice counts after reset = %v", got)
	}
	if _, err := svc.Previous("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Previous after reset = %v, want ErrProfileNotFound", err)
	}
	if got := svc.Counts("bob")[domain.CategoryDevices]; got != 1 {
		t.Errorf("bob devices = %d, want 1", got)
	}
	if got := svc.State("alice").Revision; got <= rev {
		t.Errorf("reset should advance the revision, got %d after %d", got, rev)
	}
}

func TestServiceSnapshot(t *testing.T) {
	svc := newTestService(t)
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Previous("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("Previous on empty store = %v, want ErrProfileNotFound", err)
	}

	svc.Set("alice", domain.CategoryContacts, 3)
	svc.Set("alice", domain.CategoryDevices, 2)
	snap, err := svc.Snapshot("alice")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Completion != 33 || snap.Filled != 2 {
		t.Errorf("snapshot = %+v, want completion 33 filled 2", snap)
	}

	prev, err := svc.Previous("alice")
	if err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if !prev.TakenAt.Equal(fixed) || prev.Completion != 33 {
		t.Errorf("Previous = %+v", prev)
	}
}

func TestParseWeightsAndTargets(t *testing.T) {
	w, err := ParseWeights(map[string]float64{"Contacts": 40, "devices": 60})
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	if w[domain.CategoryContacts] != 40 || w[domain.CategoryDevices] != 60 {
		t.Errorf("weights = %v", w)
	}

	if _, err := ParseWeights(map[string]float64{"pets": 10}); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("unknown weight error = %v", err)
	}
	if _, err := ParseWeights(map[string]float64{"devices": -1}); err == nil {
		t.Error("negative weight should fail")
	}

	tg, err := ParseTargets(map[string]int{"family_knows": 2})
	if err != nil {
		t.Fatalf("ParseTargets: %v", err)
	}
	if tg[domain.CategoryFamilyKnows] != 2 {
		t.Errorf("targets = %v", tg)
	}
	if _, err := ParseTargets(map[string]int{"accounts": 0}); err == nil {
		t.Error("zero target should fail")
	}

	if w, err := ParseWeights(nil); w != nil || err != nil {
		t.Errorf("ParseWeights(nil) = %v, %v", w, err)
	}
}
