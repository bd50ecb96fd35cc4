package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/logging"
	"github.com/estatevault/vaultmeter/internal/progress"
	"github.com/estatevault/vaultmeter/internal/store"
	"github.com/estatevault/vaultmeter/internal/vault"
)

func TestParseAdd(t *testing.T) {
	tests := []struct {
		raw     string
		wantCat domain.Category
		wantN   int
		wantErr bool
	}{
		{"contacts", domain.CategoryContacts, 1, false},
		{"devices=3", domain.CategoryDevices, 3, false},
		{"accounts=-2", domain.CategoryAccounts, -2, false},
		{"docs", domain.CategoryDocuments, 1, false},
		{"devices=x", "", 0, true},
		{"zzzz", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cat, n, err := parseAdd(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAdd(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAdd(%q): %v", tt.raw, err)
			}
			if cat != tt.wantCat || n != tt.wantN {
				t.Errorf("parseAdd(%q) = %s, %d; want %s, %d", tt.raw, cat, n, tt.wantCat, tt.wantN)
			}
		})
	}

	if _, _, err := parseAdd("zzzz"); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("unknown category error = %v", err)
	}
}

func TestApplyEdits(t *testing.T) {
	st, err := store.NewVaultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewVaultStore: %v", err)
	}
	defer st.Close()
	svc := vault.NewService(st, nil, nil, logging.NullLogger())

	if err := applyEdits(svc, "alice", cliOptions{adds: addFlags{"devices=2", "docs"}}); err != nil {
		t.Fatalf("applyEdits: %v", err)
	}
	counts := svc.Counts("alice")
	if counts[domain.CategoryDevices] != 2 || counts[domain.CategoryDocuments] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	if _, err := svc.Snapshot("alice"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// -reset clears the profile before the adds apply
	if err := applyEdits(svc, "alice", cliOptions{reset: true, adds: addFlags{"contacts"}}); err != nil {
		t.Fatalf("applyEdits with reset: %v", err)
	}
	counts = svc.Counts("alice")
	if len(counts) != 1 || counts[domain.CategoryContacts] != 1 {
		t.Errorf("counts after reset = %v, want only contacts=1", counts)
	}
	if _, err := svc.Previous("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("snapshots should be gone after reset, got %v", err)
	}

	if err := applyEdits(svc, "alice", cliOptions{adds: addFlags{"zzzz"}}); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("unknown category error = %v", err)
	}
}

func TestStatusLineRender(t *testing.T) {
	var buf bytes.Buffer
	line := newStatusLine(&buf, 37, 0)
	circ := progress.Circumference(progress.DefaultRadius)

	line.SetArcOffset(progress.ArcOffset(circ, 50))
	line.SetLabelText("50%")
	line.SetLevelClass(progress.LevelMedium)

	out := buf.String()
	if !strings.HasPrefix(out, "\r[") {
		t.Fatalf("output should start with a carriage return, got %q", out)
	}
	if !strings.Contains(out, " 50% medium") {
		t.Errorf("output missing label and level: %q", out)
	}

	bar := line.barWidth()
	if got := strings.Count(out, "#"); got != bar/2 {
		t.Errorf("filled cells = %d, want %d", got, bar/2)
	}

	line.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should end the line")
	}
}

func TestStatusLineFinishWithoutDraw(t *testing.T) {
	var buf bytes.Buffer
	newStatusLine(&buf, 80, 54).Finish()
	if buf.Len() != 0 {
		t.Errorf("Finish wrote %q before any frame", buf.String())
	}
}

func TestStatusLineDrivenByTicker(t *testing.T) {
	var buf bytes.Buffer
	line := newStatusLine(&buf, 60, 0)

	host := progress.NewTickerHost(200, nil)
	defer host.Close()
	slot := host.Slot()
	ind := progress.New(line, slot, progress.Options{Duration: 50 * time.Millisecond})
	slot.Bind(ind)
	ind.SetProgress(100)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := host.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}

	if !strings.HasSuffix(buf.String(), line.render()) {
		t.Errorf("last draw should be the settled line")
	}
	if !strings.Contains(line.render(), "100% complete") {
		t.Errorf("settled line = %q", line.render())
	}
	if strings.Contains(line.render(), "-") {
		t.Errorf("bar should be full: %q", line.render())
	}
}
