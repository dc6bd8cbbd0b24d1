package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")
	tests := []struct {
		name       string
		db         *mockPinger
		cache      Pinger
		wantStatus Status
		wantDB     CheckResult
		wantCache  CheckResult
	}{
		{"all healthy", &mockPinger{}, &mockPinger{}, Healthy, CheckOK, CheckOK},
		{"database down", &mockPinger{err: down}, &mockPinger{}, Unhealthy, CheckError, CheckOK},
		{"cache down", &mockPinger{}, &mockPinger{err: down}, Degraded, CheckOK, CheckError},
		{"both down", &mockPinger{err: down}, &mockPinger{err: down}, Unhealthy, CheckError, CheckError},
		{"no cache", &mockPinger{}, nil, Healthy, CheckOK, ""},
		{"no cache, database down", &mockPinger{err: down}, nil, Unhealthy, CheckError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.db, tt.cache).Check(context.Background())
			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks[ComponentDatabase] != tt.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[ComponentDatabase], tt.wantDB)
			}
			got, ok := r.Checks[ComponentCache]
			if tt.wantCache == "" && ok {
				t.Error("cache check should be absent when cache is nil")
			}
			if got != tt.wantCache {
				t.Errorf("cache = %q, want %q", got, tt.wantCache)
			}
		})
	}
}
