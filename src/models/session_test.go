package models

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    SessionStatus
		wantErr bool
	}{
		{"active", StatusActive, false},
		{"on-hold", StatusOnHold, false},
		{"transferring", StatusTransferring, false},
		{"completed", StatusCompleted, false},
		{"failed", StatusFailed, false},
		{"", "", true},
		{"Active", "", true},
		{"on_hold", "", true},
		{"exploded", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSessionStatus) {
					t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidSessionStatus", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
