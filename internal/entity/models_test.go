package entity

import (
	"context"
	"errors"
	"testing"
)

func TestParseTestType(t *testing.T) {
	tests := []struct {
		in      string
		want    TestType
		wantErr bool
	}{
		{in: "", want: TestTypeHalon},
		{in: "halon_test", want: TestTypeHalon},
		{in: "system_stress", want: TestTypeSystemStress},
		{in: "feature_tests", want: TestTypeFeatureTests},
		{in: "common_libraries", want: TestTypeCommonLibraries},
		{in: "Halon_Test", wantErr: true},
		{in: "unit", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTestType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTestType) {
					t.Fatalf("ParseTestType(%q) error = %v, want ErrInvalidTestType", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTestType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTestType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubmitError(t *testing.T) {
	cause := &APIError{StatusCode: 502, Body: "bad gateway"}

	withFiles := &SubmitError{Block: 1, Blocks: 3, Err: cause}
	if got, want := withFiles.Error(), "file 2 of 3: "+cause.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noFiles := &SubmitError{Block: -1, Err: cause}
	if got := noFiles.Error(); got != cause.Error() {
		t.Errorf("Error() = %q, want %q", got, cause.Error())
	}

	var apiErr *APIError
	if !errors.As(withFiles, &apiErr) || apiErr.StatusCode != 502 {
		t.Errorf("errors.As did not reach the APIError")
	}
}

func TestTransportError_Timeout(t *testing.T) {
	if !(&TransportError{Err: context.DeadlineExceeded}).Timeout() {
		t.Error("deadline exceeded should be a timeout")
	}
	if (&TransportError{Err: errors.New("connection refused")}).Timeout() {
		t.Error("plain error should not be a timeout")
	}
}

func TestExchange_Failed(t *testing.T) {
	if (&Exchange{}).Failed() {
		t.Error("empty exchange reported as failed")
	}
	if !(&Exchange{Error: "boom"}).Failed() {
		t.Error("exchange with error not reported as failed")
	}
}
