package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownModel, "unknown frame model: %s", "4C99X")

	if err.Code != ErrCodeUnknownModel {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeUnknownModel)
	}
	if err.Message != "unknown frame model: 4C99X" {
		t.Errorf("Message = %s", err.Message)
	}
	if err.Cause != nil {
		t.Error("Cause should be nil")
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "save project %s", "lobby")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeLastWall, "cannot remove the last wall"),
			want: "STRUCTURE_LAST_WALL: cannot remove the last wall",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeStorage, stderrors.New("boom"), "save failed"),
			want: "STORAGE_ERROR: save failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeSlotOverlap, "door overlaps unit 3")

	if !Is(err, ErrCodeSlotOverlap) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeUnitMismatch) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeSlotOverlap) {
		t.Error("Is should not match a plain error")
	}

	// Wrapped in fmt.Errorf chain
	wrapped := fmt.Errorf("context: %w", err)
	if !Is(wrapped, ErrCodeSlotOverlap) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeLastWall, "x")); got != ErrCodeLastWall {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeLevelProtected, "Level 0 cannot be removed")
	if got := UserMessage(err); got != "Level 0 cannot be removed" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestCategoryHelpers(t *testing.T) {
	if !IsStructural(New(ErrCodeLastWall, "x")) {
		t.Error("last wall should be structural")
	}
	if IsStructural(New(ErrCodeSlotOverlap, "x")) {
		t.Error("slot overlap is not structural")
	}
	if !IsPacking(New(ErrCodeUnitMismatch, "x")) {
		t.Error("unit mismatch should be a packing violation")
	}
	if IsPacking(New(ErrCodeLastLevel, "x")) {
		t.Error("last level is not a packing violation")
	}
}
