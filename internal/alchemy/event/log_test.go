package event

import (
	"testing"

	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

func TestLogAppendDeleteKeepsOrder(t *testing.T) {
	first := DeviceTest{Ingredient: ingredient.Mushroom}
	second := DeviceTest{Ingredient: ingredient.Fern}
	third := DeviceTest{Ingredient: ingredient.Toad}

	l := NewLog(first)
	if idx := l.Append(second); idx != 1 {
		t.Fatalf("Append index = %d, want 1", idx)
	}
	l.Append(third)

	snapshot := l.Events()
	removed, err := l.Delete(1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != Event(second) {
		t.Fatalf("removed = %#v, want %#v", removed, second)
	}

	events := l.Events()
	if len(events) != 2 || events[0] != Event(first) || events[1] != Event(third) {
		t.Fatalf("events after delete = %#v", events)
	}
	if len(snapshot) != 3 || snapshot[1] != Event(second) {
		t.Fatalf("snapshot changed after delete: %#v", snapshot)
	}
}

func TestLogDeleteOutOfRange(t *testing.T) {
	l := NewLog(DeviceTest{Ingredient: ingredient.Mushroom})
	for _, index := range []int{-1, 1, 10} {
		_, err := l.Delete(index)
		if got := apperrors.CodeOf(err); got != apperrors.CodeEventIndexOutOfRange {
			t.Fatalf("Delete(%d) code = %s, want %s", index, got, apperrors.CodeEventIndexOutOfRange)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
}
