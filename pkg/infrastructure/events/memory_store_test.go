package events

import "testing"

func TestInMemoryStore_AppendAssignsVersions(t *testing.T) {
	store := NewInMemoryStore()

	if err := store.AppendEvent("cycle-1", NewEvent(ExecutionEnteredEvent, "cycle-1", nil)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("cycle-1", NewEvent(CycleClosedEvent, "cycle-1", nil)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	stream, err := store.ReadEvents("cycle-1", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(stream) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(stream))
	}
	if stream[0].Version() != 1 || stream[1].Version() != 2 {
		t.Errorf("Expected versions 1 and 2, got %d and %d", stream[0].Version(), stream[1].Version())
	}
	if stream[0].Type() != ExecutionEnteredEvent {
		t.Errorf("Expected %s, got %s", ExecutionEnteredEvent, stream[0].Type())
	}
}

func TestInMemoryStore_ReadFromVersion(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 3; i++ {
		if err := store.AppendEvent("cycle-1", NewEvent(OrderEditedEvent, "cycle-1", nil)); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	stream, err := store.ReadEvents("cycle-1", 3)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(stream) != 1 || stream[0].Version() != 3 {
		t.Errorf("Expected only version 3, got %d events", len(stream))
	}

	empty, err := store.ReadEvents("unknown", 1)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no events for an unknown stream, got %d", len(empty))
	}
}

func TestInMemoryStore_ReadAllKeepsAppendOrder(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.AppendEvent("a", NewEvent(ExecutionEnteredEvent, "a", nil)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("b", NewEvent(ExecutionEnteredEvent, "b", nil)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent("a", NewEvent(CycleClosedEvent, "a", nil)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	all, err := store.ReadAllEvents()
	if err != nil {
		t.Fatalf("ReadAllEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(all))
	}
	if all[0].StreamID() != "a" || all[1].StreamID() != "b" || all[2].StreamID() != "a" {
		t.Errorf("Unexpected stream order: %s %s %s", all[0].StreamID(), all[1].StreamID(), all[2].StreamID())
	}
}
