package binding

import "testing"

func TestObservableObject_Notify(t *testing.T) {
	var obj ObservableObject
	var received []PropertyChange

	obj.AddPropertyListener(func(change PropertyChange) {
		received = append(received, change)
	})

	obj.NotifyPropertyChanged("Name")
	obj.NotifyChange(PropertyChange{Name: "Age", Value: 30})

	if len(received) != 2 {
		t.Fatalf("Expected 2 changes, got %d", len(received))
	}
	if received[0].Name != "Name" || received[0].Value != nil {
		t.Errorf("Unexpected first change: %+v", received[0])
	}
	if received[1].Name != "Age" || received[1].Value != 30 {
		t.Errorf("Unexpected second change: %+v", received[1])
	}
}

func TestObservableObject_Unsubscribe(t *testing.T) {
	var obj ObservableObject
	count := 0

	unsub := obj.AddPropertyListener(func(PropertyChange) {
		count++
	})

	obj.NotifyPropertyChanged("Name")
	unsub()
	obj.NotifyPropertyChanged("Name")

	if count != 1 {
		t.Errorf("Expected 1 change after unsubscribe, got %d", count)
	}
	if obj.PropertyListenerCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", obj.PropertyListenerCount())
	}
}

func TestObservableObject_NilListener(t *testing.T) {
	var obj ObservableObject

	unsub := obj.AddPropertyListener(nil)
	unsub()

	if obj.PropertyListenerCount() != 0 {
		t.Errorf("Expected nil listener to be ignored, got %d", obj.PropertyListenerCount())
	}
}

func TestObservableObject_ZeroValueNotify(t *testing.T) {
	var obj ObservableObject

	// Notifying with no subscribers should not panic
	obj.NotifyPropertyChanged("Name")
}

func TestProperty_SetNotifiesWithValue(t *testing.T) {
	var obj ObservableObject
	name := NewProperty(&obj, "Name", "Alice")

	var received []PropertyChange
	obj.AddPropertyListener(func(change PropertyChange) {
		received = append(received, change)
	})

	name.Set("Bob")

	if name.Value() != "Bob" {
		t.Errorf("Expected Bob, got %s", name.Value())
	}
	if len(received) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(received))
	}
	if received[0].Name != "Name" || received[0].Value != "Bob" {
		t.Errorf("Unexpected change: %+v", received[0])
	}
}

func TestProperty_Update(t *testing.T) {
	var obj ObservableObject
	age := NewProperty(&obj, "Age", 30)

	var got PropertyChange
	obj.AddPropertyListener(func(change PropertyChange) {
		got = change
	})

	age.Update(func(v int) int { return v + 1 })

	if age.Value() != 31 {
		t.Errorf("Expected 31, got %d", age.Value())
	}
	if got.Name != "Age" || got.Value != 31 {
		t.Errorf("Unexpected change: %+v", got)
	}
}

func TestProperty_NewDoesNotNotify(t *testing.T) {
	var obj ObservableObject
	count := 0

	obj.AddPropertyListener(func(PropertyChange) {
		count++
	})

	name := NewProperty(&obj, "Name", "Alice")

	if count != 0 {
		t.Errorf("Expected no change on construction, got %d", count)
	}
	if name.Name() != "Name" {
		t.Errorf("Expected property name Name, got %s", name.Name())
	}
}
