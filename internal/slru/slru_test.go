package slru

import "testing"

func TestPutNewGoesToProbation(t *testing.T) {
	c := New(2, 2)
	c.PutNew("a")
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestVictimBeforeCapacity(t *testing.T) {
	c := New(2, 2)
	c.PutNew("a")
	if _, ok := c.Victim(); ok {
		t.Fatal("Victim() should report none while under capacity")
	}
}

func TestVictimAtCapacity(t *testing.T) {
	c := New(1, 1)
	c.PutNew("a") // probation
	c.PutNew("b") // fills probation+protected combined capacity (2)

	v, ok := c.Victim()
	if !ok {
		t.Fatal("Victim() should report the probation tail once full")
	}
	if v != "a" {
		t.Fatalf("victim = %v, want %q (oldest probation entry)", v, "a")
	}
}

func TestHitPromotesFromProbationWithRoom(t *testing.T) {
	c := New(2, 2)
	elem := c.PutNew("a")
	newElem, newSeg, _, demoted := c.Hit(elem, Probation)
	if demoted {
		t.Fatal("should not demote anything when protected has room")
	}
	if newSeg != Protected {
		t.Fatalf("segment = %v, want Protected", newSeg)
	}
	if newElem.Value != "a" {
		t.Fatalf("value = %v, want %q", newElem.Value, "a")
	}
}

func TestHitSwapsWhenProtectedFull(t *testing.T) {
	c := New(3, 1)
	protElem := c.PutNew("hot")
	_, _, _, _ = c.Hit(protElem, Probation) // promotes "hot" into protected (room for 1)

	probElem := c.PutNew("cold")

	newElem, newSeg, demotedElem, demoted := c.Hit(probElem, Probation)
	if !demoted {
		t.Fatal("expected a swap once protected is full")
	}
	if newSeg != Protected {
		t.Fatalf("segment = %v, want Protected", newSeg)
	}
	if newElem.Value != "cold" {
		t.Fatalf("promoted value = %v, want %q", newElem.Value, "cold")
	}
	if demotedElem.Value != "hot" {
		t.Fatalf("demoted value = %v, want %q", demotedElem.Value, "hot")
	}
}

func TestHitInProtectedMovesToFront(t *testing.T) {
	c := New(2, 2)
	elem := c.PutNew("a")
	elem, _, _, _ = c.Hit(elem, Probation)
	newElem, newSeg, _, demoted := c.Hit(elem, Protected)
	if demoted {
		t.Fatal("a same-segment hit never demotes anything")
	}
	if newSeg != Protected || newElem.Value != "a" {
		t.Fatalf("unexpected result: elem=%v seg=%v", newElem.Value, newSeg)
	}
}

func TestRemoveVictim(t *testing.T) {
	c := New(1, 1)
	c.PutNew("a")
	c.PutNew("b")
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	c.RemoveVictim()
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after RemoveVictim", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := New(2, 2)
	elem := c.PutNew("a")
	c.Remove(elem, Probation)
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
}

func TestNewPanicsOnNonPositiveCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a zero segment capacity")
		}
	}()
	New(0, 1)
}
