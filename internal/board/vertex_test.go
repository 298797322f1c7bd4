package board

import "testing"

func TestVertexFields(t *testing.T) {
	v := EmptyVertex

	if !v.IsEmpty() || !v.IsValid() {
		t.Fatal("EmptyVertex must be empty and valid")
	}
	if InvalidVertex.IsValid() {
		t.Fatal("InvalidVertex must not be valid")
	}

	v.SetColor(Black)
	if c, ok := v.Color(); !ok || c != Black {
		t.Errorf("Color = (%v, %v), want (Black, true)", c, ok)
	}

	v.SetNext(NewPoint(18, 18))
	v.SetHead(NewPoint(0, 0))
	v.SetLiberties(361)
	v.SetVisited(true)

	// every field reads back unclobbered
	if got := v.Next(); got != NewPoint(18, 18) {
		t.Errorf("Next = %v, want %v", got, NewPoint(18, 18))
	}
	if got := v.Head(); got != NewPoint(0, 0) {
		t.Errorf("Head = %v, want %v", got, NewPoint(0, 0))
	}
	if got := v.Liberties(); got != 361 {
		t.Errorf("Liberties = %d, want 361", got)
	}
	if !v.Visited() {
		t.Error("Visited = false, want true")
	}
	if c, ok := v.Color(); !ok || c != Black {
		t.Errorf("after field writes, Color = (%v, %v), want (Black, true)", c, ok)
	}

	v.SetColor(White)
	if c, _ := v.Color(); c != White {
		t.Errorf("Color = %v, want White", c)
	}
	if got := v.Liberties(); got != 361 {
		t.Errorf("SetColor clobbered Liberties: %d", got)
	}

	v.SetEmpty()
	if !v.IsEmpty() {
		t.Error("SetEmpty did not clear the stone")
	}
}

func TestVertexLibertyArithmetic(t *testing.T) {
	v := EmptyVertex
	v.SetColor(Black)
	v.SetLiberties(2)

	v.AddLiberties(3)
	if got := v.Liberties(); got != 5 {
		t.Errorf("after AddLiberties(3): %d, want 5", got)
	}

	v.SubLiberties(4)
	if got := v.Liberties(); got != 1 {
		t.Errorf("after SubLiberties(4): %d, want 1", got)
	}

	// liberty arithmetic must not spill into the neighbouring fields
	v.SetVisited(true)
	v.SetNext(NewPoint(9, 9))
	v.AddLiberties(100)
	if !v.Visited() {
		t.Error("AddLiberties clobbered Visited")
	}
	if got := v.Next(); got != NewPoint(9, 9) {
		t.Errorf("AddLiberties clobbered Next: %v", got)
	}
}
