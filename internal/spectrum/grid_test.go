package spectrum

import "testing"

func TestGrid_Columns(t *testing.T) {
	g := NewGrid(3, 4, 5, BuildPalette())

	if err := g.SetColumn(1, []uint8{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetColumn: %v", err)
	}
	for y, want := range []uint8{1, 2, 3, 4} {
		if got := g.At(1, y); got != want {
			t.Errorf("At(1, %d) = %d, want %d", y, got, want)
		}
	}

	// Neighbouring columns are untouched
	for _, x := range []int{0, 2} {
		for y := 0; y < 4; y++ {
			if g.At(x, y) != 0 {
				t.Errorf("At(%d, %d) = %d, want 0", x, y, g.At(x, y))
			}
		}
	}

	// Column aliases storage but cannot grow into the next column
	col := g.Column(0)
	if cap(col) != 4 {
		t.Errorf("Column cap = %d, want 4", cap(col))
	}
	col[3] = 9
	if g.At(0, 3) != 9 {
		t.Error("Column does not alias grid storage")
	}
}

func TestGrid_Bounds(t *testing.T) {
	g := NewGrid(2, 4, 6, BuildPalette())

	if err := g.SetColumn(2, make([]uint8, 4)); err == nil {
		t.Error("SetColumn past width: expected error")
	}
	if err := g.SetColumn(-1, make([]uint8, 4)); err == nil {
		t.Error("SetColumn(-1): expected error")
	}
	if err := g.SetColumn(0, make([]uint8, 3)); err == nil {
		t.Error("SetColumn with short column: expected error")
	}

	// The unanalysed canvas region reads as black
	for _, pt := range [][2]int{{2, 0}, {5, 3}, {0, 4}, {-1, 0}} {
		if v := g.At(pt[0], pt[1]); v != 0 {
			t.Errorf("At(%d, %d) = %d, want 0", pt[0], pt[1], v)
		}
	}
}
