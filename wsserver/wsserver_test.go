package wsserver

import (
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/engine"
	"gridsheet/render"
	"gridsheet/sheet"
)

func TestParseLiteral(t *testing.T) {
	cases := []struct {
		raw  string
		kind cellvalue.Kind
	}{
		{"", cellvalue.Blank},
		{"true", cellvalue.Logical},
		{"FALSE", cellvalue.Logical},
		{"42", cellvalue.Number},
		{"3.5", cellvalue.Number},
		{"hello", cellvalue.Text},
	}
	for _, c := range cases {
		got := parseLiteral(c.raw)
		if got.Kind != c.kind {
			t.Errorf("parseLiteral(%q): got kind %v, want %v", c.raw, got.Kind, c.kind)
		}
	}
}

func TestBuildEditOperation(t *testing.T) {
	pos := a1.Pos{X: 1, Y: 1}

	op := buildEditOperation("s1", pos, "=A1+1")
	if op.Kind != engine.OpSetCodeCell || op.Code.Language != cellvalue.LanguageFormula || op.Code.Code != "A1+1" {
		t.Errorf("unexpected formula operation: %+v", op)
	}

	op = buildEditOperation("s1", pos, "7")
	if op.Kind != engine.OpSetCellValue || op.Value.Kind != cellvalue.Number {
		t.Errorf("unexpected literal operation: %+v", op)
	}
}

func TestCodeCellPacketToWire(t *testing.T) {
	p := render.CodeCellPacket{
		X: 1, Y: 2, W: 3, H: 4,
		Language: "Python", State: render.StateSuccess,
		CollidingWith: []render.Pos{{X: 5, Y: 6}},
	}
	w := codeCellPacketToWire(p)
	if w.X != 1 || w.Y != 2 || w.W != 3 || w.H != 4 || w.Language != "Python" || w.State != "Success" {
		t.Errorf("unexpected wire packet: %+v", w)
	}
	if len(w.CollidingWith) != 1 || w.CollidingWith[0] != (posWire{X: 5, Y: 6}) {
		t.Errorf("unexpected colliding_with: %+v", w.CollidingWith)
	}
}

func TestBorderRunsToWire(t *testing.T) {
	runs := []render.BorderRun{
		{Style: sheet.BorderStyle{Color: "black", Line: "solid"}, X: 1, Y: 1, W: 2, H: 1},
	}
	w := borderRunsToWire(runs)
	if len(w) != 1 || w[0].Color != "black" || w[0].Line != "solid" || w[0].W != 2 {
		t.Errorf("unexpected wire border runs: %+v", w)
	}
}
