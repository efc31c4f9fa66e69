package main

import (
	"strings"
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/engine"
)

func TestSplitCommand(t *testing.T) {
	ref, value, err := splitCommand("A1=7")
	if err != nil || ref != "A1" || value != "7" {
		t.Fatalf("splitCommand: got (%q,%q,%v)", ref, value, err)
	}

	ref, value, err = splitCommand("B2 = =A1+1")
	if err != nil || ref != "B2" || value != "=A1+1" {
		t.Fatalf("splitCommand with formula: got (%q,%q,%v)", ref, value, err)
	}

	if _, _, err := splitCommand("no equals here"); err == nil {
		t.Fatal("splitCommand: expected error for missing '='")
	}

	if _, _, err := splitCommand("=7"); err == nil {
		t.Fatal("splitCommand: expected error for missing reference")
	}
}

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

func TestHandleLineQuitAndUnknownReference(t *testing.T) {
	controller := engine.NewGridController(noRuntime{})
	sh := controller.AddSheet("sheet-1", "Sheet1")
	var out strings.Builder

	if handleLine(&out, controller, sh.ID, ":q") {
		t.Fatal("handleLine(\":q\"): expected loop to stop")
	}
	if !handleLine(&out, controller, sh.ID, "not a command") {
		t.Fatal("handleLine: expected loop to continue past a malformed line")
	}
	if !strings.Contains(out.String(), "error:") {
		t.Errorf("expected an error message for a malformed line, got %q", out.String())
	}
}
