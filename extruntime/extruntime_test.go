package extruntime

import (
	"encoding/json"
	"testing"

	"gridsheet/a1"
	"gridsheet/engine"
)

func TestEnvelopeRoundTripAndTamperDetection(t *testing.T) {
	key := []byte("shared-secret")
	req := codeRunRequestWire{TransactionID: "t1", X: 1, Y: 2, SheetID: "s1", Code: "1+1"}

	raw, err := encodeEnvelope(key, typeCodeRunRequest, req)
	if err != nil {
		t.Fatalf("encodeEnvelope: %v", err)
	}

	env, err := decodeEnvelope(key, raw)
	if err != nil {
		t.Fatalf("decodeEnvelope: %v", err)
	}
	if env.Type != typeCodeRunRequest {
		t.Errorf("expected type %q, got %q", typeCodeRunRequest, env.Type)
	}
	var got codeRunRequestWire
	if err := json.Unmarshal(env.Body, &got); err != nil {
		t.Fatalf("unmarshaling body: %v", err)
	}
	if got != req {
		t.Errorf("round-tripped body mismatch: got %+v, want %+v", got, req)
	}

	if _, err := decodeEnvelope([]byte("wrong-secret"), raw); err == nil {
		t.Errorf("expected a signature mismatch error with the wrong key")
	}
}

func TestJsCodeResultWireRoundTrip(t *testing.T) {
	w := jsCodeResultWire{
		TransactionID: "t1",
		Success:       true,
		OutputValue:   &cellOutputWire{Value: "42", TypeName: "number"},
		CellsAccessed: []sheetRangeWire{{SheetID: "s1", X1: 1, Y1: 1, X2: 3, Y2: 3}},
	}

	result := jsCodeResultFromWire(w)
	if result.TransactionID != "t1" || !result.Success {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.OutputValue == nil || result.OutputValue.Value != "42" {
		t.Fatalf("output value did not convert: %+v", result.OutputValue)
	}
	if len(result.CellsAccessed) != 1 || result.CellsAccessed[0].Rect != a1.NewRect(1, 1, 3, 3) {
		t.Errorf("cells accessed did not convert: %+v", result.CellsAccessed)
	}
}

func TestCellA1ResponseWireRoundTrip(t *testing.T) {
	resp := engine.CellA1Response{
		Rect: a1.NewRect(1, 1, 2, 2), TwoDimensional: true, W: 2, H: 2,
		Cells: []engine.CellA1Value{{X: 1, Y: 1, Value: "1", TypeName: "number"}},
	}

	back := cellA1ResponseFromWire(cellA1ResponseToWire(resp))
	if back.Rect != resp.Rect || back.W != resp.W || back.H != resp.H || back.TwoDimensional != resp.TwoDimensional {
		t.Errorf("response did not round trip: got %+v, want %+v", back, resp)
	}
	if len(back.Cells) != 1 || back.Cells[0] != resp.Cells[0] {
		t.Errorf("cells did not round trip: got %+v, want %+v", back.Cells, resp.Cells)
	}
}

func TestToCodeRunRequestWire(t *testing.T) {
	req := engine.CodeRunRequest{TransactionID: "t2", Sheet: "s1", X: 3, Y: 4, Code: "print(1)"}
	w := toCodeRunRequestWire(req)
	if w.TransactionID != "t2" || w.SheetID != "s1" || w.X != 3 || w.Y != 4 || w.Code != "print(1)" {
		t.Errorf("unexpected wire request: %+v", w)
	}
}
