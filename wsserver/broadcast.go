package wsserver

import (
	"log"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/engine"
	"gridsheet/render"
	"gridsheet/sheet"
)

// broadcastDirty turns a committed TransactionResult into spec.md §6's
// renderer-channel push messages: every dirty rectangle is folded into
// the hash-tile cache (render.Cache), and each hash tile that comes out
// dirty gets its viewport rebuilt and re-pushed to every connected
// client. Grounded on spreadsheet/server.go's broadcastAll/
// broadcastUpdates, generalized from "resend every cell" to
// hash-scoped pushes the way quadratic-rust-renderer's own hash grid
// does.
func (s *Server) broadcastDirty(sh sheet.SheetID, result *engine.TransactionResult) {
	sheetData, ok := s.controller.Sheet(sh)
	if !ok {
		return
	}

	for _, rect := range result.Dirty {
		s.cache.Invalidate(sh, rect)
	}

	for _, hash := range s.cache.DirtyHashes(sh) {
		rect := render.HashRect(hash)
		vp := render.BuildViewport(sheetData, rect)
		s.pushViewport(sh, hash, sheetData, vp)
	}
}

func (s *Server) pushViewport(sh sheet.SheetID, hash render.HashCoord, sheetData *sheet.Sheet, vp render.Viewport) {
	for _, cc := range vp.CodeCells {
		s.broadcast(jsUpdateCodeCellWire{
			Type: "jsUpdateCodeCell", SheetID: string(sh),
			X: cc.X, Y: cc.Y,
			EditValue:    codeCellEditValue(sheetData, cc),
			RenderPacket: codeCellPacketPtr(cc),
		})
	}
	for _, img := range vp.Images {
		s.broadcast(jsSendImageWire{
			Type: "jsSendImage", SheetID: string(sh),
			X: img.X, Y: img.Y,
			Bytes: stringPtr(img.Bytes), W: img.W, H: img.H,
		})
	}
	if len(vp.Horizontal) > 0 || len(vp.Vertical) > 0 {
		s.broadcast(jsBordersHashWire{
			Type: "jsBordersHash", SheetID: string(sh),
			HashX: hash.X, HashY: hash.Y,
			Horizontal: borderRunsToWire(vp.Horizontal),
			Vertical:   borderRunsToWire(vp.Vertical),
		})
	}
	if len(vp.Fills) > 0 || len(vp.SheetFills) > 0 {
		s.broadcast(jsFillsHashWire{
			Type: "jsFillsHash", SheetID: string(sh),
			HashX: hash.X, HashY: hash.Y,
		})
	}
}

func codeCellEditValue(sh *sheet.Sheet, cc render.CodeCellPacket) *string {
	v := sh.GetValue(a1.Pos{X: cc.X, Y: cc.Y})
	if v.Kind != cellvalue.Code {
		return nil
	}
	return stringPtr(v.Code.Code)
}

func codeCellPacketPtr(cc render.CodeCellPacket) *codeCellPacketWire {
	w := codeCellPacketToWire(cc)
	return &w
}

func stringPtr(s string) *string { return &s }

// broadcast sends msg to every connected client, dropping (and
// removing) any that errors the same way spreadsheet/server.go's own
// broadcastAll/broadcastUpdates do.
func (s *Server) broadcast(msg interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("wsserver: broadcast write failed: %v", err)
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
