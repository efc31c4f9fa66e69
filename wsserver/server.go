package wsserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/engine"
	"gridsheet/render"
	"gridsheet/sheet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the renderer channel: it upgrades browsers to websockets,
// applies their edits through a GridController, and pushes back
// spec.md §6's out-of-band render messages for whatever a commit made
// dirty. Grounded on spreadsheet/server.go's Server, generalized from
// one global Sheet and "broadcast everything" to many sheets and
// dirty-hash-scoped pushes.
type Server struct {
	cfg        Config
	controller *engine.GridController
	cache      *render.Cache

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewServer(cfg Config, controller *engine.GridController) *Server {
	return &Server{
		cfg:        cfg,
		controller: controller,
		cache:      render.NewCache(),
		clients:    map[*websocket.Conn]bool{},
	}
}

// Start runs the HTTP server hosting the websocket endpoint.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	log.Printf("wsserver: listening at ws://%s/ws", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, mux)
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsserver: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleMessage(conn, msg)
	}
}

func (s *Server) handleMessage(conn *websocket.Conn, msg []byte) {
	var req clientRequestWire
	if err := json.Unmarshal(msg, &req); err != nil {
		s.sendError(conn, fmt.Errorf("malformed request: %w", err))
		return
	}

	switch req.Type {
	case reqEditCell:
		s.handleEditCell(conn, req)
	case reqUndo:
		result, err := s.controller.Undo()
		s.handleResult(req.SheetID, result, err)
	case reqRedo:
		result, err := s.controller.Redo()
		s.handleResult(req.SheetID, result, err)
	default:
		s.sendError(conn, fmt.Errorf("unknown request type %q", req.Type))
	}
}

func (s *Server) handleEditCell(conn *websocket.Conn, req clientRequestWire) {
	sheetID := sheet.SheetID(req.SheetID)
	selection, err := a1.ParseSelection(sheetID, req.Cell)
	if err != nil {
		s.sendError(conn, fmt.Errorf("bad cell reference %q: %w", req.Cell, err))
		return
	}
	pos := selection.LargestRectFinite().Min

	op := buildEditOperation(sheetID, pos, req.Value)
	result, err := s.controller.ApplyUserOperations([]engine.Operation{op})
	s.handleResult(req.SheetID, result, err)
}

func (s *Server) handleResult(sheetID string, result *engine.TransactionResult, err error) {
	if err != nil {
		log.Printf("wsserver: applying operation: %v", err)
		return
	}
	if result == nil || !result.Committed {
		return
	}
	s.broadcastDirty(sheet.SheetID(sheetID), result)
}

// buildEditOperation mirrors spreadsheet/engine.go's own
// strings.HasPrefix(rawValue, "=") convention for telling a formula
// apart from a literal.
func buildEditOperation(sh sheet.SheetID, pos a1.Pos, raw string) engine.Operation {
	if strings.HasPrefix(raw, "=") {
		code := cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: strings.TrimPrefix(raw, "=")}
		return engine.SetCodeCell(sh, pos, code)
	}
	return engine.SetCellValue(sh, pos, parseLiteral(raw))
}

func parseLiteral(raw string) cellvalue.CellValue {
	if raw == "" {
		return cellvalue.NewBlank()
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return cellvalue.NewLogical(b)
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return cellvalue.NewNumber(d)
	}
	return cellvalue.NewText(raw)
}

func (s *Server) sendError(conn *websocket.Conn, cause error) {
	if err := conn.WriteJSON(errorWire{Type: "error", Message: cause.Error()}); err != nil {
		log.Printf("wsserver: sending error reply: %v", err)
	}
}
