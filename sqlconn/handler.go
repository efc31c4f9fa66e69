package sqlconn

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
)

// queryRequestWire is spec.md §6's SqlQuery on the wire.
type queryRequestWire struct {
	Query        string `json:"query"`
	ConnectionID string `json:"connection_id"`
}

// queryResponseWire carries the Parquet bytes base64-encoded, since
// JSON has no native byte-stream type.
type queryResponseWire struct {
	Parquet      string `json:"parquet"`
	OverTheLimit bool   `json:"over_the_limit"`
}

type columnWire struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsNullable bool   `json:"is_nullable"`
}

type tableWire struct {
	Name    string       `json:"name"`
	Schema  string       `json:"schema"`
	Columns []columnWire `json:"columns"`
}

type schemaResponseWire struct {
	Database string               `json:"database"`
	Tables   map[string]tableWire `json:"tables"`
}

func schemaToWire(s DatabaseSchema) schemaResponseWire {
	out := schemaResponseWire{Database: s.Database, Tables: make(map[string]tableWire, len(s.Tables))}
	for name, t := range s.Tables {
		tw := tableWire{Name: t.Name, Schema: t.Schema}
		for _, c := range t.Columns {
			tw.Columns = append(tw.Columns, columnWire{Name: c.Name, Type: c.Type, IsNullable: c.IsNullable})
		}
		out.Tables[name] = tw
	}
	return out
}

// Handler exposes a Connector as the plain JSON request/response API
// spec.md §6 describes, generalizing spreadsheet/server.go's
// encoding/json request handling from a websocket connection to a
// synchronous HTTP call — the SQL connector boundary is
// request/response, not a long-lived push channel, so plain net/http
// fits it better than gorilla/websocket (that pattern is reserved for
// the renderer channel in package wsserver).
type Handler struct {
	connector *Connector
}

func NewHandler(connector *Connector) *Handler {
	return &Handler{connector: connector}
}

func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequestWire
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.connector.Query(r.Context(), SqlQuery{Query: req.Query, ConnectionID: req.ConnectionID})
	if err != nil {
		log.Printf("sqlconn: query failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := queryResponseWire{
		Parquet:      base64.StdEncoding.EncodeToString(result.Parquet),
		OverTheLimit: result.OverTheLimit,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("sqlconn: encoding query response: %v", err)
	}
}

func (h *Handler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	connectionID := r.URL.Query().Get("connection_id")
	s, err := h.connector.Schema(r.Context(), connectionID)
	if err != nil {
		log.Printf("sqlconn: schema introspection failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(schemaToWire(s)); err != nil {
		log.Printf("sqlconn: encoding schema response: %v", err)
	}
}
