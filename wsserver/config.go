// Package wsserver is the renderer channel of spec.md §6: a websocket
// push of the out-of-band messages a committed transaction produces
// (jsUpdateCodeCell, jsSendImage, jsBordersHash, and a fills hash-dirty
// signal; the jsBordersSheet shape is declared but never sent), plus the minimal inbound operations needed
// to drive a GridController from a browser. Grounded on
// spreadsheet/server.go's gorilla/websocket Server: one upgrader, one
// client set guarded by a mutex, JSON request/response framing — the
// same shape, generalized from one global Sheet to many sheets behind
// a GridController and from "broadcast everything" to dirty-hash-scoped
// pushes driven by package render.
package wsserver

// Config is the address the Server listens on.
type Config struct {
	ListenAddr string
}
