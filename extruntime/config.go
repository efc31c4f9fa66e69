// Package extruntime is the zeromq boundary between the engine and the
// out-of-process non-formula code runtime(s) (spec.md §6). It never runs
// user code itself — it only carries CodeRunRequest out, JsCodeResult and
// get_cells callbacks back, the same "transport carries signed JSON, never
// executes anything" role kernel/kernel.go plays for the teacher's own
// Jupyter protocol.
package extruntime

// Config configures the zeromq endpoint the engine-side Client binds and
// every runtime worker process DEALER-connects to.
type Config struct {
	Transport string // zeromq transport, e.g. "tcp"
	ListenAddr string // host:port the Client binds, e.g. "127.0.0.1:5555"
	Key        string // HMAC-SHA256 key shared with every worker
}
