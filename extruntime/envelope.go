package extruntime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// envelope is the wire frame every message crossing the boundary is
// wrapped in: a type tag, its JSON body, and an HMAC-SHA256 signature
// over the body. This is the same signing scheme kernel/kernel.go uses
// to authenticate Jupyter messages, collapsed from Jupyter's fixed
// five-frame layout (header/parent_header/metadata/content/signature)
// into a single signed JSON envelope per message, since spec.md §6
// doesn't require interop with the Jupyter wire format.
type envelope struct {
	Type      string          `json:"type"`
	Body      json.RawMessage `json:"body"`
	Signature string          `json:"signature"`
}

const (
	typeCodeRunRequest  = "code_run_request"
	typeCodeResult      = "code_result"
	typeGetCellsRequest = "get_cells_request"
	typeGetCellsReply   = "get_cells_reply"
	typeError           = "error"
)

func sign(key, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func encodeEnvelope(key []byte, msgType string, body interface{}) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("extruntime: encoding %s body: %w", msgType, err)
	}
	env := envelope{Type: msgType, Body: raw, Signature: sign(key, raw)}
	return json.Marshal(env)
}

func decodeEnvelope(key []byte, data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("extruntime: decoding envelope: %w", err)
	}
	if want := sign(key, env.Body); want != env.Signature {
		return envelope{}, fmt.Errorf("extruntime: signature mismatch on %s envelope", env.Type)
	}
	return env, nil
}
