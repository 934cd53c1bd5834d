// Package protocol implements the line-oriented wire format watchmux speaks
// with its parent: JSON control messages in on stdin, event lines and the
// batch flush sentinel out on stdout.
//
// Control framing is trusted. An unparseable line means the peer and the
// service have desynchronized, and continuing risks silently misapplying
// later commands, so parse errors here are fatal to the process (the caller
// exits non-zero). Request-level problems — a bad root, an unknown id — are
// diagnostics, handled upstream.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Register is the payload of a register control message.
type Register struct {
	UID      int      `json:"uid"`
	Cwd      string   `json:"cwd"`
	Events   []string `json:"events"`
	Ignores  []string `json:"ignores"`
	Patterns []string `json:"patterns"`
}

// Request is one control message: exactly one of Register or Unregister is
// set. The outer tag distinguishes the two:
//
//	{"register":{"uid":1,"cwd":"/proj","events":["create"],"patterns":["src/**"],"ignores":[]}}
//	{"unregister":1}
type Request struct {
	Register   *Register `json:"register"`
	Unregister *int      `json:"unregister"`
}

// ParseRequest decodes one control line. Unknown fields, malformed JSON,
// and messages carrying neither or both tags are all framing errors.
func ParseRequest(line []byte) (*Request, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("parse control message: %w", err)
	}
	if (req.Register == nil) == (req.Unregister == nil) {
		return nil, fmt.Errorf("control message must carry exactly one of register, unregister: %s", line)
	}
	return &req, nil
}
