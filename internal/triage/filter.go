// internal/triage/filter.go
package triage

import "github.com/tamzrod/daq-acquire/internal/protocol"

// Filter reduces a raw response batch to what the operator should see.
type Filter func([]protocol.ControlResponse) []protocol.ControlResponse

// Passthrough surfaces every response unchanged. Default for all actions.
func Passthrough(resps []protocol.ControlResponse) []protocol.ControlResponse {
	return resps
}

// ErrorsOnly keeps register responses with a nonzero value, so only
// components in a genuine fault state reach the operator. Non-register
// responses (including ERR) always pass.
func ErrorsOnly(resps []protocol.ControlResponse) []protocol.ControlResponse {
	out := make([]protocol.ControlResponse, 0, len(resps))
	for _, r := range resps {
		if r.Kind == protocol.RespRegIO && r.RegIO != nil && r.RegIO.Value == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}
