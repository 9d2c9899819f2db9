package memory

import (
	"context"
	"encoding/json"
	"strings"

	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

type FaultOp string

const (
	FaultRead   FaultOp = "read"
	FaultWrite  FaultOp = "write"
	FaultRemove FaultOp = "remove"
)

type fault struct {
	op     FaultOp
	prefix string
	err    error
	// remaining counts how many more times the fault fires; negative means forever.
	remaining int
}

// InjectFault makes every op on keys starting with prefix fail with err until
// ClearFaults is called.
func (s *Store) InjectFault(op FaultOp, prefix string, err error) {
	s.injectFault(op, prefix, err, -1)
}

// InjectFaultOnce fails only the next matching op.
func (s *Store) InjectFaultOnce(op FaultOp, prefix string, err error) {
	s.injectFault(op, prefix, err, 1)
}

func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

func (s *Store) injectFault(op FaultOp, prefix string, err error, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, prefix: prefix, err: err, remaining: times})
}

func (s *Store) checkFault(ctx context.Context, op FaultOp, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.faults {
		item := &s.faults[i]
		if item.op != op || item.remaining == 0 || !strings.HasPrefix(key, item.prefix) {
			continue
		}
		if item.remaining > 0 {
			item.remaining--
		}
		return item.err
	}
	return nil
}

func encodeEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}
