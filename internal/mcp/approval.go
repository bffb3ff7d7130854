package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pixelia/internal/storage"
)

// EventEmitter allows the approval queue to notify the frontend.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

const (
	EventApprovalRequired  = "mcp:approval-required"
	EventApprovalDismissed = "mcp:approval-dismissed"

	// ApprovalPrefix namespaces approval records in the shared store.
	ApprovalPrefix = "pixelia_approval_"
)

// PendingAction represents a destructive operation awaiting user approval.
type PendingAction struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"` // JSON with extra context (e.g. page index)
}

type approvalStatus string

const (
	statusPending  approvalStatus = "pending"
	statusApproved approvalStatus = "approved"
	statusRejected approvalStatus = "rejected"
)

// approvalRecord is what the standalone server stores for the desktop app.
type approvalRecord struct {
	PendingAction
	Status approvalStatus `json:"status"`
}

// ApprovalQueue manages human-in-the-loop approval for destructive MCP tool calls.
// It supports two modes:
//   - In-process: uses channels + frontend events
//   - Store-based (standalone MCP): writes a record to the shared KV store and
//     polls until the desktop app answers it
type ApprovalQueue struct {
	mu      sync.Mutex
	pending map[string]chan bool
	ctx     context.Context
	emitter EventEmitter
	timeout time.Duration
	poll    time.Duration

	kv storage.KV
}

func NewApprovalQueue(ctx context.Context, emitter EventEmitter) *ApprovalQueue {
	return &ApprovalQueue{
		pending: make(map[string]chan bool),
		ctx:     ctx,
		emitter: emitter,
		timeout: 120 * time.Second,
		poll:    500 * time.Millisecond,
	}
}

// SetKV enables store-based approval mode for standalone MCP.
func (q *ApprovalQueue) SetKV(kv storage.KV) {
	q.kv = kv
}

// Request sends an approval request and blocks until approved/rejected.
// metadata is optional JSON with extra context.
func (q *ApprovalQueue) Request(tool, description string, metadata ...string) (bool, error) {
	action := PendingAction{
		ID:          uuid.New().String(),
		Tool:        tool,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Metadata:    "{}",
	}
	if len(metadata) > 0 && metadata[0] != "" {
		action.Metadata = metadata[0]
	}

	if q.kv != nil {
		return q.requestViaKV(action)
	}
	return q.requestViaChannel(action)
}

func (q *ApprovalQueue) requestViaKV(action PendingAction) (bool, error) {
	key := ApprovalPrefix + action.ID
	if err := writeApproval(q.kv, approvalRecord{PendingAction: action, Status: statusPending}); err != nil {
		return false, fmt.Errorf("store approval: %w", err)
	}
	defer q.kv.Delete(key)

	deadline := time.Now().Add(q.timeout)
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if time.Now().After(deadline) {
				return false, fmt.Errorf("action timed out after %s: %s", q.timeout, action.Tool)
			}
			rec, err := readApproval(q.kv, key)
			if err != nil {
				continue
			}
			switch rec.Status {
			case statusApproved:
				return true, nil
			case statusRejected:
				return false, fmt.Errorf("action rejected by user: %s", action.Tool)
			}
		case <-q.ctx.Done():
			return false, fmt.Errorf("context cancelled")
		}
	}
}

func (q *ApprovalQueue) requestViaChannel(action PendingAction) (bool, error) {
	ch := make(chan bool, 1)

	q.mu.Lock()
	q.pending[action.ID] = ch
	q.mu.Unlock()
	defer q.cleanup(action.ID)

	q.emitter.Emit(q.ctx, EventApprovalRequired, action)

	select {
	case approved := <-ch:
		if !approved {
			return false, fmt.Errorf("action rejected by user: %s", action.Tool)
		}
		return true, nil
	case <-time.After(q.timeout):
		q.emitter.Emit(q.ctx, EventApprovalDismissed, map[string]string{"id": action.ID})
		return false, fmt.Errorf("action timed out after %s: %s", q.timeout, action.Tool)
	case <-q.ctx.Done():
		return false, fmt.Errorf("context cancelled")
	}
}

// Approve marks a pending action as approved (in-process mode).
func (q *ApprovalQueue) Approve(actionID string) { q.resolve(actionID, true) }

// Reject marks a pending action as rejected (in-process mode).
func (q *ApprovalQueue) Reject(actionID string) { q.resolve(actionID, false) }

func (q *ApprovalQueue) resolve(actionID string, approved bool) {
	q.mu.Lock()
	ch, ok := q.pending[actionID]
	q.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- approved:
	default:
	}
}

func (q *ApprovalQueue) cleanup(id string) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// ── Store side (desktop app) ───────────────────────────────

// PendingApprovals lists the actions a standalone server is waiting on.
func PendingApprovals(kv storage.KV) ([]PendingAction, error) {
	keys, err := kv.Keys(ApprovalPrefix)
	if err != nil {
		return nil, err
	}
	var out []PendingAction
	for _, k := range keys {
		rec, err := readApproval(kv, k)
		if err != nil || rec.Status != statusPending {
			continue
		}
		out = append(out, rec.PendingAction)
	}
	return out, nil
}

// ResolveApproval answers a stored approval request.
func ResolveApproval(kv storage.KV, actionID string, approved bool) error {
	rec, err := readApproval(kv, ApprovalPrefix+actionID)
	if err != nil {
		return err
	}
	if rec.Status != statusPending {
		return fmt.Errorf("approval %s already %s", actionID, rec.Status)
	}
	rec.Status = statusRejected
	if approved {
		rec.Status = statusApproved
	}
	return writeApproval(kv, rec)
}

func readApproval(kv storage.KV, key string) (approvalRecord, error) {
	var rec approvalRecord
	raw, err := kv.Get(key)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", strings.TrimPrefix(key, ApprovalPrefix), err)
	}
	if rec.ID == "" {
		return rec, errors.New("approval record without id")
	}
	return rec, nil
}

func writeApproval(kv storage.KV, rec approvalRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return kv.Set(ApprovalPrefix+rec.ID, string(data))
}
