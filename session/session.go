// Package session holds the per-request working state that accumulates
// between an HTTP upload step, a human review step, and a final generate
// step: a Store of field instances keyed by session ID, and the reusable
// SenderData record a billing form fill reapplies every time. Neither type
// here is imported by the core engine (schema, pdfform, repair, burnin,
// fillengine) — only by cmd/formserver.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/kilroy-fr/pdfforms/schema"
)

// ErrNotFound is returned by Get/Put/Delete for an unknown session ID.
var ErrNotFound = errors.New("session: not found")

// Session is the server-side working state for one form-filling session.
type Session struct {
	ID        string
	FormID    string
	Instances []schema.FieldInstance
}

// Store is the session persistence abstraction; the default implementation
// is an in-memory map, orthogonal to the engine itself.
type Store interface {
	Create(formID string) (*Session, error)
	Get(id string) (*Session, error)
	Put(s *Session) error
	Delete(id string) error
}

// MemoryStore is Store's default, in-process implementation.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Create(formID string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id, FormID: formID}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Put(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SenderData is the reusable "who is billing" record (IBAN, institution
// code, bank name) reapplied across fee-statement fills.
type SenderData struct {
	Institutionskennzeichen string
	IBAN                    string
	BankName                string
	Kontoinhaber            string
	Adresse                 string
}

// ApplySenderData fills the payee fields of an S0050 instance list from a
// SenderData record, leaving any value the caller already supplied intact.
func ApplySenderData(instances []schema.FieldInstance, sd SenderData) []schema.FieldInstance {
	overrides := map[string]string{
		"INSTITUTIONSKENNZEICHEN": sd.Institutionskennzeichen,
		"KONTOINH_IBAN":           sd.IBAN,
		"KONTOINH_BANK_1":         sd.BankName,
		"KONTOINH_NAME_1":         sd.Kontoinhaber,
		"KONTOINH_ORT_1":          sd.Adresse,
	}
	out := make([]schema.FieldInstance, len(instances))
	copy(out, instances)
	have := make(map[string]bool, len(out))
	for _, fi := range out {
		if fi.Value != "" {
			have[fi.FieldName] = true
		}
	}
	for i, fi := range out {
		if have[fi.FieldName] {
			continue
		}
		if v, ok := overrides[fi.FieldName]; ok && v != "" {
			out[i].Value = v
			out[i].Status = schema.StatusFilled
		}
	}
	for name, v := range overrides {
		if v == "" || have[name] {
			continue
		}
		found := false
		for _, fi := range out {
			if fi.FieldName == name {
				found = true
				break
			}
		}
		if !found {
			out = append(out, schema.FieldInstance{FieldName: name, Value: v, Status: schema.StatusFilled})
		}
	}
	return out
}
