// Package state persists what the bootstrap has created, in creation order,
// so a later destroy can tear everything down from the recorded outputs
// alone. The document is JSON and safe to inspect by hand; it contains
// minted secrets, so backends must keep it private.
package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// Version is the current state document version.
const Version = 1

// Record is one managed resource: its kind, the name the plan gave it, the
// remote id and the raw input/output documents recorded at create time.
type Record struct {
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	ID      string          `json:"id"`
	Inputs  json.RawMessage `json:"inputs,omitempty"`
	Outputs json.RawMessage `json:"outputs,omitempty"`
}

// Document is the persisted form. Resources keep creation order; destroy
// depends on it.
type Document struct {
	Version   int      `json:"version"`
	Resources []Record `json:"resources"`
}

// Backend stores the serialized document somewhere durable. Load returns
// (nil, nil) when no document exists yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store is the in-memory document bound to its backend. Every mutation is
// persisted before it returns, so a crash between steps never loses a
// created resource.
type Store struct {
	backend Backend
	doc     Document
}

// Open loads the document from the backend, starting fresh when none exists.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	data, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	s := &Store{backend: backend, doc: Document{Version: Version}}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if s.doc.Version > Version {
		return nil, fmt.Errorf("state version %d is newer than this binary supports (%d)", s.doc.Version, Version)
	}
	return s, nil
}

// Records returns the resources in creation order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.doc.Resources))
	copy(out, s.doc.Resources)
	return out
}

// Empty reports whether anything is recorded.
func (s *Store) Empty() bool {
	return len(s.doc.Resources) == 0
}

// Lookup finds a record by kind and name.
func (s *Store) Lookup(kind, name string) (Record, bool) {
	for _, r := range s.doc.Resources {
		if r.Kind == kind && r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Put upserts a record and persists. An existing (kind, name) keeps its
// creation position.
func (s *Store) Put(ctx context.Context, rec Record) error {
	replaced := false
	for i, r := range s.doc.Resources {
		if r.Kind == rec.Kind && r.Name == rec.Name {
			s.doc.Resources[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		s.doc.Resources = append(s.doc.Resources, rec)
	}
	return s.save(ctx)
}

// Remove deletes a record and persists. Removing an absent record is a
// no-op.
func (s *Store) Remove(ctx context.Context, kind, name string) error {
	for i, r := range s.doc.Resources {
		if r.Kind == kind && r.Name == name {
			s.doc.Resources = append(s.doc.Resources[:i], s.doc.Resources[i+1:]...)
			return s.save(ctx)
		}
	}
	return nil
}

func (s *Store) save(ctx context.Context) error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
