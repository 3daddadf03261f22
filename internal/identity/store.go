// Package identity keeps the external-identity-to-internal-identifier mapping
// table. The table lives in a single serialized blob on local disk, private to
// this process. It is never reconciled against the shared database: two
// processes can mint different internal ids for the same external identity.
// User records themselves are protected from that fork by the repository's
// upsert-by-clerk-id; the mapping only feeds the redundant internal-id fields
// on friendship edges and activities.
package identity

import (
	"errors"
	"os"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type Store struct {
	path  string
	mu    sync.Mutex
	table map[string]uuid.UUID
}

// Open loads the mapping blob at path. A missing file is an empty table, any
// other read failure propagates.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		table: make(map[string]uuid.UUID),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, errors.New("reading identity mapping error: " + err.Error())
	}
	if len(raw) > 0 {
		if err = sonic.Unmarshal(raw, &s.table); err != nil {
			return nil, errors.New("unmarshalling identity mapping error: " + err.Error())
		}
	}
	return s, nil
}

// Resolve returns the internal id mapped to externalID, minting and persisting
// a fresh one on first sight. Idempotent for the lifetime of the store file.
func (s *Store) Resolve(externalID string) (uuid.UUID, error) {
	if externalID == "" {
		return uuid.UUID{}, errors.New("external id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.table[externalID]; ok {
		return id, nil
	}
	id := uuid.New()
	s.table[externalID] = id
	if err := s.save(); err != nil {
		delete(s.table, externalID)
		return uuid.UUID{}, err
	}
	return id, nil
}

// ReverseResolve scans the table for internalID. ok is false when no local
// mapping exists, e.g. on a store that never resolved that identity forward.
func (s *Store) ReverseResolve(internalID uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for externalID, id := range s.table {
		if id == internalID {
			return externalID, true
		}
	}
	return "", false
}

func (s *Store) save() error {
	raw, err := sonic.Marshal(s.table)
	if err != nil {
		return errors.New("marshalling identity mapping error: " + err.Error())
	}
	if err = os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.New("writing identity mapping error: " + err.Error())
	}
	return nil
}
