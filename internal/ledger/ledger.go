package ledger

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Ledger is an append-only, hash-chained journal of step outcomes.
// On-disk format: JSON lines, one record per line.
type Ledger struct {
	mu      sync.Mutex
	records []*Record
	path    string
}

// Open loads an existing ledger file or creates a new empty one.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		records: make([]*Record, 0),
		path:    path,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		_ = f.Close()
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return l, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode ledger entry: %w", err)
		}
		l.records = append(l.records, &rec)
	}
	return l, nil
}

// Append chains, signs and persists a record. Index, PrevHash, Hash,
// Signature and PubKey are assigned under the lock, so concurrent
// instances can append safely.
func (l *Ledger) Append(rec *Record, priv ed25519.PrivateKey, pub ed25519.PublicKey) error {
	if len(priv) == 0 {
		return fmt.Errorf("private key is empty, cannot sign record")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec.Index = len(l.records)
	rec.PrevHash = ""
	if len(l.records) > 0 {
		rec.PrevHash = l.records[len(l.records)-1].Hash
	}

	h, err := rec.ComputeHash()
	if err != nil {
		return fmt.Errorf("compute record hash: %w", err)
	}
	rec.Hash = h

	sig := ed25519.Sign(priv, []byte(rec.Hash))
	rec.Signature = hex.EncodeToString(sig)
	rec.PubKey = hex.EncodeToString(pub)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}

	l.records = append(l.records, rec)
	return nil
}

// Records returns the in-memory chain.
func (l *Ledger) Records() []*Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// LastHash returns the last record hash, or "" when empty.
func (l *Ledger) LastHash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return ""
	}
	return l.records[len(l.records)-1].Hash
}
