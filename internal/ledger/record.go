package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Record is a tamper-evident entry for one executed step of a job
// instance.
type Record struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp"`
	RunID     string `json:"runId"`
	Instance  string `json:"instance"`
	Step      string `json:"step"`
	Outcome   string `json:"outcome"`
	LogPath   string `json:"logPath,omitempty"`
	LogHash   string `json:"logHash,omitempty"`
	PrevHash  string `json:"prevHash"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
	PubKey    string `json:"pubKey"`
}

// canonicalData returns the JSON bytes used to compute the record hash.
// It intentionally excludes Hash, Signature and PubKey.
func (r *Record) canonicalData() ([]byte, error) {
	view := struct {
		Index     int    `json:"index"`
		Timestamp string `json:"timestamp"`
		RunID     string `json:"runId"`
		Instance  string `json:"instance"`
		Step      string `json:"step"`
		Outcome   string `json:"outcome"`
		LogPath   string `json:"logPath"`
		LogHash   string `json:"logHash"`
		PrevHash  string `json:"prevHash"`
	}{
		Index:     r.Index,
		Timestamp: r.Timestamp,
		RunID:     r.RunID,
		Instance:  r.Instance,
		Step:      r.Step,
		Outcome:   r.Outcome,
		LogPath:   r.LogPath,
		LogHash:   r.LogHash,
		PrevHash:  r.PrevHash,
	}
	return json.Marshal(view)
}

// ComputeHash calculates SHA-256 over canonicalData.
func (r *Record) ComputeHash() (string, error) {
	data, err := r.canonicalData()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// NewRecord constructs an unchained record for one step outcome. Index,
// PrevHash, Hash and the signature are filled in by Ledger.Append.
func NewRecord(runID, instance, step, outcome, logPath, logHash string) *Record {
	return &Record{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RunID:     runID,
		Instance:  instance,
		Step:      step,
		Outcome:   outcome,
		LogPath:   logPath,
		LogHash:   logHash,
	}
}

func (r *Record) String() string {
	return fmt.Sprintf("index=%d run=%s instance=%s step=%s outcome=%s hash=%s",
		r.Index, r.RunID, r.Instance, r.Step, r.Outcome, shortHash(r.Hash))
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
