package ledger

import (
	"fmt"

	"matrixci/internal/security"
)

// VerifyChain recomputes every record hash, link and signature to
// detect tampering.
func (l *Ledger) VerifyChain() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, rec := range l.records {
		h, err := rec.ComputeHash()
		if err != nil {
			return fmt.Errorf("compute hash for index %d: %w", rec.Index, err)
		}
		if h != rec.Hash {
			return fmt.Errorf("hash mismatch at index %d", rec.Index)
		}

		if i > 0 && rec.PrevHash != l.records[i-1].Hash {
			return fmt.Errorf("prev hash mismatch at index %d", rec.Index)
		}

		if rec.Index != i {
			return fmt.Errorf("index mismatch: expected %d, got %d", i, rec.Index)
		}

		ok, err := security.VerifySignatureFromHex(rec.PubKey, []byte(rec.Hash), rec.Signature)
		if err != nil {
			return fmt.Errorf("verify signature at index %d: %w", rec.Index, err)
		}
		if !ok {
			return fmt.Errorf("bad signature at index %d", rec.Index)
		}
	}
	return nil
}
