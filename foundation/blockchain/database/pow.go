package database

import (
	"context"
	"strconv"
)

// DefaultDifficulty is the number of leading zero hex characters a proof
// hash must have.
const DefaultDifficulty = 4

// maxDifficulty is the length of a hex encoded sha256 hash.
const maxDifficulty = 64

// =============================================================================

// ValidProof reports whether proof solves the puzzle set by the previous
// block. The previous proof, the candidate proof and the previous block's
// hash are concatenated in that order and hashed.
func ValidProof(difficulty int, lastProof int64, proof int64, lastHash string) bool {
	guess := make([]byte, 0, 40+len(lastHash))
	guess = strconv.AppendInt(guess, lastProof, 10)
	guess = strconv.AppendInt(guess, proof, 10)
	guess = append(guess, lastHash...)

	return isHashSolved(difficulty, hashHex(guess))
}

// Mine searches for the first proof, counting up from zero, that solves the
// puzzle set by lastBlock. The search only ends early when the context is
// cancelled, in which case the context error is returned.
func Mine(ctx context.Context, difficulty int, lastBlock Block, evHandler func(v string, args ...any)) (int64, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	lastHash := lastBlock.Hash()

	ev("database: Mine: MINING: started: prevBlk[%d]: prevHash[%s]", lastBlock.Index, lastHash)
	defer ev("database: Mine: MINING: completed")

	var attempts uint64
	for proof := int64(0); ; proof++ {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Checking the context on every attempt costs more than hashing.
		if attempts%1024 == 0 && ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
			return 0, ctx.Err()
		}

		if ValidProof(difficulty, lastBlock.Proof, proof, lastHash) {
			ev("database: Mine: MINING: SOLVED: proof[%d]: attempts[%d]", proof, attempts)
			return proof, nil
		}
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	if len(hash) != maxDifficulty {
		return false
	}

	switch {
	case difficulty <= 0:
		return true
	case difficulty > maxDifficulty:
		return false
	}

	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
