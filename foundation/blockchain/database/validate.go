package database

import "fmt"

// ValidateChain reports whether every block in the chain is linked to the
// block before it and carries a valid proof of work. Chains with less than
// two blocks are trivially valid. The chain is not modified.
func ValidateChain(chain []Block, difficulty int) bool {
	return CheckChain(chain, difficulty) == nil
}

// CheckChain performs the same checks as ValidateChain and returns an error
// describing the first block that failed.
func CheckChain(chain []Block, difficulty int) error {
	for i := 1; i < len(chain); i++ {
		prev, cur := chain[i-1], chain[i]

		prevHash := prev.Hash()
		if cur.PreviousHash != prevHash {
			return fmt.Errorf("block %d: previous hash doesn't match parent, got %s, exp %s", i+1, cur.PreviousHash, prevHash)
		}

		if !ValidProof(difficulty, prev.Proof, cur.Proof, prevHash) {
			return fmt.Errorf("block %d: proof %d does not solve parent proof %d", i+1, cur.Proof, prev.Proof)
		}
	}

	return nil
}
