package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Vectors calculated in Python with json.dumps(block, sort_keys=True) and
// hashlib.sha256.
const (
	genesisHash = "431279f507cadba8d348e3222e7015a80726b76bdc6f6cb66feea83e1429b6b8"
	block2Hash  = "09d66fe0a5533baff9a35d939baee95980ee9328a1c5fd56c2c5e65323f62d50"
	unicodeHash = "7d4e8deaaf4174158f229b59adf589c0a49365a0fe3937a0724ee49680a45cae"
	block2Proof = 410294
)

func genesis() database.Block {
	return database.Block{
		Index:        1,
		Timestamp:    1700000000.123456,
		Transactions: []database.Tx{},
		Proof:        100,
		PreviousHash: "1",
	}
}

func block2() database.Block {
	return database.Block{
		Index:        2,
		Timestamp:    1700000100.5,
		Transactions: []database.Tx{database.NewTx("a", "b", "10")},
		Proof:        block2Proof,
		PreviousHash: genesisHash,
	}
}

// =============================================================================

func Test_Hash(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		hash  string
	}

	tt := []table{
		{
			name:  "genesis",
			block: genesis(),
			hash:  genesisHash,
		},
		{
			name:  "transactions",
			block: block2(),
			hash:  block2Hash,
		},
		{
			name: "escaping",
			block: database.Block{
				Index:        3,
				Timestamp:    1e16,
				Transactions: []database.Tx{database.NewTx("caf\u00e9 \U0001F600", "x\"y\\z\n", "2.5")},
				Proof:        -7,
				PreviousHash: "ab",
			},
			hash: unicodeHash,
		},
	}

	t.Log("Given the need to hash blocks the same way on every node.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					hash := tst.block.Hash()
					if hash != tst.hash {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, hash)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
						t.Fatalf("\t%s\tTest %d:\tShould get back the reference hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the reference hash.", success, testID)

					if again := tst.block.Hash(); again != hash {
						t.Fatalf("\t%s\tTest %d:\tShould get the same hash on every call.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same hash on every call.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_HashChangesWithFields(t *testing.T) {
	t.Log("Given the need to detect any change to a block.")
	{
		hash := block2().Hash()

		changes := map[string]func(b *database.Block){
			"index":     func(b *database.Block) { b.Index++ },
			"timestamp": func(b *database.Block) { b.Timestamp += 0.000001 },
			"proof":     func(b *database.Block) { b.Proof++ },
			"prevhash":  func(b *database.Block) { b.PreviousHash = genesisHash[1:] + "0" },
			"amount":    func(b *database.Block) { b.Transactions = []database.Tx{database.NewTx("a", "b", "11")} },
			"recipient": func(b *database.Block) { b.Transactions = []database.Tx{database.NewTx("a", "c", "10")} },
		}

		for name, change := range changes {
			block := block2()
			change(&block)

			if block.Hash() == hash {
				t.Fatalf("\t%s\tShould get a different hash after changing the %s.", failed, name)
			}
			t.Logf("\t%s\tShould get a different hash after changing the %s.", success, name)
		}
	}
}

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start every chain the same way.")
	{
		g := database.NewGenesisBlock()

		if !g.IsGenesis() || g.Proof != database.GenesisProof || g.PreviousHash != database.GenesisPreviousHash {
			t.Fatalf("\t%s\tShould get the genesis block: %+v", failed, g)
		}
		t.Logf("\t%s\tShould get the genesis block.", success)

		if g.Transactions == nil || len(g.Transactions) != 0 {
			t.Fatalf("\t%s\tShould get an empty, non nil transaction list.", failed)
		}
		t.Logf("\t%s\tShould get an empty, non nil transaction list.", success)

		if block2().IsGenesis() {
			t.Fatalf("\t%s\tShould not treat block 2 as genesis.", failed)
		}
		t.Logf("\t%s\tShould not treat block 2 as genesis.", success)
	}
}

func Test_ValidProof(t *testing.T) {
	t.Log("Given the need to validate proofs of work.")
	{
		if !database.ValidProof(database.DefaultDifficulty, 100, block2Proof, genesisHash) {
			t.Fatalf("\t%s\tShould accept the reference proof.", failed)
		}
		t.Logf("\t%s\tShould accept the reference proof.", success)

		if database.ValidProof(database.DefaultDifficulty, 100, block2Proof+1, genesisHash) {
			t.Fatalf("\t%s\tShould reject the wrong proof.", failed)
		}
		t.Logf("\t%s\tShould reject the wrong proof.", success)

		if database.ValidProof(database.DefaultDifficulty, 101, block2Proof, genesisHash) {
			t.Fatalf("\t%s\tShould reject the proof against a different last proof.", failed)
		}
		t.Logf("\t%s\tShould reject the proof against a different last proof.", success)

		if !database.ValidProof(0, 1, 2, "anything") {
			t.Fatalf("\t%s\tShould accept any proof with no difficulty.", failed)
		}
		t.Logf("\t%s\tShould accept any proof with no difficulty.", success)
	}
}

func Test_Mine(t *testing.T) {
	type table struct {
		name       string
		difficulty int
		exp        int64
	}

	tt := []table{
		{name: "difficulty1", difficulty: 1, exp: 1},
		{name: "difficulty2", difficulty: 2, exp: 46},
		{name: "difficulty4", difficulty: 4, exp: block2Proof},
	}

	t.Log("Given the need to mine the next proof.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining with difficulty %d.", testID, tst.difficulty)
			{
				f := func(t *testing.T) {
					proof, err := database.Mine(context.Background(), tst.difficulty, genesis(), nil)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine.", success, testID)

					if proof != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, proof)
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould find the first valid proof.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould find the first valid proof.", success, testID)

					if !database.ValidProof(tst.difficulty, genesis().Proof, proof, genesisHash) {
						t.Fatalf("\t%s\tTest %d:\tShould get a proof that validates.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get a proof that validates.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MineCancel(t *testing.T) {
	t.Log("Given the need to stop mining on request.")
	{
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// No sha256 hash has 64 leading zeros so this never solves.
		_, err := database.Mine(ctx, 64, genesis(), nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould get back the context error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get back the context error.", success)
	}
}

func Test_ValidateChain(t *testing.T) {
	t.Log("Given the need to validate a chain from another node.")
	{
		chain := []database.Block{genesis(), block2()}

		if !database.ValidateChain(chain, database.DefaultDifficulty) {
			t.Fatalf("\t%s\tShould accept the reference chain: %v", failed, database.CheckChain(chain, database.DefaultDifficulty))
		}
		t.Logf("\t%s\tShould accept the reference chain.", success)

		if !database.ValidateChain(nil, database.DefaultDifficulty) || !database.ValidateChain(chain[:1], database.DefaultDifficulty) {
			t.Fatalf("\t%s\tShould accept chains with less than two blocks.", failed)
		}
		t.Logf("\t%s\tShould accept chains with less than two blocks.", success)

		tampered := []database.Block{genesis(), block2()}
		tampered[1].PreviousHash = block2Hash
		if database.ValidateChain(tampered, database.DefaultDifficulty) {
			t.Fatalf("\t%s\tShould reject a chain with a broken link.", failed)
		}
		t.Logf("\t%s\tShould reject a chain with a broken link.", success)

		tampered = []database.Block{genesis(), block2()}
		tampered[1].Proof++
		if database.ValidateChain(tampered, database.DefaultDifficulty) {
			t.Fatalf("\t%s\tShould reject a chain with a bad proof.", failed)
		}
		t.Logf("\t%s\tShould reject a chain with a bad proof.", success)

		tampered = []database.Block{genesis(), block2()}
		tampered[0].Timestamp++
		if err := database.CheckChain(tampered, database.DefaultDifficulty); err == nil {
			t.Fatalf("\t%s\tShould reject a chain with a modified parent.", failed)
		}
		t.Logf("\t%s\tShould reject a chain with a modified parent.", success)

		if chain[1].Proof != block2Proof || chain[1].PreviousHash != genesisHash {
			t.Fatalf("\t%s\tShould not modify the chain being validated.", failed)
		}
		t.Logf("\t%s\tShould not modify the chain being validated.", success)
	}
}
