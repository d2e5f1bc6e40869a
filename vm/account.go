package vm

import "github.com/stackvm/evm/core/types"

// Account is the persistent record for one address: its code, storage,
// balance, and nonce. Code and the Jumpdests it was analyzed into are
// shared by reference with every Frame executing this account's code and
// are never mutated after NewAccount populates them.
type Account struct {
	Balance   *types.Word
	Code      []byte
	Jumpdests Jumpdests
	Storage   map[types.Word]types.Word
	Nonce     uint64
}

// NewAccount returns a fresh Account with the given code (jumpdest
// analysis runs once, here) and an empty storage map.
func NewAccount(code []byte) *Account {
	return &Account{
		Balance:   types.ZeroWord(),
		Code:      code,
		Jumpdests: AnalyzeJumpdests(code),
		Storage:   make(map[types.Word]types.Word),
	}
}

// Load returns the storage value at key, or zero if the key is absent.
func (a *Account) Load(key *types.Word) *types.Word {
	if v, ok := a.Storage[*key]; ok {
		return new(types.Word).Set(&v)
	}
	return types.ZeroWord()
}

// Store writes value at key.
func (a *Account) Store(key, value *types.Word) {
	a.Storage[*key] = *value
}
