package storage

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Directory maps ledger addresses to deployed contracts, so that a contract
// can call another one knowing only its address.
type Directory struct {
	mu        sync.RWMutex
	nonce     uint64
	contracts map[common.Address]any
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{contracts: make(map[common.Address]any)}
}

// Deploy registers contract under a fresh address derived from deployer and
// a sequential nonce, and returns that address.
func (d *Directory) Deploy(deployer common.Address, contract any) common.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	addr := ethcrypto.CreateAddress(deployer, d.nonce)
	d.nonce++
	d.contracts[addr] = contract
	return addr
}

// Resolve returns the contract deployed at addr.
func (d *Directory) Resolve(addr common.Address) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.contracts[addr]
	return c, ok
}
