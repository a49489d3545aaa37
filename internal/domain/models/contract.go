package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract is a handle to a deployed contract: name, address and ABI
type Contract struct {
	// Name is the logical name the contract was resolved by, e.g. "eth_usd_price_feed"
	Name string `json:"name"`
	// ContractName is the contract type, e.g. "MockV3Aggregator"
	ContractName string         `json:"contractName"`
	Address      common.Address `json:"address"`
	ABI          *abi.ABI       `json:"-"`
}

// NewContract builds a handle from an artifact and an address
func NewContract(name string, artifact *Artifact, address common.Address) *Contract {
	if name == "" {
		name = artifact.Name
	}
	return &Contract{
		Name:         name,
		ContractName: artifact.Name,
		Address:      address,
		ABI:          &artifact.ABI,
	}
}

func (c *Contract) String() string {
	if c.Name == c.ContractName {
		return fmt.Sprintf("%s at %s", c.ContractName, c.Address.Hex())
	}
	return fmt.Sprintf("%s (%s) at %s", c.Name, c.ContractName, c.Address.Hex())
}
