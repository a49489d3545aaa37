package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Deployment is a recorded contract deployment
type Deployment struct {
	ChainID      uint64         `json:"chainId"`
	Network      string         `json:"network"`
	ContractName string         `json:"contractName"`
	Address      common.Address `json:"address"`
	TxHash       common.Hash    `json:"txHash,omitempty"`
	Deployer     common.Address `json:"deployer,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
