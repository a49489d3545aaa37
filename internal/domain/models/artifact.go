package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactSource records where an artifact was loaded from
type ArtifactSource string

const (
	ArtifactSourceEmbedded ArtifactSource = "embedded"
	ArtifactSourceBrownie  ArtifactSource = "brownie"
	ArtifactSourceFoundry  ArtifactSource = "foundry"
)

// Artifact is a compiled contract: its interface and creation code
type Artifact struct {
	Name     string
	ABI      abi.ABI
	// RawABI is the ABI JSON as found in the artifact file
	RawABI   json.RawMessage
	Bytecode []byte
	Source   ArtifactSource
	Path     string
}

// Deployable reports whether the artifact carries creation code
func (a *Artifact) Deployable() bool {
	return len(a.Bytecode) > 0
}
