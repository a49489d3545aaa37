package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// Client deploys, calls and transacts with contracts through the active network's backend
type Client struct {
	connector *Connector
	log       *slog.Logger
}

var _ usecase.ContractClient = (*Client)(nil)

// NewClient creates a new contract client
func NewClient(connector *Connector, log *slog.Logger) *Client {
	return &Client{
		connector: connector,
		log:       log.With("component", "client"),
	}
}

// ChainID returns the chain id reported by the backend
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	backend, err := c.connector.Backend(ctx)
	if err != nil {
		return 0, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Deploy creates a contract from an artifact and waits for the deployment to be mined
func (c *Client) Deploy(ctx context.Context, from *models.Account, artifact *models.Artifact, args ...any) (*models.Contract, *types.Receipt, error) {
	if !artifact.Deployable() {
		return nil, nil, fmt.Errorf("artifact %s has no bytecode", artifact.Name)
	}
	backend, err := c.connector.Backend(ctx)
	if err != nil {
		return nil, nil, err
	}

	input, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s constructor arguments: %w", artifact.Name, err)
	}
	opts, err := c.transactOpts(ctx, backend, from)
	if err != nil {
		return nil, nil, err
	}
	data := append(common.CopyBytes(artifact.Bytecode), input...)
	if _, err := backend.CallContract(ctx, ethereum.CallMsg{From: from.Address, Data: data}, nil); err != nil {
		return nil, nil, fmt.Errorf("deploying %s: %w", artifact.Name, classifyError(err))
	}

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("deploying %s: %w", artifact.Name, classifyError(err))
	}
	c.log.Debug("sent deployment", "contract", artifact.Name, "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := c.wait(ctx, backend, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("deploying %s: %w", artifact.Name, err)
	}
	code, err := backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check deployed code: %w", err)
	}
	if len(code) == 0 {
		return nil, nil, fmt.Errorf("deploying %s: %w", artifact.Name, bind.ErrNoCodeAfterDeploy)
	}

	return models.NewContract("", artifact, receipt.ContractAddress), receipt, nil
}

// Call invokes a constant method and returns its decoded outputs
func (c *Client) Call(ctx context.Context, contract *models.Contract, method string, args ...any) ([]any, error) {
	backend, err := c.connector.Backend(ctx)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract.Address, *contract.ABI, backend, backend, backend)
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, classifyError(err))
	}
	return out, nil
}

// Transact sends a transaction calling method and waits for its receipt. Reverts are
// detected with an eth_call before anything is signed.
func (c *Client) Transact(ctx context.Context, from *models.Account, contract *models.Contract, method string, args ...any) (*types.Receipt, error) {
	backend, err := c.connector.Backend(ctx)
	if err != nil {
		return nil, err
	}

	data, err := contract.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s.%s: %w", contract.Name, method, err)
	}
	opts, err := c.transactOpts(ctx, backend, from)
	if err != nil {
		return nil, err
	}
	to := contract.Address
	if _, err := backend.CallContract(ctx, ethereum.CallMsg{From: from.Address, To: &to, Data: data}, nil); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, classifyError(err))
	}

	bound := bind.NewBoundContract(contract.Address, *contract.ABI, backend, backend, backend)
	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, classifyError(err))
	}
	c.log.Debug("sent transaction", "contract", contract.Name, "method", method, "tx", tx.Hash().Hex())

	receipt, err := c.wait(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, err)
	}
	return receipt, nil
}

func (c *Client) transactOpts(ctx context.Context, backend Backend, from *models.Account) (*bind.TransactOpts, error) {
	if from == nil || from.PrivateKey() == nil {
		return nil, errors.New("no signing account")
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(from.PrivateKey(), chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (c *Client) wait(ctx context.Context, backend Backend, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in block %s", domain.ErrTransactionFailed, tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// classifyError turns node revert errors into domain.RevertError and passes everything else through
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if revert := decodeRevert(dataErr.ErrorData()); revert != nil {
			return revert
		}
	}

	msg := err.Error()
	for _, marker := range []string{"execution reverted", "VM Exception while processing transaction: revert"} {
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(marker):], ":"))
		return &domain.RevertError{Reason: reason}
	}
	return err
}

// decodeRevert decodes hex revert data. Data that is not Error(string) is kept undecoded.
func decodeRevert(data any) *domain.RevertError {
	hexData, ok := data.(string)
	if !ok {
		return nil
	}
	raw, err := hexutil.Decode(hexData)
	if err != nil {
		return nil
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return &domain.RevertError{Data: raw}
	}
	return &domain.RevertError{Reason: reason, Data: raw}
}
