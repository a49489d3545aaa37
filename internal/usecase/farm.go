package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// maxArrayScan bounds the index scans over the farm's public arrays
const maxArrayScan = 64

// farmContracts locates the deployed farm and its reward token
type farmContracts struct {
	deployer        *contractDeployer
	resolveContract *ResolveContract
}

func (f *farmContracts) farm(ctx context.Context) (*models.Contract, error) {
	farm, err := f.deployer.latest(ctx, TokenFarm)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, fmt.Errorf("%w: %s on network %s (run farm deploy first)",
			domain.ErrNotDeployed, TokenFarm, f.deployer.config.Network.Name)
	}
	return farm, nil
}

func (f *farmContracts) dappToken(ctx context.Context) (*models.Contract, error) {
	token, err := f.deployer.latest(ctx, DappToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: %s on network %s", domain.ErrNotDeployed, DappToken, f.deployer.config.Network.Name)
	}
	token.Name = DappTokenName
	return token, nil
}

// token resolves a stakeable token by configuration name
func (f *farmContracts) token(ctx context.Context, name string) (*models.Contract, error) {
	if name == DappTokenName {
		return f.dappToken(ctx)
	}
	return f.resolveContract.Run(ctx, name)
}

func newFarmContracts(cfg *config.RuntimeConfig, client ContractClient, artifacts ArtifactRepository, registry DeploymentRegistry, resolveContract *ResolveContract) *farmContracts {
	return &farmContracts{
		deployer: &contractDeployer{
			config:    cfg,
			client:    client,
			artifacts: artifacts,
			registry:  registry,
		},
		resolveContract: resolveContract,
	}
}

// StakeTokensParams contains parameters for staking
type StakeTokensParams struct {
	Token   string
	Amount  *big.Int
	Account ResolveAccountParams
}

// StakeTokensResult contains the result of a stake
type StakeTokensResult struct {
	Account *models.Account
	Farm    *models.Contract
	Token   *models.Contract
	Amount  *big.Int
	Receipt *types.Receipt
}

// StakeTokens approves the farm and stakes tokens into it
type StakeTokens struct {
	resolveAccount *ResolveAccount
	client         ContractClient
	contracts      *farmContracts
	sink           ProgressSink
}

// NewStakeTokens creates a new StakeTokens use case
func NewStakeTokens(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	resolveContract *ResolveContract,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	sink ProgressSink,
) *StakeTokens {
	return &StakeTokens{
		resolveAccount: resolveAccount,
		client:         client,
		contracts:      newFarmContracts(cfg, client, artifacts, registry, resolveContract),
		sink:           sink,
	}
}

// Run executes the stake
func (uc *StakeTokens) Run(ctx context.Context, params StakeTokensParams) (*StakeTokensResult, error) {
	if params.Amount == nil {
		return nil, fmt.Errorf("amount is required")
	}

	account, err := uc.resolveAccount.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	farm, err := uc.contracts.farm(ctx)
	if err != nil {
		return nil, err
	}
	token, err := uc.contracts.token(ctx, params.Token)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "approving", Message: fmt.Sprintf("Approving %s...", token.Name), Spinner: true})
	if _, err := uc.client.Transact(ctx, account, token, "approve", farm.Address, params.Amount); err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
		return nil, fmt.Errorf("failed to approve %s: %w", token.Name, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "staking", Message: fmt.Sprintf("Staking %s...", token.Name), Spinner: true})
	receipt, err := uc.client.Transact(ctx, account, farm, "stakeToken", params.Amount, token.Address)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	if err != nil {
		return nil, fmt.Errorf("failed to stake %s: %w", token.Name, err)
	}

	return &StakeTokensResult{
		Account: account,
		Farm:    farm,
		Token:   token,
		Amount:  params.Amount,
		Receipt: receipt,
	}, nil
}

// UnstakeTokensParams contains parameters for unstaking
type UnstakeTokensParams struct {
	Token   string
	Account ResolveAccountParams
}

// UnstakeTokensResult contains the result of an unstake
type UnstakeTokensResult struct {
	Account *models.Account
	Farm    *models.Contract
	Token   *models.Contract
	Amount  *big.Int
	Receipt *types.Receipt
}

// UnstakeTokens withdraws the whole staked balance of a token
type UnstakeTokens struct {
	resolveAccount *ResolveAccount
	client         ContractClient
	contracts      *farmContracts
	sink           ProgressSink
}

// NewUnstakeTokens creates a new UnstakeTokens use case
func NewUnstakeTokens(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	resolveContract *ResolveContract,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	sink ProgressSink,
) *UnstakeTokens {
	return &UnstakeTokens{
		resolveAccount: resolveAccount,
		client:         client,
		contracts:      newFarmContracts(cfg, client, artifacts, registry, resolveContract),
		sink:           sink,
	}
}

// Run executes the unstake
func (uc *UnstakeTokens) Run(ctx context.Context, params UnstakeTokensParams) (*UnstakeTokensResult, error) {
	account, err := uc.resolveAccount.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	farm, err := uc.contracts.farm(ctx)
	if err != nil {
		return nil, err
	}
	token, err := uc.contracts.token(ctx, params.Token)
	if err != nil {
		return nil, err
	}

	amount, err := callBig(ctx, uc.client, farm, "stakingBalance", token.Address, account.Address)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "unstaking", Message: fmt.Sprintf("Unstaking %s...", token.Name), Spinner: true})
	receipt, err := uc.client.Transact(ctx, account, farm, "unstakeToken", token.Address)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	if err != nil {
		return nil, fmt.Errorf("failed to unstake %s: %w", token.Name, err)
	}

	return &UnstakeTokensResult{
		Account: account,
		Farm:    farm,
		Token:   token,
		Amount:  amount,
		Receipt: receipt,
	}, nil
}

// IssueTokensParams contains parameters for issuing rewards
type IssueTokensParams struct {
	Account ResolveAccountParams
}

// IssueTokensResult contains the result of a reward issuance
type IssueTokensResult struct {
	Account *models.Account
	Farm    *models.Contract
	Stakers int
	Receipt *types.Receipt
}

// IssueTokens pays every staker its total staked value in DappToken. Owner only.
type IssueTokens struct {
	resolveAccount *ResolveAccount
	client         ContractClient
	contracts      *farmContracts
	sink           ProgressSink
}

// NewIssueTokens creates a new IssueTokens use case
func NewIssueTokens(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	resolveContract *ResolveContract,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	sink ProgressSink,
) *IssueTokens {
	return &IssueTokens{
		resolveAccount: resolveAccount,
		client:         client,
		contracts:      newFarmContracts(cfg, client, artifacts, registry, resolveContract),
		sink:           sink,
	}
}

// Run executes the issuance
func (uc *IssueTokens) Run(ctx context.Context, params IssueTokensParams) (*IssueTokensResult, error) {
	account, err := uc.resolveAccount.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	farm, err := uc.contracts.farm(ctx)
	if err != nil {
		return nil, err
	}

	stakers, err := countEntries(ctx, uc.client, farm, "stakers")
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "issuing", Message: "Issuing rewards...", Spinner: true})
	receipt, err := uc.client.Transact(ctx, account, farm, "issueTokens")
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &IssueTokensResult{
		Account: account,
		Farm:    farm,
		Stakers: stakers,
		Receipt: receipt,
	}, nil
}

// FarmStatusParams selects the account to report on
type FarmStatusParams struct {
	// Address overrides the account; when nil the resolved account is used
	Address *common.Address
	Account ResolveAccountParams
}

// TokenStake is an account's position in one allowed token
type TokenStake struct {
	Token   common.Address
	Symbol  string
	Balance *big.Int
	Value   *big.Int
}

// FarmStatusResult reports an account's position in the farm
type FarmStatusResult struct {
	Network       string
	Farm          *models.Contract
	DappToken     *models.Contract
	Account       common.Address
	Stakes        []TokenStake
	UniqueTokens  *big.Int
	TotalValue    *big.Int
	RewardBalance *big.Int
}

// FarmStatus reports staking balances, their value and the DappToken balance of an account
type FarmStatus struct {
	config         *config.RuntimeConfig
	resolveAccount *ResolveAccount
	client         ContractClient
	artifacts      ArtifactRepository
	contracts      *farmContracts
}

// NewFarmStatus creates a new FarmStatus use case
func NewFarmStatus(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	resolveContract *ResolveContract,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
) *FarmStatus {
	return &FarmStatus{
		config:         cfg,
		resolveAccount: resolveAccount,
		client:         client,
		artifacts:      artifacts,
		contracts:      newFarmContracts(cfg, client, artifacts, registry, resolveContract),
	}
}

// Run executes the status query
func (uc *FarmStatus) Run(ctx context.Context, params FarmStatusParams) (*FarmStatusResult, error) {
	var user common.Address
	if params.Address != nil {
		user = *params.Address
	} else {
		account, err := uc.resolveAccount.Run(ctx, params.Account)
		if err != nil {
			return nil, err
		}
		user = account.Address
	}

	farm, err := uc.contracts.farm(ctx)
	if err != nil {
		return nil, err
	}
	dappToken, err := uc.contracts.dappToken(ctx)
	if err != nil {
		return nil, err
	}

	result := &FarmStatusResult{
		Network:   uc.config.Network.Name,
		Farm:      farm,
		DappToken: dappToken,
		Account:   user,
	}

	if result.UniqueTokens, err = callBig(ctx, uc.client, farm, "uniqueTokensStaked", user); err != nil {
		return nil, err
	}
	if result.RewardBalance, err = callBig(ctx, uc.client, dappToken, "balanceOf", user); err != nil {
		return nil, err
	}

	result.TotalValue, err = callBig(ctx, uc.client, farm, "getUserTotalValue", user)
	var revert *domain.RevertError
	if errors.As(err, &revert) {
		// reverts when nothing is staked
		result.TotalValue, err = new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}

	erc20, err := uc.artifacts.GetArtifact(ctx, MockDAI)
	if err != nil {
		return nil, fmt.Errorf("failed to load ERC20 interface: %w", err)
	}

	for i := 0; i < maxArrayScan; i++ {
		out, err := uc.client.Call(ctx, farm, "allowedTokens", big.NewInt(int64(i)))
		if errors.As(err, &revert) {
			break
		}
		if err != nil {
			return nil, err
		}
		tokenAddr, ok := out[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("unexpected allowedTokens output %T", out[0])
		}

		stake := TokenStake{Token: tokenAddr}
		if stake.Balance, err = callBig(ctx, uc.client, farm, "stakingBalance", tokenAddr, user); err != nil {
			return nil, err
		}
		if stake.Value, err = callBig(ctx, uc.client, farm, "getUserSingleTokenValue", user, tokenAddr); err != nil {
			return nil, err
		}
		token := models.NewContract("", erc20, tokenAddr)
		if out, err := uc.client.Call(ctx, token, "symbol"); err == nil && len(out) == 1 {
			stake.Symbol, _ = out[0].(string)
		}
		result.Stakes = append(result.Stakes, stake)
	}

	return result, nil
}

// callBig calls a method returning a single integer
func callBig(ctx context.Context, client ContractClient, contract *models.Contract, method string, args ...any) (*big.Int, error) {
	out, err := client.Call(ctx, contract, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s.%s: %w", contract.ContractName, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s.%s returned nothing", contract.ContractName, method)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s.%s returned %T, expected integer", contract.ContractName, method, out[0])
	}
	return value, nil
}

// countEntries counts the entries of a public array by probing indexes until the getter
// reverts. The count stops at maxArrayScan.
func countEntries(ctx context.Context, client ContractClient, contract *models.Contract, getter string) (int, error) {
	for i := 0; i < maxArrayScan; i++ {
		_, err := client.Call(ctx, contract, getter, big.NewInt(int64(i)))
		var revert *domain.RevertError
		if errors.As(err, &revert) {
			return i, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to call %s.%s: %w", contract.ContractName, getter, err)
		}
	}
	return maxArrayScan, nil
}
