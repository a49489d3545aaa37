package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

const notOwner = "Ownable: caller is not the owner"

// farmStack deploys the token farm on a fresh development chain
func farmStack(t *testing.T) (*stack, *usecase.DeployTokenFarmResult) {
	t.Helper()
	s := newStack(t, developmentNetwork(), nil)
	if !s.cfg.Network.Local {
		t.Skip("only for local testing")
	}

	result, err := s.deployTokenFarm.Run(context.Background(), usecase.DeployTokenFarmParams{})
	require.NoError(t, err)
	return s, result
}

// recordingExporter remembers the last exported deployment
type recordingExporter struct {
	exported *usecase.DeployTokenFarmResult
}

func (e *recordingExporter) Export(_ context.Context, result *usecase.DeployTokenFarmResult) (string, error) {
	e.exported = result
	return "/front_end/src", nil
}

func TestDeployTokenFarm(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)

	assert.Equal(t, "development", result.Network)
	assert.Equal(t, uint64(1337), result.ChainID)
	assert.Equal(t, owner.Address, result.Deployer.Address)
	assert.Equal(t, s.latest(t, usecase.DappToken).Address, result.DappToken.Address)
	assert.Equal(t, s.latest(t, usecase.TokenFarm).Address, result.TokenFarm.Address)

	totalSupply := s.callBig(t, result.DappToken, "totalSupply")
	assertAmount(t, new(big.Int).Sub(totalSupply, usecase.KeptBalance), result.FarmBalance)
	assertAmount(t, result.FarmBalance, s.callBig(t, result.DappToken, "balanceOf", result.TokenFarm.Address))
	assertAmount(t, usecase.KeptBalance, s.callBig(t, result.DappToken, "balanceOf", owner.Address))

	require.Len(t, result.AllowedTokens, 3)
	feeds := map[string]string{"dapp_token": "dai_usd_price_feed", "fau_token": "dai_usd_price_feed", "weth_token": "eth_usd_price_feed"}
	for i, allowed := range result.AllowedTokens {
		assert.Equal(t, feeds[allowed.Name], allowed.FeedName)

		out, err := s.client.Call(ctx, result.TokenFarm, "allowedTokens", big.NewInt(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, allowed.Token.Address, out[0])

		out, err = s.client.Call(ctx, result.TokenFarm, "tokenPriceFeed", allowed.Token.Address)
		require.NoError(t, err)
		assert.Equal(t, allowed.PriceFeed.Address, out[0])
	}
	assert.Empty(t, result.FrontEndPath)
}

func TestDeployTokenFarm_UpdateFrontEnd(t *testing.T) {
	s := newStack(t, developmentNetwork(), nil)
	exporter := &recordingExporter{}
	uc := usecase.NewDeployTokenFarm(s.cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry, exporter, s.sink)

	result, err := uc.Run(context.Background(), usecase.DeployTokenFarmParams{UpdateFrontEnd: true})
	require.NoError(t, err)
	assert.Same(t, result, exporter.exported)
	assert.Equal(t, "/front_end/src", result.FrontEndPath)
}

func TestCanSetPriceFeedContract(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)
	nonOwner := s.account(t, 1)

	priceFeed, err := s.resolveContract.Run(ctx, "eth_usd_price_feed")
	require.NoError(t, err)

	_, err = s.client.Transact(ctx, owner, result.TokenFarm, "setPriceFeedContract", result.DappToken.Address, priceFeed.Address)
	require.NoError(t, err)

	out, err := s.client.Call(ctx, result.TokenFarm, "tokenPriceFeed", result.DappToken.Address)
	require.NoError(t, err)
	assert.Equal(t, priceFeed.Address, out[0])

	_, err = s.client.Transact(ctx, nonOwner, result.TokenFarm, "setPriceFeedContract", result.DappToken.Address, priceFeed.Address)
	var revert *domain.RevertError
	require.True(t, errors.As(err, &revert), "expected a revert, got %v", err)
	assert.Equal(t, notOwner, revert.Reason)
}

func TestStakeTokens(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)
	amount := ether(1)

	staked, err := s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName, Amount: amount})
	require.NoError(t, err)
	assert.Equal(t, result.TokenFarm.Address, staked.Farm.Address)
	assert.Equal(t, result.DappToken.Address, staked.Token.Address)
	require.NotNil(t, staked.Receipt)

	assertAmount(t, amount, s.callBig(t, result.TokenFarm, "stakingBalance", result.DappToken.Address, owner.Address))
	assertAmount(t, big.NewInt(1), s.callBig(t, result.TokenFarm, "uniqueTokensStaked", owner.Address))

	out, err := s.client.Call(ctx, result.TokenFarm, "stakers", big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, owner.Address, out[0])
}

func TestIssueTokens(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)

	_, err := s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName, Amount: ether(1)})
	require.NoError(t, err)
	before := s.callBig(t, result.DappToken, "balanceOf", owner.Address)

	issued, err := s.issue.Run(ctx, usecase.IssueTokensParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, issued.Stakers)

	// 1 DAPP is valued at the dai_usd_price_feed answer
	after := s.callBig(t, result.DappToken, "balanceOf", owner.Address)
	assertAmount(t, new(big.Int).Add(before, usecase.InitialValue), after)
}

func TestIssueTokens_OwnerOnly(t *testing.T) {
	s, _ := farmStack(t)

	_, err := s.issue.Run(context.Background(), usecase.IssueTokensParams{Account: usecase.ResolveAccountParams{Index: intPtr(1)}})
	var revert *domain.RevertError
	require.True(t, errors.As(err, &revert), "expected a revert, got %v", err)
	assert.Equal(t, notOwner, revert.Reason)
}

func TestUnstakeTokens(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)

	_, err := s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName, Amount: ether(3)})
	require.NoError(t, err)

	unstaked, err := s.unstake.Run(ctx, usecase.UnstakeTokensParams{Token: usecase.DappTokenName})
	require.NoError(t, err)
	assertAmount(t, ether(3), unstaked.Amount)

	assertAmount(t, new(big.Int), s.callBig(t, result.TokenFarm, "stakingBalance", result.DappToken.Address, owner.Address))
	assertAmount(t, new(big.Int), s.callBig(t, result.TokenFarm, "uniqueTokensStaked", owner.Address))
	assertAmount(t, usecase.KeptBalance, s.callBig(t, result.DappToken, "balanceOf", owner.Address))
}

func TestFarmStatus(t *testing.T) {
	s, result := farmStack(t)
	ctx := context.Background()
	owner := s.account(t, 0)

	status, err := s.status.Run(ctx, usecase.FarmStatusParams{})
	require.NoError(t, err)
	assert.Equal(t, owner.Address, status.Account)
	assertAmount(t, new(big.Int), status.TotalValue)
	assertAmount(t, new(big.Int), status.UniqueTokens)
	require.Len(t, status.Stakes, 3)

	_, err = s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName, Amount: ether(1)})
	require.NoError(t, err)

	status, err = s.status.Run(ctx, usecase.FarmStatusParams{})
	require.NoError(t, err)
	assertAmount(t, usecase.InitialValue, status.TotalValue)
	assertAmount(t, big.NewInt(1), status.UniqueTokens)
	assertAmount(t, ether(99), status.RewardBalance)

	dapp := status.Stakes[0]
	assert.Equal(t, result.DappToken.Address, dapp.Token)
	assert.Equal(t, "DAPP", dapp.Symbol)
	assertAmount(t, ether(1), dapp.Balance)
	assertAmount(t, usecase.InitialValue, dapp.Value)

	other := common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	status, err = s.status.Run(ctx, usecase.FarmStatusParams{Address: &other})
	require.NoError(t, err)
	assert.Equal(t, other, status.Account)
	assertAmount(t, new(big.Int), status.TotalValue)
}

func TestFarmOperations_RequireDeployment(t *testing.T) {
	s := newStack(t, developmentNetwork(), nil)
	ctx := context.Background()

	_, err := s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName, Amount: ether(1)})
	assert.ErrorIs(t, err, domain.ErrNotDeployed)

	_, err = s.issue.Run(ctx, usecase.IssueTokensParams{})
	assert.ErrorIs(t, err, domain.ErrNotDeployed)

	_, err = s.status.Run(ctx, usecase.FarmStatusParams{})
	assert.ErrorIs(t, err, domain.ErrNotDeployed)

	_, err = s.stake.Run(ctx, usecase.StakeTokensParams{Token: usecase.DappTokenName})
	assert.ErrorContains(t, err, "amount is required")
}
