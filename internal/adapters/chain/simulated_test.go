package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func assertBig(t *testing.T, want *big.Int, got any) {
	t.Helper()
	value, ok := got.(*big.Int)
	require.True(t, ok, "got %T", got)
	assert.Zero(t, want.Cmp(value), "want %s, got %s", want, value)
}

func (e *testEnv) simulated(t *testing.T) *simulatedChain {
	t.Helper()
	backend, err := e.connector.Backend(context.Background())
	require.NoError(t, err)
	chain, ok := backend.(*simulatedChain)
	require.True(t, ok, "development network must run in process, got %T", backend)
	return chain
}

func TestSimulatedChain_MinesEveryTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chain := env.simulated(t)

	start, err := chain.BlockNumber(ctx)
	require.NoError(t, err)

	token := env.deploy(t, "DappToken")
	recipient := env.account(t, 1).Address
	first, err := env.client.Transact(ctx, env.account(t, 0), token, "transfer", recipient, big.NewInt(1))
	require.NoError(t, err)
	second, err := env.client.Transact(ctx, env.account(t, 0), token, "transfer", recipient, big.NewInt(1))
	require.NoError(t, err)

	assertBig(t, new(big.Int).Add(first.BlockNumber, big.NewInt(1)), second.BlockNumber)
	head, err := chain.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, start+3, head)
}

func TestSimulatedChain_RevertedTransactionIsMined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chain := env.simulated(t)
	token := env.deploy(t, "DappToken")
	stranger := env.account(t, 1)

	opts, err := bind.NewKeyedTransactorWithChainID(stranger.PrivateKey(), big.NewInt(1337))
	require.NoError(t, err)
	opts.GasLimit = 100_000
	bound := bind.NewBoundContract(token.Address, *token.ABI, chain, chain, chain)
	tx, err := bound.Transact(opts, "transfer", env.account(t, 0).Address, big.NewInt(1))
	require.NoError(t, err)

	receipt, err := bind.WaitMined(ctx, chain, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	assert.Empty(t, receipt.Logs)

	nonce, err := chain.PendingNonceAt(ctx, stranger.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)
}

func TestSimulatedChain_NestedRevertBubblesUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.account(t, 0)
	token := env.deploy(t, "DappToken")
	farm := env.deploy(t, "TokenFarm", token.Address)

	_, err := env.client.Transact(ctx, owner, farm, "addAllowedTokens", token.Address)
	require.NoError(t, err)

	// no approval: transferFrom inside stakeToken reverts
	_, err = env.client.Transact(ctx, owner, farm, "stakeToken", ether(1), token.Address)
	assert.ErrorContains(t, err, "ERC20: insufficient allowance")

	out, err := env.client.Call(ctx, farm, "uniqueTokensStaked", owner.Address)
	require.NoError(t, err)
	assert.Zero(t, out[0].(*big.Int).Sign())
	out, err = env.client.Call(ctx, token, "balanceOf", owner.Address)
	require.NoError(t, err)
	assertBig(t, ether(1_000_000), out[0])
}

func TestSimulatedChain_Aggregator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	feed := env.deploy(t, "MockV3Aggregator", uint8(18), ether(2000))

	round, err := env.client.Call(ctx, feed, "latestRoundData")
	require.NoError(t, err)
	require.Len(t, round, 5)
	assertBig(t, big.NewInt(1), round[0])
	assertBig(t, ether(2000), round[1])

	decimals, err := env.client.Call(ctx, feed, "decimals")
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals[0])

	_, err = env.client.Transact(ctx, env.account(t, 0), feed, "updateAnswer", big.NewInt(-5))
	require.NoError(t, err)
	answer, err := env.client.Call(ctx, feed, "latestAnswer")
	require.NoError(t, err)
	assertBig(t, big.NewInt(-5), answer[0])

	// earlier rounds stay readable
	round, err = env.client.Call(ctx, feed, "getRoundData", big.NewInt(1))
	require.NoError(t, err)
	assertBig(t, ether(2000), round[1])
}

func TestSimulatedChain_ValueTransfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chain := env.simulated(t)
	from, to := env.account(t, 0), env.account(t, 1).Address

	nonce, err := chain.PendingNonceAt(ctx, from.Address)
	require.NoError(t, err)
	tx, err := types.SignNewTx(from.PrivateKey(), types.LatestSignerForChainID(big.NewInt(1337)), &types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    ether(3),
		Gas:      21_000,
		GasPrice: big.NewInt(10_000_000_000),
	})
	require.NoError(t, err)
	require.NoError(t, chain.SendTransaction(ctx, tx))

	balance, err := chain.BalanceAt(ctx, to, nil)
	require.NoError(t, err)
	assertBig(t, new(big.Int).Add(devBalance, ether(3)), balance)

	receipt, err := chain.TransactionReceipt(ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	_, err = chain.TransactionReceipt(ctx, common.Hash{1})
	assert.Error(t, err)

	// signed for another chain
	other, err := types.SignNewTx(from.PrivateKey(), types.LatestSignerForChainID(big.NewInt(1)), &types.LegacyTx{
		Nonce:    nonce + 1,
		To:       &to,
		Gas:      21_000,
		GasPrice: big.NewInt(10_000_000_000),
	})
	require.NoError(t, err)
	assert.Error(t, chain.SendTransaction(ctx, other))
}
