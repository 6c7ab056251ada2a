package pricefeed

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q96() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 96)
}

func TestPriceFromSqrtX96(t *testing.T) {
	// sqrtPrice == 1 and equal decimals: one token1 buys exactly one token0.
	assert.InDelta(t, 1.0, PriceFromSqrtX96(q96(), 18, 18), 1e-9)

	// sqrtPrice == 2 means raw price 4; with equal decimals the quote is 1/4.
	twice := new(big.Int).Mul(q96(), big.NewInt(2))
	assert.InDelta(t, 0.25, PriceFromSqrtX96(twice, 18, 18), 1e-9)

	// USDC(6)/WETH(18) style pair: decimals shift the quote by 10^12.
	assert.InDelta(t, 1e12, PriceFromSqrtX96(q96(), 6, 18), 1e3)

	assert.Zero(t, PriceFromSqrtX96(big.NewInt(0), 6, 18))
}

type fakeCaller struct {
	factory common.Address
	pool    common.Address
	sqrt    *big.Int
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To != nil && *msg.To == f.factory {
		return factoryABI.Methods["getPool"].Outputs.Pack(f.pool)
	}
	return poolABI.Methods["slot0"].Outputs.Pack(
		f.sqrt, big.NewInt(0), uint16(0), uint16(0), uint16(0), uint8(0), true)
}

func TestPriceToken0PerToken1(t *testing.T) {
	factory := common.HexToAddress("0x0227628f3F023bb0B980b67D528571c95c6DaC1c")
	c := &Client{
		ec: &fakeCaller{
			factory: factory,
			pool:    common.HexToAddress("0x1"),
			sqrt:    new(big.Int).Mul(q96(), big.NewInt(2)),
		},
		factory: factory,
	}

	price, err := c.PriceToken0PerToken1(context.Background(), "0xA", "0xB", 500, 18, 18)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, price, 1e-9)
}

func TestMissingPool(t *testing.T) {
	factory := common.HexToAddress("0x0227628f3F023bb0B980b67D528571c95c6DaC1c")
	c := &Client{
		ec:      &fakeCaller{factory: factory}, // getPool returns the zero address
		factory: factory,
	}

	_, err := c.PriceToken0PerToken1(context.Background(), "0xA", "0xB", 500, 6, 18)
	assert.ErrorIs(t, err, ErrPoolNotFound)
}
