// Package pricefeed reads the wizard's reference price straight from the
// liquidity venue: factory getPool, then the pool's slot0 sqrtPriceX96.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var ErrPoolNotFound = errors.New("pool not found")

var (
	factoryABI = mustABI(`[{"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"fee","type":"uint24"}],"name":"getPool","outputs":[{"name":"pool","type":"address"}],"stateMutability":"view","type":"function"}]`)
	poolABI    = mustABI(`[{"inputs":[],"name":"slot0","outputs":[{"name":"sqrtPriceX96","type":"uint160"},{"name":"tick","type":"int24"},{"name":"observationIndex","type":"uint16"},{"name":"observationCardinality","type":"uint16"},{"name":"observationCardinalityNext","type":"uint16"},{"name":"feeProtocol","type":"uint8"},{"name":"unlocked","type":"bool"}],"stateMutability":"view","type":"function"}]`)
)

type caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Client struct {
	ec      caller
	factory common.Address
	closer  func()
}

func New(rpcURL, factoryAddress string) (*Client, error) {
	ec, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{
		ec:      ec,
		factory: common.HexToAddress(factoryAddress),
		closer:  ec.Close,
	}, nil
}

func (c *Client) Close() error {
	if c.closer != nil {
		c.closer()
	}
	return nil
}

// PriceToken0PerToken1 returns how many token0 units one token1 unit is
// worth in the pool for the given fee tier, adjusted for token decimals.
func (c *Client) PriceToken0PerToken1(ctx context.Context, token0, token1 string, fee int64, dec0, dec1 int) (float64, error) {
	pool, err := c.poolAddress(ctx, common.HexToAddress(token0), common.HexToAddress(token1), fee)
	if err != nil {
		return 0, err
	}

	data, err := poolABI.Pack("slot0")
	if err != nil {
		return 0, err
	}
	res, err := c.ec.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("slot0: %w", err)
	}
	out, err := poolABI.Unpack("slot0", res)
	if err != nil {
		return 0, fmt.Errorf("slot0: %w", err)
	}
	sqrtPriceX96, ok := out[0].(*big.Int)
	if !ok {
		return 0, errors.New("slot0: unexpected sqrtPriceX96 type")
	}
	return PriceFromSqrtX96(sqrtPriceX96, dec0, dec1), nil
}

func (c *Client) poolAddress(ctx context.Context, token0, token1 common.Address, fee int64) (common.Address, error) {
	data, err := factoryABI.Pack("getPool", token0, token1, big.NewInt(fee))
	if err != nil {
		return common.Address{}, err
	}
	res, err := c.ec.CallContract(ctx, ethereum.CallMsg{To: &c.factory, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	out, err := factoryABI.Unpack("getPool", res)
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	pool, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("getPool: unexpected pool type")
	}
	if pool == (common.Address{}) {
		return common.Address{}, ErrPoolNotFound
	}
	return pool, nil
}

// PriceFromSqrtX96 converts a pool's sqrtPriceX96 to a token0-per-token1
// rate: 10^(dec1-dec0) / (sqrtPrice/2^96)^2.
func PriceFromSqrtX96(sqrtPriceX96 *big.Int, dec0, dec1 int) float64 {
	sqrt, _ := new(big.Float).SetInt(sqrtPriceX96).Float64()
	sqrtPrice := sqrt / math.Pow(2, 96)
	raw := sqrtPrice * sqrtPrice
	if raw == 0 {
		return 0
	}
	return math.Pow(10, float64(dec1-dec0)) / raw
}

func mustABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
