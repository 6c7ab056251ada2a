package models

import (
	"encoding/json"
	"time"
)

// FeeTier is a pool trading fee in hundredths of a basis point.
type FeeTier int

const (
	FeeTier100   FeeTier = 100
	FeeTier500   FeeTier = 500
	FeeTier1500  FeeTier = 1500
	FeeTier3000  FeeTier = 3000
	FeeTier10000 FeeTier = 10000
)

var feeTiers = map[FeeTier]bool{
	FeeTier100:   true,
	FeeTier500:   true,
	FeeTier1500:  true,
	FeeTier3000:  true,
	FeeTier10000: true,
}

func (f FeeTier) Valid() bool { return feeTiers[f] }

// Percent returns the fee as a human-readable percentage, e.g. 500 -> 0.05.
func (f FeeTier) Percent() float64 { return float64(f) / 10000 }

// BotSummary mirrors one entry of the bot service's listing responses.
// The service is the system of record; this is a read-only view.
type BotSummary struct {
	BotID         string  `json:"bot_id"`
	PositionID    *int64  `json:"position_id"`
	Token0Address string  `json:"token0_address"`
	Token1Address string  `json:"token1_address"`
	Token0Amount  string  `json:"token0_amount"`
	Token1Amount  string  `json:"token1_amount"`
	PoolFee       FeeTier `json:"POOL_FEE"`
	Status        string  `json:"status"`
}

// TickSample is one push-channel message. Y is the normalized tick in
// [0,1]; it is absent on pure status patches, and only samples that carry
// it enter the chart ring.
type TickSample struct {
	BotID      string   `json:"bot_id"`
	X          float64  `json:"x"`
	Y          *float64 `json:"y,omitempty"`
	Tick       int64    `json:"tick"`
	LowerTick  int64    `json:"lower_tick"`
	UpperTick  int64    `json:"upper_tick"`
	UpperRebal *int64   `json:"upper_rebal_tick,omitempty"`
	LowerRebal *int64   `json:"lower_rebal_tick,omitempty"`
	Owed0Units string   `json:"owed0_units"`
	Owed1Units string   `json:"owed1_units"`
	Timestamp  string   `json:"timestamp"`
	Status     string   `json:"status"`
	PositionID *int64   `json:"position_id"`
}

// BotSnapshot is the latest per-bot state patched in from the push channel.
type BotSnapshot struct {
	Status     string    `json:"status"`
	PositionID *int64    `json:"position_id"`
	Owed0Units string    `json:"owed0_units"`
	Owed1Units string    `json:"owed1_units"`
	Tick       int64     `json:"tick"`
	LowerTick  int64     `json:"lower_tick"`
	UpperTick  int64     `json:"upper_tick"`
	Timestamp  string    `json:"timestamp"`
	ReceivedAt time.Time `json:"received_at"`
}

// ActionFlags tracks per-bot in-flight lifecycle actions. A fixed-field
// struct instead of a stringly-keyed map so partial updates cannot invent
// new action names.
type ActionFlags struct {
	Stopping    bool `json:"stopping"`
	Resuming    bool `json:"resuming"`
	Withdrawing bool `json:"withdrawing"`
}

func (f ActionFlags) Busy() bool { return f.Stopping || f.Resuming || f.Withdrawing }

// StartBotPayload is the assembled wizard submission. Optional keys are
// inserted only when the operator typed something; blank means "no limit"
// and the key must be entirely absent from the wire object.
type StartBotPayload map[string]any

func (p StartBotPayload) MarshalBody() ([]byte, error) { return json.Marshal(map[string]any(p)) }

type StartBotResponse struct {
	BotID      string `json:"bot_id"`
	PositionID *int64 `json:"position_id"`
	Message    string `json:"message"`
}

type StopBotResponse struct {
	Status string `json:"status"`
}

type ResumeBotResponse struct {
	BotID      string `json:"bot_id"`
	PositionID *int64 `json:"position_id"`
	Message    string `json:"message"`
	Status     string `json:"status,omitempty"`
}

type WithdrawBotResponse struct {
	Status       string `json:"status"`
	GasETH       string `json:"gas_eth"`
	NetPNLToken0 string `json:"net_pnl_token0"`
}

type ActiveBotsResponse struct {
	ActiveBots []BotSummary `json:"active_bots"`
}

type UnactiveBotsResponse struct {
	UnactiveBots []BotSummary `json:"unactive_bots"`
}

type TokenBalanceResponse struct {
	TokenBalance string `json:"tokenBalance"`
}
