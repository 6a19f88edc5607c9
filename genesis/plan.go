// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"gopkg.in/yaml.v2"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/utils"
)

var (
	ErrInvalidPlanFormat = errors.New("plan is neither json nor yaml")
	ErrInvalidPlan       = errors.New("invalid plan")
)

// Plan describes the contract set deployed at genesis. Amounts are whole
// units with up to 18 decimals ("1.5").
type Plan struct {
	// Owner deploys and owns every contract. A 0x-prefixed value is taken
	// as an address; anything else names a deterministic test account.
	Owner        string `json:"owner" yaml:"owner"`
	NativeSupply string `json:"nativeSupply" yaml:"nativeSupply"`

	Token  TokenPlan `json:"token" yaml:"token"`
	Stable TokenPlan `json:"stable" yaml:"stable"`

	// TokenPoolNative is paired with half of the token supply.
	TokenPoolNative  string `json:"tokenPoolNative" yaml:"tokenPoolNative"`
	StablePoolNative string `json:"stablePoolNative" yaml:"stablePoolNative"`
	StablePoolAmount string `json:"stablePoolAmount" yaml:"stablePoolAmount"`
	// PairCodeHash, when set, must match the factory's pair code hash.
	PairCodeHash string `json:"pairCodeHash" yaml:"pairCodeHash"`

	Formula FormulaPlan `json:"formula" yaml:"formula"`

	AntiDumpingDelayDays int64 `json:"antiDumpingDelayDays" yaml:"antiDumpingDelayDays"`

	DAOWallet     string `json:"daoWallet" yaml:"daoWallet"`
	SaleWallet    string `json:"saleWallet" yaml:"saleWallet"`
	CutActive     bool   `json:"cutActive" yaml:"cutActive"`
	CutPercent    uint64 `json:"cutPercent" yaml:"cutPercent"`
	LiquidityMode string `json:"liquidityMode" yaml:"liquidityMode"`

	Accounts []Allocation `json:"accounts" yaml:"accounts"`
}

type TokenPlan struct {
	Name        string `json:"name" yaml:"name"`
	Symbol      string `json:"symbol" yaml:"symbol"`
	TotalSupply string `json:"totalSupply" yaml:"totalSupply"`
	FeePercent  uint64 `json:"feePercent" yaml:"feePercent"`
	// MaxTransfer of "" or "0" disables the transfer limit.
	MaxTransfer string `json:"maxTransfer" yaml:"maxTransfer"`
}

type FormulaPlan struct {
	// ReferenceRate is stable units per native unit, used while the pool
	// quotes zero.
	ReferenceRate     string `json:"referenceRate" yaml:"referenceRate"`
	MinLDValue        string `json:"minLDValue" yaml:"minLDValue"`
	MaxLDValue        string `json:"maxLDValue" yaml:"maxLDValue"`
	MaxLiquidityShare string `json:"maxLiquidityShare" yaml:"maxLiquidityShare"`
	Policy            string `json:"policy" yaml:"policy"`
}

// Allocation funds an account with native currency at genesis.
type Allocation struct {
	Account string `json:"account" yaml:"account"`
	Native  string `json:"native" yaml:"native"`
}

// DefaultPlan returns the deployment used by the reference scenarios.
func DefaultPlan() *Plan {
	return &Plan{
		Owner:        "deployer",
		NativeSupply: "1000",
		Token: TokenPlan{
			Name:        "Fetch",
			Symbol:      "FET",
			TotalSupply: "1000000000",
			FeePercent:  0,
		},
		Stable: TokenPlan{
			Name:        "Dai Stablecoin",
			Symbol:      "DAI",
			TotalSupply: "1000000",
		},
		TokenPoolNative:  "500",
		StablePoolNative: "1",
		StablePoolAmount: "1000",
		Formula: FormulaPlan{
			ReferenceRate: "1000",
			MinLDValue:    "450",
			MaxLDValue:    "1000",
			Policy:        "cap",
		},
		AntiDumpingDelayDays: 30,
		CutActive:            true,
		CutPercent:           10,
		LiquidityMode:        "reserve",
		Accounts: []Allocation{
			{Account: "alice", Native: "100"},
			{Account: "bob", Native: "100"},
		},
	}
}

// LoadPlan reads a JSON or YAML plan from [path].
func LoadPlan(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalPlan(b)
}

func UnmarshalPlan(b []byte) (*Plan, error) {
	p := &Plan{}
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidPlanFormat
	}
	return p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}

// Account returns the deterministic address named [name].
func Account(name string) codec.Address {
	return codec.CreateAddress(consts.AccountID, utils.ToID([]byte(name)))
}

// ResolveAccount parses [s] as an address when it is 0x-prefixed and
// otherwise derives the named account.
func ResolveAccount(s string) (codec.Address, error) {
	if strings.HasPrefix(s, "0x") {
		return codec.StringToAddress(s)
	}
	if len(s) == 0 {
		return codec.EmptyAddress, fmt.Errorf("%w: empty account", ErrInvalidPlan)
	}
	return Account(s), nil
}

// amount parses a whole-unit amount; empty means zero.
func amount(field, s string) (*uint256.Int, error) {
	if len(s) == 0 {
		return new(uint256.Int), nil
	}
	v, err := utils.ParseAmount(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPlan, field, err)
	}
	return v, nil
}
