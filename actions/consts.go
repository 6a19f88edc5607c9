// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Action type IDs
const (
	DepositID uint8 = iota
	UpdateSplitFormulaID
	UpdateDAOWalletID
	UpdateCutStatusID
	ReleaseMaturedID
	RebalanceMaturedID
	UpdateOperatorID
	UpdateWhiteListID
	TransferID
	ApproveID
	ExcludeFromFeeID
	ExcludeFromTransferLimitID
	SwapExactETHForTokensID
	SwapExactTokensForETHID
)

// Result type IDs
const (
	DepositResultID uint8 = 0x80 + iota
	UpdateResultID
	ReleaseResultID
	RebalanceResultID
	TransferResultID
	SwapResultID
)
