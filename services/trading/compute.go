package trading

import (
	"github.com/KoboTrade/KoboTrade-Backend/services/fees"
	"github.com/shopspring/decimal"
)

// buyAmounts holds every derived figure of a buy. The fee is the only rounded
// derivation at 2dp; the crypto amount is fixed at 8dp.
type buyAmounts struct {
	FeeAmount    decimal.Decimal // 2dp, deducted from the fiat input
	NetFiat      decimal.Decimal // fiat actually converted to crypto
	CryptoAmount decimal.Decimal // 8dp
}

// sellAmounts holds every derived figure of a sell.
type sellAmounts struct {
	Subtotal  decimal.Decimal // crypto * rate, 2dp
	FeeAmount decimal.Decimal // 2dp, deducted from the subtotal
	NetFiat   decimal.Decimal // fiat credited to the wallet
}

// computeBuy and computeSell are shared verbatim between quoting and
// execution, so a quote and its trade can only diverge through price movement.
func computeBuy(schedule *fees.FeeSchedule, fiatAmount, rate decimal.Decimal) buyAmounts {
	feeAmount := schedule.CalculateFee(fiatAmount)
	netFiat := fiatAmount.Sub(feeAmount)
	return buyAmounts{
		FeeAmount:    feeAmount,
		NetFiat:      netFiat,
		CryptoAmount: netFiat.DivRound(rate, 8),
	}
}

func computeSell(schedule *fees.FeeSchedule, cryptoAmount, rate decimal.Decimal) sellAmounts {
	subtotal := cryptoAmount.Mul(rate).Round(2)
	feeAmount := schedule.CalculateFee(subtotal)
	return sellAmounts{
		Subtotal:  subtotal,
		FeeAmount: feeAmount,
		NetFiat:   subtotal.Sub(feeAmount),
	}
}
