package oedomain

import "encoding/json"

// Balance is the wallet breakdown returned by the account balance endpoint.
// Amounts are in the platform's smallest money unit (1/100000 yuan).
type Balance struct {
	AccountTotal  *float64 `json:"account_total"`
	AccountValid  *float64 `json:"account_valid"`
	AccountFrozen *float64 `json:"account_frozen"`

	AccountGeneralTotal  *float64 `json:"account_general_total"`
	AccountGeneralValid  *float64 `json:"account_general_valid"`
	AccountGeneralFrozen *float64 `json:"account_general_frozen"`

	AccountBiddingTotal  *float64 `json:"account_bidding_total"`
	AccountBiddingValid  *float64 `json:"account_bidding_valid"`
	AccountBiddingFrozen *float64 `json:"account_bidding_frozen"`

	Raw json.RawMessage `json:"-"`
}

// FinanceDetailRow is one day of the finance detail ledger.
type FinanceDetailRow struct {
	Date     string `json:"date"`
	StatDate string `json:"stat_date"`

	DeductionCost *float64 `json:"deduction_cost"`
	Cost          *float64 `json:"cost"`
	CashCost      *float64 `json:"cash_cost"`
	GrantCost     *float64 `json:"grant_cost"`
	Income        *float64 `json:"income"`
	TransferIn    *float64 `json:"transfer_in"`
	TransferOut   *float64 `json:"transfer_out"`

	CashBalance  *float64 `json:"cash_balance"`
	GrantBalance *float64 `json:"grant_balance"`
	TotalBalance *float64 `json:"total_balance"`

	ShareCost       *float64 `json:"share_cost"`
	ShareWalletCost *float64 `json:"share_wallet_cost"`
	AwemeCost       *float64 `json:"qc_aweme_cost"`
	AwemeCashCost   *float64 `json:"qc_aweme_cash_cost"`
	AwemeGrantCost  *float64 `json:"qc_aweme_grant_cost"`
	CouponCost      *float64 `json:"coupon_cost"`

	ViewDeliveryType *string `json:"view_delivery_type"`

	Raw json.RawMessage `json:"-"`
}

// EffectiveDate tolerates the two date field names the endpoint has used.
func (r FinanceDetailRow) EffectiveDate() string {
	if r.Date != "" {
		return r.Date
	}
	return r.StatDate
}
