package domain

// FinanceDaily is one day of the advertiser's finance ledger as reported by
// the finance detail endpoint. (advertiser_id, date) is the natural key and
// the newest fetch is authoritative.
type FinanceDaily struct {
	AdvertiserID int64
	Date         string // yyyy-MM-dd, as reported by the platform

	DeductionCost *float64
	Cost          *float64
	CashCost      *float64
	GrantCost     *float64
	Income        *float64
	TransferIn    *float64
	TransferOut   *float64

	CashBalance  *float64
	GrantBalance *float64
	TotalBalance *float64

	ShareCost        *float64
	ShareWalletCost  *float64
	AwemeCost        *float64
	AwemeCashCost    *float64
	AwemeGrantCost   *float64
	CouponCost       *float64
	ViewDeliveryType *string

	Raw []byte
}
