package oedomain

import "strings"

// Account roles reported by the authorization endpoint.
const (
	RoleShopAccount = "PLATFORM_ROLE_SHOP_ACCOUNT"
)

// AuthorizedAccount is one account the app's OAuth grant covers. Depending on
// the platform version the identity and role fields travel under different
// names, hence the alternates.
type AuthorizedAccount struct {
	AccountID      int64  `json:"account_id"`
	AdvertiserID   int64  `json:"advertiser_id"`
	ID             int64  `json:"id"`
	AccountName    string `json:"account_name"`
	AdvertiserName string `json:"advertiser_name"`
	AccountRole    string `json:"account_role"`
	AccountType    string `json:"account_type"`
}

// EffectiveID returns the first non-zero identity field.
func (a AuthorizedAccount) EffectiveID() int64 {
	if a.AccountID != 0 {
		return a.AccountID
	}
	if a.AdvertiserID != 0 {
		return a.AdvertiserID
	}
	return a.ID
}

// EffectiveName returns the first non-empty display name.
func (a AuthorizedAccount) EffectiveName() string {
	if a.AccountName != "" {
		return a.AccountName
	}
	return a.AdvertiserName
}

// Role normalizes the role field across platform versions.
func (a AuthorizedAccount) Role() string {
	if a.AccountRole != "" {
		return strings.TrimSpace(a.AccountRole)
	}
	return strings.TrimSpace(a.AccountType)
}

// IsShop reports whether this authorized account is a shop account.
func (a AuthorizedAccount) IsShop() bool {
	return a.Role() == RoleShopAccount
}

// IsAgent reports whether this authorized account is an agent account.
func (a AuthorizedAccount) IsAgent() bool {
	return strings.Contains(a.Role(), "AGENT")
}

// ShopAdvertiser is one advertiser listed under a shop, with the extra
// permissions the shop grant carries for it.
type ShopAdvertiser struct {
	AdvID           int64    `json:"adv_id"`
	ID              int64    `json:"id"`
	AdvertiserID    int64    `json:"advertiser_id"`
	ExtraPermission []string `json:"extra_permission"`
}

// EffectiveID returns the first non-zero identity field.
func (s ShopAdvertiser) EffectiveID() int64 {
	if s.AdvID != 0 {
		return s.AdvID
	}
	if s.ID != 0 {
		return s.ID
	}
	return s.AdvertiserID
}

// AdvertiserInfo is the public profile of one advertiser.
type AdvertiserInfo struct {
	ID                 int64  `json:"id"`
	AdvertiserID       int64  `json:"advertiser_id"`
	AccountID          int64  `json:"account_id"`
	Name               string `json:"name"`
	AdvertiserName     string `json:"advertiser_name"`
	Company            string `json:"company"`
	FirstIndustryName  string `json:"first_industry_name"`
	SecondIndustryName string `json:"second_industry_name"`
	Status             string `json:"status"`
}

// EffectiveID returns the first non-zero identity field.
func (i AdvertiserInfo) EffectiveID() int64 {
	if i.ID != 0 {
		return i.ID
	}
	if i.AdvertiserID != 0 {
		return i.AdvertiserID
	}
	return i.AccountID
}

// EffectiveName returns the first non-empty display name.
func (i AdvertiserInfo) EffectiveName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.AdvertiserName
}
