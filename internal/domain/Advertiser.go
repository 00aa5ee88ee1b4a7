package domain

import "time"

// Advertiser is the slowly changing dimension row for a Qianchuan ad account.
// Identity is the platform advertiser_id; descriptive fields may arrive
// partially filled and are only ever upgraded from null.
type Advertiser struct {
	AdvertiserID       int64
	AdvertiserName     string
	Company            *string
	FirstIndustryName  *string
	SecondIndustryName *string
	Status             *string
	FirstSeenAt        time.Time
	LastSeenAt         time.Time
}

// ParentKind distinguishes how an advertiser was discovered during inventory
// sync: through a shop account or through an agent account.
type ParentKind string

const (
	ParentKindShop  ParentKind = "shop"
	ParentKindAgent ParentKind = "agent"
)

// AdvertiserLink records which shop/agent an advertiser hangs off.
type AdvertiserLink struct {
	ParentKind      ParentKind
	ParentID        int64
	ParentName      string
	AdvertiserID    int64
	ExtraPermission string
}
