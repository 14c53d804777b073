package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RevenueModelTag identifies an entry of the revenue model catalog.
type RevenueModelTag string

const (
	ModelServiceProvider RevenueModelTag = "SERVICE_PROVIDER"
	ModelProductSales    RevenueModelTag = "PRODUCT_SALES"
	ModelContractWork    RevenueModelTag = "CONTRACT_WORK"
	ModelPassiveIncome   RevenueModelTag = "PASSIVE_INCOME"
	ModelFullService     RevenueModelTag = "FULL_SERVICE"
	ModelHybrid          RevenueModelTag = "HYBRID"
	ModelStartup         RevenueModelTag = "STARTUP"
)

// DefaultRevenueModel is assigned to newly registered businesses.
const DefaultRevenueModel = ModelServiceProvider

// RevenueCategory selects the revenue formula used for a model.
type RevenueCategory string

const (
	CategoryService  RevenueCategory = "service"
	CategoryProduct  RevenueCategory = "product"
	CategoryContract RevenueCategory = "contract"
	CategoryPassive  RevenueCategory = "passive"
	CategoryHybrid   RevenueCategory = "hybrid"
	CategoryStartup  RevenueCategory = "startup"
)

// RevenueModel is a static coefficient table entry, never persisted as a row.
type RevenueModel struct {
	Tag                RevenueModelTag `json:"tag"`
	DisplayName        string          `json:"displayName"`
	Category           RevenueCategory `json:"category"`
	BaseCommissionRate decimal.Decimal `json:"baseCommissionRate"`
	RevenueMultiplier  decimal.Decimal `json:"revenueMultiplier"`
	Description        string          `json:"description"`
}

var revenueModels = map[RevenueModelTag]RevenueModel{
	ModelServiceProvider: {
		Tag:                ModelServiceProvider,
		DisplayName:        "Service Provider",
		Category:           CategoryService,
		BaseCommissionRate: decimal.RequireFromString("0.15"),
		RevenueMultiplier:  decimal.RequireFromString("1.0"),
		Description:        "Earns fees for services performed by employees",
	},
	ModelProductSales: {
		Tag:                ModelProductSales,
		DisplayName:        "Product Sales",
		Category:           CategoryProduct,
		BaseCommissionRate: decimal.RequireFromString("0.10"),
		RevenueMultiplier:  decimal.RequireFromString("1.1"),
		Description:        "Earns margin on goods produced and sold",
	},
	ModelContractWork: {
		Tag:                ModelContractWork,
		DisplayName:        "Contract Work",
		Category:           CategoryContract,
		BaseCommissionRate: decimal.RequireFromString("0.20"),
		RevenueMultiplier:  decimal.RequireFromString("1.2"),
		Description:        "Lumpy payouts on contract completion plus progress income",
	},
	ModelPassiveIncome: {
		Tag:                ModelPassiveIncome,
		DisplayName:        "Passive Income",
		Category:           CategoryPassive,
		BaseCommissionRate: decimal.RequireFromString("0.05"),
		RevenueMultiplier:  decimal.RequireFromString("0.8"),
		Description:        "Steady low-variance income",
	},
	ModelFullService: {
		Tag:                ModelFullService,
		DisplayName:        "Full Service",
		Category:           CategoryHybrid,
		BaseCommissionRate: decimal.RequireFromString("0.12"),
		RevenueMultiplier:  decimal.RequireFromString("1.15"),
		Description:        "Combines services and product sales",
	},
	ModelHybrid: {
		Tag:                ModelHybrid,
		DisplayName:        "Hybrid",
		Category:           CategoryHybrid,
		BaseCommissionRate: decimal.RequireFromString("0.12"),
		RevenueMultiplier:  decimal.RequireFromString("1.15"),
		Description:        "Mixed revenue streams",
	},
	ModelStartup: {
		Tag:                ModelStartup,
		DisplayName:        "Startup",
		Category:           CategoryStartup,
		BaseCommissionRate: decimal.RequireFromString("0.08"),
		RevenueMultiplier:  decimal.RequireFromString("1.3"),
		Description:        "Revenue grows with headcount",
	},
}

// LookupRevenueModel returns the catalog entry for tag. Lookup is case-insensitive.
func LookupRevenueModel(tag RevenueModelTag) (RevenueModel, bool) {
	m, ok := revenueModels[RevenueModelTag(strings.ToUpper(strings.TrimSpace(string(tag))))]
	return m, ok
}

// RevenueModelFor returns the catalog entry for tag, falling back to the default model.
func RevenueModelFor(tag RevenueModelTag) RevenueModel {
	if m, ok := LookupRevenueModel(tag); ok {
		return m
	}
	return revenueModels[DefaultRevenueModel]
}

// RevenueModels lists the catalog ordered by tag.
func RevenueModels() []RevenueModel {
	out := make([]RevenueModel, 0, len(revenueModels))
	for _, m := range revenueModels {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
