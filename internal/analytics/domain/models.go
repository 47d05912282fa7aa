package domain

import (
	"github.com/bwmarrin/snowflake"
)

// DailyStat is a per-tenant per-day sales rollup, maintained inline with
// order placement so dashboards never scan the orders table.
type DailyStat struct {
	ID           snowflake.ID `json:"-" gorm:"primaryKey"`
	TenantID     snowflake.ID `json:"tenant_id" gorm:"not null;uniqueIndex:ux_daily_tenant_day,priority:1"`
	Day          string       `json:"day" gorm:"type:varchar(10);not null;uniqueIndex:ux_daily_tenant_day,priority:2"`
	OrderCount   int64        `json:"order_count" gorm:"not null;default:0"`
	RevenueCents int64        `json:"revenue_cents" gorm:"not null;default:0"`
	ItemsSold    int64        `json:"items_sold" gorm:"not null;default:0"`
}

func (DailyStat) TableName() string { return "analytics_daily" }
