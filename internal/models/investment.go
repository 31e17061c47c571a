package models

import (
	"strings"

	"gorm.io/gorm"
)

// DefaultCurrency is applied to investments created without one.
const DefaultCurrency = "CNY"

// Investment is a tracked asset position with an initial cost basis and a
// current valuation. Money columns are integers in minor units.
type Investment struct {
	Base
	Name              string        `gorm:"not null" json:"name"`
	Description       string        `json:"description"`
	InitialInvestment int64         `gorm:"type:bigint;not null" json:"initial_investment"`
	CurrentValue      int64         `gorm:"type:bigint;not null" json:"current_value"`
	Currency          string        `gorm:"size:3;not null" json:"currency"`
	UpdatedBy         string        `json:"updated_by"`
	Tags              []string      `gorm:"type:text;serializer:json" json:"tags"`
	Transactions      []Transaction `gorm:"foreignKey:InvestmentID" json:"transactions"`
}

// BeforeSave normalizes tags and fills defaults.
func (i *Investment) BeforeSave(tx *gorm.DB) error {
	i.Tags = NormalizeTags(i.Tags)
	if i.Currency == "" {
		i.Currency = DefaultCurrency
	}
	return nil
}

// AfterFind guarantees non-nil collections so they encode as [] not null.
func (i *Investment) AfterFind(tx *gorm.DB) error {
	if i.Tags == nil {
		i.Tags = []string{}
	}
	if i.Transactions == nil {
		i.Transactions = []Transaction{}
	}
	return nil
}

// NormalizeTags trims whitespace, drops empty entries and removes
// duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags splits a comma separated tag list, as typed into a form.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
