package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

// ValidStatus reports whether s is a known agent status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusMaintenance
}

// Agent is an AI worker with a custodial wallet provisioned at creation.
type Agent struct {
	ID            snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"not null"`
	Description   string       `json:"description"`
	Status        string       `json:"status" gorm:"not null;default:active"`
	WalletID      string       `json:"wallet_id"`
	WalletAddress string       `json:"wallet_address" gorm:"uniqueIndex:ux_agents_wallet_address"`
	ChainType     string       `json:"chain_type"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Agent) TableName() string {
	return "agents"
}
