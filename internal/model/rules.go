package model

import "time"

// RuleSet is the proctoring policy shared by event-level and round-level rules.
type RuleSet struct {
	NoRefresh             bool    `json:"no_refresh" gorm:"not null;default:true"`
	NoTabSwitch           bool    `json:"no_tab_switch" gorm:"not null;default:true"`
	ForceFullscreen       bool    `json:"force_fullscreen" gorm:"not null;default:true"`
	DisableShortcuts      bool    `json:"disable_shortcuts" gorm:"not null;default:true"`
	AutoSubmitOnViolation bool    `json:"auto_submit_on_violation" gorm:"not null;default:true"`
	MaxTabSwitchWarnings  int     `json:"max_tab_switch_warnings" gorm:"not null;default:2"`
	AdditionalRules       *string `json:"additional_rules,omitempty" gorm:"type:text"`
}

// DefaultRuleSet is strict by default so that a misconfigured round fails
// toward integrity rather than leniency.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		NoRefresh:             true,
		NoTabSwitch:           true,
		ForceFullscreen:       true,
		DisableShortcuts:      true,
		AutoSubmitOnViolation: true,
		MaxTabSwitchWarnings:  2,
	}
}

type EventRules struct {
	ID      uint `gorm:"primarykey" json:"id"`
	EventID uint `json:"event_id" gorm:"not null;uniqueIndex"`
	RuleSet
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoundRules struct {
	ID      uint `gorm:"primarykey" json:"id"`
	RoundID uint `json:"round_id" gorm:"not null;uniqueIndex"`
	RuleSet
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RuleSource string

const (
	RuleSourceRound   RuleSource = "round"
	RuleSourceEvent   RuleSource = "event"
	RuleSourceDefault RuleSource = "default"
)

// EffectiveRuleSet is the policy actually applied to attempts in a round,
// annotated with where it came from.
type EffectiveRuleSet struct {
	RuleSet
	RoundID uint       `json:"round_id"`
	Source  RuleSource `json:"source"`
}
