package model

import "time"

// ViolationType is an open set: unrecognized types are still appended to the
// attempt's log, they just do not feed any counter.
type ViolationType string

const (
	ViolationTabSwitch      ViolationType = "tab_switch"
	ViolationRefresh        ViolationType = "refresh"
	ViolationFullscreenExit ViolationType = "fullscreen_exit"
	ViolationShortcutBlock  ViolationType = "shortcut_block"
)

type ViolationLog struct {
	Type      ViolationType `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}
