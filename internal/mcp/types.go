package mcp

import (
	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// StatusInput is the input for the weg_status tool.
type StatusInput struct{}

// StatusOutput is the output for the weg_status tool.
type StatusOutput struct {
	Status   daemon.Status    `json:"status"`
	Monitors []daemon.Monitor `json:"monitors"`
}

// ListItemsInput is the input for the weg_list_items tool.
type ListItemsInput struct {
	Monitor *int `json:"monitor,omitempty" jsonschema:"Bar index. When set, items are projected for that monitor; otherwise the unfiltered item list is returned."`
}

// ListItemsOutput is the output for the weg_list_items tool.
type ListItemsOutput struct {
	Monitor *int     `json:"monitor,omitempty"`
	Left    []string `json:"left"`
	Center  []string `json:"center"`
	Right   []string `json:"right"`
	// Sequence is the drag order with sep1/sep2 boundary markers, ready to
	// be edited and passed back to weg_reorder.
	Sequence []string   `json:"sequence"`
	Items    []weg.Item `json:"items"`
}

// ReorderInput is the input for the weg_reorder tool.
type ReorderInput struct {
	Monitor int      `json:"monitor" jsonschema:"Bar index the drag happened on"`
	Items   []string `json:"items" jsonschema:"Item ids in their new order, with sep1 and sep2 marking the left/center and center/right boundaries"`
}

// ReorderOutput is the output for the weg_reorder tool.
type ReorderOutput struct {
	Sequence []string   `json:"sequence"`
	Report   weg.Report `json:"report"`
	Clean    bool       `json:"clean"`
}

// SetHideModeInput is the input for the weg_set_hide_mode tool.
type SetHideModeInput struct {
	HideMode string `json:"hide_mode" jsonschema:"One of always, on-overlap, never"`
}

// SetHideModeOutput is the output for the weg_set_hide_mode tool.
type SetHideModeOutput struct {
	HideMode weg.HideMode `json:"hide_mode"`
}

// MenuInput is the input for the weg_menu tool.
type MenuInput struct {
	Language string `json:"language,omitempty" jsonschema:"BCP 47 language for labels (default: configured language)"`
}

// MenuEntry is one selectable context menu entry. Submenus are flattened
// into their entries, with Group naming the submenu.
type MenuEntry struct {
	Group   string `json:"group,omitempty"`
	Label   string `json:"label"`
	Action  string `json:"action"`
	Checked bool   `json:"checked"`
}

// MenuOutput is the output for the weg_menu tool.
type MenuOutput struct {
	Entries []MenuEntry `json:"entries"`
}

// MenuActionInput is the input for the weg_menu_action tool.
type MenuActionInput struct {
	Action string `json:"action" jsonschema:"Menu action as listed by weg_menu, e.g. hide-mode:never or toggle-separators"`
}

// ItemInput names an item for weg_activate, weg_pin and weg_unpin.
type ItemInput struct {
	Monitor int    `json:"monitor,omitempty" jsonschema:"Bar index (weg_activate only, default 0)"`
	ItemID  string `json:"item_id" jsonschema:"Item id or execution path as listed by weg_list_items"`
}

// AckOutput is returned by tools without a payload.
type AckOutput struct {
	OK bool `json:"ok"`
}
