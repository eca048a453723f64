package config

// Config is the root configuration structure produced by the external
// configuration collaborator (§6 of the design: the parser itself is out
// of scope, but the struct it produces is not).
type Config struct {
	LayoutMode        LayoutMode     `yaml:"layoutMode" json:"layoutMode"`
	Animation         Animation      `yaml:"animation" json:"animation"`
	MouseFollowsFocus bool           `yaml:"mouseFollowsFocus" json:"mouseFollowsFocus"`
	FocusFollowsMouse bool           `yaml:"focusFollowsMouse" json:"focusFollowsMouse"`
	Gaps              Gaps           `yaml:"gaps" json:"gaps"`
	Stack             StackSettings  `yaml:"stack" json:"stack"`
	Scroll            ScrollSettings `yaml:"scroll" json:"scroll"`
	DragSwapFraction  float64        `yaml:"dragSwapFraction" json:"dragSwapFraction"`
	AppRules          []AppRule      `yaml:"appRules" json:"appRules"`
	AutoFocusBlacklist []string      `yaml:"autoFocusBlacklist" json:"autoFocusBlacklist"`
	Keybindings       map[string]string `yaml:"keybindings,omitempty" json:"keybindings,omitempty"`
}

// LayoutMode selects which of the three layout systems is active.
type LayoutMode string

const (
	LayoutTraditional LayoutMode = "traditional"
	LayoutBSP         LayoutMode = "bsp"
	LayoutScroll      LayoutMode = "scroll"
)

// Animation controls the layout pass's cooperative animation.
type Animation struct {
	Enabled  bool    `yaml:"enabled" json:"enabled"`
	Duration float64 `yaml:"duration" json:"duration"` // seconds
	FPS      int     `yaml:"fps" json:"fps"`
	Easing   string  `yaml:"easing" json:"easing"` // "linear", "easeInOut", ...
}

// Gaps controls spacing between windows and between the outermost windows
// and the screen edge.
type Gaps struct {
	OuterTop    float64 `yaml:"outerTop" json:"outerTop"`
	OuterLeft   float64 `yaml:"outerLeft" json:"outerLeft"`
	OuterBottom float64 `yaml:"outerBottom" json:"outerBottom"`
	OuterRight  float64 `yaml:"outerRight" json:"outerRight"`
	InnerHorizontal float64 `yaml:"innerHorizontal" json:"innerHorizontal"`
	InnerVertical   float64 `yaml:"innerVertical" json:"innerVertical"`
}

// StackSettings controls the default container orientation and tab-strip
// offset used by the Traditional layout system.
type StackSettings struct {
	Offset             float64 `yaml:"offset" json:"offset"`
	DefaultOrientation string  `yaml:"defaultOrientation" json:"defaultOrientation"` // "horizontal" | "vertical"
	MinimumShare       float64 `yaml:"minimumShare" json:"minimumShare"`
	ResizeAmount       float64 `yaml:"resizeAmount" json:"resizeAmount"`
}

// ScrollSettings controls the Scroll layout system.
type ScrollSettings struct {
	DefaultWidthUnits float64 `yaml:"defaultWidthUnits" json:"defaultWidthUnits"`
	MinWidthUnits     float64 `yaml:"minWidthUnits" json:"minWidthUnits"`
	SnapThreshold     float64 `yaml:"snapThreshold" json:"snapThreshold"`
	CenterBias        float64 `yaml:"centerBias" json:"centerBias"`
	Reverse           bool    `yaml:"reverse" json:"reverse"`
}

// AppRule assigns windows to workspaces / floating state using
// first-match-wins matching over any non-empty field.
type AppRule struct {
	AppId              string `yaml:"appId,omitempty" json:"appId,omitempty"`
	AppName            string `yaml:"appName,omitempty" json:"appName,omitempty"`
	TitleRegex         string `yaml:"titleRegex,omitempty" json:"titleRegex,omitempty"`
	TitleSubstring     string `yaml:"titleSubstring,omitempty" json:"titleSubstring,omitempty"`
	AXRole             string `yaml:"axRole,omitempty" json:"axRole,omitempty"`
	AXSubrole          string `yaml:"axSubrole,omitempty" json:"axSubrole,omitempty"`
	PreferredWorkspace string `yaml:"preferredWorkspace,omitempty" json:"preferredWorkspace,omitempty"`
	Float              bool   `yaml:"float,omitempty" json:"float,omitempty"`
}

// IsEmpty reports whether the rule has no matchable field set, in which
// case it can never match a window and should be rejected by Validate.
func (r AppRule) IsEmpty() bool {
	return r.AppId == "" && r.AppName == "" && r.TitleRegex == "" &&
		r.TitleSubstring == "" && r.AXRole == "" && r.AXSubrole == ""
}

// Default returns a Config with sane defaults, used when no config file
// is present and as the base a loaded file is merged onto.
func Default() *Config {
	return &Config{
		LayoutMode: LayoutTraditional,
		Animation: Animation{
			Enabled:  true,
			Duration: 0.25,
			FPS:      60,
			Easing:   "easeInOut",
		},
		Gaps: Gaps{
			OuterTop: 8, OuterLeft: 8, OuterBottom: 8, OuterRight: 8,
			InnerHorizontal: 8, InnerVertical: 8,
		},
		Stack: StackSettings{
			DefaultOrientation: "horizontal",
			MinimumShare:       0.1,
			ResizeAmount:       0.05,
		},
		Scroll: ScrollSettings{
			DefaultWidthUnits: 1.0,
			MinWidthUnits:     0.2,
			SnapThreshold:     0.5,
			CenterBias:        0,
		},
		DragSwapFraction: 0.3,
	}
}
