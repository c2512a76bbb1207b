package theme

// Default is the theme used when configuration names none or an unknown one.
const Default = "tokyonight"

func init() {
	Register(Theme{
		Name:                "tokyonight",
		Primary:             color("#82aaff", "#2e7de9"),
		Secondary:           color("#c099ff", "#9854f1"),
		Accent:              color("#ffc777", "#8c6c3e"),
		Error:               color("#ff757f", "#f52a65"),
		Warning:             color("#ff966c", "#b15c00"),
		Success:             color("#c3e88d", "#587539"),
		Info:                color("#7dcfff", "#0db9d7"),
		Text:                color("#c8d3f5", "#3760bf"),
		TextMuted:           color("#636da6", "#848cb5"),
		Background:          color("#222436", "#e1e2e7"),
		BackgroundSecondary: color("#2f334d", "#c8c9ce"),
		BorderNormal:        color("#3b4261", "#a8aecb"),
		BorderFocused:       color("#82aaff", "#2e7de9"),
	})
	Register(Theme{
		Name:                "catppuccin",
		Primary:             color("#89b4fa", "#1e66f5"),
		Secondary:           color("#cba6f7", "#8839ef"),
		Accent:              color("#f5e0dc", "#dc8a78"),
		Error:               color("#f38ba8", "#d20f39"),
		Warning:             color("#fab387", "#fe640b"),
		Success:             color("#a6e3a1", "#40a02b"),
		Info:                color("#89dceb", "#04a5e5"),
		Text:                color("#cdd6f4", "#4c4f69"),
		TextMuted:           color("#6c7086", "#9ca0b0"),
		Background:          color("#1e1e2e", "#eff1f5"),
		BackgroundSecondary: color("#313244", "#e6e9ef"),
		BorderNormal:        color("#6c7086", "#9ca0b0"),
		BorderFocused:       color("#89b4fa", "#1e66f5"),
	})
	Register(Theme{
		Name:                "gruvbox",
		Primary:             color("#83a598", "#076678"),
		Secondary:           color("#d3869b", "#8f3f71"),
		Accent:              color("#fabd2f", "#b57614"),
		Error:               color("#fb4934", "#9d0006"),
		Warning:             color("#fe8019", "#af3a03"),
		Success:             color("#b8bb26", "#79740e"),
		Info:                color("#8ec07c", "#427b58"),
		Text:                color("#ebdbb2", "#3c3836"),
		TextMuted:           color("#a89984", "#7c6f64"),
		Background:          color("#282828", "#fbf1c7"),
		BackgroundSecondary: color("#504945", "#ebdbb2"),
		BorderNormal:        color("#504945", "#bdae93"),
		BorderFocused:       color("#83a598", "#076678"),
	})
	Register(Theme{
		Name:                "nord",
		Primary:             color("#88c0d0", "#5e81ac"),
		Secondary:           color("#b48ead", "#8f5e85"),
		Accent:              color("#ebcb8b", "#a5822d"),
		Error:               color("#bf616a", "#bf616a"),
		Warning:             color("#d08770", "#c5633f"),
		Success:             color("#a3be8c", "#6b8f4e"),
		Info:                color("#81a1c1", "#5e81ac"),
		Text:                color("#eceff4", "#2e3440"),
		TextMuted:           color("#7b88a1", "#6b7689"),
		Background:          color("#2e3440", "#eceff4"),
		BackgroundSecondary: color("#3b4252", "#e5e9f0"),
		BorderNormal:        color("#4c566a", "#d8dee9"),
		BorderFocused:       color("#88c0d0", "#5e81ac"),
	})
}
