// Spinners from https://github.com/sindresorhus/cli-spinners/blob/main/spinners.json
package spinner

type SpinnerInfo struct {
	Interval int64 // in milliseconds
	Frames   []string
}

var spinnerTypes = map[string]SpinnerInfo{
	"dots": {
		Interval: 80,
		Frames: []string{
			"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
		},
	},
	"line": {
		Interval: 130,
		Frames: []string{
			"-", "\\", "|", "/",
		},
	},
	"material": {
		Interval: 17,
		Frames: []string{
			"█▁▁▁▁▁▁▁▁▁",
			"██▁▁▁▁▁▁▁▁",
			"███▁▁▁▁▁▁▁",
			"████▁▁▁▁▁▁",
			"██████▁▁▁▁",
			"███████▁▁▁",
			"████████▁▁",
			"█████████▁",
			"██████████",
			"▁█████████",
			"▁▁████████",
			"▁▁▁███████",
			"▁▁▁▁██████",
			"▁▁▁▁▁█████",
			"▁▁▁▁▁▁████",
			"▁▁▁▁▁▁▁███",
			"▁▁▁▁▁▁▁▁██",
			"▁▁▁▁▁▁▁▁▁█",
			"▁▁▁▁▁▁▁▁▁▁",
		},
	},
	"pong": {
		Interval: 80,
		Frames: []string{
			"▐⠂       ▌",
			"▐⠈       ▌",
			"▐ ⠂      ▌",
			"▐ ⠠      ▌",
			"▐  ⡀     ▌",
			"▐  ⠠     ▌",
			"▐   ⠂    ▌",
			"▐   ⠈    ▌",
			"▐    ⠂   ▌",
			"▐    ⠠   ▌",
			"▐     ⡀  ▌",
			"▐     ⠠  ▌",
			"▐      ⠂ ▌",
			"▐      ⠈ ▌",
			"▐       ⠂▌",
			"▐       ⠠▌",
			"▐       ⡀▌",
			"▐      ⠠ ▌",
			"▐      ⠂ ▌",
			"▐     ⠈  ▌",
			"▐     ⠂  ▌",
			"▐    ⠠   ▌",
			"▐    ⡀   ▌",
			"▐   ⠠    ▌",
			"▐   ⠂    ▌",
			"▐  ⠈     ▌",
			"▐  ⠂     ▌",
			"▐ ⠠      ▌",
			"▐ ⡀      ▌",
			"▐⠠       ▌",
		},
	},
	"aesthetic": {
		Interval: 80,
		Frames: []string{
			"▰▱▱▱▱▱▱",
			"▰▰▱▱▱▱▱",
			"▰▰▰▱▱▱▱",
			"▰▰▰▰▱▱▱",
			"▰▰▰▰▰▱▱",
			"▰▰▰▰▰▰▱",
			"▰▰▰▰▰▰▰",
			"▰▱▱▱▱▱▱",
		},
	},
}
