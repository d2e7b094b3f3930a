package icons

import "github.com/nekotray/nekotray/internal/daemon/animator"

// asciiFrames is the running cat for terminals.
var asciiFrames = [animator.Frames][]string{
	{
		`      /\_/\  `,
		`  ___( o.o ) `,
		` /   \  ^ /  `,
		`~|  _/\ \/   `,
		`  \/    \_   `,
	},
	{
		`      /\_/\  `,
		`  ___( o.o ) `,
		` /   \  ^ /  `,
		`~|   | \ \   `,
		`  \_/   \/   `,
	},
	{
		`      /\_/\  `,
		` ___ ( -.- ) `,
		`/   \_  ^ /  `,
		`~|   |_|\|   `,
		`  |_|   |_|  `,
	},
	{
		`      /\_/\  `,
		`  ___( o.o ) `,
		` /   \  ^ /  `,
		`~ \  / /  \  `,
		`   \/  \_  \ `,
	},
	{
		`      /\_/\  `,
		`  ___( o.o ) `,
		`_/   \  ^ /  `,
		`  \_  \_ \_  `,
		`    \_   \_  `,
	},
}

// ASCIIFrame returns the terminal rendering of a frame. Out-of-range frames
// wrap.
func ASCIIFrame(frame int) []string {
	frame = ((frame % animator.Frames) + animator.Frames) % animator.Frames
	return asciiFrames[frame]
}
