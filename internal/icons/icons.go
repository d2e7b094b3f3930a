// Package icons provides the tray icon sets: one sequence of animation frames
// per theme, either drawn at startup or loaded from an icon pack directory.
package icons

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

// Size is the edge length, in pixels, of every tray icon.
const Size = 32

// ErrIncompleteSet is returned when an icon pack directory is missing frames.
var ErrIncompleteSet = errors.New("incomplete icon set")

// Format is an icon encoding accepted by the tray.
type Format int

// Formats.
const (
	FormatPNG Format = iota
	FormatICO
)

// PlatformFormat returns the format the system tray expects on this OS.
// Windows only accepts ICO data.
func PlatformFormat() Format {
	if runtime.GOOS == "windows" {
		return FormatICO
	}
	return FormatPNG
}

// Set holds the encoded icons for both themes, indexed by frame.
type Set struct {
	Light  [animator.Frames][]byte
	Dark   [animator.Frames][]byte
	Source string
}

// Lookup returns the icon for a theme and frame. Out-of-range frames wrap.
// The dark theme shows the Dark sequence.
func (s *Set) Lookup(theme animator.Theme, frame int) []byte {
	frame = ((frame % animator.Frames) + animator.Frames) % animator.Frames
	if theme.IsDark() {
		return s.Dark[frame]
	}
	return s.Light[frame]
}

// Builtin draws the default running cat. The light theme gets a dark cat; the
// dark theme gets the same frames inverted, a light cat for dark taskbars.
func Builtin(format Format) (*Set, error) {
	set := &Set{Source: "builtin"}
	for i := 0; i < animator.Frames; i++ {
		light := DrawCat(i)
		dark := imaging.Invert(light)

		var err error
		if set.Light[i], err = Encode(light, format); err != nil {
			return nil, fmt.Errorf("failed to encode light frame %d: %w", i, err)
		}
		if set.Dark[i], err = Encode(dark, format); err != nil {
			return nil, fmt.Errorf("failed to encode dark frame %d: %w", i, err)
		}
	}
	return set, nil
}

// FrameFile returns the file name for a frame of an icon pack,
// e.g. "dark_3.png".
func FrameFile(theme animator.Theme, frame int) string {
	return fmt.Sprintf("%s_%d.png", theme, frame)
}

// LoadDir loads an icon pack from dir. The directory must contain
// light_0.png … light_4.png and dark_0.png … dark_4.png. Images are scaled to
// fit Size×Size.
func LoadDir(dir string, format Format) (*Set, error) {
	set := &Set{Source: dir}
	for _, theme := range []animator.Theme{animator.ThemeLight, animator.ThemeDark} {
		for i := 0; i < animator.Frames; i++ {
			path := filepath.Join(dir, FrameFile(theme, i))
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrIncompleteSet, FrameFile(theme, i), err)
			}

			img, err := imaging.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open icon %s: %w", path, err)
			}
			img = imaging.Fit(img, Size, Size, imaging.Lanczos)

			data, err := Encode(img, format)
			if err != nil {
				return nil, fmt.Errorf("failed to encode icon %s: %w", path, err)
			}
			if theme.IsDark() {
				set.Dark[i] = data
			} else {
				set.Light[i] = data
			}
		}
	}
	return set, nil
}

// Load returns the icon pack in dir, or the built-in set when dir is empty.
func Load(dir string, format Format) (*Set, error) {
	if dir == "" {
		return Builtin(format)
	}
	return LoadDir(dir, format)
}

// Encode serialises img in the given format.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatICO:
		if err := ico.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
