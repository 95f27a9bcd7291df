package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 32

var (
	iconOnce  sync.Once
	iconBytes []byte
)

// iconData returns the tray icon: a dock strip with three item dots.
func iconData() []byte {
	iconOnce.Do(func() {
		iconBytes = renderIcon()
	})
	return iconBytes
}

func renderIcon() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	bar := color.NRGBA{R: 0x2b, G: 0x2f, B: 0x3a, A: 0xff}
	dot := color.NRGBA{R: 0x8a, G: 0xb4, B: 0xf8, A: 0xff}

	for y := 20; y < 30; y++ {
		for x := 2; x < iconSize-2; x++ {
			img.Set(x, y, bar)
		}
	}
	for _, cx := range []int{9, 16, 23} {
		for y := 22; y < 28; y++ {
			for x := cx - 2; x <= cx+2; x++ {
				img.Set(x, y, dot)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
