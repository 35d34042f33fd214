package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/sonogram/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

const subtitleFontSize = 32.0

// GenerateThumbnail scales the spectrogram src to a 1280x720 preview and
// overlays the title, and the subtitle from rc if one is set
func GenerateThumbnail(src image.Image, outputPath, title string, rc *config.RuntimeConfig) error {
	thumbImg := scaleToThumbnail(src)
	textColor := thumbnailTextColor(rc)

	if line1, line2 := splitTitle(title); line1 != "" {
		parsedFont, err := boldFont()
		if err != nil {
			return fmt.Errorf("failed to parse font: %w", err)
		}

		// Find the largest font size that fits within constraints
		fontSize := findOptimalFontSize(parsedFont, line1, line2)

		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: fontSize,
			DPI:  72,
		})
		defer face.Close()

		drawThumbnailText(thumbImg, face, line1, line2, textColor)
	}

	if rc != nil && rc.Subtitle != "" {
		face, err := LoadFont(subtitleFontSize, false)
		if err != nil {
			return fmt.Errorf("failed to load subtitle font: %w", err)
		}
		defer face.Close()

		DrawCenterText(thumbImg, face, rc.Subtitle, config.ThumbnailHeight-config.ThumbnailMargin, textColor)
	}

	if err := SavePNG(thumbImg, outputPath); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

func thumbnailTextColor(rc *config.RuntimeConfig) color.RGBA {
	r, g, b := rc.GetTextColor()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// scaleToThumbnail stretches src onto the thumbnail canvas
func scaleToThumbnail(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, config.ThumbnailWidth, config.ThumbnailHeight))
	bounds := src.Bounds()
	if bounds.Empty() {
		draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// splitTitle splits the title into 2 roughly equal lines
func splitTitle(title string) (string, string) {
	words := strings.Fields(title)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) == 1 {
		return words[0], ""
	}

	mid := len(words) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}

// findOptimalFontSize finds the largest font size that fits within constraints
// Constraints:
// - ThumbnailMargin from left and right edges
// - Line 1 starts at top margin (ThumbnailMargin)
// - Bottom edge of line 2 must not extend below the centre line
func findOptimalFontSize(parsedFont *truetype.Font, line1, line2 string) float64 {
	centerY := config.ThumbnailHeight / 2
	maxWidth := config.ThumbnailWidth - (2 * config.ThumbnailMargin)

	for size := config.ThumbnailMaxFontSize; size > config.ThumbnailMinFontSize; size -= 2.0 {
		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: size,
			DPI:  72,
		})

		width1, bounds1 := measureText(face, line1)
		width2, bounds2 := measureText(face, line2)

		face.Close()

		if width1 > maxWidth || width2 > maxWidth {
			continue
		}

		lineSpacing := int(size * 0.5)
		height1 := (bounds1.Max.Y - bounds1.Min.Y).Ceil()
		height2 := (bounds2.Max.Y - bounds2.Min.Y).Ceil()

		line2Bottom := config.ThumbnailMargin + height1 + lineSpacing + height2
		if line2Bottom <= centerY {
			return size
		}
	}

	return config.ThumbnailMinFontSize
}

// measureText returns the width and actual bounds of rendered text.
// Min.Y of the bounds is negative (ascent), Max.Y positive (descent).
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}

// drawThumbnailText draws the two title lines rotated
// ThumbnailTextRotationDegrees clockwise, with the highest rotated point
// sitting on the top margin.
func drawThumbnailText(img *image.RGBA, face font.Face, line1, line2 string, c color.RGBA) {
	width1, bounds1 := measureText(face, line1)
	width2, bounds2 := measureText(face, line2)

	metrics := face.Metrics()
	fontSize := float64(metrics.Height) / 64.0
	lineSpacing := int(fontSize * 0.5)

	height1 := (bounds1.Max.Y - bounds1.Min.Y).Ceil()
	height2 := (bounds2.Max.Y - bounds2.Min.Y).Ceil()
	if line2 == "" {
		height2, lineSpacing = 0, 0
	}

	totalHeight := height1 + lineSpacing + height2

	// Scratch canvas large enough that rotation never clips
	tempSize := int(float64(max(width1, width2)+totalHeight) * 1.5)
	tempImg := image.NewRGBA(image.Rect(0, 0, tempSize, tempSize))
	tempCenterY := tempSize / 2

	// Visual top = baseline + bounds.Min.Y, so baseline = visualTop - Min.Y
	line1VisualTop := tempCenterY - totalHeight/2
	line1BaselineY := line1VisualTop - bounds1.Min.Y.Ceil()
	line2VisualTop := line1VisualTop + height1 + lineSpacing
	line2BaselineY := line2VisualTop - bounds2.Min.Y.Ceil()

	drawCenteredLine(tempImg, face, line1, line1BaselineY, c)
	drawCenteredLine(tempImg, face, line2, line2BaselineY, c)

	angle := -config.ThumbnailTextRotationDegrees * math.Pi / 180.0 // Negative for clockwise
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	cx := float64(tempSize) / 2.0
	cy := float64(tempSize) / 2.0

	// Translate to origin, rotate, translate back
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}

	rotatedImg := image.NewRGBA(tempImg.Bounds())
	draw.BiLinear.Transform(rotatedImg, m, tempImg, tempImg.Bounds(), draw.Over, nil)

	// After a clockwise turn the top-right corner of line 1 is the highest point
	topRightX := float64(width1) / 2.0
	topRightY := float64(line1VisualTop) - cy
	highestPointY := sin*topRightX + cos*topRightY + cy

	destX := (config.ThumbnailWidth - tempSize) / 2
	destY := int(float64(config.ThumbnailMargin) - highestPointY)

	destRect := image.Rect(destX, destY, destX+tempSize, destY+tempSize)
	draw.Draw(img, destRect, rotatedImg, image.Point{}, draw.Over)
}

// drawCenteredLine draws a line of text centred horizontally on img
func drawCenteredLine(img *image.RGBA, face font.Face, text string, baselineY int, c color.RGBA) {
	if text == "" {
		return
	}
	DrawCenterText(img, face, text, baselineY, c)
}
