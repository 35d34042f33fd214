package audio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/wav"
)

// Metadata holds the descriptive tags from a WAV LIST/INFO chunk
type Metadata struct {
	Title  string
	Artist string
}

// ReadMetadata reads the INFO tags of a WAV file. A file without tags
// returns empty Metadata and no error.
func ReadMetadata(filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", filename, ErrInvalidWAV)
	}

	// ReadMetadata walks every chunk, so start over from a fresh decoder
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	decoder = wav.NewDecoder(f)
	decoder.ReadMetadata()

	md := &Metadata{}
	if decoder.Metadata != nil {
		md.Title = strings.TrimSpace(decoder.Metadata.Title)
		md.Artist = strings.TrimSpace(decoder.Metadata.Artist)
	}
	return md, nil
}

// DisplayTitle returns the title to caption a thumbnail with, falling back
// to fallback when the file has no title tag.
func (m *Metadata) DisplayTitle(fallback string) string {
	if m == nil || m.Title == "" {
		return fallback
	}
	if m.Artist != "" {
		return m.Artist + " - " + m.Title
	}
	return m.Title
}
