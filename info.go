package pixelterm

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// EntryInfo is the detail page data for one image. Dimension and
// format fields stay zero when the image cannot be decoded; the page
// shows them as unknown rather than refusing to open.
type EntryInfo struct {
	Name    string
	Dir     string
	Index   int // zero-based position in the list
	Total   int
	Size    int64
	ModTime time.Time
	Width   int
	Height  int
	Format  string
}

// GatherInfo collects the info page data for one entry. Only a failed
// stat is an error; an undecodable image still yields name, size and
// timestamps, keeping the page available for broken entries the same
// way navigation stays available for them.
func GatherInfo(entry ImageEntry, total int) (EntryInfo, error) {
	st, err := os.Stat(entry.Path)
	if err != nil {
		return EntryInfo{}, err
	}

	info := EntryInfo{
		Name:    entry.Name(),
		Dir:     filepath.Dir(entry.Path),
		Index:   entry.Index,
		Total:   total,
		Size:    st.Size(),
		ModTime: st.ModTime(),
	}

	if f, err := os.Open(entry.Path); err == nil {
		if cfg, format, err := image.DecodeConfig(f); err == nil {
			info.Width = cfg.Width
			info.Height = cfg.Height
			info.Format = format
		}
		f.Close()
	}
	return info, nil
}

// Lines renders the info page rows, one per terminal row.
func (i EntryInfo) Lines() []string {
	dims := "unknown"
	aspect := "unknown"
	if i.Width > 0 && i.Height > 0 {
		dims = fmt.Sprintf("%d x %d px", i.Width, i.Height)
		aspect = fmt.Sprintf("%.3f", float64(i.Width)/float64(i.Height))
	}
	format := i.Format
	if format == "" {
		format = "unknown"
	}
	return []string{
		i.Name,
		"",
		fmt.Sprintf("Directory:  %s", i.Dir),
		fmt.Sprintf("Position:   %d of %d", i.Index+1, i.Total),
		fmt.Sprintf("Size:       %s", humanize.Bytes(uint64(i.Size))),
		fmt.Sprintf("Modified:   %s", i.ModTime.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Dimensions: %s", dims),
		fmt.Sprintf("Format:     %s", format),
		fmt.Sprintf("Aspect:     %s", aspect),
	}
}
