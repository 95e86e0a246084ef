package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/weberc2/reels/pkg/playback"
	"github.com/weberc2/reels/pkg/profile"
	"github.com/weberc2/reels/pkg/types"
	"github.com/weberc2/reels/pkg/videocache"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	faint = color.New(color.Faint)
)

type printer struct {
	w io.Writer
}

func (p printer) Video(index int, record types.VideoRecord) {
	fmt.Fprintf(
		p.w,
		"%s %3d  %-40s %8s  %s\n",
		nowStr(),
		index+1,
		record.Name,
		human(record.Size),
		faint.Sprint(record.LocalPath),
	)
}

func (p printer) Videos(records []types.VideoRecord) {
	bold.Fprintf(p.w, "%s %d cached videos\n", nowStr(), len(records))
	for i, record := range records {
		p.Video(i, record)
	}
}

func (p printer) Stats(stats videocache.Stats) {
	green.Fprintf(
		p.w,
		"%s listed %d, cached %d, downloaded %d, skipped %d\n",
		nowStr(),
		stats.Listed,
		stats.Cached,
		stats.Downloaded,
		stats.Skipped,
	)
}

func (p printer) Status(status playback.Status) {
	state := string(status.State)
	if status.State == playback.StatePlaying {
		state = green.Sprint(state)
	}
	muted := ""
	if status.Muted {
		muted = " (muted)"
	}
	fmt.Fprintf(p.w, "%s %-8s %s%s\n", nowStr(), state, status.URL, muted)
}

func (p printer) Profile(view profile.View) {
	bold.Fprintln(p.w, view.DisplayUsername())
	fmt.Fprintln(p.w, view.DisplayBio())
}

func (p printer) JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := fmt.Fprintf(p.w, "%s\n", data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// human formats a byte count with a decimal suffix.
func human(n int64) string {
	const unit = 1_000
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func nowStr() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
