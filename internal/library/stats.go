package library

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is the rolled-up summary of a subtree.
type Stats struct {
	Bytes    uint64
	Duration uint64 // centiseconds
	Files    int64
}

// Add returns the elementwise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Bytes:    s.Bytes + other.Bytes,
		Duration: s.Duration + other.Duration,
		Files:    s.Files + other.Files,
	}
}

// FormatBytes renders the total size for humans (e.g. "1.2 MB").
func (s Stats) FormatBytes() string {
	return humanize.Bytes(s.Bytes)
}

// FormatDuration renders the total duration in seconds with two decimals.
func (s Stats) FormatDuration() string {
	return fmt.Sprintf("%d.%02d", s.Duration/100, s.Duration%100)
}

// Aggregate sums sound contributions over the subtree rooted at root.
//
// A category without children counts as one file with zero size and
// duration. The stats screen of the desktop app has always reported it that
// way, so the behaviour is kept as is.
func Aggregate(root *Entry) Stats {
	if root == nil {
		return Stats{}
	}
	if root.IsSound() {
		return Stats{
			Bytes:    uint64(max(root.Bytes, 0)),
			Duration: uint64(max(root.Duration, 0)),
			Files:    1,
		}
	}
	if len(root.Children) == 0 {
		return Stats{Files: 1}
	}

	var total Stats
	for _, child := range root.Children {
		total = total.Add(Aggregate(child))
	}
	return total
}
