package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/dgview/dgview/internal/remote"
	"github.com/dgview/dgview/internal/tui/messaging"
)

// bucketRow is one bucket in the selector with its local markers.
type bucketRow struct {
	stats     remote.BucketStats
	isMain    bool
	isCurrent bool
}

// bucketSelector is the buckets region: a vertical list with stats, a main
// bucket marker, and plain index-based cursor movement.
type bucketSelector struct {
	rows    []bucketRow
	index   int
	loading bool
}

func (b *bucketSelector) setBuckets(buckets []remote.BucketStats, mainBucket, currentBucket string) {
	rows := make([]bucketRow, 0, len(buckets))
	for _, stats := range buckets {
		rows = append(rows, bucketRow{
			stats:     stats,
			isMain:    stats.Name == mainBucket,
			isCurrent: stats.Name == currentBucket,
		})
	}
	b.rows = rows
	if b.index >= len(rows) {
		b.index = 0
	}
	logrus.Debugf("bucketSelector: loaded %d buckets", len(rows))
}

func (b *bucketSelector) selected() (remote.BucketStats, bool) {
	if len(b.rows) == 0 {
		return remote.BucketStats{}, false
	}
	return b.rows[b.index].stats, true
}

// handleBucketKey drives the buckets region.
func (m *BrowserModel) handleBucketKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.bucketList.loading {
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Up):
		if m.bucketList.index > 0 {
			m.bucketList.index--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.bucketList.index < len(m.bucketList.rows)-1 {
			m.bucketList.index++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Open):
		if stats, ok := m.bucketList.selected(); ok {
			m.switchBucket(stats.Name)
			return m, m.flushQueued()
		}
		return m, nil

	case msg.String() == "m":
		if stats, ok := m.bucketList.selected(); ok {
			if err := m.config.SetMainBucket(stats.Name); err != nil {
				m.status.SetMessage(fmt.Sprintf("Setting main bucket failed: %v", err), messaging.MessageError)
				return m, nil
			}
			for i := range m.bucketList.rows {
				m.bucketList.rows[i].isMain = m.bucketList.rows[i].stats.Name == stats.Name
			}
			m.status.SetMessage(fmt.Sprintf("Main bucket: %s", stats.Name), messaging.MessageSuccess)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		m.bucketList.loading = true
		return m, m.loadBuckets()

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil
	}
	return m, nil
}
