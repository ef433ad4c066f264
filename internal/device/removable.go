package device

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/disk"

	"dynamic-island/internal/logger"
	"dynamic-island/internal/parse"
)

// DefaultMountPrefixes are the locations desktop environments mount
// hot-plugged media under.
var DefaultMountPrefixes = []string{"/media/", "/run/media/", "/Volumes/"}

// PartitionLister returns the currently mounted partitions.
type PartitionLister func(ctx context.Context) ([]disk.PartitionStat, error)

// Emit delivers a raw event to the consumer.
type Emit func(ctx context.Context, ev RawEvent)

// RemovableWatcher polls mounted partitions and reports removable volumes
// appearing and disappearing. The first scan is the initial enumeration pass.
type RemovableWatcher struct {
	interval time.Duration
	prefixes []string
	list     PartitionLister
	known    map[string]string // device -> display name
	scanned  bool
	log      zerolog.Logger
}

// NewRemovableWatcher creates a watcher polling every interval.
func NewRemovableWatcher(interval time.Duration, prefixes []string) *RemovableWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if len(prefixes) == 0 {
		prefixes = DefaultMountPrefixes
	}
	return &RemovableWatcher{
		interval: interval,
		prefixes: prefixes,
		list: func(ctx context.Context) ([]disk.PartitionStat, error) {
			return disk.PartitionsWithContext(ctx, false)
		},
		known: make(map[string]string),
		log:   logger.WithComponent("removable-watcher"),
	}
}

// Run scans immediately and then on every interval until ctx is done.
func (w *RemovableWatcher) Run(ctx context.Context, emit Emit) {
	w.log.Info().Dur("interval", w.interval).Msg("starting removable device watcher")

	w.deliver(ctx, emit)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("removable device watcher shutting down")
			return
		case <-timer.C:
			w.deliver(ctx, emit)
			timer.Reset(w.interval)
		}
	}
}

func (w *RemovableWatcher) deliver(ctx context.Context, emit Emit) {
	events, err := w.ScanOnce(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("partition scan failed")
		return
	}
	for _, ev := range events {
		emit(ctx, ev)
	}
}

// ScanOnce lists partitions and diffs them against the previous scan. The
// first successful scan yields Initial updates followed by KindEnumerated.
func (w *RemovableWatcher) ScanOnce(ctx context.Context) ([]RawEvent, error) {
	partitions, err := w.list(ctx)
	if err != nil {
		return nil, err
	}

	current := make(map[string]string)
	for _, p := range partitions {
		if !w.isRemovable(p) {
			continue
		}
		if _, dup := current[p.Device]; dup {
			continue
		}
		current[p.Device] = volumeName(p.Mountpoint)
	}

	var events []RawEvent
	initial := !w.scanned

	for id, name := range current {
		if _, seen := w.known[id]; seen {
			continue
		}
		events = append(events, RawEvent{
			Kind:      KindUpdate,
			Class:     ClassRemovable,
			ID:        id,
			Name:      name,
			Connected: true,
			Initial:   initial,
		})
	}
	for id := range w.known {
		if _, still := current[id]; !still {
			events = append(events, RawEvent{Kind: KindRemoved, Class: ClassRemovable, ID: id})
		}
	}
	if initial {
		events = append(events, RawEvent{Kind: KindEnumerated, Class: ClassRemovable})
	}

	w.known = current
	w.scanned = true
	return events, nil
}

func (w *RemovableWatcher) isRemovable(p disk.PartitionStat) bool {
	for _, opt := range p.Opts {
		if strings.EqualFold(opt, "removable") {
			return true
		}
	}
	for _, prefix := range w.prefixes {
		if strings.HasPrefix(p.Mountpoint, prefix) {
			return true
		}
	}
	return false
}

// FallbackVolumeName labels a volume whose mount point gives nothing usable.
const FallbackVolumeName = "USB drive"

// volumeName derives a display name from the mount point. Labels the name
// filter would reject, such as "DATA" or a drive root like "E:", are
// prefixed so the debouncer still announces them.
func volumeName(mountpoint string) string {
	name := filepath.Base(strings.TrimRight(mountpoint, `/\`))
	if name == "." || name == "/" || name == "" {
		name = strings.TrimRight(mountpoint, `/\`)
	}
	if parse.ValidDeviceName(name) {
		return name
	}
	if labelled := "Drive " + name; name != "" && parse.ValidDeviceName(labelled) {
		return labelled
	}
	return FallbackVolumeName
}
