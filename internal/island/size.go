package island

// SizeCategory is the symbolic size of the capsule. Pixel values belong to
// the presentation layer; SizeTable provides defaults.
type SizeCategory string

const (
	SizeCompact      SizeCategory = "compact"
	SizeNotification SizeCategory = "notification"
	SizeDrink        SizeCategory = "drink"
	SizeTodo         SizeCategory = "todo"
	SizeRich         SizeCategory = "rich"
	SizeFileDrop     SizeCategory = "file_drop"
	SizeFileCompact  SizeCategory = "file_compact"
)

// CategoryOf returns the size category for m.
func CategoryOf(m Mode) SizeCategory {
	switch v := m.(type) {
	case Media:
		return SizeRich
	case Notification:
		return SizeNotification
	case DrinkReminder:
		return SizeDrink
	case TodoReminder:
		return SizeTodo
	case FileStation:
		if v.Dragging {
			return SizeFileDrop
		}
		return SizeFileCompact
	default:
		return SizeCompact
	}
}

// Dimensions is a width and height in device-independent pixels.
type Dimensions struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// SizeTable maps categories to dimensions.
type SizeTable map[SizeCategory]Dimensions

// DefaultSizes returns the stock dimensions.
func DefaultSizes() SizeTable {
	return SizeTable{
		SizeCompact:      {Width: 120, Height: 35},
		SizeNotification: {Width: 320, Height: 50},
		SizeDrink:        {Width: 280, Height: 50},
		SizeTodo:         {Width: 320, Height: 50},
		SizeRich:         {Width: 400, Height: 60},
		SizeFileDrop:     {Width: 150, Height: 150},
		SizeFileCompact:  {Width: 100, Height: 35},
	}
}

// Resolve returns the dimensions for c, falling back to the defaults for
// missing or non-positive entries.
func (t SizeTable) Resolve(c SizeCategory) Dimensions {
	if d, ok := t[c]; ok && d.Width > 0 && d.Height > 0 {
		return d
	}
	return DefaultSizes()[c]
}
