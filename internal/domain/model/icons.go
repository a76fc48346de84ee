package model

import "slices"

// DefaultIcon is used when an item is created without an emoji.
const DefaultIcon = "🍟"

var iconOptions = []string{
	"🍟", "🍗", "🥖", "🧂", "🧄", "🌶️", "🥫", "🥛",
	"🍅", "🥬", "🥚", "🧀", "🥑", "🌽", "🥕", "🥒",
	"🥦", "🍄", "🧅", "🥙", "🍔", "🍕", "🌭", "🥪",
}

// IconOptions returns the emoji offered by the add-item picker.
func IconOptions() []string {
	return slices.Clone(iconOptions)
}
