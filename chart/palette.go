package chart

var defaultPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// assignColors returns count colors: configured colors first, then the default palette cycled by
// index for the remainder.
func assignColors(configured []string, count int) []string {
	colors := make([]string, count)
	for i := range colors {
		if i < len(configured) {
			colors[i] = configured[i]
		} else {
			colors[i] = defaultPalette[i%len(defaultPalette)]
		}
	}
	return colors
}
