package session

// Fixed palette participants are colored from. Assignment state is per room,
// so color uniqueness holds within a room up to the palette size.
var palette = []string{
	"#E63946", // red
	"#2A9D8F", // teal
	"#F4A261", // orange
	"#264653", // slate
	"#9B5DE5", // purple
	"#00BBF9", // blue
	"#E9C46A", // gold
	"#F15BB5", // pink
	"#00F5D4", // mint
	"#6A994E", // green
}

// colorPool tracks how many participants of one room hold each palette entry.
type colorPool struct {
	inUse []int
}

func newColorPool() *colorPool {
	return &colorPool{inUse: make([]int, len(palette))}
}

// assign picks the least-used palette index, lowest index first. Once the
// palette wraps, this reuses the smallest currently-least-loaded slot.
func (p *colorPool) assign() int {
	best := 0
	for i, n := range p.inUse {
		if n < p.inUse[best] {
			best = i
		}
	}
	p.inUse[best]++
	return best
}

func (p *colorPool) release(index int) {
	if index >= 0 && index < len(p.inUse) && p.inUse[index] > 0 {
		p.inUse[index]--
	}
}
