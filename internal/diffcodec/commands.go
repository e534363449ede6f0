package diffcodec

// Command prefixes, written most-significant-bit-first.
const (
	prefixFlip  = 0b00
	prefixMove  = 0b01
	prefixStile = 0b1 // 1-bit prefix
)

// Adjacency codes: where the cursor moves after a STILE draws.
const (
	AdjPlusX  = 0b00
	AdjMinusX = 0b01
	AdjPlusY  = 0b10
	AdjMinusY = 0b11
)

// adjacencyPriority is the fixed neighbour-inspection order used by the
// walk algorithm: +x, -x, +y, -y.
var adjacencyPriority = []int{AdjPlusX, AdjMinusX, AdjPlusY, AdjMinusY}

// neighbour returns the supertile coordinate reached by moving from c
// along the given adjacency code.
func neighbour(c SupertileCoord, adj int) SupertileCoord {
	switch adj {
	case AdjPlusX:
		return SupertileCoord{X: c.X + 1, Y: c.Y}
	case AdjMinusX:
		return SupertileCoord{X: c.X - 1, Y: c.Y}
	case AdjPlusY:
		return SupertileCoord{X: c.X, Y: c.Y + 1}
	default: // AdjMinusY
		return SupertileCoord{X: c.X, Y: c.Y - 1}
	}
}

// Per-child tile codes within a STILE body.
const (
	childUniformWhite = 0b11
	childUniformBlack = 0b10
	childDictionary   = 0b01
	childInline       = 0b00
)
