package imageutil

// CellState は差分マスクの各セルの状態
type CellState int8

const (
	// Unmarked は差分なし
	Unmarked CellState = 0
	// Marked は差分候補（まだ領域として抽出されていない）
	Marked CellState = 1
	// Visited は抽出済みの領域に属する
	Visited CellState = -1
)

// String はセル状態の名前を返す
func (s CellState) String() string {
	switch s {
	case Unmarked:
		return "Unmarked"
	case Marked:
		return "Marked"
	case Visited:
		return "Visited"
	default:
		return "CellState(?)"
	}
}

// DiffMask は1比較分の差分マスク
// BuildMask で生成され、ExtractRegions によって Marked から Visited へ書き換えられる
type DiffMask struct {
	width  int
	height int
	cells  []CellState // y*width+x でアクセスする
}

// NewDiffMask は全セルが Unmarked のマスクを作成する
func NewDiffMask(width, height int) *DiffMask {
	return &DiffMask{
		width:  width,
		height: height,
		cells:  make([]CellState, width*height),
	}
}

// Width はマスクの幅を返す
func (m *DiffMask) Width() int { return m.width }

// Height はマスクの高さを返す
func (m *DiffMask) Height() int { return m.height }

// At は座標 (x, y) のセル状態を返す
func (m *DiffMask) At(x, y int) CellState {
	return m.cells[y*m.width+x]
}

// InBounds は座標がマスクの範囲内かどうかを返す
func (m *DiffMask) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Mark は Unmarked のセル (x, y) を Marked にする
// Marked と Visited のセルは変化しない
func (m *DiffMask) Mark(x, y int) {
	if i := y*m.width + x; m.cells[i] == Unmarked {
		m.cells[i] = Marked
	}
}

// HasMarked は抽出前の差分が1つでも存在するかどうかを返す
func (m *DiffMask) HasMarked() bool {
	for _, c := range m.cells {
		if c == Marked {
			return true
		}
	}
	return false
}

// Count は指定状態のセル数を返す
func (m *DiffMask) Count(state CellState) int {
	n := 0
	for _, c := range m.cells {
		if c == state {
			n++
		}
	}
	return n
}
