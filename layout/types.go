// Package layout 负责把字块尺寸提交给弹性布局引擎，并把计算结果写回到字块上。
package layout

// 该文件定义布局请求与结果，供引擎、协调器与调试 JSON 共用。

// Direction 对应 flex-direction，目前只使用 row。
type Direction string

const (
	DirectionRow    Direction = "row"
	DirectionColumn Direction = "column"
)

// Justify 对应 justify-content。
type Justify string

const (
	JustifyStart  Justify = "flex-start"
	JustifyCenter Justify = "center"
	JustifyEnd    Justify = "flex-end"
)

// Align 对应 align-items。
type Align string

const (
	AlignStart  Align = "flex-start"
	AlignCenter Align = "center"
	AlignEnd    Align = "flex-end"
)

// Margin 以场景单位保存四边外边距。
type Margin struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// Node 是提交给引擎的盒子树节点。容器节点填写 Direction/Justify/AlignItems，
// 叶子节点填写 Width/Height。Width 或 Height 为 0 表示由引擎决定。
type Node struct {
	ID         string    `json:"id"`
	Direction  Direction `json:"flexDirection,omitempty"`
	Justify    Justify   `json:"justifyContent,omitempty"`
	AlignItems Align     `json:"alignItems,omitempty"`
	Width      float64   `json:"width,omitempty"`
	Height     float64   `json:"height,omitempty"`
	Margin     Margin    `json:"margin"`
	Children   []*Node   `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Request 是一次布局请求，Generation 在提交时记录，用于丢弃过期结果。
type Request struct {
	Generation uint64 `json:"generation"`
	Root       *Node  `json:"root"`
}

// Rect 是引擎返回的盒子位置，坐标相对于根节点左上角。
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns Left + Width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Result 按节点 ID 保存计算结果，包含根节点。
type Result map[string]Rect

// Response 是一次请求的唯一回复。
type Response struct {
	Generation uint64
	Result     Result
	Err        error
}

// Stale reports whether the response belongs to an older generation.
func (r Response) Stale(current uint64) bool { return r.Generation != current }
