package layout

import "fmt"

// MarginPolicy 决定字块之间的间距如何分配。
type MarginPolicy int

const (
	// TrailingMargin 给除最后一个以外的每个字块加右外边距。
	TrailingMargin MarginPolicy = iota
	// UniformMargin 给每个字块都加右外边距，随后按内容范围重新居中。
	UniformMargin
)

func (p MarginPolicy) String() string {
	if p == UniformMargin {
		return "uniform"
	}
	return "trailing"
}

// ParseMarginPolicy accepts "trailing" or "uniform".
func ParseMarginPolicy(s string) (MarginPolicy, error) {
	switch s {
	case "", "trailing":
		return TrailingMargin, nil
	case "uniform":
		return UniformMargin, nil
	}
	return TrailingMargin, fmt.Errorf("未知的间距策略 %q", s)
}

// Options 配置布局请求。
type Options struct {
	Gutter  float64      // 字块之间的水平间距（场景单位）
	Justify Justify      // 根节点的 justify-content
	Policy  MarginPolicy // 间距策略
}

// DefaultOptions returns a 0.2 unit gutter, start-justified, no trailing margin.
func DefaultOptions() Options {
	return Options{Gutter: 0.2, Justify: JustifyStart, Policy: TrailingMargin}
}
