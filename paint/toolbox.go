package paint

// Pointer descriptors passed to Provider.Tool.
const (
	DescPrimary = ""
	DescMiddle  = "middle"
	DescEraser  = "eraser"
	DescTouch   = "touch"
)

// Provider picks the tool for a pointer. It returns nil when the pointer
// should not start a stroke.
type Provider interface {
	Tool(desc string) Tool
}

// ToolBox is a Provider with a current tool and optional overrides for the
// middle button and the pen eraser end.
type ToolBox struct {
	Current Tool
	Middle  Tool
	Eraser  Tool
}

// NewToolBox returns a tool box using current for every pointer and Move for
// the middle button.
func NewToolBox(current Tool) *ToolBox {
	return &ToolBox{Current: current, Middle: NewMove()}
}

// Tool implements Provider. Pointers without a dedicated tool fall back to
// the current tool.
func (b *ToolBox) Tool(desc string) Tool {
	switch desc {
	case DescMiddle:
		if b.Middle != nil {
			return b.Middle
		}
	case DescEraser:
		if b.Eraser != nil {
			return b.Eraser
		}
	}
	return b.Current
}
