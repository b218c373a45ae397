package vdom

// VNode represents a virtual DOM node.
type VNode struct {
	Tag        string         // The HTML tag name; empty for a bare text node
	Attributes map[string]any // The attributes of the node
	Children   []*VNode       // The child nodes
	Content    string         // The text content of the node
	OnClick    func()         // Optional click event handler
}

// NewVNode creates a new VNode.
// An "onClick" attribute holding a func() is lifted into OnClick so it is not
// rendered as an HTML attribute.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	var onClick func()
	if attributes != nil {
		if v, ok := attributes["onClick"]; ok {
			if f, ok := v.(func()); ok {
				onClick = f
				delete(attributes, "onClick")
			}
		}
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   children,
		Content:    content,
		OnClick:    onClick,
	}
}

// SetContent updates the Content field of the VNode.
func (v *VNode) SetContent(content string) {
	v.Content = content
}

// Text creates a bare text node.
func Text(content string) *VNode {
	return &VNode{Content: content}
}

// Paragraph creates a <p> VNode with the given text and attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Heading creates an <h1>..<h6> VNode. Levels outside 1..6 are clamped.
func Heading(level int, text string, attrs map[string]any) *VNode {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return NewVNode("h"+string(rune('0'+level)), attrs, nil, text)
}

// Anchor creates an <a href=...> VNode.
func Anchor(href, text string, attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["href"] = href
	return NewVNode("a", attrs, nil, text)
}

// Div creates a <div> VNode with the given children and attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Button creates a <button> VNode with the given content, attributes and children.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("button", attrs, children, content)
}

// Find returns the first node in the tree (depth first, including n) for
// which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}
