package docgen

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType 标记节点种类
type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

// Node 解析后的标记树节点，仅在一次转换内使用
type Node struct {
	Type     NodeType
	Tag      string
	Classes  []string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// ParseMarkup 将 HTML 片段解析为节点树，根节点是一个合成的 div。
// 解析永不失败，无法解析的输入退化为单个文本节点。
func ParseMarkup(markup string) *Node {
	root := &Node{Type: ElementNode, Tag: "div", Attrs: map[string]string{}}
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

	nodes, err := html.ParseFragment(strings.NewReader(markup), container)
	if err != nil {
		root.Children = []*Node{{Type: TextNode, Text: markup}}
		return root
	}
	for _, n := range nodes {
		if c := fromHTML(n); c != nil {
			root.Children = append(root.Children, c)
		}
	}
	return root
}

func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return &Node{Type: TextNode, Text: n.Data}
	case html.ElementNode:
		node := &Node{
			Type:  ElementNode,
			Tag:   strings.ToLower(n.Data),
			Attrs: make(map[string]string, len(n.Attr)),
		}
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			node.Attrs[key] = a.Val
			if key == "class" {
				node.Classes = strings.Fields(a.Val)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	default:
		// 注释、doctype 直接丢弃
		return nil
	}
}

// IsElement 是否为元素节点
func (n *Node) IsElement() bool {
	return n.Type == ElementNode
}

// HasClass 判断节点是否带有某个 class
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Attr 读取属性，不存在时返回空串
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// TextContent 返回子树的全部文本
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}
