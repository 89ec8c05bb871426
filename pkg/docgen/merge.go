package docgen

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
)

// MergeStyles 把 addition 中模板缺少的 w:style（按 w:styleId）追加到模板样式表末尾。
// 已存在的样式保持不变，重复合并结果不变。
func MergeStyles(base, addition []byte) ([]byte, error) {
	if len(bytes.TrimSpace(base)) == 0 {
		return addition, nil
	}
	if len(bytes.TrimSpace(addition)) == 0 {
		return base, nil
	}
	baseDoc, addDoc, err := readPair(base, addition)
	if err != nil {
		return nil, err
	}

	root := baseDoc.Root()
	existing := idSet(root, "style", "styleId")
	added := 0
	for _, style := range childrenByTag(addDoc.Root(), "style") {
		id := localAttr(style, "styleId")
		if id == "" || existing[id] {
			continue
		}
		root.AddChild(style.Copy())
		existing[id] = true
		added++
	}
	if added == 0 {
		return base, nil
	}
	return baseDoc.WriteToBytes()
}

// MergeNumbering 合并编号定义。w:abstractNum 插在第一个 w:num 之前，
// w:num 接在最后一个 w:num 之后，保持 schema 要求的顺序。
func MergeNumbering(base, addition []byte) ([]byte, error) {
	if len(bytes.TrimSpace(base)) == 0 {
		return addition, nil
	}
	if len(bytes.TrimSpace(addition)) == 0 {
		return base, nil
	}
	baseDoc, addDoc, err := readPair(base, addition)
	if err != nil {
		return nil, err
	}

	root := baseDoc.Root()
	addRoot := addDoc.Root()
	added := 0

	abstracts := idSet(root, "abstractNum", "abstractNumId")
	for _, an := range childrenByTag(addRoot, "abstractNum") {
		id := localAttr(an, "abstractNumId")
		if id == "" || abstracts[id] {
			continue
		}
		root.InsertChildAt(firstIndex(root, "num", "numIdMacAtCleanup"), an.Copy())
		abstracts[id] = true
		added++
	}

	nums := idSet(root, "num", "numId")
	for _, num := range childrenByTag(addRoot, "num") {
		id := localAttr(num, "numId")
		if id == "" || nums[id] {
			continue
		}
		root.InsertChildAt(firstIndex(root, "numIdMacAtCleanup"), num.Copy())
		nums[id] = true
		added++
	}

	if added == 0 {
		return base, nil
	}
	return baseDoc.WriteToBytes()
}

func readPair(base, addition []byte) (*etree.Document, *etree.Document, error) {
	baseDoc := etree.NewDocument()
	if err := baseDoc.ReadFromBytes(base); err != nil {
		return nil, nil, fmt.Errorf("解析模板部件失败: %w", err)
	}
	addDoc := etree.NewDocument()
	if err := addDoc.ReadFromBytes(addition); err != nil {
		return nil, nil, fmt.Errorf("解析生成部件失败: %w", err)
	}
	if baseDoc.Root() == nil || addDoc.Root() == nil {
		return nil, nil, fmt.Errorf("%w: 部件缺少根元素", ErrMalformedDocument)
	}
	return baseDoc, addDoc, nil
}

func childrenByTag(parent *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// localAttr 按本地名读取属性，不依赖模板使用的前缀
func localAttr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func idSet(parent *etree.Element, tag, key string) map[string]bool {
	set := make(map[string]bool)
	for _, c := range childrenByTag(parent, tag) {
		set[localAttr(c, key)] = true
	}
	return set
}

// firstIndex 返回第一个匹配标签在 Child 中的下标，找不到时返回末尾
func firstIndex(parent *etree.Element, tags ...string) int {
	for i, tok := range parent.Child {
		el, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		for _, t := range tags {
			if el.Tag == t {
				return i
			}
		}
	}
	return len(parent.Child)
}
