package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Package 内存中的 DOCX 包，保留原有条目顺序，未改动的部件按字节原样写回
type Package struct {
	order   []string
	files   map[string][]byte
	headers map[string]zip.FileHeader
}

// OpenPackage 读取 DOCX 字节，缺少 word/document.xml 时返回 ErrInvalidTemplate
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	p := &Package{
		files:   make(map[string][]byte, len(zr.File)),
		headers: make(map[string]zip.FileHeader, len(zr.File)),
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: 打开 %s 失败: %v", ErrInvalidTemplate, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: 读取 %s 失败: %v", ErrInvalidTemplate, f.Name, err)
		}
		if _, dup := p.files[f.Name]; !dup {
			p.order = append(p.order, f.Name)
		}
		p.files[f.Name] = content
		p.headers[f.Name] = f.FileHeader
	}

	if _, ok := p.files[DocumentPart]; !ok {
		return nil, fmt.Errorf("%w: 缺少 %s", ErrInvalidTemplate, DocumentPart)
	}
	return p, nil
}

// Get 读取部件
func (p *Package) Get(name string) ([]byte, bool) {
	data, ok := p.files[name]
	return data, ok
}

// Has 部件是否存在
func (p *Package) Has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Set 覆盖或新增部件，新部件追加在末尾
func (p *Package) Set(name string, data []byte) {
	if _, ok := p.files[name]; !ok {
		p.order = append(p.order, name)
	}
	p.files[name] = data
}

// Names 按写出顺序返回部件名
func (p *Package) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Bytes 重新打包，[Content_Types].xml 总在第一个
func (p *Package) Bytes() ([]byte, error) {
	names := make([]string, 0, len(p.order))
	if p.Has(ContentTypesPart) {
		names = append(names, ContentTypesPart)
	}
	for _, name := range p.order {
		if name != ContentTypesPart {
			names = append(names, name)
		}
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if old, ok := p.headers[name]; ok {
			header.Modified = old.Modified
			header.Method = old.Method
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RegisterPart 为新增的 word/ 部件补上内容类型和文档关系。
// 只有 word/document.xml 的模板会在这里补齐 [Content_Types].xml 和 _rels/.rels。
func (p *Package) RegisterPart(partName, contentType, relType string) error {
	if !p.Has(RootRelsPart) {
		p.Set(RootRelsPart, []byte(relsXML))
	}
	if err := p.ensureOverride(partName, contentType); err != nil {
		return err
	}
	return p.ensureRelationship(strings.TrimPrefix(partName, "word/"), relType)
}

func (p *Package) ensureOverride(partName, contentType string) error {
	data, ok := p.Get(ContentTypesPart)
	if !ok {
		data = []byte(baseContentTypesXML)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("%w: %s 解析失败: %v", ErrInvalidTemplate, ContentTypesPart, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w: %s 为空", ErrInvalidTemplate, ContentTypesPart)
	}
	target := "/" + partName
	for _, o := range childrenByTag(root, "Override") {
		if o.SelectAttrValue("PartName", "") == target {
			return nil
		}
	}
	o := root.CreateElement("Override")
	o.CreateAttr("PartName", target)
	o.CreateAttr("ContentType", contentType)
	out, err := doc.WriteToBytes()
	if err != nil {
		return err
	}
	p.Set(ContentTypesPart, out)
	return nil
}

func (p *Package) ensureRelationship(target, relType string) error {
	doc := etree.NewDocument()
	if data, ok := p.Get(DocumentRelsPart); ok {
		if err := doc.ReadFromBytes(data); err != nil {
			return fmt.Errorf("%w: %s 解析失败: %v", ErrInvalidTemplate, DocumentRelsPart, err)
		}
	}
	root := doc.Root()
	if root == nil {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		root = doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	}

	maxID := 0
	for _, r := range childrenByTag(root, "Relationship") {
		if r.SelectAttrValue("Type", "") == relType {
			return nil
		}
		id := r.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}
	r := root.CreateElement("Relationship")
	r.CreateAttr("Id", "rId"+strconv.Itoa(maxID+1))
	r.CreateAttr("Type", relType)
	r.CreateAttr("Target", target)

	out, err := doc.WriteToBytes()
	if err != nil {
		return err
	}
	p.Set(DocumentRelsPart, out)
	return nil
}
