package docgen

import (
	"encoding/xml"
	"fmt"
)

const (
	maxLevel       = 8 // w:ilvl 允许的最大值
	listIndentStep = 720
	listHanging    = 360
)

// NumberingDefinition 一种列表的编号定义。
// 编号 ID 刻意取较大的值，合并进模板时不会与模板已有的列表冲突。
type NumberingDefinition struct {
	Kind       ListKind
	AbstractID int
	NumID      int
	Format     string
	Text       string
}

var numberingDefinitions = []NumberingDefinition{
	{Kind: OrderedList, AbstractID: 9101, NumID: 9101, Format: "decimal", Text: "%d."},
	{Kind: BulletList, AbstractID: 9102, NumID: 9102, Format: "bullet", Text: "•"},
}

func definitionFor(kind ListKind) NumberingDefinition {
	for _, d := range numberingDefinitions {
		if d.Kind == kind {
			return d
		}
	}
	return numberingDefinitions[0]
}

func (d NumberingDefinition) levelText(level int) string {
	if d.Kind == OrderedList {
		return fmt.Sprintf("%%%d.", level+1)
	}
	return d.Text
}

func clampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > maxLevel:
		return maxLevel
	default:
		return level
	}
}

// levelIndent 列表某一层的左缩进
func levelIndent(level int) int {
	return listIndentStep * (clampLevel(level) + 1)
}

type wNumbering struct {
	XMLName      xml.Name `xml:"w:numbering"`
	W            string   `xml:"xmlns:w,attr"`
	AbstractNums []wAbstractNum
	Nums         []wNum
}

type wAbstractNum struct {
	XMLName    xml.Name `xml:"w:abstractNum"`
	ID         int      `xml:"w:abstractNumId,attr"`
	MultiLevel wVal     `xml:"w:multiLevelType"`
	Levels     []wLevel
}

type wLevel struct {
	XMLName xml.Name    `xml:"w:lvl"`
	Ilvl    int         `xml:"w:ilvl,attr"`
	Start   wIntVal     `xml:"w:start"`
	NumFmt  wVal        `xml:"w:numFmt"`
	LvlText wVal        `xml:"w:lvlText"`
	LvlJc   wVal        `xml:"w:lvlJc"`
	PPr     wLevelProps `xml:"w:pPr"`
}

type wLevelProps struct {
	Ind wInd `xml:"w:ind"`
}

type wNum struct {
	XMLName       xml.Name `xml:"w:num"`
	ID            int      `xml:"w:numId,attr"`
	AbstractNumID wIntVal  `xml:"w:abstractNumId"`
}

// numberingXML 生成包含有序、无序两种定义的 numbering.xml
func numberingXML() ([]byte, error) {
	n := wNumbering{W: wordNamespace}
	for _, d := range numberingDefinitions {
		an := wAbstractNum{ID: d.AbstractID, MultiLevel: wVal{Val: "hybridMultilevel"}}
		for lvl := 0; lvl <= maxLevel; lvl++ {
			an.Levels = append(an.Levels, wLevel{
				Ilvl:    lvl,
				Start:   wIntVal{Val: 1},
				NumFmt:  wVal{Val: d.Format},
				LvlText: wVal{Val: d.levelText(lvl)},
				LvlJc:   wVal{Val: "left"},
				PPr:     wLevelProps{Ind: wInd{Left: levelIndent(lvl), Hanging: listHanging}},
			})
		}
		n.AbstractNums = append(n.AbstractNums, an)
	}
	for _, d := range numberingDefinitions {
		n.Nums = append(n.Nums, wNum{ID: d.NumID, AbstractNumID: wIntVal{Val: d.AbstractID}})
	}
	return marshalPart(n)
}
