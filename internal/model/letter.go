package model

// Letter 已导出的信件存档，只记录元数据，不保存文件内容
type Letter struct {
	BaseModel
	NoSurat       string `json:"noSurat" query:"noSurat" gorm:"type:varchar(64);not null;index"`
	TemplateID    string `json:"templateId" query:"templateId" gorm:"type:varchar(64);not null"`
	Format        string `json:"format" query:"format" gorm:"type:varchar(8);not null"`
	ContentFormat string `json:"contentFormat" gorm:"type:varchar(16)"`
	UnitPengirim  string `json:"unitPengirim" gorm:"type:varchar(255)"`
	TanggalTerbit string `json:"tanggalTerbit" gorm:"type:varchar(64)"`
	Penandatangan string `json:"penandatangan" gorm:"type:varchar(255)"`
	RequestID     string `json:"requestId" gorm:"type:varchar(64)"`
	SizeBytes     int    `json:"sizeBytes"`
	PageCount     int    `json:"pageCount"`
}

func (l *Letter) TableComment() string {
	return "信件导出记录表"
}

func init() {
	models = append(models, &Letter{})
}
