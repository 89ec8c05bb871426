package model

// Penandatangan 签署人
type Penandatangan struct {
	Nama    string `json:"nama"`
	Jabatan string `json:"jabatan"`
	NIP     string `json:"nip"`
}

// SuratMetadata 一封信的编号、日期和签署信息
type SuratMetadata struct {
	UnitPengirim  string        `json:"unit_pengirim"`
	NoSurat       string        `json:"no_surat"`
	TanggalTerbit string        `json:"tanggal_terbit"`
	Penandatangan Penandatangan `json:"penandatangan"`
}

// Fields 展开为模板字段
func (m *SuratMetadata) Fields() map[string]string {
	return map[string]string{
		"unit_pengirim":         m.UnitPengirim,
		"no_surat":              m.NoSurat,
		"tanggal_terbit":        m.TanggalTerbit,
		"penandatangan_nama":    m.Penandatangan.Nama,
		"penandatangan_jabatan": m.Penandatangan.Jabatan,
		"penandatangan_nip":     m.Penandatangan.NIP,
	}
}
