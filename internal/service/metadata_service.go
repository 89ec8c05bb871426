package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/util"
)

// LetterProfile 发文单位和签署人
type LetterProfile struct {
	UnitPengirim  string
	KodeUnit      string
	Penandatangan model.Penandatangan
}

// LetterProfileFromConfig 从 letter.* 配置读取
func LetterProfileFromConfig() LetterProfile {
	return LetterProfile{
		UnitPengirim: config.GetString("letter.unit_pengirim"),
		KodeUnit:     config.GetString("letter.kode_unit"),
		Penandatangan: model.Penandatangan{
			Nama:    config.GetString("letter.signer.nama"),
			Jabatan: config.GetString("letter.signer.jabatan"),
			NIP:     config.GetString("letter.signer.nip"),
		},
	}
}

type metadataService struct {
	profile  LetterProfile
	sequence SequenceService
	now      Clock
}

func NewMetadataService(profile LetterProfile, sequence SequenceService, now Clock) MetadataService {
	if now == nil {
		now = time.Now
	}
	return &metadataService{
		profile:  profile,
		sequence: sequence,
		now:      now,
	}
}

// Preview 预览下一封信的元数据，不占用流水号
func (s *metadataService) Preview(ctx context.Context) (*model.SuratMetadata, error) {
	t := s.now()
	seq, err := s.sequence.PeekNext(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.build(seq, t), nil
}

// Claim 占用流水号并返回元数据
func (s *metadataService) Claim(ctx context.Context) (*model.SuratMetadata, error) {
	t := s.now()
	seq, err := s.sequence.ClaimNext(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.build(seq, t), nil
}

func (s *metadataService) build(seq int, t time.Time) *model.SuratMetadata {
	return &model.SuratMetadata{
		UnitPengirim:  s.profile.UnitPengirim,
		NoSurat:       FormatNoSurat(seq, s.profile.KodeUnit, t),
		TanggalTerbit: util.FormatTanggalIndonesia(t),
		Penandatangan: s.profile.Penandatangan,
	}
}

// FormatNoSurat 信件编号：三位流水号/单位代码/罗马月份/年份
func FormatNoSurat(seq int, kodeUnit string, t time.Time) string {
	return fmt.Sprintf("%03d/%s/%s/%d", seq, kodeUnit, util.ToRoman(int(t.Month())), t.Year())
}
