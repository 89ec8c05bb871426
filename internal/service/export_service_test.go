package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/pkg/docgen"
	"github.com/yockii/surat_hub/pkg/pdfconv"
)

const testDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Nomor: {{no_surat}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Perihal: {{perihal}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{{content}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{{penandatangan_nama}}</w:t></w:r></w:p>` +
	`<w:sectPr/></w:body></w:document>`

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`

func writeTemplate(t *testing.T, dir, name, document string) {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range []struct{ name, data string }{
		{docgen.ContentTypesPart, testContentTypes},
		{docgen.DocumentPart, document},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644))
}

func documentXML(t *testing.T, docx []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != docgen.DocumentPart {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml missing")
	return ""
}

type recordingLetters struct {
	created []*model.Letter
	err     error
}

func (r *recordingLetters) Create(_ context.Context, record *model.Letter) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, record)
	return nil
}

func (r *recordingLetters) Get(context.Context, uint64) (*model.Letter, error) {
	return nil, constant.ErrRecordNotFound
}

func (r *recordingLetters) List(context.Context, *model.Letter, int, int) ([]*model.Letter, int64, error) {
	return r.created, int64(len(r.created)), nil
}

type stubConverter struct {
	out []byte
	err error
}

func (c *stubConverter) Convert(context.Context, []byte) ([]byte, error) {
	return c.out, c.err
}

type exportFixture struct {
	svc     ExportService
	letters *recordingLetters
	seq     SequenceService
	now     time.Time
}

func newExportFixture(t *testing.T, pdf pdfconv.Converter) *exportFixture {
	t.Helper()
	dir := t.TempDir()
	writeTemplate(t, dir, "contoh-template.docx", testDocument)
	writeTemplate(t, dir, "rusak.docx", `<w:document><w:body><w:p/></w:body></w:document>`)

	templates := NewTemplateService(dir, "surat-tugas", map[string]string{
		"surat-tugas": "contoh-template.docx",
		"rusak":       "rusak.docx",
	})
	f := &exportFixture{
		letters: &recordingLetters{},
		seq:     NewMemorySequenceService(),
		now:     time.Date(2026, time.March, 3, 10, 0, 0, 0, time.Local),
	}
	meta := NewMetadataService(testProfile, f.seq, func() time.Time { return f.now })
	f.svc = NewExportService(templates, meta, f.letters, pdf)
	return f
}

func TestExport_HTML(t *testing.T) {
	f := newExportFixture(t, nil)
	res, err := f.svc.Export(context.Background(), &ExportRequest{
		ContentHTML: `<p>Hello <strong>World</strong></p>`,
		Fields:      map[string]string{"perihal": "Undangan & Rapat", "content": "diabaikan"},
		RequestID:   "req-1",
	}, ExportFormatDocx)
	require.NoError(t, err)

	assert.Equal(t, "surat.docx", res.FileName)
	assert.Equal(t, docgen.DocxMimeType, res.ContentType)
	assert.Equal(t, "surat-tugas", res.TemplateID)
	assert.Equal(t, "001/LSP/III/2026", res.Metadata.NoSurat)

	doc := documentXML(t, res.Data)
	assert.Contains(t, doc, "Nomor: 001/LSP/III/2026")
	assert.Contains(t, doc, "Perihal: Undangan &amp; Rapat")
	assert.Contains(t, doc, "Dr. Nur Azizah, S.Kom., M.M.")
	assert.Contains(t, doc, ">World</w:t>")
	assert.NotContains(t, doc, "{{content}}")
	assert.NotContains(t, doc, "diabaikan")

	require.Len(t, f.letters.created, 1)
	letter := f.letters.created[0]
	assert.Equal(t, "001/LSP/III/2026", letter.NoSurat)
	assert.Equal(t, ExportFormatDocx, letter.Format)
	assert.Equal(t, docgen.FormatHTML, letter.ContentFormat)
	assert.Equal(t, "req-1", letter.RequestID)
	assert.Equal(t, len(res.Data), letter.SizeBytes)
}

func TestExport_ContentPriority(t *testing.T) {
	tests := []struct {
		name   string
		req    ExportRequest
		format string
		text   string
	}{
		{"markdown wins", ExportRequest{ContentMarkdown: "**md**", ContentHTML: "<p>html</p>"}, docgen.FormatMarkdown, "md"},
		{"html", ExportRequest{ContentHTML: "<p>html</p>", Content: "legacy"}, docgen.FormatHTML, "html"},
		{"legacy html", ExportRequest{Content: "<p>lama</p>"}, docgen.FormatHTML, "lama"},
		{"legacy markdown", ExportRequest{Content: "_lama_"}, docgen.FormatMarkdown, "lama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, format := contentSource(&tt.req)
			assert.Equal(t, tt.format, format)

			f := newExportFixture(t, nil)
			res, err := f.svc.Export(context.Background(), &tt.req, ExportFormatDocx)
			require.NoError(t, err)
			assert.NotEmpty(t, source)
			assert.Contains(t, documentXML(t, res.Data), ">"+tt.text+"</w:t>")
		})
	}
}

func TestExport_Sanitizes(t *testing.T) {
	f := newExportFixture(t, nil)
	res, err := f.svc.Export(context.Background(), &ExportRequest{
		ContentHTML: `<p class="word-no-indent" style="text-align:center;color:red" onclick="x()">aman</p><script>alert(1)</script>`,
	}, ExportFormatDocx)
	require.NoError(t, err)

	doc := documentXML(t, res.Data)
	assert.Contains(t, doc, ">aman</w:t>")
	assert.Contains(t, doc, `<w:jc w:val="center">`)
	assert.NotContains(t, doc, "alert")
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()

	f := newExportFixture(t, nil)
	_, err := f.svc.Export(ctx, &ExportRequest{Content: "   "}, ExportFormatDocx)
	assert.ErrorIs(t, err, constant.ErrContentRequired)

	_, err = f.svc.Export(ctx, &ExportRequest{Content: "x"}, "odt")
	assert.ErrorIs(t, err, constant.ErrInvalidParams)

	_, err = f.svc.Export(ctx, &ExportRequest{TemplateID: "rusak", Content: "x"}, ExportFormatDocx)
	assert.ErrorIs(t, err, docgen.ErrPlaceholderNotFound)

	_, err = f.svc.Export(ctx, &ExportRequest{Content: "x"}, ExportFormatPDF)
	assert.ErrorIs(t, err, pdfconv.ErrConverterUnavailable)

	// 只有缺少占位符的那次占用了流水号
	next, err := f.seq.PeekNext(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestExport_PDF(t *testing.T) {
	f := newExportFixture(t, &stubConverter{out: []byte("%PDF-stub")})
	res, err := f.svc.Export(context.Background(), &ExportRequest{Content: "isi"}, ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "surat.pdf", res.FileName)
	assert.Equal(t, PdfMimeType, res.ContentType)
	assert.Equal(t, "%PDF-stub", string(res.Data))
	// 无法解析的PDF页数记为0
	assert.Equal(t, 0, res.PageCount)
	require.Len(t, f.letters.created, 1)
	assert.Equal(t, ExportFormatPDF, f.letters.created[0].Format)
}

func TestExport_PDFConvertFailure(t *testing.T) {
	f := newExportFixture(t, &stubConverter{err: pdfconv.ErrConvertFailed})
	_, err := f.svc.Export(context.Background(), &ExportRequest{Content: "isi"}, ExportFormatPDF)
	assert.ErrorIs(t, err, pdfconv.ErrConvertFailed)
	assert.Empty(t, f.letters.created)
}

func TestExport_ArchiveFailureIsIgnored(t *testing.T) {
	f := newExportFixture(t, nil)
	f.letters.err = errors.New("db down")
	res, err := f.svc.Export(context.Background(), &ExportRequest{Content: "isi"}, ExportFormatDocx)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data)
}
