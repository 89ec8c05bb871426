package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/internal/service"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/docgen"
	"github.com/yockii/surat_hub/pkg/logger"
	"github.com/yockii/surat_hub/pkg/pdfconv"
	"github.com/yockii/surat_hub/pkg/util"
)

const (
	exitOK    = 0
	exitUsage = 2
	exitError = 1
)

// exportFlags suratctl 的全部参数
type exportFlags struct {
	config     string
	template   string
	input      string
	format     string
	output     string
	pdf        bool
	soffice    string
	sequence   int
	unit       string
	kodeUnit   string
	signerName string
	fields     map[string]string
	force      bool
}

func newFlagSet(f *exportFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("suratctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.config, "config", "c", "", "config file; letter.* keys provide unit and signer")
	fs.StringVarP(&f.template, "template", "t", "", "DOCX template containing {{content}} (required)")
	fs.StringVarP(&f.input, "input", "i", "", "HTML or Markdown content file, - for stdin (required)")
	fs.StringVar(&f.format, "format", "auto", "content format: auto, html or markdown")
	fs.StringVarP(&f.output, "output", "o", "", "output path (default surat.docx or surat.pdf)")
	fs.BoolVar(&f.pdf, "pdf", false, "convert the result to PDF with LibreOffice")
	fs.StringVar(&f.soffice, "soffice", "soffice", "LibreOffice binary used by --pdf")
	fs.IntVar(&f.sequence, "seq", 1, "letter sequence number")
	fs.StringVar(&f.unit, "unit", "Lembaga Sertifikasi Profesi", "sending unit name")
	fs.StringVar(&f.kodeUnit, "kode-unit", "LSP", "unit code used in the letter number")
	fs.StringVar(&f.signerName, "signer", "", "signer name")
	fs.StringToStringVarP(&f.fields, "field", "f", nil, "extra template field, key=value (repeatable)")
	fs.BoolVar(&f.force, "force", false, "overwrite an existing output file")
	return fs
}

// fixedSequence 命令行下由用户指定流水号
type fixedSequence int

func (s fixedSequence) ClaimNext(context.Context, time.Time) (int, error) { return int(s), nil }
func (s fixedSequence) PeekNext(context.Context, time.Time) (int, error)  { return int(s), nil }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f := &exportFlags{}
	fs := newFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if f.template == "" || f.input == "" {
		fmt.Fprintln(stderr, "suratctl: --template and --input are required")
		fs.PrintDefaults()
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := export(ctx, f, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "suratctl: %v\n", err)
		return exitError
	}
	fmt.Fprintln(stdout, out)
	return exitOK
}

func export(ctx context.Context, f *exportFlags, stdin io.Reader) (string, error) {
	profile := service.LetterProfile{
		UnitPengirim:  f.unit,
		KodeUnit:      f.kodeUnit,
		Penandatangan: model.Penandatangan{Nama: f.signerName},
	}
	if f.config != "" {
		if err := config.Init(f.config); err != nil {
			return "", err
		}
		logger.Init()
		profile = service.LetterProfileFromConfig()
	}

	content, err := readInput(f.input, stdin)
	if err != nil {
		return "", err
	}
	req := &service.ExportRequest{Fields: f.fields}
	switch strings.ToLower(f.format) {
	case "auto":
		req.Content = content
	case docgen.FormatHTML:
		req.ContentHTML = content
	case docgen.FormatMarkdown, "md":
		req.ContentMarkdown = content
	default:
		return "", fmt.Errorf("unknown format %q", f.format)
	}

	format := service.ExportFormatDocx
	var converter pdfconv.Converter
	if f.pdf {
		format = service.ExportFormatPDF
		converter = pdfconv.NewLibreOffice(f.soffice, 2*time.Minute)
	}

	templates := service.NewTemplateService(filepath.Dir(f.template), "cli", map[string]string{
		"cli": filepath.Base(f.template),
	})
	metadata := service.NewMetadataService(profile, fixedSequence(f.sequence), time.Now)
	exporter := service.NewExportService(templates, metadata, nil, converter)

	result, err := exporter.Export(ctx, req, format)
	if err != nil {
		return "", err
	}

	output := f.output
	if output == "" {
		output = result.FileName
	}
	if util.FileExists(output) && !f.force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite", output)
	}
	if err := util.SaveFile(output, result.Data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\t%s", output, result.Metadata.NoSurat), nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
