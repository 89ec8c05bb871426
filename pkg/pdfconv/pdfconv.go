package pdfconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/yockii/surat_hub/pkg/logger"
)

var (
	ErrConverterUnavailable = errors.New("PDF转换器不可用")
	ErrConvertFailed        = errors.New("PDF转换失败")
)

// Converter DOCX 转 PDF
type Converter interface {
	Convert(ctx context.Context, docx []byte) ([]byte, error)
}

// LibreOffice 调用 soffice 无界面转换
type LibreOffice struct {
	binary  string
	timeout time.Duration
	workDir string
}

// NewLibreOffice binary 为空时使用 PATH 中的 soffice
func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LibreOffice{
		binary:  binary,
		timeout: timeout,
		workDir: os.TempDir(),
	}
}

// Available soffice 是否可执行
func (l *LibreOffice) Available() bool {
	_, err := exec.LookPath(l.binary)
	return err == nil
}

// Convert 每次转换使用独立的临时目录和用户配置目录，避免并发的 soffice 实例互相锁定
func (l *LibreOffice) Convert(ctx context.Context, docx []byte) ([]byte, error) {
	if !l.Available() {
		return nil, fmt.Errorf("%w: %s", ErrConverterUnavailable, l.binary)
	}

	dir := filepath.Join(l.workDir, "surat-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "surat.docx")
	if err := os.WriteFile(input, docx, 0o644); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	profile := "file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
	cmd := exec.CommandContext(ctx, l.binary,
		"-env:UserInstallation="+profile,
		"--headless", "--norestore",
		"--convert-to", "pdf",
		"--outdir", dir,
		input,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrConvertFailed, ctx.Err())
		}
		logger.Error("soffice执行失败", logger.F("err", err), logger.F("stderr", stderr.String()))
		return nil, fmt.Errorf("%w: %v", ErrConvertFailed, err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "surat.pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: 未生成输出文件", ErrConvertFailed)
	}
	logger.Debug("PDF转换完成", logger.F("bytes", len(pdf)), logger.F("elapsed", time.Since(start).String()))
	return pdf, nil
}

// PageCount 校验 PDF 并返回页数
func PageCount(pdf []byte) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: 读取PDF失败: %v", ErrConvertFailed, err)
	}
	return ctx.PageCount, nil
}
