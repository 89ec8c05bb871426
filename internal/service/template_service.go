package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/logger"
)

type templateService struct {
	dir       string
	defaultID string
	files     map[string]string
}

// NewTemplateService files 为模板ID到文件名的映射，文件名相对于 dir
func NewTemplateService(dir, defaultID string, files map[string]string) TemplateService {
	return &templateService{
		dir:       dir,
		defaultID: defaultID,
		files:     files,
	}
}

// NewTemplateServiceFromConfig 从 template.* 配置读取
func NewTemplateServiceFromConfig() TemplateService {
	return NewTemplateService(
		config.GetString("template.dir"),
		config.GetString("template.default"),
		config.GetStringMapString("template.files"),
	)
}

func (s *templateService) Resolve(templateID string) (string, string) {
	if name, ok := s.files[templateID]; ok {
		return templateID, filepath.Join(s.dir, name)
	}
	return s.defaultID, filepath.Join(s.dir, s.files[s.defaultID])
}

func (s *templateService) Load(templateID string) ([]byte, error) {
	id, path := s.Resolve(templateID)
	if _, ok := s.files[id]; !ok {
		return nil, fmt.Errorf("%w: %s", constant.ErrTemplateNotFound, templateID)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", constant.ErrTemplateNotFound, path)
		}
		logger.Error("读取模板失败", logger.F("path", path), logger.F("err", err))
		return nil, err
	}
	return data, nil
}

func (s *templateService) List() []string {
	ids := make([]string, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
