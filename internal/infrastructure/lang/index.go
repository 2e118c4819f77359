package lang

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var defaultLanguages []byte

var emojis = map[string]string{
	"CSS":        ":css:",
	"Elixir":     ":elixir:",
	"Go":         ":golang:",
	"HTML":       ":html:",
	"INI":        ":terminal:",
	"JavaScript": ":js:",
	"JSON":       ":json:",
	"Kotlin":     ":kotlin:",
	"PHP":        ":php:",
	"Python":     ":python:",
	"Ruby":       ":ruby:",
	"Rust":       ":rust:",
	"Shell":      ":terminal:",
	"Swift":      ":swift:",
	"TypeScript": ":typescript:",
	"Vue":        ":vue:",
}

type Lang struct {
	Name       string   `yaml:"-"`
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// Emoji возвращает emoji языка для Slack или пустую строку
func (l *Lang) Emoji() string {
	return emojis[l.Name]
}

type Index struct {
	names     map[string]*Lang
	exts      map[string]*Lang
	filenames map[string]*Lang
}

func NewIndex() *Index {
	return &Index{
		names:     make(map[string]*Lang),
		exts:      make(map[string]*Lang),
		filenames: make(map[string]*Lang),
	}
}

// Load строит индекс из файла или из встроенного списка, если путь пустой
func Load(filePath string) (*Index, error) {
	data := defaultLanguages
	if filePath != "" {
		var err error
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read languages: %w", err)
		}
	}

	idx := NewIndex()
	if err := idx.Parse(data); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *Index) Parse(data []byte) error {
	m := make(map[string]*Lang)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse languages: %w", err)
	}

	// сортировка делает выбор для общих расширений стабильным
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		l := m[name]
		if l == nil {
			continue
		}
		l.Name = name
		i.names[name] = l

		for _, e := range l.Extensions {
			ext := strings.ToLower(strings.TrimPrefix(e, "."))

			// общее расширение достается языку с меньшим числом расширений
			if cur, ok := i.exts[ext]; ok && len(cur.Extensions) <= len(l.Extensions) {
				continue
			}
			i.exts[ext] = l
		}

		for _, f := range l.Filenames {
			i.filenames[f] = l
		}
	}

	return nil
}

func (i *Index) LangByName(name string) *Lang {
	return i.names[name]
}

func (i *Index) LangForFile(filename string) *Lang {
	base := path.Base(filename)
	if l, ok := i.filenames[base]; ok {
		return l
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if ext == "" {
		return nil
	}
	return i.exts[ext]
}

// Icons возвращает отсортированный список emoji без повторов для измененных файлов
func (i *Index) Icons(files []domain.FileChange) []string {
	seen := make(map[string]struct{})
	icons := make([]string, 0)

	for _, f := range files {
		l := i.LangForFile(f.Filename)
		if l == nil {
			continue
		}
		emoji := l.Emoji()
		if emoji == "" {
			continue
		}
		if _, ok := seen[emoji]; ok {
			continue
		}
		seen[emoji] = struct{}{}
		icons = append(icons, emoji)
	}

	sort.Strings(icons)
	return icons
}
