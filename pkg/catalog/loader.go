package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// graphFile is the on-disk shape of a graph. Keys follow the camelCase used
// throughout graph documents.
type graphFile struct {
	Service        string         `mapstructure:"service"`
	OpeningMessage string         `mapstructure:"openingMessage"`
	ServiceDetails string         `mapstructure:"serviceDetails"`
	SkipIntro      bool           `mapstructure:"skipIntro"`
	Questions      []questionFile `mapstructure:"questions"`
}

type questionFile struct {
	ID                   string            `mapstructure:"id"`
	Key                  string            `mapstructure:"key"`
	Label                string            `mapstructure:"label"`
	AnswerType           string            `mapstructure:"answerType"`
	Required             bool              `mapstructure:"required"`
	Patterns             []string          `mapstructure:"patterns"`
	Templates            []string          `mapstructure:"templates"`
	Suggestions          []string          `mapstructure:"suggestions"`
	AllowCustom          bool              `mapstructure:"allowCustom"`
	NextID               string            `mapstructure:"nextId"`
	When                 *domain.Condition `mapstructure:"when"`
	DisableSharedContext bool              `mapstructure:"disableSharedContext"`
	ForceAsk             bool              `mapstructure:"forceAsk"`
	MultiSelect          bool              `mapstructure:"multiSelect"`
}

// Parse decodes one YAML graph document.
func Parse(data []byte) (domain.Graph, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %v", domain.ErrInvalidGraph, err)
	}

	var file graphFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return domain.Graph{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %v", domain.ErrInvalidGraph, err)
	}
	return file.graph(), nil
}

func (f graphFile) graph() domain.Graph {
	g := domain.Graph{
		Service:        f.Service,
		OpeningMessage: strings.TrimSpace(f.OpeningMessage),
		ServiceDetails: strings.TrimSpace(f.ServiceDetails),
		SkipIntro:      f.SkipIntro,
		Questions:      make([]domain.Question, 0, len(f.Questions)),
	}
	for _, qf := range f.Questions {
		q := domain.Question{
			ID:                   qf.ID,
			Key:                  qf.Key,
			Label:                qf.Label,
			AnswerType:           domain.AnswerType(qf.AnswerType),
			Required:             qf.Required,
			Patterns:             qf.Patterns,
			Templates:            qf.Templates,
			Suggestions:          qf.Suggestions,
			AllowCustom:          qf.AllowCustom,
			NextID:               qf.NextID,
			DisableSharedContext: qf.DisableSharedContext,
			ForceAsk:             qf.ForceAsk,
			MultiSelect:          qf.MultiSelect,
		}
		if qf.When != nil {
			q.When = *qf.When
		}
		g.Questions = append(g.Questions, q)
	}
	return g
}

// LoadFS reads every *.yaml and *.yml file in dir of fsys, in lexical order.
func LoadFS(fsys fs.FS, dir string) ([]domain.Graph, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read graphs dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var graphs []domain.Graph
	for _, entry := range entries {
		ext := path.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		g, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// LoadDir reads graph files from a directory on disk.
func LoadDir(dir string) ([]domain.Graph, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// NewRegistry builds a registry from the built-in graphs plus the graphs in
// dir, if dir is non-empty. File graphs replace built-ins of the same name.
func NewRegistry(dir string) (*registry.Registry, error) {
	graphs := Builtin()
	if dir != "" {
		extra, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, extra...)
	}
	return registry.New(graphs...)
}
