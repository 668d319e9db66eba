package project

import (
	"github.com/x2doc-labs/x2doc/internal/docx"
	"github.com/x2doc-labs/x2doc/internal/env"
)

// ManifestName is the project manifest filename looked up in the working
// directory.
const ManifestName = "x2doc.yaml"

// Project is the parsed x2doc.yaml manifest.
type Project struct {
	Env       EnvConfig      `yaml:"env,omitempty" json:"env,omitempty"`
	Document  DocumentConfig `yaml:"document,omitempty" json:"document,omitempty"`
	Documents []string       `yaml:"documents,omitempty" json:"documents,omitempty"`
}

// EnvConfig configures the Python environment bootstrap.
type EnvConfig struct {
	Dir          string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Python       string `yaml:"python,omitempty" json:"python,omitempty"`
	Requirements string `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Shell        string `yaml:"shell,omitempty" json:"shell,omitempty"`
	MinPython    string `yaml:"min_python,omitempty" json:"min_python,omitempty"`
}

// DocumentConfig configures document conversion.
type DocumentConfig struct {
	TableWidthCm float64 `yaml:"table_width_cm,omitempty" json:"table_width_cm,omitempty"`
}

// Default returns the configuration used when no manifest exists.
func Default() *Project {
	p := &Project{}
	p.applyDefaults()
	return p
}

func (p *Project) applyDefaults() {
	if p.Env.Dir == "" {
		p.Env.Dir = env.DefaultDir
	}
	if p.Env.Python == "" {
		p.Env.Python = env.DefaultPython
	}
	if p.Env.Requirements == "" {
		p.Env.Requirements = env.DefaultRequirements
	}
	if p.Document.TableWidthCm == 0 {
		p.Document.TableWidthCm = docx.DefaultTableWidthCm
	}
}
