package casefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/obsidian-intel/unit734/internal/domain"
	"github.com/obsidian-intel/unit734/internal/service"
)

// Brief is one YAML case file: the crime, the suspect's cover story,
// and the psychological seed for a session.
type Brief struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Persona   string   `yaml:"persona"`
	Facts     []string `yaml:"facts"`
	Entities  []string `yaml:"entities"`
	Locations []string `yaml:"locations"`

	Suspect struct {
		InitialLoad      float64            `yaml:"initial_load"`
		Trust            float64            `yaml:"trust"`
		Hostility        float64            `yaml:"hostility"`
		PresentedEmotion string             `yaml:"presented_emotion"`
		TrueEmotion      string             `yaml:"true_emotion"`
		Vulnerabilities  map[string]float64 `yaml:"vulnerabilities"`
	} `yaml:"suspect"`

	Lies []Lie `yaml:"lies"`

	Secrets []struct {
		Thread  string `yaml:"thread"`
		Level   string `yaml:"level"`
		Content string `yaml:"content"`
	} `yaml:"secrets"`
}

// Lie is one node of the cover story. DependsOn indexes earlier lies
// in the file; forward references are invalid.
type Lie struct {
	Pillar    string  `yaml:"pillar"`
	Claim     string  `yaml:"claim"`
	Strength  float64 `yaml:"strength"`
	DependsOn []int   `yaml:"depends_on"`
}

// Validate rejects briefs that would seed a broken session.
func (b *Brief) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("case brief missing id")
	}
	if b.Persona == "" {
		return fmt.Errorf("case %s missing persona", b.ID)
	}
	if len(b.Lies) == 0 {
		return fmt.Errorf("case %s has no cover story lies", b.ID)
	}
	for i, lie := range b.Lies {
		if !domain.ValidPillar(lie.Pillar) {
			return fmt.Errorf("case %s lie %d has invalid pillar %q", b.ID, i, lie.Pillar)
		}
		for _, dep := range lie.DependsOn {
			if dep < 0 || dep >= i {
				return fmt.Errorf("case %s lie %d depends on invalid index %d", b.ID, i, dep)
			}
		}
	}
	for _, v := range []string{b.Suspect.PresentedEmotion, b.Suspect.TrueEmotion} {
		if v != "" && !domain.ValidEmotion(v) {
			return fmt.Errorf("case %s has invalid emotion %q", b.ID, v)
		}
	}
	return nil
}

// Config builds the session seed from the brief.
func (b *Brief) Config() service.SessionConfig {
	mind := domain.Psychology{
		Cognitive: domain.NewCognitiveState(b.Suspect.InitialLoad),
		Trust:     domain.ClampRange(b.Suspect.Trust, 0, 100),
		Hostility: domain.ClampRange(b.Suspect.Hostility, 0, 100),
		Vulnerabilities: make(domain.VulnerabilityProfile),
	}

	mind.Mask.Presented = domain.EmotionCalm
	mind.Mask.True = domain.EmotionNervous
	if b.Suspect.PresentedEmotion != "" {
		mind.Mask.Presented = domain.Emotion(b.Suspect.PresentedEmotion)
	}
	if b.Suspect.TrueEmotion != "" {
		mind.Mask.True = domain.Emotion(b.Suspect.TrueEmotion)
	}
	mind.Mask.SetDivergence(0)

	for tactic, sensitivity := range b.Suspect.Vulnerabilities {
		if domain.ValidPlayerTactic(tactic) {
			mind.Vulnerabilities[domain.PlayerTactic(tactic)] = domain.ClampRange(sensitivity, 0, 1)
		}
	}

	for _, lie := range b.Lies {
		mind.Web.AddNode(domain.Pillar(lie.Pillar), lie.Claim, lie.Strength, lie.DependsOn...)
	}

	for _, s := range b.Secrets {
		mind.Secrets = append(mind.Secrets, domain.Secret{
			Thread:  s.Thread,
			Level:   domain.SecretLevel(s.Level),
			Content: s.Content,
		})
	}

	return service.SessionConfig{
		CaseID:    b.ID,
		Persona:   b.Persona,
		Facts:     b.Facts,
		Entities:  b.Entities,
		Locations: b.Locations,
		Mind:      mind,
	}
}

// Library loads case briefs from a directory of YAML files.
type Library struct {
	dir string
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Load reads and validates the brief whose id matches caseID. The file
// name must be <id>.yaml or <id>.yml.
func (l *Library) Load(caseID string) (*Brief, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(l.dir, caseID+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read case file: %w", err)
		}

		var brief Brief
		if err := yaml.Unmarshal(data, &brief); err != nil {
			return nil, fmt.Errorf("parse case file %s: %w", path, err)
		}
		if err := brief.Validate(); err != nil {
			return nil, err
		}
		return &brief, nil
	}
	return nil, fmt.Errorf("case %q not found in %s", caseID, l.dir)
}

// List returns the ids of every case in the library.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read case dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			ids = append(ids, strings.TrimSuffix(name, ".yaml"))
		} else if strings.HasSuffix(name, ".yml") {
			ids = append(ids, strings.TrimSuffix(name, ".yml"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}
