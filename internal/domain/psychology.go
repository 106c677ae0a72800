package domain

type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionCalm      Emotion = "calm"
	EmotionNervous   Emotion = "nervous"
	EmotionAngry     Emotion = "angry"
	EmotionSad       Emotion = "sad"
	EmotionDesperate Emotion = "desperate"
)

func ValidEmotion(e string) bool {
	switch Emotion(e) {
	case EmotionNeutral, EmotionCalm, EmotionNervous, EmotionAngry, EmotionSad, EmotionDesperate:
		return true
	}
	return false
}

// Intensity orders emotions on a rough arousal scale so mask divergence
// can be bounded below by the presented/true distance.
func (e Emotion) Intensity() float64 {
	switch e {
	case EmotionCalm:
		return 0
	case EmotionNeutral:
		return 10
	case EmotionSad:
		return 40
	case EmotionNervous:
		return 55
	case EmotionAngry:
		return 75
	case EmotionDesperate:
		return 90
	default:
		return 10
	}
}

type CognitiveLevel string

const (
	LevelControlled CognitiveLevel = "controlled"
	LevelStrained   CognitiveLevel = "strained"
	LevelCracking   CognitiveLevel = "cracking"
	LevelDesperate  CognitiveLevel = "desperate"
	LevelBreaking   CognitiveLevel = "breaking"
)

// Rank gives levels a total order for threshold rules.
func (l CognitiveLevel) Rank() int {
	switch l {
	case LevelControlled:
		return 0
	case LevelStrained:
		return 1
	case LevelCracking:
		return 2
	case LevelDesperate:
		return 3
	case LevelBreaking:
		return 4
	default:
		return 0
	}
}

// LevelForLoad derives the cognitive level band from load.
// Bands: controlled <=30, strained <=50, cracking <=70, desperate <=90, breaking <=100.
func LevelForLoad(load float64) CognitiveLevel {
	switch {
	case load <= 30:
		return LevelControlled
	case load <= 50:
		return LevelStrained
	case load <= 70:
		return LevelCracking
	case load <= 90:
		return LevelDesperate
	default:
		return LevelBreaking
	}
}

// CognitiveState tracks the suspect's stress. Level is always derived
// from Load; callers must go through SetLoad.
type CognitiveState struct {
	Load  float64        `json:"load"`
	Level CognitiveLevel `json:"level"`
}

func NewCognitiveState(load float64) CognitiveState {
	c := CognitiveState{}
	c.SetLoad(load)
	return c
}

func (c *CognitiveState) SetLoad(load float64) {
	c.Load = ClampRange(load, 0, 100)
	c.Level = LevelForLoad(c.Load)
}

// MaskState is the distance between what the suspect presents and what
// it privately holds. Divergence never drops below the intensity gap.
type MaskState struct {
	Presented  Emotion `json:"presented"`
	True       Emotion `json:"true"`
	Divergence float64 `json:"divergence"`
}

func (m *MaskState) SetDivergence(d float64) {
	floor := m.Presented.Intensity() - m.True.Intensity()
	if floor < 0 {
		floor = -floor
	}
	if d < floor {
		d = floor
	}
	m.Divergence = ClampRange(d, 0, 100)
}

// VulnerabilityProfile maps player tactics to sensitivity in [0,1].
// Missing tactics read as zero sensitivity.
type VulnerabilityProfile map[PlayerTactic]float64

func (v VulnerabilityProfile) Sensitivity(t PlayerTactic) float64 {
	return ClampRange(v[t], 0, 1)
}

type SecretLevel string

const (
	SecretSurface      SecretLevel = "surface"
	SecretIntermediate SecretLevel = "intermediate"
	SecretCore         SecretLevel = "core"
)

type Secret struct {
	Thread   string      `json:"thread"`
	Level    SecretLevel `json:"level"`
	Content  string      `json:"content"`
	Revealed bool        `json:"revealed"`
}

// Psychology is the suspect's full mental state for one session.
type Psychology struct {
	Cognitive       CognitiveState       `json:"cognitive"`
	Mask            MaskState            `json:"mask"`
	Web             LieWeb               `json:"lie_web"`
	Vulnerabilities VulnerabilityProfile `json:"vulnerabilities"`
	Secrets         []Secret             `json:"secrets"`
	Trust           float64              `json:"trust"`
	Hostility       float64              `json:"hostility"`
}

// RevealSecret marks the secret at index revealed. A core secret may
// only be revealed after an intermediate secret in the same thread.
func (p *Psychology) RevealSecret(idx int) bool {
	if idx < 0 || idx >= len(p.Secrets) {
		return false
	}
	s := &p.Secrets[idx]
	if s.Level == SecretCore {
		unlocked := false
		for i := range p.Secrets {
			if p.Secrets[i].Thread == s.Thread && p.Secrets[i].Level == SecretIntermediate && p.Secrets[i].Revealed {
				unlocked = true
				break
			}
		}
		if !unlocked {
			return false
		}
	}
	s.Revealed = true
	return true
}

// ClampRange clips v into [lo, hi].
func ClampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
