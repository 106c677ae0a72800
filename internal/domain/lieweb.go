package domain

type Pillar string

const (
	PillarAlibi     Pillar = "alibi"
	PillarMotive    Pillar = "motive"
	PillarAccess    Pillar = "access"
	PillarKnowledge Pillar = "knowledge"
)

// Pillars lists all story pillars in a fixed order.
func Pillars() []Pillar {
	return []Pillar{PillarAlibi, PillarMotive, PillarAccess, PillarKnowledge}
}

func ValidPillar(p string) bool {
	switch Pillar(p) {
	case PillarAlibi, PillarMotive, PillarAccess, PillarKnowledge:
		return true
	}
	return false
}

// LieNode is one claim in the lie web. Nodes live in an arena and refer
// to dependents by index, never by pointer.
type LieNode struct {
	ID        int     `json:"id"`
	Pillar    Pillar  `json:"pillar"`
	Claim     string  `json:"claim"`
	Strength  float64 `json:"strength"`
	Collapsed bool    `json:"collapsed"`
	DependsOn []int   `json:"depends_on,omitempty"`
}

// LieWeb is an arena of lie nodes. Dependency edges must be acyclic;
// AddNode only accepts dependencies on already-existing nodes, which
// makes cycles unrepresentable.
type LieWeb struct {
	Nodes []LieNode `json:"nodes"`
}

// AddNode appends a node bound to pillar and returns its id. Dependency
// ids that do not exist yet are dropped.
func (w *LieWeb) AddNode(pillar Pillar, claim string, strength float64, dependsOn ...int) int {
	id := len(w.Nodes)
	deps := make([]int, 0, len(dependsOn))
	for _, d := range dependsOn {
		if d >= 0 && d < id {
			deps = append(deps, d)
		}
	}
	w.Nodes = append(w.Nodes, LieNode{
		ID:        id,
		Pillar:    pillar,
		Claim:     claim,
		Strength:  ClampRange(strength, 0, 1),
		DependsOn: deps,
	})
	return id
}

// PillarStrength is the strength of the weakest live node on the
// pillar, or 0 when every node on it has collapsed.
func (w *LieWeb) PillarStrength(p Pillar) float64 {
	found := false
	min := 1.0
	for i := range w.Nodes {
		n := &w.Nodes[i]
		if n.Pillar != p {
			continue
		}
		found = true
		if n.Collapsed {
			return 0
		}
		if n.Strength < min {
			min = n.Strength
		}
	}
	if !found {
		return 1
	}
	return min
}

// PillarCollapsed reports whether the pillar has strength zero.
func (w *LieWeb) PillarCollapsed(p Pillar) bool {
	has := false
	for i := range w.Nodes {
		if w.Nodes[i].Pillar == p {
			has = true
			if !w.Nodes[i].Collapsed {
				return false
			}
		}
	}
	return has
}

// CollapsedCount counts collapsed pillars.
func (w *LieWeb) CollapsedCount() int {
	n := 0
	for _, p := range Pillars() {
		if w.PillarCollapsed(p) {
			n++
		}
	}
	return n
}

// Damage removes amount strength from every node on the pillar. Any
// node crossing zero is marked collapsed and its dependents lose 0.2
// in a single bounded pass; cascades never recurse.
func (w *LieWeb) Damage(p Pillar, amount float64) {
	if amount <= 0 {
		return
	}
	var collapsed []int
	for i := range w.Nodes {
		n := &w.Nodes[i]
		if n.Pillar != p || n.Collapsed {
			continue
		}
		n.Strength = ClampRange(n.Strength-amount, 0, 1)
		if n.Strength == 0 {
			n.Collapsed = true
			collapsed = append(collapsed, n.ID)
		}
	}
	w.cascade(collapsed)
}

// cascade applies the single-pass dependent penalty for each collapse.
// Dependents that reach zero are marked collapsed but do not cascade
// further.
func (w *LieWeb) cascade(collapsedIDs []int) {
	for _, cid := range collapsedIDs {
		for i := range w.Nodes {
			n := &w.Nodes[i]
			if n.Collapsed {
				continue
			}
			for _, dep := range n.DependsOn {
				if dep != cid {
					continue
				}
				n.Strength = ClampRange(n.Strength-0.2, 0, 1)
				if n.Strength == 0 {
					n.Collapsed = true
				}
				break
			}
		}
	}
}

// Reinforce adds strength to every live node on the pillar. Collapsed
// nodes stay collapsed.
func (w *LieWeb) Reinforce(p Pillar, amount float64) {
	if amount <= 0 {
		return
	}
	for i := range w.Nodes {
		n := &w.Nodes[i]
		if n.Pillar != p || n.Collapsed {
			continue
		}
		n.Strength = ClampRange(n.Strength+amount, 0, 1)
	}
}

// WeakestPillar returns the pillar with the lowest strength among the
// given candidates, preferring earlier candidates on ties.
func (w *LieWeb) WeakestPillar(candidates []Pillar) Pillar {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	bestStrength := w.PillarStrength(best)
	for _, p := range candidates[1:] {
		if s := w.PillarStrength(p); s < bestStrength {
			best, bestStrength = p, s
		}
	}
	return best
}
