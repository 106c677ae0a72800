package domain

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func buildWeb() *LieWeb {
	w := &LieWeb{}
	w.AddNode(PillarAlibi, "I was in the maintenance bay all night", 0.8)
	w.AddNode(PillarAlibi, "My charging log proves it", 0.5, 0)
	w.AddNode(PillarAccess, "My vault credentials were revoked", 0.7)
	w.AddNode(PillarMotive, "I have no use for a data core", 0.9)
	return w
}

func TestPillarStrengthIsWeakestLiveNode(t *testing.T) {
	w := buildWeb()
	if got := w.PillarStrength(PillarAlibi); !approx(got, 0.5) {
		t.Fatalf("alibi strength = %v, want 0.5", got)
	}
	if got := w.PillarStrength(PillarKnowledge); got != 1 {
		t.Fatalf("pillar with no nodes should read 1, got %v", got)
	}
}

func TestDamageCollapsesAndCascadesOnce(t *testing.T) {
	w := &LieWeb{}
	root := w.AddNode(PillarAlibi, "I never left the bay", 0.3)
	dep := w.AddNode(PillarAlibi, "The charging log proves it", 0.6, root)
	chained := w.AddNode(PillarAccess, "The log shows no vault entry", 0.15, dep)

	w.Damage(PillarAlibi, 0.3)

	if !w.Nodes[root].Collapsed {
		t.Fatal("root node should collapse at zero strength")
	}
	// Dependent loses 0.2 once: 0.6 damaged to 0.3, then cascade to 0.1.
	if got := w.Nodes[dep].Strength; !approx(got, 0.1) {
		t.Fatalf("dependent strength = %v, want 0.1", got)
	}
	if w.Nodes[dep].Collapsed {
		t.Fatal("dependent above zero must stay live")
	}
	// The cascade is single pass: chained depends on dep, which did not
	// collapse, so it is untouched.
	if got := w.Nodes[chained].Strength; !approx(got, 0.15) {
		t.Fatalf("second-order node strength = %v, want 0.15 untouched", got)
	}
}

func TestCascadeCollapseDoesNotRecurse(t *testing.T) {
	w := &LieWeb{}
	root := w.AddNode(PillarAlibi, "I was on standby", 0.2)
	mid := w.AddNode(PillarAccess, "Standby units lose vault clearance", 0.2, root)
	leaf := w.AddNode(PillarKnowledge, "So I could not know the layout", 0.2, mid)

	w.Damage(PillarAlibi, 0.2)

	if !w.Nodes[mid].Collapsed {
		t.Fatal("direct dependent at 0.2 should collapse from the cascade penalty")
	}
	if w.Nodes[leaf].Collapsed {
		t.Fatal("cascade must not propagate through a cascade-collapsed node")
	}
	if got := w.Nodes[leaf].Strength; !approx(got, 0.2) {
		t.Fatalf("leaf strength = %v, want 0.2", got)
	}
}

func TestReinforceSkipsCollapsedNodes(t *testing.T) {
	w := &LieWeb{}
	dead := w.AddNode(PillarAlibi, "I was in the bay", 0.1)
	live := w.AddNode(PillarAlibi, "The log proves it", 0.5)
	w.Damage(PillarAlibi, 0.1)

	w.Reinforce(PillarAlibi, 0.3)

	if !w.Nodes[dead].Collapsed || w.Nodes[dead].Strength != 0 {
		t.Fatal("collapsed node must stay collapsed through reinforcement")
	}
	if got := w.Nodes[live].Strength; !approx(got, 0.8) {
		t.Fatalf("live strength = %v, want 0.8", got)
	}
}

func TestCollapsedCountRequiresEveryNodeDown(t *testing.T) {
	w := buildWeb()
	w.Damage(PillarAccess, 1)
	if got := w.CollapsedCount(); got != 1 {
		t.Fatalf("collapsed count = %d, want 1", got)
	}
	// Alibi has two nodes; one collapsing is not a pillar collapse.
	w.Nodes[0].Collapsed = true
	if w.PillarCollapsed(PillarAlibi) {
		t.Fatal("pillar with a live node must not read collapsed")
	}
}

func TestWeakestPillarPrefersEarlierOnTies(t *testing.T) {
	w := &LieWeb{}
	w.AddNode(PillarAlibi, "a", 0.4)
	w.AddNode(PillarAccess, "b", 0.4)
	if got := w.WeakestPillar([]Pillar{PillarAccess, PillarAlibi}); got != PillarAccess {
		t.Fatalf("weakest = %s, want access on tie", got)
	}
	if got := w.WeakestPillar(nil); got != "" {
		t.Fatalf("weakest of no candidates = %q, want empty", got)
	}
}
