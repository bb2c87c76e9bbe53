package artifacts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Booster is a gradient-boosted tree ensemble in XGBoost's JSON dump format
// with a binary:logistic objective.
type Booster struct {
	Kind           string      `json:"kind"`
	Objective      string      `json:"objective"`
	BaseScore      *float64    `json:"base_score"`
	FeatureNamesIn []string    `json:"feature_names_in"`
	Trees          []*treeNode `json:"trees"`

	flat   [][]flatNode
	margin float64
	width  int
}

// treeNode mirrors one node of xgboost's get_dump(dump_format="json").
type treeNode struct {
	NodeID         int         `json:"nodeid"`
	Split          string      `json:"split"`
	SplitCondition float64     `json:"split_condition"`
	Yes            int         `json:"yes"`
	No             int         `json:"no"`
	Missing        int         `json:"missing"`
	Leaf           *float64    `json:"leaf"`
	Children       []*treeNode `json:"children"`
}

type flatNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float32
	yes       int
	no        int
	missing   int
}

func (b *Booster) validate() error {
	switch b.Objective {
	case "", "binary:logistic":
	default:
		return fmt.Errorf("%w: objective %q", ErrUnsupportedKind, b.Objective)
	}
	if len(b.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidArtifact)
	}
	base := 0.5
	if b.BaseScore != nil {
		base = *b.BaseScore
	}
	if base <= 0 || base >= 1 {
		return fmt.Errorf("%w: base_score %v outside (0,1)", ErrInvalidArtifact, base)
	}
	b.margin = math.Log(base / (1 - base))

	names := make(map[string]int, len(b.FeatureNamesIn))
	for i, n := range b.FeatureNamesIn {
		names[n] = i
	}
	b.flat = make([][]flatNode, len(b.Trees))
	for t, root := range b.Trees {
		nodes, err := flatten(root, names)
		if err != nil {
			return fmt.Errorf("tree %d: %w", t, err)
		}
		b.flat[t] = nodes
	}
	b.width = len(b.FeatureNamesIn)
	if b.width == 0 {
		for _, tree := range b.flat {
			for _, n := range tree {
				if !n.leaf && n.feature+1 > b.width {
					b.width = n.feature + 1
				}
			}
		}
	}
	return nil
}

// flatten indexes a nested tree by node id.
func flatten(root *treeNode, names map[string]int) ([]flatNode, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrInvalidArtifact)
	}
	byID := make(map[int]*treeNode)
	stack := []*treeNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := byID[n.NodeID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %d", ErrInvalidArtifact, n.NodeID)
		}
		byID[n.NodeID] = n
		stack = append(stack, n.Children...)
	}

	out := make([]flatNode, len(byID))
	for id, n := range byID {
		if id < 0 || id >= len(out) {
			return nil, fmt.Errorf("%w: node id %d out of range", ErrInvalidArtifact, id)
		}
		if n.Leaf != nil {
			out[id] = flatNode{leaf: true, value: *n.Leaf}
			continue
		}
		feature, err := resolveFeature(n.Split, names)
		if err != nil {
			return nil, err
		}
		for _, child := range []int{n.Yes, n.No, n.Missing} {
			if _, ok := byID[child]; !ok {
				return nil, fmt.Errorf("%w: node %d points to missing node %d", ErrInvalidArtifact, id, child)
			}
			if child <= id {
				return nil, fmt.Errorf("%w: node %d points back to node %d", ErrInvalidArtifact, id, child)
			}
		}
		out[id] = flatNode{
			feature:   feature,
			threshold: float32(n.SplitCondition),
			yes:       n.Yes,
			no:        n.No,
			missing:   n.Missing,
		}
	}
	return out, nil
}

// resolveFeature maps a split name to a column index. Unnamed models use "f<N>".
func resolveFeature(split string, names map[string]int) (int, error) {
	if i, ok := names[split]; ok {
		return i, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok && len(names) == 0 {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: split on unknown feature %q", ErrInvalidArtifact, split)
}

// FeatureNames returns the model inputs in fit order.
func (b *Booster) FeatureNames() []string { return b.FeatureNamesIn }

// Width returns the number of inputs. Unnamed models report the highest split index + 1.
func (b *Booster) Width() int { return b.width }

// PredictProba sums the leaf values reached in every tree onto the base
// margin and applies the logistic link. NaN inputs follow the missing branch.
func (b *Booster) PredictProba(values []float64) (float64, error) {
	if len(values) != b.width {
		return 0, failure.Newf(failure.StagePredict, "", failure.ErrSchemaMismatch, "got %d values, want %d", len(values), b.width)
	}
	margin := b.margin
	for _, tree := range b.flat {
		margin += walk(tree, values)
	}
	return sigmoid(margin), nil
}

func walk(tree []flatNode, values []float64) float64 {
	i := 0
	for {
		n := tree[i]
		if n.leaf {
			return n.value
		}
		v := values[n.feature]
		switch {
		case math.IsNaN(v):
			i = n.missing
		case float32(v) < n.threshold:
			i = n.yes
		default:
			i = n.no
		}
	}
}
