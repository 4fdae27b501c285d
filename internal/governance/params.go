package governance

import "sort"

// Parameters holds the governance parameters. It has no exported setters;
// values change only when a passed proposal is applied.
type Parameters struct {
	joinFee          Amount
	stakeRequirement Amount
	categories       map[string]struct{}
	skills           map[string]struct{}
}

// InitialParameters describes the parameters a module starts with
type InitialParameters struct {
	JoinFee          Amount   `yaml:"join_fee" json:"join_fee"`
	StakeRequirement Amount   `yaml:"stake_requirement" json:"stake_requirement"`
	Categories       []string `yaml:"categories" json:"categories"`
	Skills           []string `yaml:"skills" json:"skills"`
}

// ParametersSnapshot is a read-only copy of the parameters
type ParametersSnapshot struct {
	JoinFee          Amount   `json:"join_fee"`
	StakeRequirement Amount   `json:"stake_requirement"`
	Categories       []string `json:"categories"`
	Skills           []string `json:"skills"`
}

func newParameters(init InitialParameters) *Parameters {
	p := &Parameters{
		joinFee:          init.JoinFee,
		stakeRequirement: init.StakeRequirement,
		categories:       make(map[string]struct{}),
		skills:           make(map[string]struct{}),
	}
	for _, c := range init.Categories {
		if c = normalizeCatalogEntry(c); c != "" {
			p.categories[c] = struct{}{}
		}
	}
	for _, s := range init.Skills {
		if s = normalizeCatalogEntry(s); s != "" {
			p.skills[s] = struct{}{}
		}
	}
	return p
}

// JoinFee returns the value required to join
func (p *Parameters) JoinFee() Amount {
	return p.joinFee
}

// StakeRequirement returns the current stake requirement
func (p *Parameters) StakeRequirement() Amount {
	return p.stakeRequirement
}

// HasCategory reports whether c is in the category catalog
func (p *Parameters) HasCategory(c string) bool {
	_, ok := p.categories[normalizeCatalogEntry(c)]
	return ok
}

// HasSkill reports whether s is in the skill catalog
func (p *Parameters) HasSkill(s string) bool {
	_, ok := p.skills[normalizeCatalogEntry(s)]
	return ok
}

// Categories returns the category catalog in sorted order
func (p *Parameters) Categories() []string {
	return sortedKeys(p.categories)
}

// Skills returns the skill catalog in sorted order
func (p *Parameters) Skills() []string {
	return sortedKeys(p.skills)
}

// Snapshot returns a copy safe to hand out of the module
func (p *Parameters) Snapshot() ParametersSnapshot {
	return ParametersSnapshot{
		JoinFee:          p.joinFee,
		StakeRequirement: p.stakeRequirement,
		Categories:       p.Categories(),
		Skills:           p.Skills(),
	}
}

func (p *Parameters) clone() *Parameters {
	c := &Parameters{
		joinFee:          p.joinFee,
		stakeRequirement: p.stakeRequirement,
		categories:       make(map[string]struct{}, len(p.categories)),
		skills:           make(map[string]struct{}, len(p.skills)),
	}
	for k := range p.categories {
		c.categories[k] = struct{}{}
	}
	for k := range p.skills {
		c.skills[k] = struct{}{}
	}
	return c
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
