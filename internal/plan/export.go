package plan

import (
	"gopkg.in/yaml.v3"

	"parcel-planner/internal/analyze"
)

// PlanDoc is the serialized form of a Plan handed to code generators.
type PlanDoc struct {
	Type             string          `yaml:"type"                        json:"type"`
	Mode             string          `yaml:"mode"                        json:"mode"`
	Converter        string          `yaml:"converter,omitempty"         json:"converter,omitempty"`
	Construction     ConstructionDoc `yaml:"construction"                json:"construction"`
	FieldPairs       []PairDoc       `yaml:"field_pairs,omitempty"       json:"field_pairs,omitempty"`
	MethodPairs      []PairDoc       `yaml:"method_pairs,omitempty"      json:"method_pairs,omitempty"`
	DescribeContents int             `yaml:"describe_contents"           json:"describe_contents"`
	OnWrap           []string        `yaml:"on_wrap,omitempty"           json:"on_wrap,omitempty"`
	OnUnwrap         []string        `yaml:"on_unwrap,omitempty"         json:"on_unwrap,omitempty"`
	Implementations  []string        `yaml:"implementations,omitempty"   json:"implementations,omitempty"`
}

// ConstructionDoc is the serialized form of a Construction.
type ConstructionDoc struct {
	Strategy   string         `yaml:"strategy"             json:"strategy"`
	Executable string         `yaml:"executable,omitempty" json:"executable,omitempty"`
	Parameters []ParameterDoc `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// ParameterDoc is the serialized form of a Parameter.
type ParameterDoc struct {
	Name      string `yaml:"name"                json:"name"`
	Type      string `yaml:"type"                json:"type"`
	Read      string `yaml:"read,omitempty"      json:"read,omitempty"`
	Converter string `yaml:"converter,omitempty" json:"converter,omitempty"`
}

// PairDoc is the serialized form of a PropertyPair.
type PairDoc struct {
	Name      string `yaml:"name"                json:"name"`
	Type      string `yaml:"type"                json:"type"`
	Read      string `yaml:"read"                json:"read"`
	Write     string `yaml:"write"               json:"write"`
	Converter string `yaml:"converter,omitempty" json:"converter,omitempty"`
}

// Export converts a plan into its serialized form.
func Export(p *Plan) PlanDoc {
	doc := PlanDoc{
		Type:             p.Target.String(),
		Mode:             p.Mode.String(),
		Converter:        refString(p.Converter),
		DescribeContents: p.DescribeContents,
		Construction: ConstructionDoc{
			Strategy:   p.Construction.Strategy.String(),
			Executable: p.Construction.Executable,
		},
	}

	for _, param := range p.Construction.Parameters {
		pd := ParameterDoc{
			Name:      param.Name,
			Type:      param.Type.String(),
			Converter: refString(param.Converter),
		}
		if param.Read != nil {
			pd.Read = param.Read.Path()
		}

		doc.Construction.Parameters = append(doc.Construction.Parameters, pd)
	}

	doc.FieldPairs = exportPairs(p.FieldPairs)
	doc.MethodPairs = exportPairs(p.MethodPairs)

	for _, cb := range p.OnWrap {
		doc.OnWrap = append(doc.OnWrap, cb.Owner.Name+"."+cb.Method)
	}

	for _, cb := range p.OnUnwrap {
		doc.OnUnwrap = append(doc.OnUnwrap, cb.Owner.Name+"."+cb.Method)
	}

	for _, impl := range p.Implementations {
		doc.Implementations = append(doc.Implementations, impl.String())
	}

	return doc
}

// ExportYAML renders a plan as YAML.
func ExportYAML(p *Plan) ([]byte, error) {
	return yaml.Marshal(Export(p))
}

func exportPairs(pairs []PropertyPair) []PairDoc {
	var out []PairDoc
	for _, pair := range pairs {
		out = append(out, PairDoc{
			Name:      pair.Name,
			Type:      pair.Write.Type.String(),
			Read:      pair.Read.Path(),
			Write:     pair.Write.Path(),
			Converter: refString(pair.Converter),
		})
	}

	return out
}

func refString(r *analyze.TypeRef) string {
	if r == nil {
		return ""
	}

	return r.String()
}
