package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"catnorm/pkg/categorical"
)

// Recipe describes how the columns of one table are normalized.
//
//	columns:
//	  - name: smoker
//	    levels: [N, n, Y]
//	    recode:
//	      - to: "No"
//	        from: [N, n]
//	      - to: "Yes"
//	        from: [Y]
type Recipe struct {
	Columns []ColumnRecipe `yaml:"columns" validate:"required,min=1,unique=Name,dive"`
}

// ColumnRecipe configures parsing and recoding of a single column.
type ColumnRecipe struct {
	Name string `yaml:"name" validate:"required"`
	// Output renames the column in exported results. Defaults to Name.
	Output  string   `yaml:"output"`
	Levels  []string `yaml:"levels"`
	Ordered bool     `yaml:"ordered"`
	// NA overrides NormalizeConfig.NA when set.
	NA []string `yaml:"na"`
	// MergeMissing overrides NormalizeConfig.MergeMissing when set.
	MergeMissing *bool        `yaml:"merge_missing"`
	Recode       []RecodeRule `yaml:"recode" validate:"dive"`
	Exhaustive   bool         `yaml:"exhaustive"`
	Relevel      []string     `yaml:"relevel"`
	DropUnused   bool         `yaml:"drop_unused"`
}

// OutputName returns the exported column name
func (c ColumnRecipe) OutputName() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Name
}

// RecodeRule is the YAML form of categorical.Rule
type RecodeRule struct {
	To           string   `yaml:"to" validate:"required_without=Drop"`
	Drop         bool     `yaml:"drop"`
	From         []string `yaml:"from"`
	FromAbsent   bool     `yaml:"from_absent"`
	FromRejected bool     `yaml:"from_rejected"`
}

// Rule converts the recipe entry into a categorical.Rule
func (r RecodeRule) Rule() categorical.Rule {
	rule := categorical.Rule{To: r.To, Drop: r.Drop}
	for _, l := range r.From {
		rule.From = append(rule.From, categorical.From(l))
	}
	if r.FromAbsent {
		rule.From = append(rule.From, categorical.FromAbsent())
	}
	if r.FromRejected {
		rule.From = append(rule.From, categorical.FromRejected())
	}
	return rule
}

// Rules converts every recode entry of the column
func (c ColumnRecipe) Rules() []categorical.Rule {
	if len(c.Recode) == 0 {
		return nil
	}
	rules := make([]categorical.Rule, len(c.Recode))
	for i, r := range c.Recode {
		rules[i] = r.Rule()
	}
	return rules
}

// Column returns the recipe for the named input column
func (r *Recipe) Column(name string) (ColumnRecipe, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnRecipe{}, false
}

// LoadRecipe reads and validates a recipe file
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	return ParseRecipe(data)
}

// ParseRecipe decodes a YAML recipe, rejecting unknown keys
func ParseRecipe(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	if err := recipeValidator.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return &r, nil
}

var recipeValidator = newRecipeValidator()

// newRecipeValidator reports fields by their YAML names
func newRecipeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
