package http

import (
	"catnorm/internal/config"
	"catnorm/internal/services"
	"catnorm/pkg/categorical"
)

// RecodeRuleDTO maps its sources onto To, or drops them when Drop is set
type RecodeRuleDTO struct {
	To           string   `json:"to" validate:"required_without=Drop"`
	Drop         bool     `json:"drop"`
	From         []string `json:"from"`
	FromAbsent   bool     `json:"from_absent"`
	FromRejected bool     `json:"from_rejected"`
}

// ColumnSpecDTO configures normalization of one column. Unset NA and
// MergeMissing fall back to the server defaults.
type ColumnSpecDTO struct {
	Name         string          `json:"name" validate:"required"`
	Output       string          `json:"output"`
	Levels       []string        `json:"levels"`
	Ordered      bool            `json:"ordered"`
	NA           []string        `json:"na"`
	MergeMissing *bool           `json:"merge_missing"`
	Recode       []RecodeRuleDTO `json:"recode" validate:"dive"`
	Exhaustive   bool            `json:"exhaustive"`
	Relevel      []string        `json:"relevel"`
	DropUnused   bool            `json:"drop_unused"`
}

// NormalizeColumnRequest is the body of POST /api/v1/columns/normalize.
// A null value is a cell that supplied no input.
type NormalizeColumnRequest struct {
	Column ColumnSpecDTO `json:"column"`
	Values []*string     `json:"values" validate:"required"`
}

// NormalizeTableRequest is the body of POST /api/v1/tables/normalize
type NormalizeTableRequest struct {
	Header  []string        `json:"header" validate:"required,min=1,unique,dive,required"`
	Rows    [][]string      `json:"rows"`
	Columns []ColumnSpecDTO `json:"columns" validate:"required,min=1,unique=Name,dive"`
}

// ValueDTO is one normalized value: either a label or a missing kind
type ValueDTO struct {
	Label   *string `json:"label,omitempty"`
	Missing string  `json:"missing,omitempty"`
}

// ColumnResponse is a normalized column with its data-quality report
type ColumnResponse struct {
	Name       string                  `json:"name"`
	Output     string                  `json:"output"`
	Levels     []string                `json:"levels"`
	Ordered    bool                    `json:"ordered"`
	Values     []ValueDTO              `json:"values"`
	Rejections []categorical.Rejection `json:"rejections"`
	Summary    categorical.Summary     `json:"summary"`
}

// NormalizeTableResponse lists the normalized columns in request order
type NormalizeTableResponse struct {
	Rows     int              `json:"rows"`
	Rejected int              `json:"rejected"`
	Columns  []ColumnResponse `json:"columns"`
}

// recipe converts the DTO to the recipe form shared with the CLI
func (d ColumnSpecDTO) recipe() config.ColumnRecipe {
	c := config.ColumnRecipe{
		Name:         d.Name,
		Output:       d.Output,
		Levels:       d.Levels,
		Ordered:      d.Ordered,
		NA:           d.NA,
		MergeMissing: d.MergeMissing,
		Exhaustive:   d.Exhaustive,
		Relevel:      d.Relevel,
		DropUnused:   d.DropUnused,
	}
	for _, r := range d.Recode {
		c.Recode = append(c.Recode, config.RecodeRule{
			To:           r.To,
			Drop:         r.Drop,
			From:         r.From,
			FromAbsent:   r.FromAbsent,
			FromRejected: r.FromRejected,
		})
	}
	return c
}

// Spec resolves the DTO against the service defaults
func (d ColumnSpecDTO) Spec(defaults config.NormalizeConfig) services.ColumnSpec {
	return services.SpecFromRecipe(d.recipe(), defaults)
}

func newValueDTO(v categorical.Value) ValueDTO {
	if l, ok := v.Label(); ok {
		return ValueDTO{Label: &l}
	}
	return ValueDTO{Missing: v.Kind().String()}
}

func newColumnResponse(r services.ColumnResult) ColumnResponse {
	values := make([]ValueDTO, len(r.Column.Values))
	for i, v := range r.Column.Values {
		values[i] = newValueDTO(v)
	}
	rejections := r.Rejections
	if rejections == nil {
		rejections = []categorical.Rejection{}
	}
	return ColumnResponse{
		Name:       r.Name,
		Output:     r.Output,
		Levels:     r.Column.Levels.Labels(),
		Ordered:    r.Column.Levels.Ordered(),
		Values:     values,
		Rejections: rejections,
		Summary:    r.Summary,
	}
}
