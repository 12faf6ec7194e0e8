package transform

import (
	"fmt"
	"strings"
)

// SortKind names a row ordering applied once at parse time.
type SortKind string

const (
	SortNone        SortKind = "none"
	SortTotalDesc   SortKind = "total_desc"
	SortTotalAsc    SortKind = "total_asc"
	SortFieldDesc   SortKind = "field_desc"
	SortFieldAsc    SortKind = "field_asc"
	SortCategoryAsc SortKind = "category_asc"
)

// SortSpec is a sort kind plus the sub-group it reads for the field kinds.
type SortSpec struct {
	Kind  SortKind
	Field string
}

// IsNone reports whether rows keep their source order.
func (s SortSpec) IsNone() bool { return s.Kind == "" || s.Kind == SortNone }

// NeedsField reports whether the kind orders by one sub-group.
func (s SortSpec) NeedsField() bool { return s.Kind == SortFieldDesc || s.Kind == SortFieldAsc }

func (s SortSpec) String() string {
	if s.NeedsField() {
		return string(s.Kind) + ":" + s.Field
	}
	if s.Kind == "" {
		return string(SortNone)
	}
	return string(s.Kind)
}

// ParseSortSpec reads "total_desc", "field_desc:raise" and friends. Blank means none.
func ParseSortSpec(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortSpec{Kind: SortNone}, nil
	}
	kind, field, _ := strings.Cut(s, ":")
	spec := SortSpec{Kind: SortKind(kind), Field: strings.TrimSpace(field)}
	switch spec.Kind {
	case SortNone, SortTotalDesc, SortTotalAsc, SortCategoryAsc:
		if spec.Field != "" {
			return SortSpec{}, fmt.Errorf("sort %q takes no field", kind)
		}
	case SortFieldDesc, SortFieldAsc:
		if spec.Field == "" {
			return SortSpec{}, fmt.Errorf("sort %q needs a field, e.g. %s:raise", kind, kind)
		}
	default:
		return SortSpec{}, fmt.Errorf("unknown sort %q", kind)
	}
	return spec, nil
}
