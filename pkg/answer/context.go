package answer

import (
	"fmt"
	"strings"
)

type Trimester string
type Region string
type Diet string
type Condition string

const (
	TrimesterNone Trimester = ""
	TrimesterT1   Trimester = "T1"
	TrimesterT2   Trimester = "T2"
	TrimesterT3   Trimester = "T3"

	RegionNone  Region = ""
	RegionNorth Region = "north"
	RegionSouth Region = "south"
	RegionEast  Region = "east"
	RegionWest  Region = "west"

	DietNone          Diet = ""
	DietVegetarian    Diet = "vegetarian"
	DietNonVegetarian Diet = "non_vegetarian"
	DietEggetarian    Diet = "eggetarian"
	DietVegan         Diet = "vegan"

	ConditionNone                Condition = ""
	ConditionGestationalDiabetes Condition = "gestational_diabetes"
	ConditionAnemia              Condition = "anemia"
	ConditionHypertension        Condition = "hypertension"
	ConditionHypothyroidism      Condition = "hypothyroidism"
	ConditionNausea              Condition = "nausea"
)

// Context holds the user-stated attributes that can change the correct answer
type Context struct {
	Trimester Trimester `json:"trimester,omitempty"`
	Region    Region    `json:"region,omitempty"`
	Diet      Diet      `json:"diet,omitempty"`
	Condition Condition `json:"condition,omitempty"`
}

// RawContext is the unvalidated context as it arrives from the boundary
type RawContext struct {
	Trimester string
	Region    string
	Diet      string
	Condition string
}

// ParseContext validates every field against its enum.
// Trimester also accepts "1", "2", "3" and "first"/"second"/"third".
func ParseContext(raw RawContext) (Context, error) {
	var c Context

	t, err := parseTrimester(raw.Trimester)
	if err != nil {
		return Context{}, err
	}
	c.Trimester = t

	switch r := Region(clean(raw.Region)); r {
	case RegionNone, RegionNorth, RegionSouth, RegionEast, RegionWest:
		c.Region = r
	default:
		return Context{}, &ValidationError{Field: "region", Value: raw.Region}
	}

	switch d := Diet(strings.ReplaceAll(clean(raw.Diet), "-", "_")); d {
	case DietNone, DietVegetarian, DietNonVegetarian, DietEggetarian, DietVegan:
		c.Diet = d
	case "veg":
		c.Diet = DietVegetarian
	case "nonveg", "non_veg":
		c.Diet = DietNonVegetarian
	default:
		return Context{}, &ValidationError{Field: "diet", Value: raw.Diet}
	}

	switch cd := Condition(clean(raw.Condition)); cd {
	case ConditionNone, ConditionGestationalDiabetes, ConditionAnemia, ConditionHypertension,
		ConditionHypothyroidism, ConditionNausea:
		c.Condition = cd
	case "none":
		c.Condition = ConditionNone
	default:
		return Context{}, &ValidationError{Field: "condition", Value: raw.Condition}
	}

	return c, nil
}

func parseTrimester(v string) (Trimester, error) {
	switch clean(v) {
	case "":
		return TrimesterNone, nil
	case "t1", "1", "first":
		return TrimesterT1, nil
	case "t2", "2", "second":
		return TrimesterT2, nil
	case "t3", "3", "third":
		return TrimesterT3, nil
	}
	return TrimesterNone, &ValidationError{Field: "trimester", Value: v}
}

func clean(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Number returns 1..3 for a known trimester and 0 otherwise
func (t Trimester) Number() int {
	switch t {
	case TrimesterT1:
		return 1
	case TrimesterT2:
		return 2
	case TrimesterT3:
		return 3
	}
	return 0
}

// Key renders the full context tuple. Every field takes part, including empty ones.
func (c Context) Key() string {
	return fmt.Sprintf("trimester=%s;region=%s;diet=%s;condition=%s",
		orAny(string(c.Trimester)), orAny(string(c.Region)), orAny(string(c.Diet)), orAny(string(c.Condition)))
}

func orAny(v string) string {
	if v == "" {
		return "any"
	}
	return v
}
