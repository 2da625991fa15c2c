package candidate

import (
	"strings"
)

// Field identifies one of the required profile fields.
type Field string

const (
	FieldName              Field = "name"
	FieldEmail             Field = "email"
	FieldPhone             Field = "phone"
	FieldYearsOfExperience Field = "years_of_experience"
	FieldDesiredPositions  Field = "desired_positions"
	FieldLocation          Field = "location"
	FieldTechStack         Field = "tech_stack"
)

// RequiredFields lists the fields that make a profile complete, in the order
// they are asked for.
var RequiredFields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldYearsOfExperience,
	FieldDesiredPositions,
	FieldLocation,
	FieldTechStack,
}

var fieldLabels = map[Field]string{
	FieldName:              "name",
	FieldEmail:             "email address",
	FieldPhone:             "phone number",
	FieldYearsOfExperience: "years of experience",
	FieldDesiredPositions:  "desired role",
	FieldLocation:          "current location",
	FieldTechStack:         "technology stack",
}

// Label returns the human readable name of the field.
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// Profile holds what is known about the candidate. A nil pointer or a nil
// slice means the value was never provided.
type Profile struct {
	Name              *string  `json:"name,omitempty"`
	Email             *string  `json:"email,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty"`
	DesiredPositions  []string `json:"desired_positions,omitempty"`
	Location          *string  `json:"location,omitempty"`
	TechStack         []string `json:"tech_stack,omitempty"`
}

// Filled reports whether the field holds a usable value.
func (p Profile) Filled(f Field) bool {
	switch f {
	case FieldName:
		return filledString(p.Name)
	case FieldEmail:
		return filledString(p.Email)
	case FieldPhone:
		return filledString(p.Phone)
	case FieldYearsOfExperience:
		return p.YearsOfExperience != nil
	case FieldDesiredPositions:
		return filledList(p.DesiredPositions)
	case FieldLocation:
		return filledString(p.Location)
	case FieldTechStack:
		return filledList(p.TechStack)
	default:
		return false
	}
}

// Missing returns the required fields that are not filled yet.
func (p Profile) Missing() []Field {
	missing := make([]Field, 0, len(RequiredFields))
	for _, f := range RequiredFields {
		if !p.Filled(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field is filled.
func (p Profile) Complete() bool {
	return len(p.Missing()) == 0
}

// IsEmpty reports whether no field at all is filled.
func (p Profile) IsEmpty() bool {
	for _, f := range RequiredFields {
		if p.Filled(f) {
			return false
		}
	}
	return true
}

// Merge applies a sparse patch on top of base. Only filled patch fields are
// taken: scalars overwrite, lists are extended with items not present yet.
func Merge(base, patch Profile) Profile {
	merged := base.Clone()

	if patch.Filled(FieldName) {
		merged.Name = stringPtr(strings.TrimSpace(*patch.Name))
	}
	if patch.Filled(FieldEmail) {
		merged.Email = stringPtr(strings.TrimSpace(*patch.Email))
	}
	if patch.Filled(FieldPhone) {
		merged.Phone = stringPtr(strings.TrimSpace(*patch.Phone))
	}
	if patch.Filled(FieldYearsOfExperience) {
		years := *patch.YearsOfExperience
		merged.YearsOfExperience = &years
	}
	if patch.Filled(FieldLocation) {
		merged.Location = stringPtr(strings.TrimSpace(*patch.Location))
	}
	merged.DesiredPositions = extendList(merged.DesiredPositions, patch.DesiredPositions)
	merged.TechStack = extendList(merged.TechStack, patch.TechStack)

	return merged
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := Profile{
		Name:     clonePtr(p.Name),
		Email:    clonePtr(p.Email),
		Phone:    clonePtr(p.Phone),
		Location: clonePtr(p.Location),
	}
	if p.YearsOfExperience != nil {
		years := *p.YearsOfExperience
		out.YearsOfExperience = &years
	}
	if p.DesiredPositions != nil {
		out.DesiredPositions = append([]string{}, p.DesiredPositions...)
	}
	if p.TechStack != nil {
		out.TechStack = append([]string{}, p.TechStack...)
	}
	return out
}

// Tier buckets the declared experience into the difficulty level used for
// question generation.
type Tier string

const (
	TierJunior Tier = "junior"
	TierMid    Tier = "mid"
	TierSenior Tier = "senior"
)

// ExperienceTier maps years of experience onto a Tier: 0-2 junior, 3-5 mid,
// anything above senior. An unknown value counts as junior.
func (p Profile) ExperienceTier() Tier {
	if p.YearsOfExperience == nil {
		return TierJunior
	}
	switch years := *p.YearsOfExperience; {
	case years <= 2:
		return TierJunior
	case years <= 5:
		return TierMid
	default:
		return TierSenior
	}
}

// String returns the value of a scalar field or an empty string.
func String(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func filledString(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

func filledList(items []string) bool {
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			return true
		}
	}
	return false
}

func extendList(base, incoming []string) []string {
	if !filledList(incoming) {
		return base
	}

	seen := make(map[string]struct{}, len(base)+len(incoming))
	result := make([]string, 0, len(base)+len(incoming))
	for _, item := range base {
		seen[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
		result = append(result, item)
	}
	for _, item := range incoming {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}

func stringPtr(v string) *string {
	return &v
}

func clonePtr(v *string) *string {
	if v == nil {
		return nil
	}
	return stringPtr(*v)
}
