package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/schema"
	"github.com/spigell/talentscout/internal/candidate"
)

const maxYearsOfExperience = 80

var phoneReplacer = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// FieldError describes a single extracted value that was dropped.
type FieldError struct {
	Field candidate.Field
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Extractor implements ai.Extractor on top of a text generator.
type Extractor struct {
	base
	validate *validator.Validate
}

// NewExtractor creates the profile field extractor.
func NewExtractor(generator ai.Generator, opts Options) *Extractor {
	return &Extractor{
		base:     newBase("extractor", generator, opts),
		validate: validator.New(),
	}
}

// Extract asks the oracle for fields found in input. Values of the wrong type
// are dropped one by one; the rest of the patch is kept.
func (e *Extractor) Extract(ctx context.Context, input string, known candidate.Profile) (candidate.Profile, error) {
	knownJSON, err := json.MarshalIndent(known, "", "  ")
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("marshal known profile: %w", err)
	}

	system := render(extractPrompt, map[string]string{"KNOWN_PROFILE_JSON": string(knownJSON)})

	raw, err := e.call(ctx, system, input)
	if err != nil {
		return candidate.Profile{}, err
	}

	patch, dropped, err := e.parse(raw)
	if err != nil {
		return candidate.Profile{}, err
	}

	for _, fe := range dropped {
		e.logger.Warn("dropping malformed extracted field",
			zap.String("field", string(fe.Field)),
			zap.Error(fe.Err),
		)
	}

	return patch, nil
}

func (e *Extractor) parse(raw string) (candidate.Profile, []*FieldError, error) {
	if err := schema.Validate(schema.Extraction, []byte(raw)); err != nil {
		return candidate.Profile{}, nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()

	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return candidate.Profile{}, nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	var (
		patch   candidate.Profile
		dropped []*FieldError
	)

	for _, field := range candidate.RequiredFields {
		value, ok := data[string(field)]
		if !ok || value == nil {
			continue
		}
		if err := e.apply(&patch, field, value); err != nil {
			dropped = append(dropped, &FieldError{Field: field, Err: err})
		}
	}

	return patch, dropped, nil
}

func (e *Extractor) apply(patch *candidate.Profile, field candidate.Field, value any) error {
	switch field {
	case candidate.FieldName:
		return e.applyString(&patch.Name, value, "required")
	case candidate.FieldEmail:
		return e.applyString(&patch.Email, value, "required,email")
	case candidate.FieldLocation:
		return e.applyString(&patch.Location, value, "required")
	case candidate.FieldPhone:
		var phone string
		if err := decode(value, &phone); err != nil {
			return err
		}
		phone = strings.TrimPrefix(phoneReplacer.Replace(strings.TrimSpace(phone)), "+")
		if phone == "" {
			return nil
		}
		if err := e.validate.Var(phone, "number,min=4,max=20"); err != nil {
			return err
		}
		patch.Phone = &phone
	case candidate.FieldYearsOfExperience:
		var years int
		if err := decode(value, &years); err != nil {
			return err
		}
		if err := e.validate.Var(years, fmt.Sprintf("min=0,max=%d", maxYearsOfExperience)); err != nil {
			return err
		}
		patch.YearsOfExperience = &years
	case candidate.FieldDesiredPositions:
		return applyList(&patch.DesiredPositions, value)
	case candidate.FieldTechStack:
		return applyList(&patch.TechStack, value)
	}
	return nil
}

func (e *Extractor) applyString(target **string, value any, tag string) error {
	var s string
	if err := decode(value, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if err := e.validate.Var(s, tag); err != nil {
		return err
	}
	*target = &s
	return nil
}

func applyList(target *[]string, value any) error {
	var items []string
	if err := decode(value, &items); err != nil {
		return err
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) > 0 {
		*target = cleaned
	}
	return nil
}

func decode(input, output any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
