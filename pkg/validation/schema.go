package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/buildsim/buildgen/pkg/spec"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSpec performs input validation on a parsed BuildingSpec: struct
// tag constraints first, then semantic checks the tags cannot express.
func ValidateSpec(s *spec.BuildingSpec) *Report {
	r := NewReport()

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				r.AddError(Result{
					Level:       LevelInput,
					Message:     fmt.Sprintf("field %s failed %q constraint", fe.Namespace(), fe.Tag()),
					SpecPath:    specPath(fe.Namespace()),
					ActualValue: fe.Value(),
					Expected:    fe.Tag(),
				})
			}
		} else {
			r.AddError(Result{
				Level:   LevelInput,
				Message: fmt.Sprintf("spec validation: %v", err),
			})
		}
	}

	validateProgramFractions(s, r)
	validateFootprint(s, r)

	return r
}

// specPath converts a validator namespace like
// "BuildingSpec.Building.Stories" to the YAML-ish path "building.stories".
func specPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

func validateProgramFractions(s *spec.BuildingSpec, r *Report) {
	coreTotal := 0.0
	for _, p := range s.Programs {
		if p.Core {
			coreTotal += p.Fraction
		}
	}
	if coreTotal >= 1.0 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "core programs claim the entire footprint, nothing remains for typical zones",
			SpecPath:    "zone_programs",
			ActualValue: coreTotal,
			Expected:    "sum of core fractions < 1.0",
		})
	} else if coreTotal > 0.5 {
		r.AddWarning(Result{
			Level:       LevelInput,
			Message:     "core programs claim over half the footprint",
			SpecPath:    "zone_programs",
			ActualValue: coreTotal,
			Suggestions: []string{"reduce core fractions or increase target_area_per_story"},
		})
	}
}

func validateFootprint(s *spec.BuildingSpec, r *Report) {
	if s.Footprint == nil {
		return
	}
	if len(s.Footprint.Vertices) < 3 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     "supplied footprint has fewer than 3 vertices",
			SpecPath:    "footprint.vertices",
			ActualValue: len(s.Footprint.Vertices),
			Expected:    ">= 3",
		})
	}
	if s.Footprint.Geodetic {
		for i, v := range s.Footprint.Vertices {
			if v[0] < -180 || v[0] > 180 || v[1] < -90 || v[1] > 90 {
				r.AddError(Result{
					Level:       LevelInput,
					Message:     fmt.Sprintf("geodetic vertex %d out of range", i),
					SpecPath:    fmt.Sprintf("footprint.vertices[%d]", i),
					ActualValue: v,
					Expected:    "longitude in [-180,180], latitude in [-90,90]",
				})
			}
		}
	}
}
