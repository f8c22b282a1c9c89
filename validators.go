package statv

import (
	"cmp"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance backing Checked.
var validate = validator.New()

// Clamp returns a Validator that confines proposed values to [lo, hi].
func Clamp[T cmp.Ordered](lo, hi T) Validator[T] {
	return func(_ *Stat[T], _, proposed T) T {
		if proposed < lo {
			return lo
		}
		if proposed > hi {
			return hi
		}
		return proposed
	}
}

// Checked returns a Validator built from a go-playground/validator tag,
// evaluated with Var. A proposal failing the tag is discarded and the
// past value is kept; validators transform rather than reject, so there
// is no error to surface.
//
//	Host = statv.NewStat[string]("host",
//	    statv.WithDefault("localhost"),
//	    statv.WithValidator(statv.Checked[string]("hostname")),
//	)
func Checked[T any](tag string) Validator[T] {
	return func(_ *Stat[T], past, proposed T) T {
		if err := validate.Var(proposed, tag); err != nil {
			return past
		}
		return proposed
	}
}
