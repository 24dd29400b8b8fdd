package node

import (
	"reflect"

	"typecaster/failure"
	"typecaster/primitive"
)

func (s *build) primitive(t reflect.Type) Assigner {
	return func(dst reflect.Value, v any) error {
		rv, err := primitive.Convert(v, t)
		if err != nil {
			return failure.Invalid(t.String(), v, err)
		}

		dst.Set(rv)

		return nil
	}
}
