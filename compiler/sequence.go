package compiler

import (
	"fmt"

	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/serializer"
	"typecaster/value"
)

func (s *session) array(ref descriptor.Ref, n descriptor.Array) (serializer.Func, error) {
	elem, err := s.sub(n.Elem)
	if err != nil {
		return nil, err
	}

	typ := ref.String()

	return func(in any) (any, error) {
		items, ok := value.Items(in)
		if !ok {
			return nil, failure.Invalid(typ, in, ErrNotArray)
		}

		out := make([]any, len(items))

		for i, item := range items {
			v, err := elem(item)
			if err != nil {
				return nil, failure.Wrap(err, failure.Index(i))
			}

			out[i] = v
		}

		return out, nil
	}, nil
}

// tuple converts positionally: leading elements from the start, trailing
// elements from the end and the rest element everything in between. The rest
// values are spread into the output.
func (s *session) tuple(ref descriptor.Ref, n descriptor.Tuple) (serializer.Func, error) {
	elems := make([]serializer.Func, len(n.Elements))

	for i, e := range n.Elements {
		fn, err := s.sub(e.Type)
		if err != nil {
			return nil, err
		}

		elems[i] = fn
	}

	typ := ref.String()

	return func(in any) (any, error) {
		items, ok := value.Items(in)
		if !ok {
			return nil, failure.Invalid(typ, in, ErrNotArray)
		}

		layout, ok := n.Layout(len(items))
		if !ok {
			return nil, failure.Invalid(typ, in, fmt.Errorf("%w: %d elements", failure.ErrLength, len(items)))
		}

		out := make([]any, len(items))

		for i, item := range items {
			v, err := elems[layout[i]](item)
			if err != nil {
				return nil, failure.Wrap(err, failure.Index(i))
			}

			out[i] = v
		}

		return out, nil
	}, nil
}
