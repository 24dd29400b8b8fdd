package compiler

import (
	"typecaster/descriptor"
	"typecaster/failure"
	"typecaster/guard"
	"typecaster/serializer"
)

// union picks the first member whose exact guard accepts the input. Casting
// falls back to the first member whose loose guard accepts it.
func (s *session) union(ref descriptor.Ref, n descriptor.Union) (serializer.Func, error) {
	refs := make([]descriptor.Ref, len(n.Members))
	members := make([]serializer.Func, len(n.Members))

	for i, id := range n.Members {
		fn, err := s.sub(id)
		if err != nil {
			return nil, err
		}

		refs[i], members[i] = ref.At(id), fn
	}

	guards := s.c.reg.Guards()

	var passes [][]guard.Guard
	for _, mode := range s.modes() {
		gs, err := guards.Guards(refs, mode)
		if err != nil {
			return nil, err
		}

		passes = append(passes, gs)
	}

	typ := ref.String()

	return func(in any) (any, error) {
		for _, gs := range passes {
			if i, ok := guard.First(gs, in); ok {
				return members[i](in)
			}
		}

		return nil, failure.Invalid(typ, in, failure.ErrNoUnionMember)
	}, nil
}

func (s *session) modes() []guard.Mode {
	if s.dir == serializer.Cast {
		return []guard.Mode{guard.Exact, guard.Loose}
	}

	return []guard.Mode{guard.Exact}
}
