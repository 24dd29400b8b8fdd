package node

// Dealer is a worklist that hands out every key at most once, in the order
// keys were first needed.
type Dealer[K comparable] struct {
	needs []K
	done  map[K]struct{}
}

// NextNeeds pops the next key that is not done yet and marks it done.
func (d *Dealer[K]) NextNeeds() (k K, ok bool) {
	for len(d.needs) > 0 {
		k, d.needs = d.needs[0], d.needs[1:]

		if !d.IsDone(k) {
			d.Done(k)

			return k, true
		}
	}

	return k, false
}

// Needs queues k unless it is already done.
func (d *Dealer[K]) Needs(k K) {
	if !d.IsDone(k) {
		d.needs = append(d.needs, k)
	}
}

// Done marks k as handled.
func (d *Dealer[K]) Done(k K) {
	if d.done == nil {
		d.done = make(map[K]struct{})
	}

	d.done[k] = struct{}{}
}

// IsDone reports whether k was handled.
func (d *Dealer[K]) IsDone(k K) bool {
	_, ok := d.done[k]
	return ok
}
