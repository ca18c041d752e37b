package depot

// Row functions receive the entity of each row followed by one pointer per
// selected kind, in selection order. Column count and types are checked
// once, before the first row; an empty view calls nothing and checks
// nothing. A pointer is nil when its value was detached or replaced after
// the view was filled, including earlier in the same iteration.

// EachEntity calls fn with the entity of every row.
func (v *View) EachEntity(fn func(Entity)) {
	for _, e := range v.entities {
		fn(e)
	}
}

func Each1[A any](v *View, fn func(Entity, *A)) error {
	if len(v.entities) == 0 {
		return nil
	}
	if err := v.arity(1); err != nil {
		return err
	}
	pa, ha, err := typedColumn[A](v, 0)
	if err != nil {
		return err
	}
	for i, e := range v.entities {
		fn(e, deref(pa, ha[i]))
	}
	return nil
}

func Each2[A, B any](v *View, fn func(Entity, *A, *B)) error {
	if len(v.entities) == 0 {
		return nil
	}
	if err := v.arity(2); err != nil {
		return err
	}
	pa, ha, err := typedColumn[A](v, 0)
	if err != nil {
		return err
	}
	pb, hb, err := typedColumn[B](v, 1)
	if err != nil {
		return err
	}
	for i, e := range v.entities {
		fn(e, deref(pa, ha[i]), deref(pb, hb[i]))
	}
	return nil
}

func Each3[A, B, C any](v *View, fn func(Entity, *A, *B, *C)) error {
	if len(v.entities) == 0 {
		return nil
	}
	if err := v.arity(3); err != nil {
		return err
	}
	pa, ha, err := typedColumn[A](v, 0)
	if err != nil {
		return err
	}
	pb, hb, err := typedColumn[B](v, 1)
	if err != nil {
		return err
	}
	pc, hc, err := typedColumn[C](v, 2)
	if err != nil {
		return err
	}
	for i, e := range v.entities {
		fn(e, deref(pa, ha[i]), deref(pb, hb[i]), deref(pc, hc[i]))
	}
	return nil
}

func Each4[A, B, C, D any](v *View, fn func(Entity, *A, *B, *C, *D)) error {
	if len(v.entities) == 0 {
		return nil
	}
	if err := v.arity(4); err != nil {
		return err
	}
	pa, ha, err := typedColumn[A](v, 0)
	if err != nil {
		return err
	}
	pb, hb, err := typedColumn[B](v, 1)
	if err != nil {
		return err
	}
	pc, hc, err := typedColumn[C](v, 2)
	if err != nil {
		return err
	}
	pd, hd, err := typedColumn[D](v, 3)
	if err != nil {
		return err
	}
	for i, e := range v.entities {
		fn(e, deref(pa, ha[i]), deref(pb, hb[i]), deref(pc, hc[i]), deref(pd, hd[i]))
	}
	return nil
}
