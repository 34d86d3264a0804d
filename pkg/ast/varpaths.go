package ast

// VariableReference is a namespace-rooted variable occurrence inside a
// selection, e.g. $args.user.id, together with the dotted path that follows
// the namespace and the source span of the whole reference.
type VariableReference struct {
	Namespace WithRange[Namespace]
	Path      []WithRange[string]
	Range     *Range
}

// String renders the reference as written, e.g. "$args.user.id".
func (r *VariableReference) String() string {
	s := r.Namespace.Value.String()
	for _, part := range r.Path {
		s += "." + part.Value
	}
	return s
}

// ExternalVarPaths collects every namespace-rooted variable reference in the
// selection, in source order. $ and @ are bindings established by the
// selection itself and are not reported.
func (s *Selection) ExternalVarPaths() []*VariableReference {
	var refs []*VariableReference
	if s.Named != nil {
		collectSubVars(s.Named, &refs)
	}
	if s.Path != nil {
		collectPathVars(s.Path.Path, &refs)
	}
	return refs
}

func collectSubVars(sub *SubSelection, refs *[]*VariableReference) {
	for _, sel := range sub.Selections {
		switch sel.Kind {
		case SelectPath:
			collectPathVars(sel.Path.Path, refs)
		default:
			if sel.Sub != nil {
				collectSubVars(sel.Sub, refs)
			}
		}
	}
	if sub.Star != nil && sub.Star.Sub != nil {
		collectSubVars(sub.Star.Sub, refs)
	}
}

func collectPathVars(pl *PathList, refs *[]*VariableReference) {
	if pl == nil {
		return
	}
	if pl.Kind == PathVar {
		if ns, ok := pl.Var.Value.Namespace(); ok {
			ref := &VariableReference{
				Namespace: WithRange[Namespace]{Value: ns, Range: pl.Var.Range},
				Range:     pl.Var.Range,
			}
			for tail := pl.Tail; tail != nil && tail.Kind == PathKey; tail = tail.Tail {
				ref.Path = append(ref.Path, WithRange[string]{
					Value: tail.Key.Value.Text,
					Range: tail.Key.Range,
				})
				ref.Range = MergeRanges(ref.Range, tail.Key.Range)
			}
			*refs = append(*refs, ref)
		}
	}
	for tail := pl; tail != nil; tail = tail.Tail {
		switch tail.Kind {
		case PathMethod:
			if tail.Args != nil {
				for _, arg := range tail.Args.Args {
					collectLitVars(arg, refs)
				}
			}
		case PathSub:
			collectSubVars(tail.Sub, refs)
		}
	}
}

func collectLitVars(lit *LitExpr, refs *[]*VariableReference) {
	switch lit.Kind {
	case LitObject:
		for _, field := range lit.Fields {
			collectLitVars(field.Value, refs)
		}
	case LitArray:
		for _, item := range lit.Items {
			collectLitVars(item, refs)
		}
	case LitPath:
		collectPathVars(lit.Path.Path, refs)
	}
}
