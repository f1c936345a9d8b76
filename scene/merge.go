package scene

type mergeNode struct {
	node   *Object
	target *Object // in destination document
	prop   string
	curves []Link
}

type mergeLayer struct {
	layer *Object
	nodes []mergeNode
}

// planStack finds curve nodes of stack whose targets exist in d.
// Nothing is changed in either document.
func (d *Document) planStack(stack *Object) []mergeLayer {
	var plan []mergeLayer
	for _, layer := range stack.AnimationStack().Layers() {
		ml := mergeLayer{layer: layer}
		for _, cn := range layer.AnimationLayer().CurveNodes() {
			acn := cn.AnimationCurveNode()
			if acn.Kind == AnimationUnknown || len(acn.Curves()) == 0 {
				continue
			}
			for _, l := range cn.ParentLinks() {
				if l.Object.class == ClassAnimationLayer {
					continue
				}
				if target := d.FindObjectByName(l.Object.name); target != nil {
					ml.nodes = append(ml.nodes, mergeNode{
						node:   cn,
						target: target,
						prop:   l.Prop,
						curves: cn.ChildLinks(),
					})
					break
				}
			}
		}
		if len(ml.nodes) != 0 {
			plan = append(plan, ml)
		} else {
			log.Debugf("Merge: layer %q has no matching targets, dropped", layer.Name())
		}
	}
	return plan
}

// adopt moves o from its document into d, dropping all its edges.
// Returns false when o already belongs to d.
func (d *Document) adopt(o *Object) bool {
	src := o.doc
	if src == d {
		return false
	}
	if src != nil && o.Alive() {
		o.Unlink()
		if src.current == o.handle {
			src.current = InvalidHandle
		}
		src.objects[o.handle] = nil
		o.handle = InvalidHandle
	}
	d.AddObject(o)
	return true
}

// MergeAnimations moves animation stacks of src into d. Curve nodes are
// re-targeted to objects of d with the same full name, curve nodes without
// such target are dropped, as are layers left empty. Same named stacks and
// layers are merged, a new curve node replaces old one with same target and kind.
// src is consumed. Returns true when at least one stack was merged.
func (d *Document) MergeAnimations(src *Document) bool {
	if src == nil || src == d {
		return false
	}
	merged := false
	for _, stack := range src.AnimationStacks() {
		plan := d.planStack(stack)
		if len(plan) == 0 {
			log.Infof("Merge: stack %q has no matching targets, skipped", stack.Name())
			continue
		}
		d.mergeStack(stack, plan)
		merged = true
	}
	return merged
}

func (d *Document) mergeStack(stack *Object, plan []mergeLayer) {
	moved := 0
	src := stack.doc
	adopt := func(o *Object) {
		if d.adopt(o) {
			moved++
		}
	}

	dstStack := d.FindAnimationStack(stack.Name())
	if dstStack == nil {
		adopt(stack)
		dstStack = stack
	}

	for _, ml := range plan {
		var dstLayer *Object
		for _, l := range dstStack.AnimationStack().Layers() {
			if l.Name() == ml.layer.Name() {
				dstLayer = l
				break
			}
		}
		if dstLayer == nil {
			adopt(ml.layer)
			dstStack.AddChild(ml.layer, "")
			dstLayer = ml.layer
		}

		for _, mn := range ml.nodes {
			kind := mn.node.AnimationCurveNode().Kind
			for _, old := range dstLayer.AnimationLayer().CurveNodes() {
				acn := old.AnimationCurveNode()
				if acn.Kind == kind && acn.Target() == mn.target {
					acn.unlinkAll()
					break
				}
			}

			adopt(mn.node)
			dstLayer.AddChild(mn.node, "")
			mn.target.AddChild(mn.node, mn.prop)
			for _, c := range mn.curves {
				if c.Object.doc == src && c.Object.Alive() {
					adopt(c.Object)
				}
				mn.node.AddChild(c.Object, c.Prop)
			}
		}
	}

	log.Debugf("Merge: stack %q moved %d objects", stack.Name(), moved)
	if d.CurrentTake() == nil {
		d.SetCurrentTake(dstStack)
	}
}
