package jsonschema

import "strings"

// resolveStaticRef resolves a $ref value against the current frame's base
// URI, with no dynamic-scope involvement.
func resolveStaticRef(ec *EvalContext, refValue string) (*Schema, error) {
	target := joinURI(ec.current().BaseURI, refValue)
	return ec.reg.Get(target, ec.opts)
}

// resolveDynamicRef implements $dynamicRef: resolve statically
// first; if the statically resolved resource declares the same fragment
// name as a $dynamicAnchor, the dynamic scope (searched outermost-in) may
// override it with an earlier declaration of the same name.
func resolveDynamicRef(ec *EvalContext, refValue string) (*Schema, error) {
	base := ec.current().BaseURI
	target := joinURI(base, refValue)
	staticSchema, err := ec.reg.Get(target, ec.opts)
	if err != nil {
		return nil, err
	}
	_, frag := splitFragment(target)
	if frag == "" || strings.HasPrefix(frag, "/") {
		return staticSchema, nil
	}
	if staticSchema.resource == nil {
		return staticSchema, nil
	}
	if _, ok := staticSchema.resource.dynamicAnchors[frag]; !ok {
		return staticSchema, nil
	}
	if sch, ok := ec.reg.FindDynamicAnchor(ec.scopeResources(), frag); ok {
		return sch, nil
	}
	return staticSchema, nil
}

// resolveRecursiveRef implements the 2019-09 $recursiveRef/$recursiveAnchor
// predecessor to $dynamicRef/$dynamicAnchor: the ref value is always "#",
// and dynamic override only applies when the statically resolved resource
// itself opted in with "$recursiveAnchor": true.
func resolveRecursiveRef(ec *EvalContext) (*Schema, error) {
	base := ec.current().BaseURI
	staticSchema, err := ec.reg.Get(joinURI(base, "#"), ec.opts)
	if err != nil {
		return nil, err
	}
	if staticSchema.resource == nil {
		return staticSchema, nil
	}
	if _, ok := staticSchema.resource.dynamicAnchors[""]; !ok {
		return staticSchema, nil
	}
	if sch, ok := ec.reg.FindDynamicAnchor(ec.scopeResources(), ""); ok {
		return sch, nil
	}
	return staticSchema, nil
}
